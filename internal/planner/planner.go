// Package planner produces gym plans, either from an external generator
// service or from a built-in template.
package planner

import (
	"context"
	"encoding/json"
	"errors"

	"gymbros/fitness-tracker/internal/domain"
)

// ErrMalformedPlan marks generator output that is not a usable plan.
var ErrMalformedPlan = errors.New("malformed plan output")

type Request struct {
	FitnessGoal     string                 `json:"fitnessGoal"`
	FitnessLevel    domain.FitnessLevel    `json:"fitnessLevel"`
	DaysPerWeek     int                    `json:"daysPerWeek"`
	EquipmentAccess domain.EquipmentAccess `json:"equipmentAccess"`
}

type Plan struct {
	PlanContent    json.RawMessage   `json:"planContent"`
	WeeklySchedule json.RawMessage   `json:"weeklySchedule"`
	Source         domain.PlanSource `json:"-"`
}

//go:generate mockgen -source=$GOFILE -destination=../service/planner_mocks_test.go -package=service_test

// Generator turns a request into plan content.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Plan, error)
}

// validObject reports whether raw is a non-empty JSON object.
func validObject(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var obj map[string]json.RawMessage
	return json.Unmarshal(raw, &obj) == nil && len(obj) > 0
}
