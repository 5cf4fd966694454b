package domain

import (
	"encoding/json"
	"time"
)

type PlanStatus string

const (
	PlanActive    PlanStatus = "active"
	PlanCompleted PlanStatus = "completed"
	PlanArchived  PlanStatus = "archived"
)

func (s PlanStatus) IsValid() bool {
	switch s {
	case PlanActive, PlanCompleted, PlanArchived:
		return true
	default:
		return false
	}
}

type PlanSource string

const (
	PlanSourceAI       PlanSource = "ai"
	PlanSourceFallback PlanSource = "fallback"
)

type FitnessLevel string

const (
	LevelBeginner     FitnessLevel = "beginner"
	LevelIntermediate FitnessLevel = "intermediate"
	LevelAdvanced     FitnessLevel = "advanced"
)

func (l FitnessLevel) IsValid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	default:
		return false
	}
}

type EquipmentAccess string

const (
	EquipmentNone EquipmentAccess = "none"
	EquipmentHome EquipmentAccess = "home"
	EquipmentGym  EquipmentAccess = "gym"
)

func (e EquipmentAccess) IsValid() bool {
	switch e {
	case EquipmentNone, EquipmentHome, EquipmentGym:
		return true
	default:
		return false
	}
}

// GymPlan holds a generated plan. PlanContent and WeeklySchedule are opaque
// JSON documents. At most one plan per user is active.
type GymPlan struct {
	ID              string          `bson:"_id" json:"id"`
	UserID          string          `bson:"userId" json:"userId"`
	FitnessGoal     string          `bson:"fitnessGoal" json:"fitnessGoal"`
	FitnessLevel    FitnessLevel    `bson:"fitnessLevel" json:"fitnessLevel"`
	DaysPerWeek     int             `bson:"daysPerWeek" json:"daysPerWeek"`
	EquipmentAccess EquipmentAccess `bson:"equipmentAccess" json:"equipmentAccess"`
	PlanContent     json.RawMessage `bson:"-" json:"planContent"`
	WeeklySchedule  json.RawMessage `bson:"-" json:"weeklySchedule"`
	Status          PlanStatus      `bson:"status" json:"status"`
	Source          PlanSource      `bson:"source" json:"source"`
	CreatedAt       time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time       `bson:"updatedAt" json:"updatedAt"`
}
