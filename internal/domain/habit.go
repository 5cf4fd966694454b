package domain

import (
	"time"
)

type HabitType string

const (
	HabitSmoking  HabitType = "smoking"
	HabitNicotine HabitType = "nicotine"
)

// HabitTypes lists every habit kind in display order.
var HabitTypes = []HabitType{HabitSmoking, HabitNicotine}

func (t HabitType) IsValid() bool {
	switch t {
	case HabitSmoking, HabitNicotine:
		return true
	default:
		return false
	}
}

// HabitLog is one logged occurrence of a habit.
type HabitLog struct {
	ID       string    `bson:"_id" json:"id"`
	UserID   string    `bson:"userId" json:"userId"`
	Type     HabitType `bson:"type" json:"type"`
	LoggedAt time.Time `bson:"loggedAt" json:"loggedAt"`
}
