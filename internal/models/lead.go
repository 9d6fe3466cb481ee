package models

import (
	"encoding/json"
	"time"
)

const LeadSourceWeb = "micronutri-web"

const LeadStepCompleted = "completed"

type Lead struct {
	ID             uint                       `gorm:"primaryKey"`
	Email          string                     `gorm:"uniqueIndex;not null"`
	Steps          map[string]json.RawMessage `gorm:"serializer:json;not null"`
	CompletedSteps []string                   `gorm:"serializer:json;not null"`
	LastStep       string                     `gorm:"not null;default:''"`
	Source         string                     `gorm:"not null;default:''"`
	FirstSeenAt    time.Time                  `gorm:"not null"`
	CompletedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time `gorm:"autoUpdateTime:false"`
}

func (lead *Lead) HasCompletedStep(step string) bool {
	for _, existing := range lead.CompletedSteps {
		if existing == step {
			return true
		}
	}
	return false
}
