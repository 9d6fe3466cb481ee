package db

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/terraincognita07/micronutri/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LeadRepository struct {
	database *gorm.DB
}

func NewLeadRepository(database *gorm.DB) *LeadRepository {
	return &LeadRepository{database: database}
}

func (repo *LeadRepository) ListRecent(limit int) ([]models.Lead, error) {
	leads := make([]models.Lead, 0)
	query := repo.database.Order("updated_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

// UpsertStep merges one stage payload into the lead keyed by email, creating
// the lead on first sight. Steps behaves like a document $set and
// CompletedSteps like $addToSet.
func (repo *LeadRepository) UpsertStep(email string, step string, payload json.RawMessage, now time.Time) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		for attempt := 0; attempt < 2; attempt++ {
			lead := models.Lead{}
			result := tx.Where("email = ?", email).Limit(1).Find(&lead)
			if result.Error != nil {
				return result.Error
			}

			if result.RowsAffected > 0 {
				mergeLeadStep(&lead, step, payload, now)
				return tx.Save(&lead).Error
			}

			lead = models.Lead{
				Email:          email,
				Steps:          map[string]json.RawMessage{},
				CompletedSteps: []string{},
				Source:         models.LeadSourceWeb,
				FirstSeenAt:    now,
				CreatedAt:      now,
			}
			mergeLeadStep(&lead, step, payload, now)

			created := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "email"}},
				DoNothing: true,
			}).Create(&lead)
			if created.Error != nil {
				return created.Error
			}
			if created.RowsAffected > 0 {
				return nil
			}
		}
		return errors.New("lead upsert conflict")
	})
}

func mergeLeadStep(lead *models.Lead, step string, payload json.RawMessage, now time.Time) {
	if lead.Steps == nil {
		lead.Steps = map[string]json.RawMessage{}
	}
	if lead.CompletedSteps == nil {
		lead.CompletedSteps = []string{}
	}

	lead.Steps[step] = payload
	lead.LastStep = step
	lead.UpdatedAt = now
	if !lead.HasCompletedStep(step) {
		lead.CompletedSteps = append(lead.CompletedSteps, step)
	}
	if step == models.LeadStepCompleted {
		completedAt := now
		lead.CompletedAt = &completedAt
	}
}
