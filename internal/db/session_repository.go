package db

import (
	"errors"
	"time"

	"github.com/terraincognita07/micronutri/internal/models"
	"gorm.io/gorm"
)

var ErrSessionNotFound = errors.New("wizard session not found")

type SessionRepository struct {
	database *gorm.DB
}

func NewSessionRepository(database *gorm.DB) *SessionRepository {
	return &SessionRepository{database: database}
}

// FindActive loads a session that has not expired at now. The bool is false
// when no such session exists.
func (repo *SessionRepository) FindActive(sessionID string, now time.Time) (models.WizardSession, bool, error) {
	session := models.WizardSession{}
	result := repo.database.
		Where("id = ? AND expires_at > ?", sessionID, now).
		Limit(1).
		Find(&session)
	if result.Error != nil {
		return models.WizardSession{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.WizardSession{}, false, nil
	}
	return session, true, nil
}

func (repo *SessionRepository) Create(session *models.WizardSession) error {
	return repo.database.Create(session).Error
}

func (repo *SessionRepository) SaveState(session *models.WizardSession) error {
	return saveSessionState(repo.database, session)
}

func saveSessionState(database *gorm.DB, session *models.WizardSession) error {
	result := database.Model(session).Select("state", "updated_at").Updates(session)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (repo *SessionRepository) DeleteExpired(now time.Time) (int64, error) {
	result := repo.database.Where("expires_at <= ?", now).Delete(&models.WizardSession{})
	return result.RowsAffected, result.Error
}
