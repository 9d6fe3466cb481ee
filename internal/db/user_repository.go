package db

import (
	"github.com/terraincognita07/micronutri/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

// CreateForSession inserts the user document and stores the session's state
// in one transaction, so a confirmed wizard is never left resubmittable.
func (repo *UserRepository) CreateForSession(user *models.User, session *models.WizardSession) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return saveSessionState(tx, session)
	})
}

func (repo *UserRepository) CountUsers() (int64, error) {
	var count int64
	if err := repo.database.Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
