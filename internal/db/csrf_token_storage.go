package db

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/micronutri/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ fiber.Storage = (*CSRFTokenStorage)(nil)

// CSRFTokenStorage keeps the CSRF middleware's tokens in csrf_tokens so they
// survive restarts and are shared by every process using the database.
type CSRFTokenStorage struct {
	database *gorm.DB
	now      func() time.Time
}

func NewCSRFTokenStorage(database *gorm.DB) *CSRFTokenStorage {
	return &CSRFTokenStorage{
		database: database,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Get returns nil, nil for unknown or expired keys, as fiber.Storage requires.
func (storage *CSRFTokenStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	row := models.CSRFToken{}
	result := storage.database.
		Where("token = ? AND (expires_at IS NULL OR expires_at > ?)", key, storage.now()).
		Limit(1).
		Find(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return row.Value, nil
}

// Set stores val under key. A non-positive exp keeps the token until it is
// deleted.
func (storage *CSRFTokenStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	row := models.CSRFToken{Token: key, Value: val}
	if exp > 0 {
		expiresAt := storage.now().Add(exp)
		row.ExpiresAt = &expiresAt
	}
	return storage.database.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at"}),
	}).Create(&row).Error
}

func (storage *CSRFTokenStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	return storage.database.Where("token = ?", key).Delete(&models.CSRFToken{}).Error
}

func (storage *CSRFTokenStorage) Reset() error {
	return storage.database.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.CSRFToken{}).Error
}

// Close is a no-op; the database handle belongs to the caller.
func (storage *CSRFTokenStorage) Close() error {
	return nil
}

func (storage *CSRFTokenStorage) DeleteExpired(now time.Time) (int64, error) {
	result := storage.database.Where("expires_at IS NOT NULL AND expires_at <= ?", now).Delete(&models.CSRFToken{})
	return result.RowsAffected, result.Error
}
