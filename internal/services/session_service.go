package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/micronutri/internal/models"
)

const DefaultSessionTTL = 2 * time.Hour

var (
	ErrSessionCreateFailed = errors.New("create wizard session failed")
	ErrSessionSaveFailed   = errors.New("save wizard session failed")
)

type SessionRepository interface {
	FindActive(sessionID string, now time.Time) (models.WizardSession, bool, error)
	Create(session *models.WizardSession) error
	SaveState(session *models.WizardSession) error
	DeleteExpired(now time.Time) (int64, error)
}

type SessionService struct {
	sessions SessionRepository
	ttl      time.Duration
	now      func() time.Time
	newID    func() string
}

func NewSessionService(sessions SessionRepository, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionService{
		sessions: sessions,
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// LoadOrCreate returns the active session for sessionID, or a fresh one when
// the id is empty, unknown or expired. The second result reports creation.
func (service *SessionService) LoadOrCreate(sessionID string) (models.WizardSession, bool, error) {
	if sessionID != "" {
		if _, err := uuid.Parse(sessionID); err == nil {
			session, found, err := service.sessions.FindActive(sessionID, service.now())
			if err != nil {
				return models.WizardSession{}, false, err
			}
			if found {
				if validateErr := ValidateWizardState(session.State); validateErr != nil {
					log.Printf("sessions: normalizing session %s: %v", session.ID, validateErr)
					session.State = NormalizeWizardState(session.State)
				}
				return session, false, nil
			}
		}
	}

	session, err := service.Create()
	if err != nil {
		return models.WizardSession{}, false, err
	}
	return session, true, nil
}

func (service *SessionService) Create() (models.WizardSession, error) {
	now := service.now()
	session := models.WizardSession{
		ID:        service.newID(),
		State:     models.WizardState{},
		ExpiresAt: now.Add(service.ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := service.sessions.Create(&session); err != nil {
		return models.WizardSession{}, fmt.Errorf("%w: %v", ErrSessionCreateFailed, err)
	}
	return session, nil
}

// Save persists the wizard state after checking its invariant.
func (service *SessionService) Save(session *models.WizardSession) error {
	if err := ValidateWizardState(session.State); err != nil {
		return err
	}
	session.UpdatedAt = service.now()
	if err := service.sessions.SaveState(session); err != nil {
		return fmt.Errorf("%w: %v", ErrSessionSaveFailed, err)
	}
	return nil
}

// Clear empties the wizard, keeping the session itself.
func (service *SessionService) Clear(session *models.WizardSession) error {
	ResetWizardState(&session.State)
	return service.Save(session)
}

func (service *SessionService) PurgeExpired() (int64, error) {
	return service.sessions.DeleteExpired(service.now())
}
