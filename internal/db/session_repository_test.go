package db

import (
	"errors"
	"testing"
	"time"

	"github.com/terraincognita07/micronutri/internal/models"
)

func TestSessionRepositoryRoundTripsWizardState(t *testing.T) {
	repo := NewSessionRepository(openRepositoryTestDatabase(t))
	now := time.Now().UTC()

	session := models.WizardSession{
		ID:        "0b8f3a9e-4c65-4a53-9d61-6d6c0c3f6a11",
		ExpiresAt: now.Add(2 * time.Hour),
	}
	if err := repo.Create(&session); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	session.State.Step1 = &models.Step1Answers{Email: "state@example.com", Name: "Ana Souza", Age: 30, WeightKG: 70.5}
	session.State.Completed = 1
	if err := repo.SaveState(&session); err != nil {
		t.Fatalf("SaveState() unexpected error: %v", err)
	}

	loaded, found, err := repo.FindActive(session.ID, now)
	if err != nil || !found {
		t.Fatalf("FindActive() found=%v err=%v", found, err)
	}
	if loaded.State.Step1 == nil || loaded.State.Step1.WeightKG != 70.5 {
		t.Fatalf("expected step1 payload to persist, got %+v", loaded.State.Step1)
	}
	if loaded.State.Completed != 1 {
		t.Fatalf("expected completed mask 1, got %d", loaded.State.Completed)
	}
}

func TestSessionRepositorySaveStateReportsMissingSession(t *testing.T) {
	repo := NewSessionRepository(openRepositoryTestDatabase(t))

	session := models.WizardSession{ID: "gone", UpdatedAt: time.Now().UTC()}
	if err := repo.SaveState(&session); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionRepositoryIgnoresAndPurgesExpiredSessions(t *testing.T) {
	repo := NewSessionRepository(openRepositoryTestDatabase(t))
	now := time.Now().UTC()

	expired := models.WizardSession{ID: "expired", ExpiresAt: now.Add(-time.Minute)}
	active := models.WizardSession{ID: "active", ExpiresAt: now.Add(time.Hour)}
	for _, session := range []*models.WizardSession{&expired, &active} {
		if err := repo.Create(session); err != nil {
			t.Fatalf("Create(%s) unexpected error: %v", session.ID, err)
		}
	}

	if _, found, err := repo.FindActive("expired", now); err != nil || found {
		t.Fatalf("expected expired session to be ignored, found=%v err=%v", found, err)
	}

	purged, err := repo.DeleteExpired(now)
	if err != nil {
		t.Fatalf("DeleteExpired() unexpected error: %v", err)
	}
	if purged != 1 {
		t.Fatalf("expected one purged session, got %d", purged)
	}
	if _, found, err := repo.FindActive("active", now); err != nil || !found {
		t.Fatalf("expected active session to survive purge, found=%v err=%v", found, err)
	}
}
