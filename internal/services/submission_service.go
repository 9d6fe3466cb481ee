package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/terraincognita07/micronutri/internal/models"
)

var ErrSubmissionFailed = errors.New("submission failed")

// UserRepository stores the user document together with the session's
// cleared state, so either both land or neither does.
type UserRepository interface {
	CreateForSession(user *models.User, session *models.WizardSession) error
}

type LeadCompletionRecorder interface {
	RecordCompletion(email string, submittedAt time.Time) error
}

type SubmissionService struct {
	users UserRepository
	leads LeadCompletionRecorder
	now   func() time.Time
}

func NewSubmissionService(users UserRepository, leads LeadCompletionRecorder) *SubmissionService {
	return &SubmissionService{
		users: users,
		leads: leads,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Confirm writes the finalized user document for a completed wizard and
// clears the session in the same write. session is only modified on success.
// The lead completion marker is best effort and never fails the submission.
func (service *SubmissionService) Confirm(session *models.WizardSession) (models.User, error) {
	state := session.State
	if err := ValidateWizardState(state); err != nil {
		return models.User{}, err
	}
	if !IsWizardComplete(state) {
		return models.User{}, fmt.Errorf("%w: next stage is %s", ErrWizardIncomplete, EarliestUnmetStage(state))
	}

	now := service.now()
	user := BuildUserDocument(state, now)
	cleared := *session
	ResetWizardState(&cleared.State)
	cleared.UpdatedAt = now
	if err := service.users.CreateForSession(&user, &cleared); err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	*session = cleared

	if service.leads != nil {
		if err := service.leads.RecordCompletion(user.Email, user.CreatedAt); err != nil {
			log.Printf("submission: record lead completion for user %d failed: %v", user.ID, err)
		}
	}
	return user, nil
}

// BuildUserDocument flattens a complete wizard state. Callers must check
// IsWizardComplete first.
func BuildUserDocument(state models.WizardState, createdAt time.Time) models.User {
	return models.User{
		Email:    state.Step1.Email,
		Name:     state.Step1.Name,
		Phone:    state.Step1.Phone,
		Age:      state.Step1.Age,
		WeightKG: state.Step1.WeightKG,

		HappyWithBody:   state.Step2.HappyWithBody,
		WantsFastChange: state.Step2.WantsFastChange,
		TiredOfMirror:   state.Step2.TiredOfMirror,

		Goal:          state.Step3.Goal,
		MealsPerDay:   state.Step3.MealsPerDay,
		Sex:           state.Step3.Sex,
		HeightCM:      state.Step3.HeightCM,
		ActivityLevel: state.Step3.ActivityLevel,

		Macros: *state.Macros,

		AllergiesText:   state.Step4.AllergiesText,
		AllergyTags:     nonNilTags(state.Step4.AllergyTags),
		AvoidFoods:      state.Step4.AvoidFoods,
		RestrictionTags: nonNilTags(state.Step4.RestrictionTags),

		Notes: state.Step5.Notes,

		CreatedAt: createdAt,
	}
}

func nonNilTags(tags []string) []string {
	copied := make([]string, len(tags))
	copy(copied, tags)
	return copied
}
