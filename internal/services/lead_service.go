package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/terraincognita07/micronutri/internal/models"
)

var (
	ErrLeadProgressFailed = errors.New("record lead progress failed")
	ErrLeadReportFailed   = errors.New("load lead report failed")
)

type LeadRepository interface {
	UpsertStep(email string, step string, payload json.RawMessage, now time.Time) error
	ListRecent(limit int) ([]models.Lead, error)
}

type LeadService struct {
	leads LeadRepository
	now   func() time.Time
}

type LeadReportRow struct {
	Email          string
	LastStep       string
	CompletedSteps int
	Completed      bool
	UpdatedAt      time.Time
}

func NewLeadService(leads LeadRepository) *LeadService {
	return &LeadService{
		leads: leads,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// RecordProgress stores the payload of a just completed stage on the lead
// identified by the step1 email. It is a no-op until step1 is known.
func (service *LeadService) RecordProgress(state models.WizardState, stage Stage) error {
	if state.Step1 == nil || state.Step1.Email == "" {
		return nil
	}
	if !CompletedStages(state).Has(stage) {
		return fmt.Errorf("%w: %s is not completed", ErrLeadProgressFailed, stage)
	}

	payload, err := json.Marshal(stagePayload(state, stage))
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrLeadProgressFailed, stage, err)
	}
	if err := service.leads.UpsertStep(state.Step1.Email, stage.String(), payload, service.now()); err != nil {
		return fmt.Errorf("%w: %v", ErrLeadProgressFailed, err)
	}
	return nil
}

// RecordCompletion marks the lead as having finished the wizard.
func (service *LeadService) RecordCompletion(email string, submittedAt time.Time) error {
	if email == "" {
		return nil
	}
	payload, err := json.Marshal(map[string]time.Time{"at": submittedAt.UTC()})
	if err != nil {
		return fmt.Errorf("%w: encode completion: %v", ErrLeadProgressFailed, err)
	}
	if err := service.leads.UpsertStep(email, models.LeadStepCompleted, payload, service.now()); err != nil {
		return fmt.Errorf("%w: %v", ErrLeadProgressFailed, err)
	}
	return nil
}

func (service *LeadService) Report(limit int) ([]LeadReportRow, error) {
	leads, err := service.leads.ListRecent(limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLeadReportFailed, err)
	}

	rows := make([]LeadReportRow, 0, len(leads))
	for index := range leads {
		lead := &leads[index]
		rows = append(rows, LeadReportRow{
			Email:          lead.Email,
			LastStep:       lead.LastStep,
			CompletedSteps: len(lead.CompletedSteps),
			Completed:      lead.HasCompletedStep(models.LeadStepCompleted),
			UpdatedAt:      lead.UpdatedAt,
		})
	}
	return rows, nil
}

func stagePayload(state models.WizardState, stage Stage) any {
	switch stage {
	case StageStep1:
		return state.Step1
	case StageStep2:
		return state.Step2
	case StageStep3:
		return state.Step3
	case StageMacros:
		return state.Macros
	case StageStep4:
		return state.Step4
	case StageStep5:
		return state.Step5
	default:
		return nil
	}
}
