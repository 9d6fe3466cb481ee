package services

import (
	"errors"
	"testing"

	"github.com/terraincognita07/micronutri/internal/models"
)

func completedWizardState(t *testing.T, through Stage) models.WizardState {
	t.Helper()

	state := models.WizardState{}
	steps := []func() error{
		func() error {
			return CompleteStep1(&state, models.Step1Answers{Email: "ana@example.com", Name: "Ana Souza", Phone: "11987654321", Age: 30, WeightKG: 62.5})
		},
		func() error {
			return CompleteStep2(&state, models.Step2Answers{HappyWithBody: false, WantsFastChange: true, TiredOfMirror: true})
		},
		func() error {
			return CompleteStep3(&state, models.Step3Answers{Goal: models.GoalLose, MealsPerDay: 4, Sex: models.SexFemale, HeightCM: 165, ActivityLevel: models.ActivityLight})
		},
		func() error {
			return CompleteMacros(&state, models.MacroSummary{CalTarget: 1600})
		},
		func() error {
			return CompleteStep4(&state, models.Step4Answers{AllergyTags: []string{"lactose"}})
		},
		func() error {
			return CompleteStep5(&state, models.Step5Answers{Notes: "no breakfast"})
		},
	}
	for index := 0; index < int(through) && index < len(steps); index++ {
		if err := steps[index](); err != nil {
			t.Fatalf("complete stage %d: %v", index+1, err)
		}
	}
	return state
}

func TestCanAccessStageRequiresEveryPriorStage(t *testing.T) {
	allStages := []Stage{StageStep1, StageStep2, StageStep3, StageMacros, StageStep4, StageStep5, StageReview}

	for through := Stage(0); through <= StageStep5; through++ {
		state := completedWizardState(t, through)
		for _, stage := range allStages {
			want := stage <= through+1
			if got := CanAccessStage(state, stage); got != want {
				t.Fatalf("completed through %d: CanAccessStage(%s) = %v, want %v", through, stage, got, want)
			}
		}
	}
}

func TestEarliestUnmetStage(t *testing.T) {
	tests := []struct {
		through Stage
		want    Stage
	}{
		{through: 0, want: StageStep1},
		{through: StageStep1, want: StageStep2},
		{through: StageStep3, want: StageMacros},
		{through: StageMacros, want: StageStep4},
		{through: StageStep5, want: StageReview},
	}

	for _, testCase := range tests {
		state := completedWizardState(t, testCase.through)
		if got := EarliestUnmetStage(state); got != testCase.want {
			t.Fatalf("completed through %d: EarliestUnmetStage = %s, want %s", testCase.through, got, testCase.want)
		}
	}
}

func TestResolveStageRedirectsToEarliestUnmet(t *testing.T) {
	state := completedWizardState(t, StageStep1)

	stage, ok := ResolveStage(state, StageStep4)
	if ok || stage != StageStep2 {
		t.Fatalf("expected locked step4 to resolve to step2, got %s ok=%v", stage, ok)
	}
	if stage.Path() != "/step/2" {
		t.Fatalf("unexpected path for step2: %q", stage.Path())
	}

	stage, ok = ResolveStage(state, StageStep2)
	if !ok || stage != StageStep2 {
		t.Fatalf("expected step2 to be reachable, got %s ok=%v", stage, ok)
	}
}

func TestCompleteStageRejectsLockedStage(t *testing.T) {
	state := completedWizardState(t, StageStep1)

	err := CompleteStep3(&state, models.Step3Answers{Goal: models.GoalGain})
	if !errors.Is(err, ErrStageLocked) {
		t.Fatalf("expected ErrStageLocked, got %v", err)
	}
	if state.Step3 != nil || CompletedStages(state) != prefixThrough(StageStep1) {
		t.Fatalf("expected locked completion to leave state untouched, got %+v", state)
	}
}

func TestResubmittingStep1ClearsDownstreamStages(t *testing.T) {
	state := completedWizardState(t, StageStep5)

	updated := models.Step1Answers{Email: "bia@example.com", Name: "Bia Lima", Phone: "21987654321", Age: 41, WeightKG: 70}
	if err := CompleteStep1(&state, updated); err != nil {
		t.Fatalf("CompleteStep1 returned error: %v", err)
	}

	if state.Step1 == nil || state.Step1.Email != "bia@example.com" {
		t.Fatalf("expected new step1 payload, got %+v", state.Step1)
	}
	if state.Step2 != nil || state.Step3 != nil || state.Macros != nil || state.Step4 != nil || state.Step5 != nil {
		t.Fatalf("expected downstream payloads cleared, got %+v", state)
	}
	if EarliestUnmetStage(state) != StageStep2 {
		t.Fatalf("expected step2 to be next, got %s", EarliestUnmetStage(state))
	}
	if err := ValidateWizardState(state); err != nil {
		t.Fatalf("expected consistent state after resubmission, got %v", err)
	}
}

func TestConfirmingMacrosClearsLaterAnswers(t *testing.T) {
	state := completedWizardState(t, StageStep5)

	if err := CompleteMacros(&state, models.MacroSummary{CalTarget: 1700}); err != nil {
		t.Fatalf("CompleteMacros returned error: %v", err)
	}
	if state.Step4 != nil || state.Step5 != nil {
		t.Fatalf("expected step4 and step5 cleared, got %+v", state)
	}
	if state.Macros == nil || state.Macros.CalTarget != 1700 {
		t.Fatalf("expected new macros payload, got %+v", state.Macros)
	}
	if IsWizardComplete(state) {
		t.Fatalf("expected wizard to be incomplete after macros resubmission")
	}
}

func TestValidateWizardStateRejectsGapsAndOrphans(t *testing.T) {
	complete := completedWizardState(t, StageStep5)
	if err := ValidateWizardState(complete); err != nil {
		t.Fatalf("expected complete state to be valid, got %v", err)
	}

	gap := complete
	gap.Completed = uint8(prefixThrough(StageStep5) &^ stageBit(StageStep2))
	if err := ValidateWizardState(gap); !errors.Is(err, ErrWizardStateInconsistent) {
		t.Fatalf("expected gap to be rejected, got %v", err)
	}

	missingPayload := complete
	missingPayload.Step3 = nil
	if err := ValidateWizardState(missingPayload); !errors.Is(err, ErrWizardStateInconsistent) {
		t.Fatalf("expected missing payload to be rejected, got %v", err)
	}

	orphan := completedWizardState(t, StageStep1)
	orphan.Step4 = &models.Step4Answers{AvoidFoods: "okra"}
	if err := ValidateWizardState(orphan); !errors.Is(err, ErrWizardStateInconsistent) {
		t.Fatalf("expected orphan payload to be rejected, got %v", err)
	}

	unknownBits := models.WizardState{Completed: 0xff}
	if err := ValidateWizardState(unknownBits); !errors.Is(err, ErrWizardStateInconsistent) {
		t.Fatalf("expected unknown bits to be rejected, got %v", err)
	}
}

func TestNormalizeWizardStateKeepsLongestValidPrefix(t *testing.T) {
	state := completedWizardState(t, StageStep5)
	state.Macros = nil

	normalized := NormalizeWizardState(state)
	if EarliestUnmetStage(normalized) != StageMacros {
		t.Fatalf("expected macros to be the next stage, got %s", EarliestUnmetStage(normalized))
	}
	if normalized.Step3 == nil {
		t.Fatalf("expected step3 payload kept")
	}
	if normalized.Step4 != nil || normalized.Step5 != nil {
		t.Fatalf("expected stages after the gap dropped, got %+v", normalized)
	}
	if err := ValidateWizardState(normalized); err != nil {
		t.Fatalf("expected normalized state to be valid, got %v", err)
	}
}

func TestResetWizardState(t *testing.T) {
	state := completedWizardState(t, StageStep5)
	ResetWizardState(&state)

	if EarliestUnmetStage(state) != StageStep1 || state.Step1 != nil || state.Completed != 0 {
		t.Fatalf("expected empty state after reset, got %+v", state)
	}
	if CanAccessStage(state, StageStep2) {
		t.Fatalf("expected step2 locked after reset")
	}
}
