package services

import (
	"errors"
	"fmt"

	"github.com/terraincognita07/micronutri/internal/models"
)

var (
	ErrStageLocked             = errors.New("wizard stage locked")
	ErrWizardIncomplete        = errors.New("wizard incomplete")
	ErrWizardStateInconsistent = errors.New("wizard state inconsistent")
)

// Stage is a position in the wizard. The zero value is not a stage.
type Stage uint8

const (
	StageStep1 Stage = iota + 1
	StageStep2
	StageStep3
	StageMacros
	StageStep4
	StageStep5
	StageReview
)

// recordableStages are the stages that carry a payload. Review only reads them.
var recordableStages = []Stage{StageStep1, StageStep2, StageStep3, StageMacros, StageStep4, StageStep5}

var stageNames = map[Stage]string{
	StageStep1:  "step1",
	StageStep2:  "step2",
	StageStep3:  "step3",
	StageMacros: "macros",
	StageStep4:  "step4",
	StageStep5:  "step5",
	StageReview: "review",
}

var stagePaths = map[Stage]string{
	StageStep1:  "/",
	StageStep2:  "/step/2",
	StageStep3:  "/step/3",
	StageMacros: "/macros",
	StageStep4:  "/step/4",
	StageStep5:  "/step/5",
	StageReview: "/review",
}

func (stage Stage) String() string {
	if name, ok := stageNames[stage]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", uint8(stage))
}

func (stage Stage) Path() string {
	if path, ok := stagePaths[stage]; ok {
		return path
	}
	return stagePaths[StageStep1]
}

func (stage Stage) valid() bool {
	return stage >= StageStep1 && stage <= StageReview
}

// StageSet is a bitmask of completed stages, bit n-1 for stage n.
type StageSet uint8

const fullStageSet StageSet = 1<<StageStep5 - 1

func (set StageSet) Has(stage Stage) bool {
	if !stage.valid() || stage == StageReview {
		return false
	}
	return set&stageBit(stage) != 0
}

// prefixThrough returns the set containing every stage up to and including stage.
func prefixThrough(stage Stage) StageSet {
	return StageSet(1<<uint8(stage) - 1)
}

func stageBit(stage Stage) StageSet {
	return StageSet(1 << (uint8(stage) - 1))
}

func CompletedStages(state models.WizardState) StageSet {
	return StageSet(state.Completed)
}

// CanAccessStage reports whether every stage strictly before stage is completed.
func CanAccessStage(state models.WizardState, stage Stage) bool {
	if !stage.valid() {
		return false
	}
	required := prefixThrough(stage - 1)
	return CompletedStages(state)&required == required
}

// EarliestUnmetStage returns the first stage that is not completed, or review
// when all payload stages are done.
func EarliestUnmetStage(state models.WizardState) Stage {
	completed := CompletedStages(state)
	for _, stage := range recordableStages {
		if !completed.Has(stage) {
			return stage
		}
	}
	return StageReview
}

// ResolveStage returns the requested stage when it is reachable and the
// earliest unmet stage otherwise.
func ResolveStage(state models.WizardState, requested Stage) (Stage, bool) {
	if CanAccessStage(state, requested) {
		return requested, true
	}
	return EarliestUnmetStage(state), false
}

func IsWizardComplete(state models.WizardState) bool {
	return CompletedStages(state) == fullStageSet
}

// ValidateWizardState checks that the completed set is a prefix of the stage
// order and that exactly the completed stages carry payloads.
func ValidateWizardState(state models.WizardState) error {
	completed := CompletedStages(state)
	if completed&^fullStageSet != 0 {
		return fmt.Errorf("%w: unknown stage bits %08b", ErrWizardStateInconsistent, uint8(completed))
	}
	if completed&(completed+1) != 0 {
		return fmt.Errorf("%w: completed stages %08b are not a prefix", ErrWizardStateInconsistent, uint8(completed))
	}
	for _, stage := range recordableStages {
		present := stagePayloadPresent(state, stage)
		if completed.Has(stage) && !present {
			return fmt.Errorf("%w: %s completed without payload", ErrWizardStateInconsistent, stage)
		}
		if !completed.Has(stage) && present {
			return fmt.Errorf("%w: %s has payload but is not completed", ErrWizardStateInconsistent, stage)
		}
	}
	return nil
}

// NormalizeWizardState keeps the longest valid completed prefix and drops
// everything after it. Used on load so a damaged row never unlocks a stage.
func NormalizeWizardState(state models.WizardState) models.WizardState {
	if ValidateWizardState(state) == nil {
		return state
	}

	completed := CompletedStages(state)
	keepThrough := Stage(0)
	for _, stage := range recordableStages {
		if !completed.Has(stage) || !stagePayloadPresent(state, stage) {
			break
		}
		keepThrough = stage
	}

	clearStagesFrom(&state, keepThrough+1)
	state.Completed = uint8(prefixThrough(keepThrough))
	return state
}

func CompleteStep1(state *models.WizardState, answers models.Step1Answers) error {
	return completeStage(state, StageStep1, func() { state.Step1 = &answers })
}

func CompleteStep2(state *models.WizardState, answers models.Step2Answers) error {
	return completeStage(state, StageStep2, func() { state.Step2 = &answers })
}

func CompleteStep3(state *models.WizardState, answers models.Step3Answers) error {
	return completeStage(state, StageStep3, func() { state.Step3 = &answers })
}

func CompleteMacros(state *models.WizardState, summary models.MacroSummary) error {
	return completeStage(state, StageMacros, func() { state.Macros = &summary })
}

func CompleteStep4(state *models.WizardState, answers models.Step4Answers) error {
	return completeStage(state, StageStep4, func() { state.Step4 = &answers })
}

func CompleteStep5(state *models.WizardState, answers models.Step5Answers) error {
	return completeStage(state, StageStep5, func() { state.Step5 = &answers })
}

func ResetWizardState(state *models.WizardState) {
	*state = models.WizardState{}
}

func completeStage(state *models.WizardState, stage Stage, record func()) error {
	if err := ValidateWizardState(*state); err != nil {
		return err
	}
	if !CanAccessStage(*state, stage) {
		return fmt.Errorf("%w: %s requires %s", ErrStageLocked, stage, EarliestUnmetStage(*state))
	}

	clearStagesFrom(state, stage)
	record()
	state.Completed = uint8(prefixThrough(stage))
	return nil
}

// clearStagesFrom drops the payloads of stage and every later stage.
func clearStagesFrom(state *models.WizardState, from Stage) {
	for _, stage := range recordableStages {
		if stage < from {
			continue
		}
		switch stage {
		case StageStep1:
			state.Step1 = nil
		case StageStep2:
			state.Step2 = nil
		case StageStep3:
			state.Step3 = nil
		case StageMacros:
			state.Macros = nil
		case StageStep4:
			state.Step4 = nil
		case StageStep5:
			state.Step5 = nil
		}
	}
}

func stagePayloadPresent(state models.WizardState, stage Stage) bool {
	switch stage {
	case StageStep1:
		return state.Step1 != nil
	case StageStep2:
		return state.Step2 != nil
	case StageStep3:
		return state.Step3 != nil
	case StageMacros:
		return state.Macros != nil
	case StageStep4:
		return state.Step4 != nil
	case StageStep5:
		return state.Step5 != nil
	default:
		return false
	}
}
