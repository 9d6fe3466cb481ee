package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/micronutri/internal/models"
	"github.com/terraincognita07/micronutri/internal/services"
)

// stageSubmission is a parsed and validated stage form. complete records the
// answers on the wizard state once the request has passed every check.
type stageSubmission struct {
	values   map[string]string
	errors   services.FieldErrors
	complete func(state *models.WizardState) error
}

type stageParser func(c *fiber.Ctx) (stageSubmission, error)

var stageParsers = map[services.Stage]stageParser{
	services.StageStep1: parseStep1Submission,
	services.StageStep2: parseStep2Submission,
	services.StageStep3: parseStep3Submission,
	services.StageStep4: parseStep4Submission,
	services.StageStep5: parseStep5Submission,
}

func parseStep1Submission(c *fiber.Ctx) (stageSubmission, error) {
	input := step1FormInput{}
	if err := c.BodyParser(&input); err != nil {
		return stageSubmission{}, err
	}
	answers, errs := services.ValidateStep1Input(input.policyInput())
	return stageSubmission{
		values: input.values(),
		errors: errs,
		complete: func(state *models.WizardState) error {
			return services.CompleteStep1(state, answers)
		},
	}, nil
}

func parseStep2Submission(c *fiber.Ctx) (stageSubmission, error) {
	input := step2FormInput{}
	if err := c.BodyParser(&input); err != nil {
		return stageSubmission{}, err
	}
	answers, errs := services.ValidateStep2Input(input.policyInput())
	return stageSubmission{
		values: input.values(),
		errors: errs,
		complete: func(state *models.WizardState) error {
			return services.CompleteStep2(state, answers)
		},
	}, nil
}

func parseStep3Submission(c *fiber.Ctx) (stageSubmission, error) {
	input := step3FormInput{}
	if err := c.BodyParser(&input); err != nil {
		return stageSubmission{}, err
	}
	answers, errs := services.ValidateStep3Input(input.policyInput())
	return stageSubmission{
		values: input.values(),
		errors: errs,
		complete: func(state *models.WizardState) error {
			return services.CompleteStep3(state, answers)
		},
	}, nil
}

func parseStep4Submission(c *fiber.Ctx) (stageSubmission, error) {
	input := step4FormInput{}
	if err := c.BodyParser(&input); err != nil {
		return stageSubmission{}, err
	}
	answers, errs := services.ValidateStep4Input(input.policyInput())
	return stageSubmission{
		values: input.values(),
		errors: errs,
		complete: func(state *models.WizardState) error {
			return services.CompleteStep4(state, answers)
		},
	}, nil
}

func parseStep5Submission(c *fiber.Ctx) (stageSubmission, error) {
	input := step5FormInput{}
	if err := c.BodyParser(&input); err != nil {
		return stageSubmission{}, err
	}
	answers, errs := services.ValidateStep5Input(input.policyInput())
	return stageSubmission{
		values: input.values(),
		errors: errs,
		complete: func(state *models.WizardState) error {
			return services.CompleteStep5(state, answers)
		},
	}, nil
}

// submitStage handles a stage form that already passed the gate and the CSRF
// middleware: validate, record on the session, then mirror into the lead.
func (handler *Handler) submitStage(stage services.Stage) fiber.Handler {
	parse := stageParsers[stage]
	return func(c *fiber.Ctx) error {
		session, ok := currentWizardSession(c)
		if !ok {
			return fiber.ErrInternalServerError
		}

		submission, err := parse(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid form body")
		}
		if !submission.errors.Empty() {
			c.Status(fiber.StatusUnprocessableEntity)
			return handler.renderStage(c, session, stage, stageForm{
				Values: submission.values,
				Errors: submission.errors,
			})
		}

		if err := submission.complete(&session.State); err != nil {
			if errors.Is(err, services.ErrStageLocked) {
				return redirectToStage(c, services.EarliestUnmetStage(session.State))
			}
			return err
		}
		if err := handler.sessionService.Save(session); err != nil {
			return err
		}
		if err := handler.leadService.RecordProgress(session.State, stage); err != nil {
			return err
		}
		return redirectToStage(c, services.EarliestUnmetStage(session.State))
	}
}
