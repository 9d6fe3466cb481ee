package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/micronutri/internal/models"
	"github.com/terraincognita07/micronutri/internal/services"
)

type choiceOption struct {
	Value    string
	LabelKey string
}

var goalOptions = []choiceOption{
	{Value: models.GoalLose, LabelKey: "goal.lose"},
	{Value: models.GoalMaintain, LabelKey: "goal.maintain"},
	{Value: models.GoalGain, LabelKey: "goal.gain"},
	{Value: models.GoalBuildMuscle, LabelKey: "goal.build_muscle"},
}

var activityOptions = []choiceOption{
	{Value: models.ActivitySedentary, LabelKey: "activity.sedentary"},
	{Value: models.ActivityLight, LabelKey: "activity.light"},
	{Value: models.ActivityModerate, LabelKey: "activity.moderate"},
	{Value: models.ActivityActive, LabelKey: "activity.active"},
	{Value: models.ActivityVeryActive, LabelKey: "activity.very_active"},
}

var sexOptions = []choiceOption{
	{Value: models.SexFemale, LabelKey: "sex.female"},
	{Value: models.SexMale, LabelKey: "sex.male"},
}

func mealOptions() []int {
	options := make([]int, 0, services.MaxMealsPerDay-services.MinMealsPerDay+1)
	for meals := services.MinMealsPerDay; meals <= services.MaxMealsPerDay; meals++ {
		options = append(options, meals)
	}
	return options
}

// stageFormValues prefills a stage form from the payload already recorded
// for that stage.
func stageFormValues(state models.WizardState, stage services.Stage) map[string]string {
	switch stage {
	case services.StageStep1:
		if state.Step1 == nil {
			return map[string]string{}
		}
		return map[string]string{
			"email":     state.Step1.Email,
			"name":      state.Step1.Name,
			"phone":     state.Step1.Phone,
			"age":       strconv.Itoa(state.Step1.Age),
			"weight_kg": templateFormatFloat(state.Step1.WeightKG),
		}
	case services.StageStep2:
		if state.Step2 == nil {
			return map[string]string{}
		}
		return map[string]string{
			"happy_with_body":   yesNoFormValue(state.Step2.HappyWithBody),
			"wants_fast_change": yesNoFormValue(state.Step2.WantsFastChange),
			"tired_of_mirror":   yesNoFormValue(state.Step2.TiredOfMirror),
		}
	case services.StageStep3:
		if state.Step3 == nil {
			return map[string]string{}
		}
		return map[string]string{
			"goal":           state.Step3.Goal,
			"meals_per_day":  strconv.Itoa(state.Step3.MealsPerDay),
			"sex":            state.Step3.Sex,
			"height_cm":      strconv.Itoa(state.Step3.HeightCM),
			"activity_level": state.Step3.ActivityLevel,
		}
	case services.StageStep4:
		if state.Step4 == nil {
			return map[string]string{}
		}
		return map[string]string{
			"allergies_text":   state.Step4.AllergiesText,
			"allergy_tags":     templateJoinTags(state.Step4.AllergyTags),
			"avoid_foods":      state.Step4.AvoidFoods,
			"restriction_tags": templateJoinTags(state.Step4.RestrictionTags),
		}
	case services.StageStep5:
		if state.Step5 == nil {
			return map[string]string{}
		}
		return map[string]string{"notes": state.Step5.Notes}
	default:
		return map[string]string{}
	}
}

func yesNoFormValue(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func (handler *Handler) renderStage(c *fiber.Ctx, session *models.WizardSession, stage services.Stage, form stageForm) error {
	messages := currentMessages(c)
	flash := handler.popFlashCookie(c)
	if form.Values == nil {
		form.Values = map[string]string{}
	}

	data := fiber.Map{
		"Title":       localizedPageTitle(messages, stage.String()+".title"),
		"Stage":       stage.String(),
		"StageNumber": int(stage),
		"StageCount":  int(services.StageReview),
		"CSRFToken":   csrfTokenForPage(c),
		"Values":      form.Values,
		"Errors":      form.Errors,
		"FormError":   form.FormError,
		"FlashError":  flash.Error,
		"FlashInfo":   flash.Success,
	}
	if stage > services.StageStep1 {
		data["BackPath"] = (stage - 1).Path()
	}

	switch stage {
	case services.StageStep3:
		data["GoalOptions"] = goalOptions
		data["ActivityOptions"] = activityOptions
		data["SexOptions"] = sexOptions
		data["MealOptions"] = mealOptions()
	case services.StageMacros:
		summary := services.ComputeMacros(services.MacroInputFromAnswers(*session.State.Step1, *session.State.Step3))
		data["Macros"] = summary
		data["MealsPerDay"] = session.State.Step3.MealsPerDay
	case services.StageReview:
		data["State"] = session.State
	}

	return handler.render(c, stage.String(), data)
}
