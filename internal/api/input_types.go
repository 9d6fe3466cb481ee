package api

import "github.com/terraincognita07/micronutri/internal/services"

type step1FormInput struct {
	Email    string `form:"email"`
	Name     string `form:"name"`
	Phone    string `form:"phone"`
	Age      string `form:"age"`
	WeightKG string `form:"weight_kg"`
}

type step2FormInput struct {
	HappyWithBody   string `form:"happy_with_body"`
	WantsFastChange string `form:"wants_fast_change"`
	TiredOfMirror   string `form:"tired_of_mirror"`
}

type step3FormInput struct {
	Goal          string `form:"goal"`
	MealsPerDay   string `form:"meals_per_day"`
	Sex           string `form:"sex"`
	HeightCM      string `form:"height_cm"`
	ActivityLevel string `form:"activity_level"`
}

type step4FormInput struct {
	AllergiesText   string   `form:"allergies_text"`
	AllergyTags     []string `form:"allergy_tags"`
	AvoidFoods      string   `form:"avoid_foods"`
	RestrictionTags []string `form:"restriction_tags"`
}

type step5FormInput struct {
	Notes string `form:"notes"`
}

func (input step1FormInput) values() map[string]string {
	return map[string]string{
		"email":     input.Email,
		"name":      input.Name,
		"phone":     input.Phone,
		"age":       input.Age,
		"weight_kg": input.WeightKG,
	}
}

func (input step1FormInput) policyInput() services.Step1Input {
	return services.Step1Input{
		Email:  input.Email,
		Name:   input.Name,
		Phone:  input.Phone,
		Age:    input.Age,
		Weight: input.WeightKG,
	}
}

func (input step2FormInput) values() map[string]string {
	return map[string]string{
		"happy_with_body":   input.HappyWithBody,
		"wants_fast_change": input.WantsFastChange,
		"tired_of_mirror":   input.TiredOfMirror,
	}
}

func (input step2FormInput) policyInput() services.Step2Input {
	return services.Step2Input{
		HappyWithBody:   input.HappyWithBody,
		WantsFastChange: input.WantsFastChange,
		TiredOfMirror:   input.TiredOfMirror,
	}
}

func (input step3FormInput) values() map[string]string {
	return map[string]string{
		"goal":           input.Goal,
		"meals_per_day":  input.MealsPerDay,
		"sex":            input.Sex,
		"height_cm":      input.HeightCM,
		"activity_level": input.ActivityLevel,
	}
}

func (input step3FormInput) policyInput() services.Step3Input {
	return services.Step3Input{
		Goal:          input.Goal,
		MealsPerDay:   input.MealsPerDay,
		Sex:           input.Sex,
		HeightCM:      input.HeightCM,
		ActivityLevel: input.ActivityLevel,
	}
}

func (input step4FormInput) values() map[string]string {
	return map[string]string{
		"allergies_text":   input.AllergiesText,
		"allergy_tags":     templateJoinTags(input.AllergyTags),
		"avoid_foods":      input.AvoidFoods,
		"restriction_tags": templateJoinTags(input.RestrictionTags),
	}
}

func (input step4FormInput) policyInput() services.Step4Input {
	return services.Step4Input{
		AllergiesText:   input.AllergiesText,
		AllergyTags:     input.AllergyTags,
		AvoidFoods:      input.AvoidFoods,
		RestrictionTags: input.RestrictionTags,
	}
}

func (input step5FormInput) values() map[string]string {
	return map[string]string{"notes": input.Notes}
}

func (input step5FormInput) policyInput() services.Step5Input {
	return services.Step5Input{Notes: input.Notes}
}
