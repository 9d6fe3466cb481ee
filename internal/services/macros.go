package services

import (
	"math"

	"github.com/terraincognita07/micronutri/internal/models"
)

const (
	MinimumCalorieTarget = 1200

	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9

	defaultProteinFactor = 1.6
	highProteinFactor    = 1.8
)

var activityFactors = map[string]float64{
	models.ActivitySedentary:  1.2,
	models.ActivityLight:      1.375,
	models.ActivityModerate:   1.55,
	models.ActivityActive:     1.725,
	models.ActivityVeryActive: 1.9,
}

var goalAdjustments = map[string]float64{
	models.GoalLose:        -0.15,
	models.GoalMaintain:    0,
	models.GoalGain:        0.10,
	models.GoalBuildMuscle: 0.10,
}

// fatShares are tried in order until the carbohydrate remainder is non-negative.
var fatShares = []float64{0.25, 0.20}

type MacroInput struct {
	WeightKG      float64
	HeightCM      float64
	Age           int
	Sex           string
	ActivityLevel string
	Goal          string
	MealsPerDay   int
}

func MacroInputFromAnswers(step1 models.Step1Answers, step3 models.Step3Answers) MacroInput {
	return MacroInput{
		WeightKG:      step1.WeightKG,
		HeightCM:      float64(step3.HeightCM),
		Age:           step1.Age,
		Sex:           step3.Sex,
		ActivityLevel: step3.ActivityLevel,
		Goal:          step3.Goal,
		MealsPerDay:   step3.MealsPerDay,
	}
}

// ActivityFactor falls back to the sedentary multiplier for unknown levels.
func ActivityFactor(level string) float64 {
	if factor, ok := activityFactors[level]; ok {
		return factor
	}
	return activityFactors[models.ActivitySedentary]
}

func GoalAdjustment(goal string) float64 {
	return goalAdjustments[goal]
}

func ProteinFactor(goal string) float64 {
	switch goal {
	case models.GoalLose, models.GoalBuildMuscle:
		return highProteinFactor
	default:
		return defaultProteinFactor
	}
}

// ComputeMacros runs Mifflin-St Jeor, applies the activity and goal
// multipliers and splits the calorie target into protein, fat and carbs.
// All rounding is half-to-even.
func ComputeMacros(input MacroInput) models.MacroSummary {
	sexTerm := -161.0
	if input.Sex == models.SexMale {
		sexTerm = 5
	}

	bmr := 10*input.WeightKG + 6.25*input.HeightCM - 5*float64(input.Age) + sexTerm
	tdee := bmr * ActivityFactor(input.ActivityLevel)
	target := max(MinimumCalorieTarget, roundHalfEven(tdee*(1+GoalAdjustment(input.Goal))))
	targetKcal := float64(target)

	proteinG := input.WeightKG * ProteinFactor(input.Goal)
	var fatKcal, carbsKcal float64
	for _, share := range fatShares {
		fatKcal = targetKcal * share
		carbsKcal = targetKcal - proteinG*kcalPerGramProtein - fatKcal
		if carbsKcal >= 0 {
			break
		}
	}
	if carbsKcal < 0 {
		proteinG = input.WeightKG * defaultProteinFactor
		carbsKcal = targetKcal - proteinG*kcalPerGramProtein - fatKcal
	}

	summary := models.MacroSummary{
		BMR:       max(0, roundHalfEven(bmr)),
		TDEE:      max(0, roundHalfEven(tdee)),
		CalTarget: target,
		ProteinG:  max(0, roundHalfEven(proteinG)),
		FatG:      max(0, roundHalfEven(fatKcal/kcalPerGramFat)),
		CarbsG:    max(0, roundHalfEven(carbsKcal/kcalPerGramCarbs)),
	}
	summary.ProteinKcal = summary.ProteinG * kcalPerGramProtein
	summary.FatKcal = summary.FatG * kcalPerGramFat
	summary.CarbsKcal = summary.CarbsG * kcalPerGramCarbs

	summary.ProteinPct, summary.FatPct, summary.CarbsPct = macroPercentages(
		summary.ProteinKcal,
		summary.FatKcal,
		summary.CarbsKcal,
	)

	meals := float64(max(1, input.MealsPerDay))
	summary.ProteinPerMealG = max(0, roundHalfEven(float64(summary.ProteinG)/meals))
	summary.CarbsPerMealG = max(0, roundHalfEven(float64(summary.CarbsG)/meals))
	summary.FatPerMealG = max(0, roundHalfEven(float64(summary.FatG)/meals))
	summary.KcalPerMeal = max(0, roundHalfEven(targetKcal/meals))
	return summary
}

// macroPercentages returns protein, fat and carb shares of the kcal total.
// Carbs take the remainder so the three always sum to 100.
func macroPercentages(proteinKcal int, fatKcal int, carbsKcal int) (int, int, int) {
	total := float64(max(1, proteinKcal+fatKcal+carbsKcal))
	proteinPct := min(100, roundHalfEven(float64(proteinKcal)/total*100))
	fatPct := roundHalfEven(float64(fatKcal) / total * 100)
	if proteinPct+fatPct > 100 {
		fatPct = 100 - proteinPct
	}
	return proteinPct, fatPct, 100 - proteinPct - fatPct
}

func roundHalfEven(value float64) int {
	return int(math.RoundToEven(value))
}
