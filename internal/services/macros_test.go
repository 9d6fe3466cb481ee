package services

import (
	"testing"

	"github.com/terraincognita07/micronutri/internal/models"
)

func TestComputeMacrosReferenceScenario(t *testing.T) {
	summary := ComputeMacros(MacroInput{
		WeightKG:      70,
		HeightCM:      175,
		Age:           30,
		Sex:           models.SexMale,
		ActivityLevel: models.ActivitySedentary,
		Goal:          models.GoalMaintain,
		MealsPerDay:   3,
	})

	want := models.MacroSummary{
		BMR:             1649,
		TDEE:            1978,
		CalTarget:       1978,
		ProteinG:        112,
		CarbsG:          259,
		FatG:            55,
		ProteinKcal:     448,
		CarbsKcal:       1036,
		FatKcal:         495,
		ProteinPct:      23,
		CarbsPct:        52,
		FatPct:          25,
		ProteinPerMealG: 37,
		CarbsPerMealG:   86,
		FatPerMealG:     18,
		KcalPerMeal:     659,
	}
	if summary != want {
		t.Fatalf("unexpected macro summary:\n got %+v\nwant %+v", summary, want)
	}
}

func TestComputeMacrosFatFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		weightKG float64
		want     [3]int
	}{
		{name: "fat share drops to twenty percent", weightKG: 130, want: [3]int{234, 27, 6}},
		{name: "protein factor drops to default", weightKG: 160, want: [3]int{256, 27, 0}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			summary := ComputeMacros(MacroInput{
				WeightKG:      testCase.weightKG,
				HeightCM:      1,
				Age:           100,
				Sex:           models.SexFemale,
				ActivityLevel: models.ActivitySedentary,
				Goal:          models.GoalLose,
				MealsPerDay:   4,
			})
			if summary.CalTarget != MinimumCalorieTarget {
				t.Fatalf("expected floored calorie target, got %d", summary.CalTarget)
			}
			got := [3]int{summary.ProteinG, summary.FatG, summary.CarbsG}
			if got != testCase.want {
				t.Fatalf("expected protein/fat/carbs %v, got %v", testCase.want, got)
			}
		})
	}
}

func TestComputeMacrosUnknownEnumsAreLenient(t *testing.T) {
	base := MacroInput{WeightKG: 80, HeightCM: 180, Age: 40, Sex: models.SexMale, MealsPerDay: 3}

	known := base
	known.ActivityLevel = models.ActivitySedentary
	known.Goal = models.GoalMaintain

	unknown := base
	unknown.ActivityLevel = "couch"
	unknown.Goal = "bulk"

	if got, want := ComputeMacros(unknown), ComputeMacros(known); got != want {
		t.Fatalf("expected unknown activity/goal to behave as sedentary/maintain, got %+v want %+v", got, want)
	}
}

func TestComputeMacrosZeroMealsUsesOneMeal(t *testing.T) {
	summary := ComputeMacros(MacroInput{
		WeightKG:      60,
		HeightCM:      165,
		Age:           25,
		Sex:           models.SexFemale,
		ActivityLevel: models.ActivityModerate,
		Goal:          models.GoalGain,
		MealsPerDay:   0,
	})
	if summary.KcalPerMeal != summary.CalTarget {
		t.Fatalf("expected kcal per meal %d to equal target %d", summary.KcalPerMeal, summary.CalTarget)
	}
	if summary.ProteinPerMealG != summary.ProteinG {
		t.Fatalf("expected protein per meal %d to equal total %d", summary.ProteinPerMealG, summary.ProteinG)
	}
}

func TestComputeMacrosInvariantsAcrossInputs(t *testing.T) {
	sexes := []string{models.SexMale, models.SexFemale}
	activities := []string{
		models.ActivitySedentary,
		models.ActivityLight,
		models.ActivityModerate,
		models.ActivityActive,
		models.ActivityVeryActive,
	}
	goals := []string{models.GoalLose, models.GoalMaintain, models.GoalGain, models.GoalBuildMuscle}

	for weight := 20.0; weight <= 300; weight += 35 {
		for height := 100.0; height <= 250; height += 50 {
			for age := 10; age <= 100; age += 30 {
				for _, sex := range sexes {
					for _, activity := range activities {
						for _, goal := range goals {
							for meals := 2; meals <= 6; meals += 2 {
								input := MacroInput{
									WeightKG:      weight,
									HeightCM:      height,
									Age:           age,
									Sex:           sex,
									ActivityLevel: activity,
									Goal:          goal,
									MealsPerDay:   meals,
								}
								assertMacroInvariants(t, input, ComputeMacros(input))
							}
						}
					}
				}
			}
		}
	}
}

func assertMacroInvariants(t *testing.T, input MacroInput, summary models.MacroSummary) {
	t.Helper()

	if summary.CalTarget < MinimumCalorieTarget {
		t.Fatalf("%+v: calorie target %d below minimum", input, summary.CalTarget)
	}
	if summary.ProteinKcal != summary.ProteinG*4 || summary.CarbsKcal != summary.CarbsG*4 || summary.FatKcal != summary.FatG*9 {
		t.Fatalf("%+v: kcal not derived from rounded grams: %+v", input, summary)
	}
	if sum := summary.ProteinPct + summary.CarbsPct + summary.FatPct; sum != 100 {
		t.Fatalf("%+v: percentages sum to %d", input, sum)
	}
	values := []int{
		summary.BMR, summary.TDEE,
		summary.ProteinG, summary.CarbsG, summary.FatG,
		summary.ProteinPct, summary.CarbsPct, summary.FatPct,
		summary.ProteinPerMealG, summary.CarbsPerMealG, summary.FatPerMealG, summary.KcalPerMeal,
	}
	for _, value := range values {
		if value < 0 {
			t.Fatalf("%+v: negative value in %+v", input, summary)
		}
	}

	meals := input.MealsPerDay
	perMeal := []struct {
		value int
		total int
	}{
		{summary.ProteinPerMealG, summary.ProteinG},
		{summary.CarbsPerMealG, summary.CarbsG},
		{summary.FatPerMealG, summary.FatG},
		{summary.KcalPerMeal, summary.CalTarget},
	}
	for _, entry := range perMeal {
		if entry.value*meals > entry.total+meals {
			t.Fatalf("%+v: per-meal %d x %d exceeds total %d + meals", input, entry.value, meals, entry.total)
		}
	}
}
