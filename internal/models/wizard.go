package models

import "time"

const (
	SexMale   = "male"
	SexFemale = "female"
)

const (
	GoalLose        = "lose"
	GoalMaintain    = "maintain"
	GoalGain        = "gain"
	GoalBuildMuscle = "build_muscle"
)

const (
	ActivitySedentary  = "sedentary"
	ActivityLight      = "light"
	ActivityModerate   = "moderate"
	ActivityActive     = "active"
	ActivityVeryActive = "very_active"
)

type Step1Answers struct {
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	Phone    string  `json:"phone"`
	Age      int     `json:"age"`
	WeightKG float64 `json:"weight_kg"`
}

type Step2Answers struct {
	HappyWithBody   bool `json:"happy_with_body"`
	WantsFastChange bool `json:"wants_fast_change"`
	TiredOfMirror   bool `json:"tired_of_mirror"`
}

type Step3Answers struct {
	Goal          string `json:"goal"`
	MealsPerDay   int    `json:"meals_per_day"`
	Sex           string `json:"sex"`
	HeightCM      int    `json:"height_cm"`
	ActivityLevel string `json:"activity_level"`
}

type Step4Answers struct {
	AllergiesText   string   `json:"allergies_text"`
	AllergyTags     []string `json:"allergy_tags"`
	AvoidFoods      string   `json:"avoid_foods"`
	RestrictionTags []string `json:"restriction_tags"`
}

type Step5Answers struct {
	Notes string `json:"notes"`
}

// MacroSummary is the persisted form of a computed macro split.
type MacroSummary struct {
	BMR       int `json:"bmr"`
	TDEE      int `json:"tdee"`
	CalTarget int `json:"cal_target"`

	ProteinG int `json:"protein_g"`
	CarbsG   int `json:"carbs_g"`
	FatG     int `json:"fat_g"`

	ProteinKcal int `json:"protein_kcal"`
	CarbsKcal   int `json:"carbs_kcal"`
	FatKcal     int `json:"fat_kcal"`

	ProteinPct int `json:"protein_pct"`
	CarbsPct   int `json:"carbs_pct"`
	FatPct     int `json:"fat_pct"`

	ProteinPerMealG int `json:"protein_per_meal_g"`
	CarbsPerMealG   int `json:"carbs_per_meal_g"`
	FatPerMealG     int `json:"fat_per_meal_g"`
	KcalPerMeal     int `json:"kcal_per_meal"`
}

// WizardState holds every recorded stage payload plus the bitmask of completed
// stages. Completed is owned by the services package and always forms a prefix
// of the stage order.
type WizardState struct {
	Step1     *Step1Answers `json:"step1,omitempty"`
	Step2     *Step2Answers `json:"step2,omitempty"`
	Step3     *Step3Answers `json:"step3,omitempty"`
	Macros    *MacroSummary `json:"macros,omitempty"`
	Step4     *Step4Answers `json:"step4,omitempty"`
	Step5     *Step5Answers `json:"step5,omitempty"`
	Completed uint8         `json:"completed"`
}

type WizardSession struct {
	ID        string      `gorm:"primaryKey"`
	State     WizardState `gorm:"serializer:json;not null"`
	ExpiresAt time.Time   `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CSRFToken is a token issued by the CSRF middleware. Value is the opaque
// payload the middleware stores against it; a nil ExpiresAt never expires.
type CSRFToken struct {
	Token     string `gorm:"primaryKey"`
	Value     []byte `gorm:"not null"`
	ExpiresAt *time.Time
}

func (CSRFToken) TableName() string {
	return "csrf_tokens"
}
