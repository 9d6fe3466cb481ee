package services

import (
	"math"
	"net/mail"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/terraincognita07/micronutri/internal/models"
)

const (
	MinAge         = 10
	MaxAge         = 100
	MinWeightKG    = 20
	MaxWeightKG    = 300
	MinHeightCM    = 100
	MaxHeightCM    = 250
	MinMealsPerDay = 2
	MaxMealsPerDay = 6

	minPhoneDigits = 10
	maxPhoneDigits = 13

	MaxFreeTextLength = 500
	MaxNotesLength    = 1000
	MaxTagsPerField   = 20
	MaxTagLength      = 50
)

// Validation message keys, resolved through the locale files.
const (
	ValidationRequired    = "validation.required"
	ValidationEmail       = "validation.email"
	ValidationName        = "validation.name"
	ValidationPhone       = "validation.phone"
	ValidationAge         = "validation.age"
	ValidationWeight      = "validation.weight"
	ValidationYesNo       = "validation.yes_no"
	ValidationGoal        = "validation.goal"
	ValidationMeals       = "validation.meals"
	ValidationSex         = "validation.sex"
	ValidationHeight      = "validation.height"
	ValidationActivity    = "validation.activity"
	ValidationTextTooLong = "validation.text_too_long"
	ValidationTooManyTags = "validation.too_many_tags"
)

// FieldErrors maps a form field name to a validation message key.
type FieldErrors map[string]string

func (errs FieldErrors) Empty() bool {
	return len(errs) == 0
}

func (errs FieldErrors) add(field string, key string) {
	if _, exists := errs[field]; !exists {
		errs[field] = key
	}
}

type Step1Input struct {
	Email  string
	Name   string
	Phone  string
	Age    string
	Weight string
}

type Step2Input struct {
	HappyWithBody   string
	WantsFastChange string
	TiredOfMirror   string
}

type Step3Input struct {
	Goal          string
	MealsPerDay   string
	Sex           string
	HeightCM      string
	ActivityLevel string
}

type Step4Input struct {
	AllergiesText   string
	AllergyTags     []string
	AvoidFoods      string
	RestrictionTags []string
}

type Step5Input struct {
	Notes string
}

func ValidateStep1Input(input Step1Input) (models.Step1Answers, FieldErrors) {
	errs := FieldErrors{}
	answers := models.Step1Answers{}

	if strings.TrimSpace(input.Email) == "" {
		errs.add("email", ValidationRequired)
	} else if answers.Email = NormalizeLeadEmail(input.Email); answers.Email == "" {
		errs.add("email", ValidationEmail)
	}

	if name, ok := normalizePersonName(input.Name); ok {
		answers.Name = name
	} else if strings.TrimSpace(input.Name) == "" {
		errs.add("name", ValidationRequired)
	} else {
		errs.add("name", ValidationName)
	}

	phone := digitsOnly(input.Phone)
	switch {
	case strings.TrimSpace(input.Phone) == "":
		errs.add("phone", ValidationRequired)
	case len(phone) < minPhoneDigits || len(phone) > maxPhoneDigits:
		errs.add("phone", ValidationPhone)
	default:
		answers.Phone = phone
	}

	age, err := strconv.Atoi(strings.TrimSpace(input.Age))
	switch {
	case strings.TrimSpace(input.Age) == "":
		errs.add("age", ValidationRequired)
	case err != nil || age < MinAge || age > MaxAge:
		errs.add("age", ValidationAge)
	default:
		answers.Age = age
	}

	weight, ok := parseDecimal(input.Weight)
	switch {
	case strings.TrimSpace(input.Weight) == "":
		errs.add("weight_kg", ValidationRequired)
	case !ok || weight < MinWeightKG || weight > MaxWeightKG:
		errs.add("weight_kg", ValidationWeight)
	default:
		answers.WeightKG = weight
	}

	return answers, errs
}

func ValidateStep2Input(input Step2Input) (models.Step2Answers, FieldErrors) {
	errs := FieldErrors{}
	answers := models.Step2Answers{}

	answers.HappyWithBody = parseYesNoField(errs, "happy_with_body", input.HappyWithBody)
	answers.WantsFastChange = parseYesNoField(errs, "wants_fast_change", input.WantsFastChange)
	answers.TiredOfMirror = parseYesNoField(errs, "tired_of_mirror", input.TiredOfMirror)

	return answers, errs
}

func ValidateStep3Input(input Step3Input) (models.Step3Answers, FieldErrors) {
	errs := FieldErrors{}
	answers := models.Step3Answers{}

	goal := normalizeChoice(input.Goal)
	if _, known := goalAdjustments[goal]; known {
		answers.Goal = goal
	} else if goal == "" {
		errs.add("goal", ValidationRequired)
	} else {
		errs.add("goal", ValidationGoal)
	}

	meals, err := strconv.Atoi(strings.TrimSpace(input.MealsPerDay))
	switch {
	case strings.TrimSpace(input.MealsPerDay) == "":
		errs.add("meals_per_day", ValidationRequired)
	case err != nil || meals < MinMealsPerDay || meals > MaxMealsPerDay:
		errs.add("meals_per_day", ValidationMeals)
	default:
		answers.MealsPerDay = meals
	}

	switch sex := normalizeChoice(input.Sex); sex {
	case models.SexMale, models.SexFemale:
		answers.Sex = sex
	case "":
		errs.add("sex", ValidationRequired)
	default:
		errs.add("sex", ValidationSex)
	}

	height, ok := parseDecimal(input.HeightCM)
	switch {
	case strings.TrimSpace(input.HeightCM) == "":
		errs.add("height_cm", ValidationRequired)
	case !ok || height < MinHeightCM || height > MaxHeightCM:
		errs.add("height_cm", ValidationHeight)
	default:
		answers.HeightCM = roundHalfEven(height)
	}

	activity := normalizeChoice(input.ActivityLevel)
	if _, known := activityFactors[activity]; known {
		answers.ActivityLevel = activity
	} else if activity == "" {
		errs.add("activity_level", ValidationRequired)
	} else {
		errs.add("activity_level", ValidationActivity)
	}

	return answers, errs
}

func ValidateStep4Input(input Step4Input) (models.Step4Answers, FieldErrors) {
	errs := FieldErrors{}
	answers := models.Step4Answers{
		AllergiesText: strings.TrimSpace(input.AllergiesText),
		AvoidFoods:    strings.TrimSpace(input.AvoidFoods),
	}

	if utf8.RuneCountInString(answers.AllergiesText) > MaxFreeTextLength {
		errs.add("allergies_text", ValidationTextTooLong)
	}
	if utf8.RuneCountInString(answers.AvoidFoods) > MaxFreeTextLength {
		errs.add("avoid_foods", ValidationTextTooLong)
	}

	answers.AllergyTags = NormalizeTags(input.AllergyTags)
	validateTags(errs, "allergy_tags", answers.AllergyTags)
	answers.RestrictionTags = NormalizeTags(input.RestrictionTags)
	validateTags(errs, "restriction_tags", answers.RestrictionTags)

	return answers, errs
}

func validateTags(errs FieldErrors, field string, tags []string) {
	if len(tags) > MaxTagsPerField {
		errs.add(field, ValidationTooManyTags)
		return
	}
	for _, tag := range tags {
		if utf8.RuneCountInString(tag) > MaxTagLength {
			errs.add(field, ValidationTextTooLong)
			return
		}
	}
}

func ValidateStep5Input(input Step5Input) (models.Step5Answers, FieldErrors) {
	errs := FieldErrors{}
	answers := models.Step5Answers{Notes: strings.TrimSpace(input.Notes)}
	if utf8.RuneCountInString(answers.Notes) > MaxNotesLength {
		errs.add("notes", ValidationTextTooLong)
	}
	return answers, errs
}

func NormalizeLeadEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return ""
	}
	address, err := mail.ParseAddress(email)
	if err != nil || address.Address != email {
		return ""
	}
	return email
}

// NormalizeTags splits comma separated values, lower-cases and trims each tag
// and drops blanks and duplicates while keeping first-seen order.
func NormalizeTags(values []string) []string {
	tags := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			tag := strings.ToLower(strings.TrimSpace(part))
			if tag == "" {
				continue
			}
			if _, exists := seen[tag]; exists {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	return tags
}

func normalizePersonName(raw string) (string, bool) {
	words := strings.Fields(raw)
	if len(words) < 2 {
		return "", false
	}
	for _, word := range words {
		if utf8.RuneCountInString(word) < 2 {
			return "", false
		}
	}
	return strings.Join(words, " "), true
}

func digitsOnly(raw string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
}

// parseDecimal accepts both "72.5" and "72,5".
func parseDecimal(raw string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

func parseYesNoField(errs FieldErrors, field string, raw string) bool {
	switch normalizeChoice(raw) {
	case "sim", "yes", "true", "1", "on":
		return true
	case "nao", "não", "no", "false", "0", "off":
		return false
	case "":
		errs.add(field, ValidationRequired)
	default:
		errs.add(field, ValidationYesNo)
	}
	return false
}

func normalizeChoice(raw string) string {
	return strings.ToLower(strings.TrimFunc(raw, unicode.IsSpace))
}
