package models

import "time"

// User is the finalized document written once per completed wizard run.
type User struct {
	ID       uint    `gorm:"primaryKey"`
	Email    string  `gorm:"not null;index"`
	Name     string  `gorm:"not null"`
	Phone    string  `gorm:"not null"`
	Age      int     `gorm:"not null"`
	WeightKG float64 `gorm:"column:weight_kg;not null"`

	HappyWithBody   bool `gorm:"not null;default:false"`
	WantsFastChange bool `gorm:"not null;default:false"`
	TiredOfMirror   bool `gorm:"not null;default:false"`

	Goal          string `gorm:"not null"`
	MealsPerDay   int    `gorm:"not null"`
	Sex           string `gorm:"not null"`
	HeightCM      int    `gorm:"column:height_cm;not null"`
	ActivityLevel string `gorm:"not null"`

	Macros MacroSummary `gorm:"serializer:json;not null"`

	AllergiesText   string
	AllergyTags     []string `gorm:"serializer:json;not null"`
	AvoidFoods      string
	RestrictionTags []string `gorm:"serializer:json;not null"`

	Notes string

	CreatedAt time.Time `gorm:"not null"`
}
