package model

import (
	"time"

	"gorm.io/gorm"
)

// Risk is a tracked risk entry. Score is derived from Probability and Impact
// on every write and is never trusted from caller input.
type Risk struct {
	gorm.Model
	ProjectID uint `gorm:"index;not null"`

	Title       string `gorm:"type:varchar(128);not null"`
	Description string `gorm:"type:text"`
	Category    string `gorm:"type:varchar(64);not null;comment:technical, schedule, budget, resource, ..."`

	Probability RiskLevel `gorm:"type:varchar(16);not null"`
	Impact      RiskLevel `gorm:"type:varchar(16);not null"`
	Score       int       `gorm:"not null;comment:ordinal(probability) * ordinal(impact)"`

	Status  RiskStatus `gorm:"type:varchar(32);not null;default:identified"`
	OwnerID *uint

	MitigationStrategy string `gorm:"type:text"`
	ContingencyPlan    string `gorm:"type:text"`
	TargetDate         *time.Time
	ActualDate         *time.Time

	CreatedBy uint `gorm:"not null"`
}
