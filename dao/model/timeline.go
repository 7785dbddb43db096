package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TimelineTask is a scheduled activity on the project timeline.
type TimelineTask struct {
	gorm.Model
	ProjectID uint `gorm:"index;not null"`

	Name      string    `gorm:"type:varchar(128);not null"`
	StartDate time.Time `gorm:"not null"`
	EndDate   time.Time `gorm:"not null"`
	Progress  float64   `gorm:"not null;default:0"`

	DependsOn datatypes.JSONSlice[uint] `gorm:"comment:ids of timeline tasks this task follows"`

	CreatedBy uint `gorm:"not null"`
}

// Milestone marks a named date on the project timeline.
type Milestone struct {
	gorm.Model
	ProjectID uint `gorm:"index;not null"`

	Name         string    `gorm:"type:varchar(128);not null"`
	Description  string    `gorm:"type:text"`
	TargetDate   time.Time `gorm:"not null"`
	Achieved     bool      `gorm:"not null;default:false"`
	AchievedDate *time.Time

	CreatedBy uint `gorm:"not null"`
}
