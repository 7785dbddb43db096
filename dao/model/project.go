package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Project is the root entity every other PMO document hangs off.
// ProjectManagerID and CreatedBy are set at creation and never null.
type Project struct {
	gorm.Model
	Ref         string        `gorm:"uniqueIndex;type:varchar(36);not null;comment:external reference (uuid)"`
	Name        string        `gorm:"type:varchar(128);not null"`
	Description string        `gorm:"type:text"`
	Status      ProjectStatus `gorm:"type:varchar(32);not null;default:initiation"`
	Priority    Priority      `gorm:"type:varchar(32);not null;default:medium"`
	StartDate   *time.Time
	EndDate     *time.Time
	Budget      float64 `gorm:"not null;default:0"`

	// Stakeholders holds user IDs granted read visibility; membership is
	// checked by pkg/authz, not by the database.
	Stakeholders datatypes.JSONSlice[uint]   `gorm:"comment:stakeholder user ids"`
	Tags         datatypes.JSONSlice[string] `gorm:"comment:free-form tags"`

	ProjectManagerID     uint    `gorm:"index;not null"`
	CreatedBy            uint    `gorm:"not null"`
	CompletionPercentage float64 `gorm:"not null;default:0"`

	// Setup-wizard metadata. Optional and purely informational.
	ProjectType      *string `gorm:"type:varchar(32)"`
	Industry         *string `gorm:"type:varchar(64)"`
	ComplexityLevel  *string `gorm:"type:varchar(32)"`
	TeamSize         *int
	DurationEstimate *string `gorm:"type:varchar(64)"`
	BudgetRange      *string `gorm:"type:varchar(64)"`
	Methodology      *string `gorm:"type:varchar(32)"`
}
