package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Charter is the project charter, a singleton per project.
type Charter struct {
	gorm.Model
	ProjectID uint `gorm:"uniqueIndex;not null"`

	Purpose         string `gorm:"type:text;not null"`
	Description     string `gorm:"type:text"`
	Objectives      datatypes.JSONSlice[string]
	SuccessCriteria datatypes.JSONSlice[string]
	ScopeInclusions datatypes.JSONSlice[string]
	ScopeExclusions datatypes.JSONSlice[string]
	Assumptions     datatypes.JSONSlice[string]
	Constraints     datatypes.JSONSlice[string]

	EstimatedBudget   float64
	EstimatedTimeline string         `gorm:"type:varchar(128)"`
	KeyMilestones     datatypes.JSON `gorm:"comment:list of {name, target_date, description}"`

	Status       DocumentStatus `gorm:"type:varchar(32);not null;default:draft"`
	ApprovedBy   *uint
	ApprovalDate *time.Time
	CreatedBy    uint `gorm:"not null"`
}

// BusinessCase justifies a project, a singleton per project.
type BusinessCase struct {
	gorm.Model
	ProjectID uint `gorm:"uniqueIndex;not null"`

	ProblemStatement string `gorm:"type:text;not null"`
	ProposedSolution string `gorm:"type:text;not null"`
	BusinessNeed     string `gorm:"type:text"`
	Recommendation   string `gorm:"type:text"`

	ExpectedBenefits       datatypes.JSONSlice[string]
	RiskAssessment         datatypes.JSONSlice[string]
	AlternativesConsidered datatypes.JSONSlice[string]
	CostBenefitAnalysis    datatypes.JSON

	ReturnOnInvestment string         `gorm:"type:varchar(256)"`
	Status             DocumentStatus `gorm:"type:varchar(32);not null;default:draft"`
	CreatedBy          uint           `gorm:"not null"`
}

// FeasibilityStudy captures the technical/economic/operational/schedule
// analysis. The structured sections stay as a JSON document; only the fields
// the backend acts on are first-class columns.
type FeasibilityStudy struct {
	gorm.Model
	ProjectID uint `gorm:"uniqueIndex;not null"`

	ExecutiveSummary string         `gorm:"type:text"`
	Analysis         datatypes.JSON `gorm:"comment:technical/economic/operational/schedule sections"`
	Rating           string         `gorm:"type:varchar(32);comment:overall rating (high, medium, low)"`
	Recommendation   string         `gorm:"type:text"`

	Status    DocumentStatus `gorm:"type:varchar(32);not null;default:draft"`
	CreatedBy uint           `gorm:"not null"`
}
