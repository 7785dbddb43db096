package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WBSTask is a node in the work breakdown structure. Hierarchy is expressed
// through ParentID and the dotted WBSCode ("1.2.3").
type WBSTask struct {
	gorm.Model
	ProjectID uint `gorm:"index;not null"`

	Name        string `gorm:"type:varchar(128);not null"`
	Description string `gorm:"type:text"`
	ParentID    *uint  `gorm:"index"`
	Level       int    `gorm:"not null;default:1"`
	WBSCode     string `gorm:"type:varchar(32);not null"`

	Status     WBSTaskStatus `gorm:"type:varchar(32);not null;default:not_started"`
	AssignedTo *uint

	EstimatedHours float64
	ActualHours    float64
	StartDate      *time.Time
	EndDate        *time.Time

	Dependencies datatypes.JSONSlice[uint] `gorm:"comment:ids of tasks this task depends on"`
	Deliverables datatypes.JSONSlice[string]
	Notes        string `gorm:"type:text"`

	CompletionPercentage float64 `gorm:"not null;default:0"`
	CreatedBy            uint    `gorm:"not null"`
}

// BudgetItem is a single budget line for a project.
type BudgetItem struct {
	gorm.Model
	ProjectID uint `gorm:"index;not null"`

	Category    BudgetCategory `gorm:"type:varchar(32);not null"`
	ItemName    string         `gorm:"type:varchar(128);not null"`
	Description string         `gorm:"type:text"`

	EstimatedCost float64 `gorm:"not null"`
	ActualCost    float64
	Vendor        string `gorm:"type:varchar(128)"`
	PurchaseDate  *time.Time
	Notes         string `gorm:"type:text"`

	CreatedBy uint `gorm:"not null"`
}

// CommunicationPlan is a row of the communication matrix.
type CommunicationPlan struct {
	gorm.Model
	ProjectID uint `gorm:"index;not null"`

	StakeholderGroup  string        `gorm:"type:varchar(128);not null"`
	InformationType   string        `gorm:"type:varchar(128);not null"`
	Method            CommMethod    `gorm:"type:varchar(32);not null"`
	Frequency         CommFrequency `gorm:"type:varchar(32);not null"`
	ResponsiblePerson string        `gorm:"type:varchar(128);not null"`

	Audience     datatypes.JSONSlice[string]
	Purpose      string `gorm:"type:text"`
	Format       string `gorm:"type:varchar(64)"`
	DeliveryDate *time.Time

	CreatedBy uint `gorm:"not null"`
}

// QualityRequirement is a measurable quality target for a project.
type QualityRequirement struct {
	gorm.Model
	ProjectID uint `gorm:"index;not null"`

	Title              string `gorm:"type:varchar(128);not null"`
	Description        string `gorm:"type:text"`
	AcceptanceCriteria datatypes.JSONSlice[string]
	Metric             string `gorm:"type:varchar(128)"`
	TargetValue        string `gorm:"type:varchar(64)"`
	Status             string `gorm:"type:varchar(32);not null;default:open"`

	CreatedBy uint `gorm:"not null"`
}

// ProcurementItem is a planned purchase for a project.
type ProcurementItem struct {
	gorm.Model
	ProjectID uint `gorm:"index;not null"`

	ItemName    string `gorm:"type:varchar(128);not null"`
	Description string `gorm:"type:text"`
	Vendor      string `gorm:"type:varchar(128)"`
	Quantity    int    `gorm:"not null;default:1"`
	UnitCost    float64
	TotalCost   float64
	Status      string `gorm:"type:varchar(32);not null;default:planned"`
	NeededBy    *time.Time

	CreatedBy uint `gorm:"not null"`
}
