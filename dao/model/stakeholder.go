package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StakeholderEntry is a row in a project's stakeholder register. These are
// external people and need not correspond to platform users; the visibility
// grant list lives on Project.Stakeholders instead.
type StakeholderEntry struct {
	gorm.Model
	ProjectID uint `gorm:"index;not null"`

	Name          string `gorm:"type:varchar(128);not null"`
	Title         string `gorm:"type:varchar(128)"`
	Organization  string `gorm:"type:varchar(128)"`
	ContactEmail  string `gorm:"type:varchar(128);not null"`
	ContactPhone  string `gorm:"type:varchar(32)"`
	RoleInProject string `gorm:"type:varchar(128)"`

	InfluenceLevel          string `gorm:"type:varchar(16);not null;default:medium"`
	InterestLevel           string `gorm:"type:varchar(16);not null;default:medium"`
	CommunicationPreference string `gorm:"type:varchar(16);not null;default:email"`

	Expectations datatypes.JSONSlice[string]
	Concerns     datatypes.JSONSlice[string]

	CreatedBy uint `gorm:"not null"`
}
