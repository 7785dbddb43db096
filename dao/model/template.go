package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Template is a reusable payload that materializes project documents when
// applied. Templates are shared read objects; UsageCount is the only field
// mutated after creation and must be incremented atomically in the store.
type Template struct {
	gorm.Model
	Name        string       `gorm:"uniqueIndex;type:varchar(128);not null"`
	Description string       `gorm:"type:text"`
	Type        TemplateType `gorm:"type:varchar(32);not null;index"`

	Industry    string `gorm:"type:varchar(64)"`
	ProjectType string `gorm:"type:varchar(32)"`

	Data      datatypes.JSON `gorm:"comment:type-specific payload"`
	IsDefault bool           `gorm:"not null;default:false"`

	UsageCount int64 `gorm:"not null;default:0"`
	CreatedBy  uint  `gorm:"not null"`
}
