package handler

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pmo-lab/projecthub/pkg/alert"
	"github.com/pmo-lab/projecthub/pkg/authz"
)

// Manager registers a group of routes in the public, protected and admin
// route trees.
type Manager interface {
	GetName() string
	RegisterPublic(group *gin.RouterGroup)
	RegisterProtected(group *gin.RouterGroup)
	RegisterAdmin(group *gin.RouterGroup)
}

// RegisterConfig carries the shared dependencies every manager may need.
type RegisterConfig struct {
	DB       *gorm.DB
	Resolver *authz.ParentResolver
	Alerter  alert.Interface
}

// Registers collects the manager constructors. Each handler file appends its
// own constructor from init().
var Registers []func(*RegisterConfig) Manager
