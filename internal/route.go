package internal

import (
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/pmo-lab/projecthub/internal/handler"
	"github.com/pmo-lab/projecthub/internal/middleware"
	"github.com/pmo-lab/projecthub/pkg/alert"
	"github.com/pmo-lab/projecthub/pkg/authz"
	"github.com/pmo-lab/projecthub/pkg/constants"
)

type Backend struct {
	R *gin.Engine
}

// Register builds the gin engine and mounts every manager under the public,
// protected and admin trees.
func Register(db *gorm.DB, alerter alert.Interface) *Backend {
	s := new(Backend)
	s.R = gin.Default()

	// Kubernetes health check
	s.R.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "ok",
		})
	})
	s.R.GET(constants.MetricsPath, gin.WrapH(promhttp.Handler()))

	s.registerService(db, alerter)
	return s
}

func (b *Backend) registerService(db *gorm.DB, alerter alert.Interface) {
	// Enable CORS for http://localhost:XXXX in debug mode
	if gin.Mode() == gin.DebugMode {
		fe := os.Getenv("PROJECTHUB_FE_PORT")
		if fe != "" {
			url := "http://localhost:" + fe
			corsConf := cors.DefaultConfig()
			corsConf.AllowOrigins = []string{url}
			corsConf.AllowHeaders = append(corsConf.AllowHeaders, "Authorization")
			b.R.Use(cors.New(corsConf))
		}
	}

	conf := &handler.RegisterConfig{
		DB:       db,
		Resolver: authz.NewParentResolver(db),
		Alerter:  alerter,
	}
	managers := registerManagers(conf)

	publicRouter := b.R.Group(constants.APIPrefix)

	protectedRouter := b.R.Group(constants.APIPrefix)
	protectedRouter.Use(middleware.AuthProtected(db))

	adminRouter := b.R.Group(constants.APIPrefix + "/admin")
	adminRouter.Use(middleware.AuthProtected(db), middleware.AuthAdmin())

	for _, mgr := range managers {
		mgr.RegisterPublic(publicRouter.Group(mgr.GetName()))
		mgr.RegisterProtected(protectedRouter.Group(mgr.GetName()))
		mgr.RegisterAdmin(adminRouter.Group(mgr.GetName()))
	}
}
