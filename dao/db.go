package dao

import (
	"fmt"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"github.com/pmo-lab/projecthub/dao/model"
	"github.com/pmo-lab/projecthub/pkg/config"
	"github.com/pmo-lab/projecthub/pkg/logutils"
)

var (
	once     sync.Once
	instance *gorm.DB
)

// GetDB returns the singleton instance of the database connection.
func GetDB() *gorm.DB {
	once.Do(func() {
		dbConfig := config.GetConfig()

		dsn := postgresDSN(
			dbConfig.Postgres.Host, dbConfig.Postgres.Port,
			dbConfig.Postgres.DBName, dbConfig.Postgres.User, dbConfig.Postgres.Password,
			dbConfig.Postgres.SSLMode, dbConfig.Postgres.TimeZone,
		)
		var err error
		instance, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			panic(err)
		}

		// Route reads to the replica when one is configured.
		if dbConfig.Postgres.ReplicaHost != "" {
			replicaDSN := postgresDSN(
				dbConfig.Postgres.ReplicaHost, dbConfig.Postgres.Port,
				dbConfig.Postgres.DBName, dbConfig.Postgres.User, dbConfig.Postgres.Password,
				dbConfig.Postgres.SSLMode, dbConfig.Postgres.TimeZone,
			)
			err = instance.Use(dbresolver.Register(dbresolver.Config{
				Replicas: []gorm.Dialector{postgres.Open(replicaDSN)},
			}))
			if err != nil {
				panic(err)
			}
		}

		maxIdleConns := 5
		maxOpenConns := 10
		sqlDB, err := instance.DB()
		if err != nil {
			panic(err)
		}
		sqlDB.SetMaxIdleConns(maxIdleConns)
		sqlDB.SetMaxOpenConns(maxOpenConns)
		sqlDB.SetConnMaxLifetime(time.Hour)

		logutils.Log.Info("Postgres init success!")
	})
	return instance
}

func postgresDSN(host, port, dbName, user, password, sslMode, timeZone string) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		host, user, password, dbName, port, sslMode, timeZone)
}

// AutoMigrate creates or updates the schema for all PMO entities.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.Charter{},
		&model.BusinessCase{},
		&model.FeasibilityStudy{},
		&model.StakeholderEntry{},
		&model.WBSTask{},
		&model.Risk{},
		&model.BudgetItem{},
		&model.CommunicationPlan{},
		&model.QualityRequirement{},
		&model.ProcurementItem{},
		&model.TimelineTask{},
		&model.Milestone{},
		&model.Template{},
	)
}
