package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"k8s.io/klog/v2"

	"github.com/pmo-lab/projecthub/dao"
	"github.com/pmo-lab/projecthub/internal"
	"github.com/pmo-lab/projecthub/pkg/alert"
	"github.com/pmo-lab/projecthub/pkg/config"
	"github.com/pmo-lab/projecthub/pkg/cronjob"
	"github.com/pmo-lab/projecthub/pkg/metrics"
)

var (
	readHeaderTimeout = 10 * time.Second
	cancelTimeout     = 10 * time.Second
)

// @title						ProjectHub API
// @version						1.0.0
// @description					This is the API server for ProjectHub, the PMO back office for projects, planning documents and lifecycle tracking.
// @securityDefinitions.apikey	Bearer
// @in							header
// @name						Authorization
// @description					Login via /auth/login, then provide 'Bearer ${TOKEN}' to access protected routes
func main() {
	if config.IsDebugMode() {
		if err := godotenv.Load(".debug.env"); err != nil {
			klog.Warningf("Failed to load .debug.env: %s", err)
		}
	}
	backendConfig := config.GetConfig()

	db := dao.GetDB()
	if err := dao.AutoMigrate(db); err != nil {
		klog.Fatalf("Failed to migrate database: %s", err)
	}

	alerter := alert.GetAlertMgr(db)

	cronMgr := cronjob.NewManager(db, alerter)
	if err := cronMgr.Start(); err != nil {
		klog.Fatalf("Failed to start cron jobs: %s", err)
	}
	defer cronMgr.Stop()

	klog.Info("starting server")
	backend := internal.Register(db, alerter)

	// Serve the scrape endpoint on its own address so the metrics port can be
	// kept off the ingress.
	var metricsSrv *http.Server
	if backendConfig.MetricsAddr != "" {
		metricsSrv = metrics.NewServer(backendConfig.MetricsAddr)
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				klog.Fatalf("metrics listen: %s\n", err)
			}
		}()
	}

	// reference: https://gin-gonic.com/en/docs/examples/graceful-restart-or-stop
	srv := &http.Server{
		Addr:              backendConfig.ServerAddr,
		Handler:           backend.R,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			klog.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	klog.Info("Shutdown Gin Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), cancelTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		klog.Info("Gin Server Shutdown:", err)
	}
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(ctx); err != nil {
			klog.Info("Metrics Server Shutdown:", err)
		}
	}
	klog.Info("Gin Server exiting")
}
