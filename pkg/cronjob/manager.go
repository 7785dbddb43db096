// Package cronjob runs the periodic maintenance sweeps: the orphan document
// audit and the overdue project scan.
package cronjob

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
	"k8s.io/klog/v2"

	"github.com/pmo-lab/projecthub/pkg/alert"
	"github.com/pmo-lab/projecthub/pkg/config"
)

type Manager struct {
	db      *gorm.DB
	alerter alert.Interface
	cron    *cron.Cron
}

func NewManager(db *gorm.DB, alerter alert.Interface) *Manager {
	return &Manager{
		db:      db,
		alerter: alerter,
		cron:    cron.New(cron.WithLocation(time.Local)),
	}
}

// Start schedules the sweeps from the configured specs and launches the
// scheduler. An empty spec disables the corresponding sweep.
func (m *Manager) Start() error {
	conf := config.GetConfig()

	if spec := conf.Cron.OrphanAuditSpec; spec != "" {
		if _, err := m.cron.AddFunc(spec, func() {
			if err := m.AuditOrphans(context.Background()); err != nil {
				klog.Errorf("orphan audit sweep: %v", err)
			}
		}); err != nil {
			return err
		}
		klog.Infof("Scheduled orphan audit: %s", spec)
	}

	if spec := conf.Cron.OverdueProjectSpec; spec != "" {
		if _, err := m.cron.AddFunc(spec, func() {
			if err := m.ScanOverdue(context.Background()); err != nil {
				klog.Errorf("overdue project scan: %v", err)
			}
		}); err != nil {
			return err
		}
		klog.Infof("Scheduled overdue project scan: %s", spec)
	}

	m.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for running sweeps to finish.
func (m *Manager) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
}
