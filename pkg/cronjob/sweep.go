package cronjob

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"k8s.io/klog/v2"

	"github.com/pmo-lab/projecthub/dao/model"
	"github.com/pmo-lab/projecthub/pkg/authz"
	"github.com/pmo-lab/projecthub/pkg/metrics"
)

// orphanTables lists every project-scoped table the audit checks. Deleting a
// project leaves its sub-documents in place, so the sweep exists to make the
// leftovers visible rather than to clean them up.
var orphanTables = []string{
	"charters",
	"business_cases",
	"feasibility_studies",
	"stakeholder_entries",
	"wbs_tasks",
	"risks",
	"budget_items",
	"communication_plans",
	"quality_requirements",
	"procurement_items",
	"timeline_tasks",
	"milestones",
}

// AuditOrphans counts, per table, the rows whose parent project is gone and
// publishes the counts as gauges.
func (m *Manager) AuditOrphans(ctx context.Context) error {
	for _, table := range orphanTables {
		var count int64
		err := m.db.WithContext(ctx).Table(table).
			Where("deleted_at IS NULL").
			Where("project_id NOT IN (?)",
				m.db.Model(&model.Project{}).Select("id")).
			Count(&count).Error
		if err != nil {
			return err
		}
		metrics.OrphanDocuments.WithLabelValues(table).Set(float64(count))
		if count > 0 {
			klog.Warningf("Orphan audit: %d rows in %s without a parent project", count, table)
		}
	}
	return nil
}

// ScanOverdue finds active projects past their end date and notifies each
// project manager. Alert failures are logged and do not stop the scan.
func (m *Manager) ScanOverdue(ctx context.Context) error {
	var projects []model.Project
	err := m.db.WithContext(ctx).
		Scopes(authz.ActiveScope).
		Where("end_date IS NOT NULL AND end_date < ?", time.Now()).
		Find(&projects).Error
	if err != nil {
		return err
	}

	for i := range projects {
		project := &projects[i]
		var manager model.User
		if err := m.db.WithContext(ctx).First(&manager, project.ProjectManagerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				klog.Warningf("Overdue scan: project %d has no manager user %d",
					project.ID, project.ProjectManagerID)
				continue
			}
			return err
		}
		if err := m.alerter.ProjectOverdueAlert(ctx, project, &manager); err != nil {
			klog.Errorf("Overdue alert for project %d: %v", project.ID, err)
		}
	}
	klog.Infof("Overdue project scan finished: %d projects past end date", len(projects))
	return nil
}
