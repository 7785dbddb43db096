package alert

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"
	"k8s.io/klog/v2"

	"github.com/pmo-lab/projecthub/dao/model"
	"github.com/pmo-lab/projecthub/pkg/config"
)

type alertMgr struct {
	db      *gorm.DB
	handler handlerInterface
}

// handlerInterface is the transport behind the alert manager. SMTP today;
// chat webhooks can slot in later without touching callers.
type handlerInterface interface {
	SendMessageTo(ctx context.Context, receiver *model.User, subject, body string) error
}

var (
	once    sync.Once
	alerter Interface
)

// GetAlertMgr returns the process-wide alert manager. When SMTP is not
// configured the manager degrades to a no-op that only logs.
func GetAlertMgr(db *gorm.DB) Interface {
	once.Do(func() {
		smtpConfig := config.GetConfig().SMTP
		if smtpConfig.Host == "" {
			klog.Info("smtp not configured, alerts disabled")
			alerter = &alertMgr{db: db, handler: &nopSender{}}
			return
		}
		alerter = &alertMgr{db: db, handler: newSMTPSender()}
	})
	return alerter
}

func (a *alertMgr) ProjectStatusAlert(ctx context.Context, project *model.Project, from, to model.ProjectStatus) error {
	var manager model.User
	if err := a.db.WithContext(ctx).First(&manager, project.ProjectManagerID).Error; err != nil {
		return err
	}

	subject := fmt.Sprintf("Project %q moved to %s", project.Name, to)
	body := fmt.Sprintf("Hi %s,\n\nproject %q transitioned from %s to %s.\n",
		manager.FullName, project.Name, from, to)
	return a.handler.SendMessageTo(ctx, &manager, subject, body)
}

func (a *alertMgr) ProjectOverdueAlert(ctx context.Context, project *model.Project, manager *model.User) error {
	subject := fmt.Sprintf("Project %q is past its end date", project.Name)
	body := fmt.Sprintf("Hi %s,\n\nproject %q is still %s but its end date has passed. Please update the schedule or close it out.\n",
		manager.FullName, project.Name, project.Status)
	return a.handler.SendMessageTo(ctx, manager, subject, body)
}

type nopSender struct{}

func (n *nopSender) SendMessageTo(_ context.Context, receiver *model.User, subject, _ string) error {
	klog.V(2).Infof("alert suppressed (smtp disabled): to=%s subject=%q", receiver.Email, subject)
	return nil
}
