package alert

import (
	"context"

	"github.com/pmo-lab/projecthub/dao/model"
)

// Interface is the notification component. Scenarios covered so far:
//  1. Project status transitioned (notify the project manager)
//  2. Project past its end date and still active (cron scan)
//
// Senders must be safe for concurrent use.
type Interface interface {
	ProjectStatusAlert(ctx context.Context, project *model.Project, from, to model.ProjectStatus) error
	ProjectOverdueAlert(ctx context.Context, project *model.Project, manager *model.User) error
}
