package workflow

import (
	"github.com/pmo-lab/projecthub/dao/model"
)

// arrivals lists, per target phase, the statuses a project may currently be
// in to count as a candidate for that phase. This relation is deliberately
// looser than the strict transition table (closure lists projects in
// monitoring or execution, while only monitoring may actually transition to
// closure). It is advisory and never gates a write.
var arrivals = map[model.ProjectStatus][]model.ProjectStatus{
	model.StatusInitiation: {model.StatusCancelled},
	model.StatusPlanning:   {model.StatusInitiation},
	model.StatusExecution:  {model.StatusPlanning, model.StatusInitiation},
	model.StatusMonitoring: {model.StatusExecution, model.StatusPlanning},
	model.StatusClosure:    {model.StatusMonitoring, model.StatusExecution},
	model.StatusCompleted:  {model.StatusClosure, model.StatusMonitoring},
	model.StatusCancelled: {
		model.StatusInitiation, model.StatusPlanning, model.StatusExecution,
		model.StatusMonitoring, model.StatusClosure,
	},
}

// CandidatesForPhase returns the statuses from which a project is listed as
// eligible to reach target. The returned slice must not be mutated.
func CandidatesForPhase(target model.ProjectStatus) []model.ProjectStatus {
	return arrivals[target]
}
