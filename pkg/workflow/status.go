// Package workflow owns the project lifecycle state machine. Transition
// legality (this file) and phase candidacy (phase.go) are two distinct
// relations: the first gates writes, the second only lists projects eligible
// to reach a future phase. Keep them separate.
package workflow

import (
	"github.com/pmo-lab/projecthub/dao/model"
	"github.com/pmo-lab/projecthub/pkg/apperror"
)

// transitions is the strict table of legal movements. completed is terminal;
// every non-terminal state may be cancelled; cancelled restarts at initiation.
var transitions = map[model.ProjectStatus][]model.ProjectStatus{
	model.StatusInitiation: {model.StatusPlanning, model.StatusCancelled},
	model.StatusPlanning:   {model.StatusExecution, model.StatusInitiation, model.StatusCancelled},
	model.StatusExecution:  {model.StatusMonitoring, model.StatusPlanning, model.StatusCancelled},
	model.StatusMonitoring: {model.StatusClosure, model.StatusExecution, model.StatusCancelled},
	model.StatusClosure:    {model.StatusCompleted, model.StatusMonitoring, model.StatusCancelled},
	model.StatusCompleted:  {},
	model.StatusCancelled:  {model.StatusInitiation},
}

// AllowedNext returns the legal target statuses from current. The returned
// slice must not be mutated.
func AllowedNext(current model.ProjectStatus) []model.ProjectStatus {
	return transitions[current]
}

// Transition validates a requested status change. On success it returns the
// new status; otherwise an InvalidTransitionError carrying the current status
// and the full allowed set.
func Transition(current, requested model.ProjectStatus) (model.ProjectStatus, error) {
	for _, next := range transitions[current] {
		if next == requested {
			return requested, nil
		}
	}
	return current, &apperror.InvalidTransitionError{
		Current:   current,
		Requested: requested,
		Allowed:   transitions[current],
	}
}

// ApplyResult interprets the outcome of the conditional status update. The
// write is issued as "SET status = target WHERE id = ? AND status = current";
// zero affected rows means a concurrent transition won the race and the
// caller must re-read before retrying.
func ApplyResult(rowsAffected int64, target model.ProjectStatus) (model.ProjectStatus, error) {
	if rowsAffected == 0 {
		return "", apperror.Conflict("project status")
	}
	return target, nil
}
