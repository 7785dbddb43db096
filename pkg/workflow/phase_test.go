package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pmo-lab/projecthub/dao/model"
)

func TestCandidatesForPhase(t *testing.T) {
	tests := []struct {
		target model.ProjectStatus
		want   []model.ProjectStatus
	}{
		{model.StatusInitiation, []model.ProjectStatus{model.StatusCancelled}},
		{model.StatusPlanning, []model.ProjectStatus{model.StatusInitiation}},
		{model.StatusExecution, []model.ProjectStatus{model.StatusPlanning, model.StatusInitiation}},
		{model.StatusMonitoring, []model.ProjectStatus{model.StatusExecution, model.StatusPlanning}},
		{model.StatusClosure, []model.ProjectStatus{model.StatusMonitoring, model.StatusExecution}},
		{model.StatusCompleted, []model.ProjectStatus{model.StatusClosure, model.StatusMonitoring}},
	}
	for _, tt := range tests {
		assert.ElementsMatch(t, tt.want, CandidatesForPhase(tt.target), "phase %s", tt.target)
	}

	assert.ElementsMatch(t, []model.ProjectStatus{
		model.StatusInitiation, model.StatusPlanning, model.StatusExecution,
		model.StatusMonitoring, model.StatusClosure,
	}, CandidatesForPhase(model.StatusCancelled))
}

// Candidacy is wider than transition legality: a project in execution is
// listed for closure even though it cannot transition there directly.
func TestCandidacyIsLooserThanTransitions(t *testing.T) {
	assert.Contains(t, CandidatesForPhase(model.StatusClosure), model.StatusExecution)

	_, err := Transition(model.StatusExecution, model.StatusClosure)
	assert.Error(t, err)
}
