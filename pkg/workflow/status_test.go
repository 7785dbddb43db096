package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmo-lab/projecthub/dao/model"
	"github.com/pmo-lab/projecthub/pkg/apperror"
)

var allStatuses = []model.ProjectStatus{
	model.StatusInitiation, model.StatusPlanning, model.StatusExecution,
	model.StatusMonitoring, model.StatusClosure, model.StatusCompleted,
	model.StatusCancelled,
}

func TestTransitionTable(t *testing.T) {
	legal := map[[2]model.ProjectStatus]bool{
		{model.StatusInitiation, model.StatusPlanning}:  true,
		{model.StatusInitiation, model.StatusCancelled}: true,
		{model.StatusPlanning, model.StatusExecution}:   true,
		{model.StatusPlanning, model.StatusInitiation}:  true,
		{model.StatusPlanning, model.StatusCancelled}:   true,
		{model.StatusExecution, model.StatusMonitoring}: true,
		{model.StatusExecution, model.StatusPlanning}:   true,
		{model.StatusExecution, model.StatusCancelled}:  true,
		{model.StatusMonitoring, model.StatusClosure}:   true,
		{model.StatusMonitoring, model.StatusExecution}: true,
		{model.StatusMonitoring, model.StatusCancelled}: true,
		{model.StatusClosure, model.StatusCompleted}:    true,
		{model.StatusClosure, model.StatusMonitoring}:   true,
		{model.StatusClosure, model.StatusCancelled}:    true,
		{model.StatusCancelled, model.StatusInitiation}: true,
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			got, err := Transition(from, to)
			if legal[[2]model.ProjectStatus{from, to}] {
				assert.NoError(t, err, "%s -> %s should be legal", from, to)
				assert.Equal(t, to, got)
			} else {
				assert.Error(t, err, "%s -> %s should be rejected", from, to)
				assert.Equal(t, from, got, "rejected transition must keep the current status")
			}
		}
	}
}

func TestCompletedIsTerminal(t *testing.T) {
	assert.Empty(t, AllowedNext(model.StatusCompleted))
	for _, to := range allStatuses {
		_, err := Transition(model.StatusCompleted, to)
		assert.Error(t, err)
	}
}

func TestInvalidTransitionCarriesAllowedSet(t *testing.T) {
	_, err := Transition(model.StatusPlanning, model.StatusClosure)
	require.Error(t, err)

	var ite *apperror.InvalidTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Equal(t, model.StatusPlanning, ite.Current)
	assert.Equal(t, model.StatusClosure, ite.Requested)
	assert.ElementsMatch(t,
		[]model.ProjectStatus{model.StatusExecution, model.StatusInitiation, model.StatusCancelled},
		ite.Allowed)
	assert.Contains(t, err.Error(), "cannot transition from planning to closure")
}

func TestApplyResult(t *testing.T) {
	got, err := ApplyResult(1, model.StatusExecution)
	require.NoError(t, err)
	assert.Equal(t, model.StatusExecution, got)

	_, err = ApplyResult(0, model.StatusExecution)
	require.Error(t, err)
	var conflict *apperror.ConflictError
	assert.ErrorAs(t, err, &conflict)
}
