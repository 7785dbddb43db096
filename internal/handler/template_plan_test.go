package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/pmo-lab/projecthub/dao/model"
	"github.com/pmo-lab/projecthub/pkg/apperror"
)

func TestBuildApplyPlanCharter(t *testing.T) {
	tpl := &model.Template{
		Type: model.TemplateProjectCharter,
		Data: datatypes.JSON(`{
			"purpose": "Standardize onboarding",
			"objectives": ["hire faster", "reduce churn"],
			"estimatedBudget": 50000
		}`),
	}

	plan, err := buildApplyPlan(tpl, 10, 7)
	require.NoError(t, err)
	require.NotNil(t, plan.Charter)
	assert.Nil(t, plan.BusinessCase)
	assert.Empty(t, plan.Stakeholders)

	assert.Equal(t, uint(10), plan.Charter.ProjectID)
	assert.Equal(t, uint(7), plan.Charter.CreatedBy)
	assert.Equal(t, "Standardize onboarding", plan.Charter.Purpose)
	assert.Equal(t, model.DocumentDraft, plan.Charter.Status)
	assert.Len(t, plan.Charter.Objectives, 2)
	assert.InDelta(t, 50000, plan.Charter.EstimatedBudget, 0.01)
}

func TestBuildApplyPlanStakeholderRegister(t *testing.T) {
	tpl := &model.Template{
		Type: model.TemplateStakeholderRegister,
		Data: datatypes.JSON(`[
			{"name": "Ada", "contactEmail": "ada@example.com", "influenceLevel": "high"},
			{"name": "Lin", "contactEmail": "lin@example.com"}
		]`),
	}

	plan, err := buildApplyPlan(tpl, 3, 1)
	require.NoError(t, err)
	require.Len(t, plan.Stakeholders, 2)

	assert.Equal(t, "Ada", plan.Stakeholders[0].Name)
	assert.Equal(t, "high", plan.Stakeholders[0].InfluenceLevel)
	assert.Equal(t, "medium", plan.Stakeholders[1].InfluenceLevel, "missing level defaults")
	for _, e := range plan.Stakeholders {
		assert.Equal(t, uint(3), e.ProjectID)
		assert.Equal(t, uint(1), e.CreatedBy)
	}

	// Applying the same template again builds the same inserts; the register
	// duplicates rather than deduplicates.
	again, err := buildApplyPlan(tpl, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, plan.Stakeholders, again.Stakeholders)
}

func TestBuildApplyPlanAdvisoryTypes(t *testing.T) {
	for _, typ := range []model.TemplateType{model.TemplateRiskLog, model.TemplateFeasibilityStudy} {
		tpl := &model.Template{Type: typ, Data: datatypes.JSON(`{"rows": []}`)}
		plan, err := buildApplyPlan(tpl, 1, 1)
		require.NoError(t, err)
		assert.Nil(t, plan.Charter)
		assert.Nil(t, plan.BusinessCase)
		assert.Empty(t, plan.Stakeholders)
		assert.JSONEq(t, `{"rows": []}`, string(plan.Prepared))
	}
}

func TestBuildApplyPlanRejectsBadPayload(t *testing.T) {
	tpl := &model.Template{
		Type: model.TemplateProjectCharter,
		Data: datatypes.JSON(`"not an object"`),
	}
	_, err := buildApplyPlan(tpl, 1, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = buildApplyPlan(&model.Template{Type: "bogus", Data: datatypes.JSON(`{}`)}, 1, 1)
	assert.Error(t, err)
}

func TestWriteKind(t *testing.T) {
	assert.Equal(t, model.KindCharter, writeKind(model.TemplateProjectCharter))
	assert.Equal(t, model.KindBusinessCase, writeKind(model.TemplateBusinessCase))
	assert.Equal(t, model.KindStakeholder, writeKind(model.TemplateStakeholderRegister))
	assert.Equal(t, model.KindRisk, writeKind(model.TemplateRiskLog))
	assert.Equal(t, model.KindFeasibilityStudy, writeKind(model.TemplateFeasibilityStudy))
}
