package handler

import (
	"encoding/json"
	"fmt"

	"github.com/pmo-lab/projecthub/dao/model"
	"github.com/pmo-lab/projecthub/pkg/apperror"
)

// applyPlan is the materialization of a template against one project,
// computed before anything is written. Charter and business case are
// singletons and upsert; stakeholder entries always insert, so applying the
// same register template twice duplicates its rows. Risk log and feasibility
// payloads are returned to the caller for review instead of being persisted.
type applyPlan struct {
	Charter      *model.Charter
	BusinessCase *model.BusinessCase
	Stakeholders []model.StakeholderEntry
	Prepared     json.RawMessage
}

type templateStakeholder struct {
	Name                    string   `json:"name"`
	Title                   string   `json:"title"`
	Organization            string   `json:"organization"`
	ContactEmail            string   `json:"contactEmail"`
	ContactPhone            string   `json:"contactPhone"`
	RoleInProject           string   `json:"roleInProject"`
	InfluenceLevel          string   `json:"influenceLevel"`
	InterestLevel           string   `json:"interestLevel"`
	CommunicationPreference string   `json:"communicationPreference"`
	Expectations            []string `json:"expectations"`
	Concerns                []string `json:"concerns"`
}

// buildApplyPlan interprets the template payload for the target project.
// It is a pure function of its inputs; the store decides separately whether
// the upserts create or replace.
func buildApplyPlan(tpl *model.Template, projectID, userID uint) (*applyPlan, error) {
	plan := &applyPlan{}
	switch tpl.Type {
	case model.TemplateProjectCharter:
		var req CharterReq
		if err := json.Unmarshal(tpl.Data, &req); err != nil {
			return nil, fmt.Errorf("%w: charter template payload: %v", apperror.ErrValidation, err)
		}
		charter := &model.Charter{
			ProjectID: projectID,
			Status:    model.DocumentDraft,
			CreatedBy: userID,
		}
		req.apply(charter)
		plan.Charter = charter

	case model.TemplateBusinessCase:
		var req BusinessCaseReq
		if err := json.Unmarshal(tpl.Data, &req); err != nil {
			return nil, fmt.Errorf("%w: business case template payload: %v", apperror.ErrValidation, err)
		}
		bc := &model.BusinessCase{
			ProjectID: projectID,
			Status:    model.DocumentDraft,
			CreatedBy: userID,
		}
		req.apply(bc)
		plan.BusinessCase = bc

	case model.TemplateStakeholderRegister:
		var entries []templateStakeholder
		if err := json.Unmarshal(tpl.Data, &entries); err != nil {
			return nil, fmt.Errorf("%w: stakeholder template payload: %v", apperror.ErrValidation, err)
		}
		for _, e := range entries {
			entry := model.StakeholderEntry{
				ProjectID:               projectID,
				InfluenceLevel:          "medium",
				InterestLevel:           "medium",
				CommunicationPreference: "email",
				CreatedBy:               userID,
			}
			req := StakeholderReq(e)
			req.apply(&entry)
			plan.Stakeholders = append(plan.Stakeholders, entry)
		}

	case model.TemplateRiskLog, model.TemplateFeasibilityStudy:
		// Advisory payloads. The caller reviews and submits through the
		// regular endpoints.
		plan.Prepared = json.RawMessage(tpl.Data)

	default:
		return nil, fmt.Errorf("%w: unknown template type %q", apperror.ErrValidation, tpl.Type)
	}
	return plan, nil
}

// writeKind maps a template type onto the document gate it materializes.
func writeKind(t model.TemplateType) model.DocKind {
	switch t {
	case model.TemplateProjectCharter:
		return model.KindCharter
	case model.TemplateBusinessCase:
		return model.KindBusinessCase
	case model.TemplateStakeholderRegister:
		return model.KindStakeholder
	case model.TemplateRiskLog:
		return model.KindRisk
	case model.TemplateFeasibilityStudy:
		return model.KindFeasibilityStudy
	default:
		return model.KindTemplate
	}
}
