// Package authz implements the visibility policy: who may see, mutate or
// author which project records. All decisions are pure functions of the
// caller identity and the resource; nothing here touches the network.
package authz

import (
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/pmo-lab/projecthub/dao/model"
)

// Identity is the authenticated caller as decoded from the token.
type Identity struct {
	UserID uint
	Role   model.Role
}

// CanRead reports whether the caller may read the project or any of its
// sub-documents. Executives see everything; project managers see projects
// they manage, created or are stakeholder of; team members and stakeholders
// see projects they created or are stakeholder of.
func CanRead(id Identity, p *model.Project) bool {
	switch id.Role {
	case model.RoleExecutive:
		return true
	case model.RoleProjectManager:
		return p.ProjectManagerID == id.UserID ||
			p.CreatedBy == id.UserID ||
			lo.Contains(p.Stakeholders, id.UserID)
	case model.RoleTeamMember, model.RoleStakeholder:
		return p.CreatedBy == id.UserID ||
			lo.Contains(p.Stakeholders, id.UserID)
	default:
		return false
	}
}

// CanWrite reports whether the caller may update or delete the project.
// Executives write everywhere; a project manager writes only projects they
// are assigned to. Nobody else writes the project itself.
func CanWrite(id Identity, p *model.Project) bool {
	switch id.Role {
	case model.RoleExecutive:
		return true
	case model.RoleProjectManager:
		return p.ProjectManagerID == id.UserID
	case model.RoleTeamMember, model.RoleStakeholder:
		return false
	default:
		return false
	}
}

// CanManageDocument reports whether the caller's role allows creating or
// updating documents of the given kind. Charters, business cases, templates
// and feasibility studies are gated on PM/executive regardless of project
// relationship; the remaining kinds only require the parent project to exist
// and be readable.
func CanManageDocument(id Identity, kind model.DocKind) bool {
	switch kind {
	case model.KindCharter, model.KindBusinessCase, model.KindTemplate, model.KindFeasibilityStudy:
		return id.Role.IsManagerial()
	case model.KindStakeholder, model.KindWBSTask, model.KindRisk, model.KindBudgetItem,
		model.KindCommunicationPlan, model.KindQualityReq, model.KindProcurementItem,
		model.KindTimelineTask, model.KindMilestone:
		return true
	default:
		return false
	}
}

// Predicate is the compiled list filter for a caller. It both matches
// in-memory projects and compiles to a gorm scope, so list endpoints and the
// dashboard counters produce identical result sets.
type Predicate struct {
	All            bool
	UserID         uint
	IncludeManaged bool // project_manager_id counts as a visibility grant
}

// ListFilter returns the predicate enumerating exactly the projects the
// caller may read, per the same rules as CanRead.
func ListFilter(id Identity) Predicate {
	switch id.Role {
	case model.RoleExecutive:
		return Predicate{All: true}
	case model.RoleProjectManager:
		return Predicate{UserID: id.UserID, IncludeManaged: true}
	default:
		return Predicate{UserID: id.UserID}
	}
}

// Matches reports whether the predicate admits the project.
func (f Predicate) Matches(p *model.Project) bool {
	if f.All {
		return true
	}
	if f.IncludeManaged && p.ProjectManagerID == f.UserID {
		return true
	}
	return p.CreatedBy == f.UserID || lo.Contains(p.Stakeholders, f.UserID)
}

// Scope compiles the predicate to a gorm scope over the projects table.
func (f Predicate) Scope() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.All {
			return db
		}
		member := fmt.Sprintf("[%d]", f.UserID)
		if f.IncludeManaged {
			return db.Where(
				"project_manager_id = ? OR created_by = ? OR stakeholders @> ?::jsonb",
				f.UserID, f.UserID, member,
			)
		}
		return db.Where("created_by = ? OR stakeholders @> ?::jsonb", f.UserID, member)
	}
}

// ActiveScope keeps projects that still move: everything not completed and
// not cancelled.
func ActiveScope(db *gorm.DB) *gorm.DB {
	return db.Where("status NOT IN ?", []model.ProjectStatus{model.StatusCompleted, model.StatusCancelled})
}

// CompletedScope keeps completed projects only.
func CompletedScope(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", model.StatusCompleted)
}
