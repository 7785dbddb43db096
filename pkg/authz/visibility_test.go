package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"

	"github.com/pmo-lab/projecthub/dao/model"
)

// The fixture project is managed by user 1, created by user 2, with user 3
// on the stakeholder grant list. User 4 has no relationship to it.
func fixtureProject() *model.Project {
	return &model.Project{
		Name:             "erp-rollout",
		Status:           model.StatusExecution,
		ProjectManagerID: 1,
		CreatedBy:        2,
		Stakeholders:     datatypes.NewJSONSlice([]uint{3}),
	}
}

func TestCanRead(t *testing.T) {
	p := fixtureProject()
	tests := []struct {
		name string
		id   Identity
		want bool
	}{
		{"executive sees everything", Identity{UserID: 99, Role: model.RoleExecutive}, true},
		{"assigned manager", Identity{UserID: 1, Role: model.RoleProjectManager}, true},
		{"unrelated manager", Identity{UserID: 42, Role: model.RoleProjectManager}, false},
		{"creator team member", Identity{UserID: 2, Role: model.RoleTeamMember}, true},
		{"granted stakeholder", Identity{UserID: 3, Role: model.RoleStakeholder}, true},
		{"granted team member", Identity{UserID: 3, Role: model.RoleTeamMember}, true},
		{"unrelated team member", Identity{UserID: 4, Role: model.RoleTeamMember}, false},
		{"unrelated stakeholder", Identity{UserID: 4, Role: model.RoleStakeholder}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanRead(tt.id, p))
		})
	}
}

func TestCanWrite(t *testing.T) {
	p := fixtureProject()
	tests := []struct {
		name string
		id   Identity
		want bool
	}{
		{"executive writes everywhere", Identity{UserID: 99, Role: model.RoleExecutive}, true},
		{"assigned manager", Identity{UserID: 1, Role: model.RoleProjectManager}, true},
		{"unrelated manager", Identity{UserID: 42, Role: model.RoleProjectManager}, false},
		{"creator team member cannot write", Identity{UserID: 2, Role: model.RoleTeamMember}, false},
		{"granted stakeholder cannot write", Identity{UserID: 3, Role: model.RoleStakeholder}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanWrite(tt.id, p))
		})
	}
}

func TestGrantListChangesVisibility(t *testing.T) {
	p := fixtureProject()
	member := Identity{UserID: 7, Role: model.RoleTeamMember}
	assert.False(t, CanRead(member, p))

	p.Stakeholders = datatypes.NewJSONSlice([]uint{3, 7})
	assert.True(t, CanRead(member, p))
	assert.False(t, CanWrite(member, p), "grant list never confers write")
}

func TestCanManageDocument(t *testing.T) {
	member := Identity{UserID: 5, Role: model.RoleTeamMember}
	manager := Identity{UserID: 1, Role: model.RoleProjectManager}

	gated := []model.DocKind{
		model.KindCharter, model.KindBusinessCase,
		model.KindTemplate, model.KindFeasibilityStudy,
	}
	for _, kind := range gated {
		assert.False(t, CanManageDocument(member, kind), "kind %s", kind)
		assert.True(t, CanManageDocument(manager, kind), "kind %s", kind)
	}

	open := []model.DocKind{
		model.KindStakeholder, model.KindWBSTask, model.KindRisk,
		model.KindBudgetItem, model.KindCommunicationPlan, model.KindQualityReq,
		model.KindProcurementItem, model.KindTimelineTask, model.KindMilestone,
	}
	for _, kind := range open {
		assert.True(t, CanManageDocument(member, kind), "kind %s", kind)
	}

	assert.False(t, CanManageDocument(member, model.DocKind("bogus")))
}

// The list predicate must admit exactly the projects CanRead admits.
func TestListFilterMatchesCanRead(t *testing.T) {
	projects := []*model.Project{
		{ProjectManagerID: 1, CreatedBy: 2, Stakeholders: datatypes.NewJSONSlice([]uint{3})},
		{ProjectManagerID: 9, CreatedBy: 1, Stakeholders: datatypes.NewJSONSlice([]uint{})},
		{ProjectManagerID: 9, CreatedBy: 9, Stakeholders: datatypes.NewJSONSlice([]uint{2, 4})},
	}
	identities := []Identity{
		{UserID: 1, Role: model.RoleProjectManager},
		{UserID: 2, Role: model.RoleTeamMember},
		{UserID: 3, Role: model.RoleStakeholder},
		{UserID: 4, Role: model.RoleTeamMember},
		{UserID: 5, Role: model.RoleExecutive},
	}
	for _, id := range identities {
		filter := ListFilter(id)
		for i, p := range projects {
			assert.Equal(t, CanRead(id, p), filter.Matches(p),
				"identity %+v project %d", id, i)
		}
	}
}
