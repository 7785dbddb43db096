package handler

import (
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"k8s.io/klog/v2"

	"github.com/pmo-lab/projecthub/dao/model"
	"github.com/pmo-lab/projecthub/internal/resputil"
	"github.com/pmo-lab/projecthub/internal/util"
	"github.com/pmo-lab/projecthub/pkg/authz"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewStakeholderMgr)
}

// StakeholderMgr maintains the per-project stakeholder register. Entries are
// plain contact rows; any user who can read the project may author them.
type StakeholderMgr struct {
	name     string
	db       *gorm.DB
	resolver *authz.ParentResolver
}

func NewStakeholderMgr(conf *RegisterConfig) Manager {
	return &StakeholderMgr{
		name:     "stakeholders",
		db:       conf.DB,
		resolver: conf.Resolver,
	}
}

func (mgr *StakeholderMgr) GetName() string { return mgr.name }

func (mgr *StakeholderMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *StakeholderMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("/project/:projectID", mgr.ListEntries)
	g.POST("/project/:projectID", mgr.CreateEntry)
	g.PUT("/:id", mgr.UpdateEntry)
	g.DELETE("/:id", mgr.DeleteEntry)
}

func (mgr *StakeholderMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type StakeholderReq struct {
	Name          string `json:"name" binding:"required,max=128"`
	Title         string `json:"title" binding:"omitempty,max=128"`
	Organization  string `json:"organization" binding:"omitempty,max=128"`
	ContactEmail  string `json:"contactEmail" binding:"required,email"`
	ContactPhone  string `json:"contactPhone" binding:"omitempty,max=32"`
	RoleInProject string `json:"roleInProject" binding:"omitempty,max=128"`

	InfluenceLevel          string `json:"influenceLevel" binding:"omitempty,oneof=low medium high"`
	InterestLevel           string `json:"interestLevel" binding:"omitempty,oneof=low medium high"`
	CommunicationPreference string `json:"communicationPreference" binding:"omitempty,oneof=email phone meeting report"`

	Expectations []string `json:"expectations"`
	Concerns     []string `json:"concerns"`
}

func (req *StakeholderReq) apply(entry *model.StakeholderEntry) {
	entry.Name = req.Name
	entry.Title = req.Title
	entry.Organization = req.Organization
	entry.ContactEmail = req.ContactEmail
	entry.ContactPhone = req.ContactPhone
	entry.RoleInProject = req.RoleInProject
	if req.InfluenceLevel != "" {
		entry.InfluenceLevel = req.InfluenceLevel
	}
	if req.InterestLevel != "" {
		entry.InterestLevel = req.InterestLevel
	}
	if req.CommunicationPreference != "" {
		entry.CommunicationPreference = req.CommunicationPreference
	}
	entry.Expectations = datatypes.NewJSONSlice(req.Expectations)
	entry.Concerns = datatypes.NewJSONSlice(req.Concerns)
}

// ListEntries godoc
// @Summary List the stakeholder register of a project
// @Tags Stakeholder
// @Produce json
// @Security Bearer
// @Param projectID path int true "project id"
// @Success 200 {object} resputil.Response[[]model.StakeholderEntry] "register entries"
// @Router /stakeholders/project/{projectID} [get]
func (mgr *StakeholderMgr) ListEntries(c *gin.Context) {
	listProjectDocs[model.StakeholderEntry](c, mgr.db, mgr.resolver)
}

// CreateEntry godoc
// @Summary Add a stakeholder register entry
// @Tags Stakeholder
// @Accept json
// @Produce json
// @Security Bearer
// @Param projectID path int true "project id"
// @Param data body StakeholderReq true "entry content"
// @Success 200 {object} resputil.Response[model.StakeholderEntry] "created entry"
// @Router /stakeholders/project/{projectID} [post]
func (mgr *StakeholderMgr) CreateEntry(c *gin.Context) {
	var uri uriProjectID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req StakeholderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if _, err := requireDocumentWrite(c, mgr.resolver, uri.ProjectID, model.KindStakeholder); err != nil {
		resputil.WrapError(c, err)
		return
	}

	entry := model.StakeholderEntry{
		ProjectID:               uri.ProjectID,
		InfluenceLevel:          "medium",
		InterestLevel:           "medium",
		CommunicationPreference: "email",
		CreatedBy:               util.GetIdentity(c).UserID,
	}
	req.apply(&entry)
	if err := mgr.db.WithContext(c).Create(&entry).Error; err != nil {
		klog.Errorf("create stakeholder entry for project %d: %v", uri.ProjectID, err)
		resputil.Error(c, "Failed to create stakeholder entry", resputil.NotSpecified)
		return
	}
	resputil.Success(c, entry)
}

// UpdateEntry godoc
// @Summary Update a stakeholder register entry
// @Tags Stakeholder
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "entry id"
// @Param data body StakeholderReq true "entry content"
// @Success 200 {object} resputil.Response[model.StakeholderEntry] "updated entry"
// @Router /stakeholders/{id} [put]
func (mgr *StakeholderMgr) UpdateEntry(c *gin.Context) {
	var uri uriID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req StakeholderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	entry, err := loadProjectDoc(c, mgr.db, mgr.resolver, uri.ID, model.KindStakeholder,
		"stakeholder entry", func(e *model.StakeholderEntry) uint { return e.ProjectID })
	if err != nil {
		resputil.WrapError(c, err)
		return
	}

	req.apply(entry)
	if err := mgr.db.WithContext(c).Save(entry).Error; err != nil {
		klog.Errorf("update stakeholder entry %d: %v", uri.ID, err)
		resputil.Error(c, "Failed to update stakeholder entry", resputil.NotSpecified)
		return
	}
	resputil.Success(c, entry)
}

// DeleteEntry godoc
// @Summary Delete a stakeholder register entry
// @Tags Stakeholder
// @Produce json
// @Security Bearer
// @Param id path int true "entry id"
// @Success 200 {object} resputil.Response[any] "deleted"
// @Router /stakeholders/{id} [delete]
func (mgr *StakeholderMgr) DeleteEntry(c *gin.Context) {
	deleteProjectDoc(c, mgr.db, mgr.resolver, model.KindStakeholder,
		"stakeholder entry", func(e *model.StakeholderEntry) uint { return e.ProjectID })
}
