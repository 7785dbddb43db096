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
	Registers = append(Registers, NewQualityMgr)
}

type QualityMgr struct {
	name     string
	db       *gorm.DB
	resolver *authz.ParentResolver
}

func NewQualityMgr(conf *RegisterConfig) Manager {
	return &QualityMgr{
		name:     "quality-requirements",
		db:       conf.DB,
		resolver: conf.Resolver,
	}
}

func (mgr *QualityMgr) GetName() string { return mgr.name }

func (mgr *QualityMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *QualityMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("/project/:projectID", mgr.ListRequirements)
	g.POST("/project/:projectID", mgr.CreateRequirement)
	g.PUT("/:id", mgr.UpdateRequirement)
	g.DELETE("/:id", mgr.DeleteRequirement)
}

func (mgr *QualityMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type QualityReq struct {
	Title              string   `json:"title" binding:"required,max=128"`
	Description        string   `json:"description"`
	AcceptanceCriteria []string `json:"acceptanceCriteria"`
	Metric             string   `json:"metric" binding:"omitempty,max=128"`
	TargetValue        string   `json:"targetValue" binding:"omitempty,max=64"`
	Status             string   `json:"status" binding:"omitempty,oneof=open in_review met not_met"`
}

func (req *QualityReq) apply(q *model.QualityRequirement) {
	q.Title = req.Title
	q.Description = req.Description
	q.AcceptanceCriteria = datatypes.NewJSONSlice(req.AcceptanceCriteria)
	q.Metric = req.Metric
	q.TargetValue = req.TargetValue
	if req.Status != "" {
		q.Status = req.Status
	}
}

// ListRequirements godoc
// @Summary List the quality requirements of a project
// @Tags Quality
// @Produce json
// @Security Bearer
// @Param projectID path int true "project id"
// @Success 200 {object} resputil.Response[[]model.QualityRequirement] "requirements"
// @Router /quality-requirements/project/{projectID} [get]
func (mgr *QualityMgr) ListRequirements(c *gin.Context) {
	listProjectDocs[model.QualityRequirement](c, mgr.db, mgr.resolver)
}

// CreateRequirement godoc
// @Summary Add a quality requirement
// @Tags Quality
// @Accept json
// @Produce json
// @Security Bearer
// @Param projectID path int true "project id"
// @Param data body QualityReq true "requirement content"
// @Success 200 {object} resputil.Response[model.QualityRequirement] "created requirement"
// @Router /quality-requirements/project/{projectID} [post]
func (mgr *QualityMgr) CreateRequirement(c *gin.Context) {
	var uri uriProjectID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req QualityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if _, err := requireDocumentWrite(c, mgr.resolver, uri.ProjectID, model.KindQualityReq); err != nil {
		resputil.WrapError(c, err)
		return
	}

	requirement := model.QualityRequirement{
		ProjectID: uri.ProjectID,
		Status:    "open",
		CreatedBy: util.GetIdentity(c).UserID,
	}
	req.apply(&requirement)
	if err := mgr.db.WithContext(c).Create(&requirement).Error; err != nil {
		klog.Errorf("create quality requirement for project %d: %v", uri.ProjectID, err)
		resputil.Error(c, "Failed to create requirement", resputil.NotSpecified)
		return
	}
	resputil.Success(c, requirement)
}

// UpdateRequirement godoc
// @Summary Update a quality requirement
// @Tags Quality
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "requirement id"
// @Param data body QualityReq true "requirement content"
// @Success 200 {object} resputil.Response[model.QualityRequirement] "updated requirement"
// @Router /quality-requirements/{id} [put]
func (mgr *QualityMgr) UpdateRequirement(c *gin.Context) {
	var uri uriID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req QualityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	requirement, err := loadProjectDoc(c, mgr.db, mgr.resolver, uri.ID, model.KindQualityReq,
		"quality requirement", func(q *model.QualityRequirement) uint { return q.ProjectID })
	if err != nil {
		resputil.WrapError(c, err)
		return
	}

	req.apply(requirement)
	if err := mgr.db.WithContext(c).Save(requirement).Error; err != nil {
		klog.Errorf("update quality requirement %d: %v", uri.ID, err)
		resputil.Error(c, "Failed to update requirement", resputil.NotSpecified)
		return
	}
	resputil.Success(c, requirement)
}

// DeleteRequirement godoc
// @Summary Delete a quality requirement
// @Tags Quality
// @Produce json
// @Security Bearer
// @Param id path int true "requirement id"
// @Success 200 {object} resputil.Response[any] "deleted"
// @Router /quality-requirements/{id} [delete]
func (mgr *QualityMgr) DeleteRequirement(c *gin.Context) {
	deleteProjectDoc(c, mgr.db, mgr.resolver, model.KindQualityReq,
		"quality requirement", func(q *model.QualityRequirement) uint { return q.ProjectID })
}
