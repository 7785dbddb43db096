package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"k8s.io/klog/v2"
	"k8s.io/utils/ptr"

	"github.com/pmo-lab/projecthub/dao/model"
	"github.com/pmo-lab/projecthub/internal/resputil"
	"github.com/pmo-lab/projecthub/internal/util"
	"github.com/pmo-lab/projecthub/pkg/apperror"
	"github.com/pmo-lab/projecthub/pkg/authz"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewCharterMgr)
}

// CharterMgr owns the project charter, a singleton per project with an
// approval workflow on top of the usual create/update surface.
type CharterMgr struct {
	name     string
	db       *gorm.DB
	resolver *authz.ParentResolver
}

func NewCharterMgr(conf *RegisterConfig) Manager {
	return &CharterMgr{
		name:     "charters",
		db:       conf.DB,
		resolver: conf.Resolver,
	}
}

func (mgr *CharterMgr) GetName() string { return mgr.name }

func (mgr *CharterMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *CharterMgr) RegisterProtected(g *gin.RouterGroup) {
	g.POST("/project/:projectID", mgr.CreateCharter)
	g.GET("/project/:projectID", mgr.GetCharter)
	g.PUT("/:id", mgr.UpdateCharter)
	g.PUT("/:id/approve", mgr.ApproveCharter)
}

func (mgr *CharterMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type CharterReq struct {
	Purpose         string   `json:"purpose" binding:"required"`
	Description     string   `json:"description"`
	Objectives      []string `json:"objectives"`
	SuccessCriteria []string `json:"successCriteria"`
	ScopeInclusions []string `json:"scopeInclusions"`
	ScopeExclusions []string `json:"scopeExclusions"`
	Assumptions     []string `json:"assumptions"`
	Constraints     []string `json:"constraints"`

	EstimatedBudget   float64        `json:"estimatedBudget" binding:"omitempty,gte=0"`
	EstimatedTimeline string         `json:"estimatedTimeline" binding:"omitempty,max=128"`
	KeyMilestones     datatypes.JSON `json:"keyMilestones" swaggertype:"object"`
}

func (req *CharterReq) apply(charter *model.Charter) {
	charter.Purpose = req.Purpose
	charter.Description = req.Description
	charter.Objectives = datatypes.NewJSONSlice(req.Objectives)
	charter.SuccessCriteria = datatypes.NewJSONSlice(req.SuccessCriteria)
	charter.ScopeInclusions = datatypes.NewJSONSlice(req.ScopeInclusions)
	charter.ScopeExclusions = datatypes.NewJSONSlice(req.ScopeExclusions)
	charter.Assumptions = datatypes.NewJSONSlice(req.Assumptions)
	charter.Constraints = datatypes.NewJSONSlice(req.Constraints)
	charter.EstimatedBudget = req.EstimatedBudget
	charter.EstimatedTimeline = req.EstimatedTimeline
	charter.KeyMilestones = req.KeyMilestones
}

// CreateCharter godoc
// @Summary Create the charter for a project
// @Description One charter per project. Creating a second one is a write conflict.
// @Tags Charter
// @Accept json
// @Produce json
// @Security Bearer
// @Param projectID path int true "project id"
// @Param data body CharterReq true "charter content"
// @Success 200 {object} resputil.Response[model.Charter] "created charter"
// @Failure 403 {object} resputil.Response[any] "caller role may not author charters"
// @Failure 409 {object} resputil.Response[any] "charter already exists"
// @Router /charters/project/{projectID} [post]
func (mgr *CharterMgr) CreateCharter(c *gin.Context) {
	var uri uriProjectID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req CharterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if _, err := requireDocumentWrite(c, mgr.resolver, uri.ProjectID, model.KindCharter); err != nil {
		resputil.WrapError(c, err)
		return
	}

	var count int64
	if err := mgr.db.WithContext(c).Model(&model.Charter{}).
		Where("project_id = ?", uri.ProjectID).Count(&count).Error; err != nil {
		resputil.Error(c, "Failed to create charter", resputil.NotSpecified)
		return
	}
	if count > 0 {
		resputil.WrapError(c, apperror.Conflict("project charter"))
		return
	}

	charter := model.Charter{
		ProjectID: uri.ProjectID,
		Status:    model.DocumentDraft,
		CreatedBy: util.GetIdentity(c).UserID,
	}
	req.apply(&charter)
	if err := mgr.db.WithContext(c).Create(&charter).Error; err != nil {
		klog.Errorf("create charter for project %d: %v", uri.ProjectID, err)
		resputil.Error(c, "Failed to create charter", resputil.NotSpecified)
		return
	}
	resputil.Success(c, charter)
}

// GetCharter godoc
// @Summary Get the charter of a project
// @Tags Charter
// @Produce json
// @Security Bearer
// @Param projectID path int true "project id"
// @Success 200 {object} resputil.Response[model.Charter] "charter"
// @Failure 404 {object} resputil.Response[any] "project or charter not found"
// @Router /charters/project/{projectID} [get]
func (mgr *CharterMgr) GetCharter(c *gin.Context) {
	var uri uriProjectID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if _, err := requireReadableProject(c, mgr.resolver, uri.ProjectID); err != nil {
		resputil.WrapError(c, err)
		return
	}

	var charter model.Charter
	if err := mgr.db.WithContext(c).
		Where("project_id = ?", uri.ProjectID).First(&charter).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resputil.WrapError(c, apperror.NotFound("charter"))
			return
		}
		resputil.Error(c, "Failed to load charter", resputil.NotSpecified)
		return
	}
	resputil.Success(c, charter)
}

// loadCharter fetches a charter and authorizes the write against its parent.
func (mgr *CharterMgr) loadCharter(c *gin.Context, id uint) (*model.Charter, error) {
	var charter model.Charter
	if err := mgr.db.WithContext(c).First(&charter, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("charter")
		}
		return nil, err
	}
	if _, err := requireDocumentWrite(c, mgr.resolver, charter.ProjectID, model.KindCharter); err != nil {
		return nil, err
	}
	return &charter, nil
}

// UpdateCharter godoc
// @Summary Update a charter
// @Description Rewrites the charter content and resets its status to draft
// @Tags Charter
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "charter id"
// @Param data body CharterReq true "charter content"
// @Success 200 {object} resputil.Response[model.Charter] "updated charter"
// @Router /charters/{id} [put]
func (mgr *CharterMgr) UpdateCharter(c *gin.Context) {
	var uri uriID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req CharterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	charter, err := mgr.loadCharter(c, uri.ID)
	if err != nil {
		resputil.WrapError(c, err)
		return
	}

	req.apply(charter)
	charter.Status = model.DocumentDraft
	charter.ApprovedBy = nil
	charter.ApprovalDate = nil
	if err := mgr.db.WithContext(c).Save(charter).Error; err != nil {
		klog.Errorf("update charter %d: %v", uri.ID, err)
		resputil.Error(c, "Failed to update charter", resputil.NotSpecified)
		return
	}
	resputil.Success(c, charter)
}

type ApproveCharterReq struct {
	Approved bool `json:"approved"`
}

// ApproveCharter godoc
// @Summary Approve or reject a charter
// @Tags Charter
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "charter id"
// @Param data body ApproveCharterReq true "approval decision"
// @Success 200 {object} resputil.Response[model.Charter] "charter with the decided status"
// @Router /charters/{id}/approve [put]
func (mgr *CharterMgr) ApproveCharter(c *gin.Context) {
	var uri uriID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req ApproveCharterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	charter, err := mgr.loadCharter(c, uri.ID)
	if err != nil {
		resputil.WrapError(c, err)
		return
	}

	if req.Approved {
		charter.Status = model.DocumentApproved
		charter.ApprovedBy = ptr.To(util.GetIdentity(c).UserID)
		charter.ApprovalDate = ptr.To(time.Now())
	} else {
		charter.Status = model.DocumentRejected
		charter.ApprovedBy = nil
		charter.ApprovalDate = nil
	}
	if err := mgr.db.WithContext(c).Save(charter).Error; err != nil {
		klog.Errorf("approve charter %d: %v", uri.ID, err)
		resputil.Error(c, "Failed to update charter", resputil.NotSpecified)
		return
	}
	resputil.Success(c, charter)
}
