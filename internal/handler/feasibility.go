package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"k8s.io/klog/v2"

	"github.com/pmo-lab/projecthub/dao/model"
	"github.com/pmo-lab/projecthub/internal/resputil"
	"github.com/pmo-lab/projecthub/internal/util"
	"github.com/pmo-lab/projecthub/pkg/apperror"
	"github.com/pmo-lab/projecthub/pkg/authz"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewFeasibilityMgr)
}

type FeasibilityMgr struct {
	name     string
	db       *gorm.DB
	resolver *authz.ParentResolver
}

func NewFeasibilityMgr(conf *RegisterConfig) Manager {
	return &FeasibilityMgr{
		name:     "feasibility-studies",
		db:       conf.DB,
		resolver: conf.Resolver,
	}
}

func (mgr *FeasibilityMgr) GetName() string { return mgr.name }

func (mgr *FeasibilityMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *FeasibilityMgr) RegisterProtected(g *gin.RouterGroup) {
	g.POST("/project/:projectID", mgr.CreateStudy)
	g.GET("/project/:projectID", mgr.GetStudy)
	g.PUT("/:id", mgr.UpdateStudy)
}

func (mgr *FeasibilityMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type FeasibilityReq struct {
	ExecutiveSummary string         `json:"executiveSummary"`
	Analysis         datatypes.JSON `json:"analysis" swaggertype:"object"`
	Rating           string         `json:"rating" binding:"omitempty,oneof=high medium low"`
	Recommendation   string         `json:"recommendation"`
}

func (req *FeasibilityReq) apply(study *model.FeasibilityStudy) {
	study.ExecutiveSummary = req.ExecutiveSummary
	study.Analysis = req.Analysis
	study.Rating = req.Rating
	study.Recommendation = req.Recommendation
}

// CreateStudy godoc
// @Summary Create the feasibility study for a project
// @Description One study per project. Creating a second one is a write conflict.
// @Tags Feasibility
// @Accept json
// @Produce json
// @Security Bearer
// @Param projectID path int true "project id"
// @Param data body FeasibilityReq true "study content"
// @Success 200 {object} resputil.Response[model.FeasibilityStudy] "created study"
// @Failure 409 {object} resputil.Response[any] "study already exists"
// @Router /feasibility-studies/project/{projectID} [post]
func (mgr *FeasibilityMgr) CreateStudy(c *gin.Context) {
	var uri uriProjectID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req FeasibilityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if _, err := requireDocumentWrite(c, mgr.resolver, uri.ProjectID, model.KindFeasibilityStudy); err != nil {
		resputil.WrapError(c, err)
		return
	}

	var count int64
	if err := mgr.db.WithContext(c).Model(&model.FeasibilityStudy{}).
		Where("project_id = ?", uri.ProjectID).Count(&count).Error; err != nil {
		resputil.Error(c, "Failed to create feasibility study", resputil.NotSpecified)
		return
	}
	if count > 0 {
		resputil.WrapError(c, apperror.Conflict("feasibility study"))
		return
	}

	study := model.FeasibilityStudy{
		ProjectID: uri.ProjectID,
		Status:    model.DocumentDraft,
		CreatedBy: util.GetIdentity(c).UserID,
	}
	req.apply(&study)
	if err := mgr.db.WithContext(c).Create(&study).Error; err != nil {
		klog.Errorf("create feasibility study for project %d: %v", uri.ProjectID, err)
		resputil.Error(c, "Failed to create feasibility study", resputil.NotSpecified)
		return
	}
	resputil.Success(c, study)
}

// GetStudy godoc
// @Summary Get the feasibility study of a project
// @Tags Feasibility
// @Produce json
// @Security Bearer
// @Param projectID path int true "project id"
// @Success 200 {object} resputil.Response[model.FeasibilityStudy] "study"
// @Failure 404 {object} resputil.Response[any] "project or study not found"
// @Router /feasibility-studies/project/{projectID} [get]
func (mgr *FeasibilityMgr) GetStudy(c *gin.Context) {
	var uri uriProjectID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if _, err := requireReadableProject(c, mgr.resolver, uri.ProjectID); err != nil {
		resputil.WrapError(c, err)
		return
	}

	var study model.FeasibilityStudy
	if err := mgr.db.WithContext(c).
		Where("project_id = ?", uri.ProjectID).First(&study).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resputil.WrapError(c, apperror.NotFound("feasibility study"))
			return
		}
		resputil.Error(c, "Failed to load feasibility study", resputil.NotSpecified)
		return
	}
	resputil.Success(c, study)
}

// UpdateStudy godoc
// @Summary Update a feasibility study
// @Tags Feasibility
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "study id"
// @Param data body FeasibilityReq true "study content"
// @Success 200 {object} resputil.Response[model.FeasibilityStudy] "updated study"
// @Router /feasibility-studies/{id} [put]
func (mgr *FeasibilityMgr) UpdateStudy(c *gin.Context) {
	var uri uriID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req FeasibilityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	var study model.FeasibilityStudy
	if err := mgr.db.WithContext(c).First(&study, uri.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resputil.WrapError(c, apperror.NotFound("feasibility study"))
			return
		}
		resputil.Error(c, "Failed to load feasibility study", resputil.NotSpecified)
		return
	}
	if _, err := requireDocumentWrite(c, mgr.resolver, study.ProjectID, model.KindFeasibilityStudy); err != nil {
		resputil.WrapError(c, err)
		return
	}

	req.apply(&study)
	study.Status = model.DocumentDraft
	if err := mgr.db.WithContext(c).Save(&study).Error; err != nil {
		klog.Errorf("update feasibility study %d: %v", uri.ID, err)
		resputil.Error(c, "Failed to update feasibility study", resputil.NotSpecified)
		return
	}
	resputil.Success(c, study)
}
