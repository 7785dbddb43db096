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
	Registers = append(Registers, NewBusinessCaseMgr)
}

type BusinessCaseMgr struct {
	name     string
	db       *gorm.DB
	resolver *authz.ParentResolver
}

func NewBusinessCaseMgr(conf *RegisterConfig) Manager {
	return &BusinessCaseMgr{
		name:     "business-cases",
		db:       conf.DB,
		resolver: conf.Resolver,
	}
}

func (mgr *BusinessCaseMgr) GetName() string { return mgr.name }

func (mgr *BusinessCaseMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *BusinessCaseMgr) RegisterProtected(g *gin.RouterGroup) {
	g.POST("/project/:projectID", mgr.CreateBusinessCase)
	g.GET("/project/:projectID", mgr.GetBusinessCase)
	g.PUT("/:id", mgr.UpdateBusinessCase)
}

func (mgr *BusinessCaseMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type BusinessCaseReq struct {
	ProblemStatement string `json:"problemStatement" binding:"required"`
	ProposedSolution string `json:"proposedSolution" binding:"required"`
	BusinessNeed     string `json:"businessNeed"`
	Recommendation   string `json:"recommendation"`

	ExpectedBenefits       []string       `json:"expectedBenefits"`
	RiskAssessment         []string       `json:"riskAssessment"`
	AlternativesConsidered []string       `json:"alternativesConsidered"`
	CostBenefitAnalysis    datatypes.JSON `json:"costBenefitAnalysis" swaggertype:"object"`

	ReturnOnInvestment string `json:"returnOnInvestment" binding:"omitempty,max=256"`
}

func (req *BusinessCaseReq) apply(bc *model.BusinessCase) {
	bc.ProblemStatement = req.ProblemStatement
	bc.ProposedSolution = req.ProposedSolution
	bc.BusinessNeed = req.BusinessNeed
	bc.Recommendation = req.Recommendation
	bc.ExpectedBenefits = datatypes.NewJSONSlice(req.ExpectedBenefits)
	bc.RiskAssessment = datatypes.NewJSONSlice(req.RiskAssessment)
	bc.AlternativesConsidered = datatypes.NewJSONSlice(req.AlternativesConsidered)
	bc.CostBenefitAnalysis = req.CostBenefitAnalysis
	bc.ReturnOnInvestment = req.ReturnOnInvestment
}

// CreateBusinessCase godoc
// @Summary Create the business case for a project
// @Description One business case per project. Creating a second one is a write conflict.
// @Tags BusinessCase
// @Accept json
// @Produce json
// @Security Bearer
// @Param projectID path int true "project id"
// @Param data body BusinessCaseReq true "business case content"
// @Success 200 {object} resputil.Response[model.BusinessCase] "created business case"
// @Failure 409 {object} resputil.Response[any] "business case already exists"
// @Router /business-cases/project/{projectID} [post]
func (mgr *BusinessCaseMgr) CreateBusinessCase(c *gin.Context) {
	var uri uriProjectID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req BusinessCaseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if _, err := requireDocumentWrite(c, mgr.resolver, uri.ProjectID, model.KindBusinessCase); err != nil {
		resputil.WrapError(c, err)
		return
	}

	var count int64
	if err := mgr.db.WithContext(c).Model(&model.BusinessCase{}).
		Where("project_id = ?", uri.ProjectID).Count(&count).Error; err != nil {
		resputil.Error(c, "Failed to create business case", resputil.NotSpecified)
		return
	}
	if count > 0 {
		resputil.WrapError(c, apperror.Conflict("business case"))
		return
	}

	bc := model.BusinessCase{
		ProjectID: uri.ProjectID,
		Status:    model.DocumentDraft,
		CreatedBy: util.GetIdentity(c).UserID,
	}
	req.apply(&bc)
	if err := mgr.db.WithContext(c).Create(&bc).Error; err != nil {
		klog.Errorf("create business case for project %d: %v", uri.ProjectID, err)
		resputil.Error(c, "Failed to create business case", resputil.NotSpecified)
		return
	}
	resputil.Success(c, bc)
}

// GetBusinessCase godoc
// @Summary Get the business case of a project
// @Tags BusinessCase
// @Produce json
// @Security Bearer
// @Param projectID path int true "project id"
// @Success 200 {object} resputil.Response[model.BusinessCase] "business case"
// @Failure 404 {object} resputil.Response[any] "project or business case not found"
// @Router /business-cases/project/{projectID} [get]
func (mgr *BusinessCaseMgr) GetBusinessCase(c *gin.Context) {
	var uri uriProjectID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if _, err := requireReadableProject(c, mgr.resolver, uri.ProjectID); err != nil {
		resputil.WrapError(c, err)
		return
	}

	var bc model.BusinessCase
	if err := mgr.db.WithContext(c).
		Where("project_id = ?", uri.ProjectID).First(&bc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resputil.WrapError(c, apperror.NotFound("business case"))
			return
		}
		resputil.Error(c, "Failed to load business case", resputil.NotSpecified)
		return
	}
	resputil.Success(c, bc)
}

// UpdateBusinessCase godoc
// @Summary Update a business case
// @Tags BusinessCase
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "business case id"
// @Param data body BusinessCaseReq true "business case content"
// @Success 200 {object} resputil.Response[model.BusinessCase] "updated business case"
// @Router /business-cases/{id} [put]
func (mgr *BusinessCaseMgr) UpdateBusinessCase(c *gin.Context) {
	var uri uriID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req BusinessCaseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	var bc model.BusinessCase
	if err := mgr.db.WithContext(c).First(&bc, uri.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resputil.WrapError(c, apperror.NotFound("business case"))
			return
		}
		resputil.Error(c, "Failed to load business case", resputil.NotSpecified)
		return
	}
	if _, err := requireDocumentWrite(c, mgr.resolver, bc.ProjectID, model.KindBusinessCase); err != nil {
		resputil.WrapError(c, err)
		return
	}

	req.apply(&bc)
	bc.Status = model.DocumentDraft
	if err := mgr.db.WithContext(c).Save(&bc).Error; err != nil {
		klog.Errorf("update business case %d: %v", uri.ID, err)
		resputil.Error(c, "Failed to update business case", resputil.NotSpecified)
		return
	}
	resputil.Success(c, bc)
}
