package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"k8s.io/klog/v2"

	"github.com/pmo-lab/projecthub/dao/model"
	"github.com/pmo-lab/projecthub/internal/resputil"
	"github.com/pmo-lab/projecthub/internal/util"
	"github.com/pmo-lab/projecthub/pkg/authz"
	"github.com/pmo-lab/projecthub/pkg/riskscore"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewRiskMgr)
}

// RiskMgr owns the risk log. Score is recomputed from probability and impact
// on every write; a score in the request body is ignored.
type RiskMgr struct {
	name     string
	db       *gorm.DB
	resolver *authz.ParentResolver
}

func NewRiskMgr(conf *RegisterConfig) Manager {
	return &RiskMgr{
		name:     "risks",
		db:       conf.DB,
		resolver: conf.Resolver,
	}
}

func (mgr *RiskMgr) GetName() string { return mgr.name }

func (mgr *RiskMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *RiskMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("/project/:projectID", mgr.ListRisks)
	g.POST("/project/:projectID", mgr.CreateRisk)
	g.PUT("/:id", mgr.UpdateRisk)
	g.DELETE("/:id", mgr.DeleteRisk)
}

func (mgr *RiskMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type RiskReq struct {
	Title       string `json:"title" binding:"required,max=128"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"required,max=64"`

	Probability model.RiskLevel `json:"probability" binding:"required,oneof=very_low low medium high very_high"`
	Impact      model.RiskLevel `json:"impact" binding:"required,oneof=very_low low medium high very_high"`

	Status  model.RiskStatus `json:"status" binding:"omitempty,oneof=identified assessed mitigated closed occurred"`
	OwnerID *uint            `json:"ownerId"`

	MitigationStrategy string     `json:"mitigationStrategy"`
	ContingencyPlan    string     `json:"contingencyPlan"`
	TargetDate         *time.Time `json:"targetDate"`
	ActualDate         *time.Time `json:"actualDate"`
}

func (req *RiskReq) apply(risk *model.Risk) {
	risk.Title = req.Title
	risk.Description = req.Description
	risk.Category = req.Category
	risk.Probability = req.Probability
	risk.Impact = req.Impact
	risk.Score = riskscore.Score(req.Probability, req.Impact)
	if req.Status != "" {
		risk.Status = req.Status
	}
	risk.OwnerID = req.OwnerID
	risk.MitigationStrategy = req.MitigationStrategy
	risk.ContingencyPlan = req.ContingencyPlan
	risk.TargetDate = req.TargetDate
	risk.ActualDate = req.ActualDate
}

// ListRisks godoc
// @Summary List the risk log of a project
// @Tags Risk
// @Produce json
// @Security Bearer
// @Param projectID path int true "project id"
// @Success 200 {object} resputil.Response[[]model.Risk] "risk entries"
// @Router /risks/project/{projectID} [get]
func (mgr *RiskMgr) ListRisks(c *gin.Context) {
	listProjectDocs[model.Risk](c, mgr.db, mgr.resolver)
}

// CreateRisk godoc
// @Summary Add a risk entry
// @Description Score is derived as ordinal(probability) * ordinal(impact) and never taken from the request
// @Tags Risk
// @Accept json
// @Produce json
// @Security Bearer
// @Param projectID path int true "project id"
// @Param data body RiskReq true "risk content"
// @Success 200 {object} resputil.Response[model.Risk] "created risk with derived score"
// @Router /risks/project/{projectID} [post]
func (mgr *RiskMgr) CreateRisk(c *gin.Context) {
	var uri uriProjectID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req RiskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if _, err := requireDocumentWrite(c, mgr.resolver, uri.ProjectID, model.KindRisk); err != nil {
		resputil.WrapError(c, err)
		return
	}

	risk := model.Risk{
		ProjectID: uri.ProjectID,
		Status:    model.RiskIdentified,
		CreatedBy: util.GetIdentity(c).UserID,
	}
	req.apply(&risk)
	if err := mgr.db.WithContext(c).Create(&risk).Error; err != nil {
		klog.Errorf("create risk for project %d: %v", uri.ProjectID, err)
		resputil.Error(c, "Failed to create risk", resputil.NotSpecified)
		return
	}
	resputil.Success(c, risk)
}

// UpdateRisk godoc
// @Summary Update a risk entry
// @Description Score is recomputed from the submitted probability and impact
// @Tags Risk
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "risk id"
// @Param data body RiskReq true "risk content"
// @Success 200 {object} resputil.Response[model.Risk] "updated risk"
// @Router /risks/{id} [put]
func (mgr *RiskMgr) UpdateRisk(c *gin.Context) {
	var uri uriID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req RiskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	risk, err := loadProjectDoc(c, mgr.db, mgr.resolver, uri.ID, model.KindRisk,
		"risk", func(r *model.Risk) uint { return r.ProjectID })
	if err != nil {
		resputil.WrapError(c, err)
		return
	}

	req.apply(risk)
	if err := mgr.db.WithContext(c).Save(risk).Error; err != nil {
		klog.Errorf("update risk %d: %v", uri.ID, err)
		resputil.Error(c, "Failed to update risk", resputil.NotSpecified)
		return
	}
	resputil.Success(c, risk)
}

// DeleteRisk godoc
// @Summary Delete a risk entry
// @Tags Risk
// @Produce json
// @Security Bearer
// @Param id path int true "risk id"
// @Success 200 {object} resputil.Response[any] "deleted"
// @Router /risks/{id} [delete]
func (mgr *RiskMgr) DeleteRisk(c *gin.Context) {
	deleteProjectDoc(c, mgr.db, mgr.resolver, model.KindRisk,
		"risk", func(r *model.Risk) uint { return r.ProjectID })
}
