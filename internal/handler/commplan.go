package handler

import (
	"time"

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
	Registers = append(Registers, NewCommPlanMgr)
}

type CommPlanMgr struct {
	name     string
	db       *gorm.DB
	resolver *authz.ParentResolver
}

func NewCommPlanMgr(conf *RegisterConfig) Manager {
	return &CommPlanMgr{
		name:     "communication-plans",
		db:       conf.DB,
		resolver: conf.Resolver,
	}
}

func (mgr *CommPlanMgr) GetName() string { return mgr.name }

func (mgr *CommPlanMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *CommPlanMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("/project/:projectID", mgr.ListRows)
	g.POST("/project/:projectID", mgr.CreateRow)
	g.PUT("/:id", mgr.UpdateRow)
	g.DELETE("/:id", mgr.DeleteRow)
}

func (mgr *CommPlanMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type CommPlanReq struct {
	StakeholderGroup  string              `json:"stakeholderGroup" binding:"required,max=128"`
	InformationType   string              `json:"informationType" binding:"required,max=128"`
	Method            model.CommMethod    `json:"method" binding:"required,oneof=email meeting report dashboard phone chat"`
	Frequency         model.CommFrequency `json:"frequency" binding:"required,oneof=daily weekly biweekly monthly quarterly as_needed"`
	ResponsiblePerson string              `json:"responsiblePerson" binding:"required,max=128"`

	Audience     []string   `json:"audience"`
	Purpose      string     `json:"purpose"`
	Format       string     `json:"format" binding:"omitempty,max=64"`
	DeliveryDate *time.Time `json:"deliveryDate"`
}

func (req *CommPlanReq) apply(row *model.CommunicationPlan) {
	row.StakeholderGroup = req.StakeholderGroup
	row.InformationType = req.InformationType
	row.Method = req.Method
	row.Frequency = req.Frequency
	row.ResponsiblePerson = req.ResponsiblePerson
	row.Audience = datatypes.NewJSONSlice(req.Audience)
	row.Purpose = req.Purpose
	row.Format = req.Format
	row.DeliveryDate = req.DeliveryDate
}

// ListRows godoc
// @Summary List the communication matrix of a project
// @Tags Communication
// @Produce json
// @Security Bearer
// @Param projectID path int true "project id"
// @Success 200 {object} resputil.Response[[]model.CommunicationPlan] "matrix rows"
// @Router /communication-plans/project/{projectID} [get]
func (mgr *CommPlanMgr) ListRows(c *gin.Context) {
	listProjectDocs[model.CommunicationPlan](c, mgr.db, mgr.resolver)
}

// CreateRow godoc
// @Summary Add a communication matrix row
// @Tags Communication
// @Accept json
// @Produce json
// @Security Bearer
// @Param projectID path int true "project id"
// @Param data body CommPlanReq true "row content"
// @Success 200 {object} resputil.Response[model.CommunicationPlan] "created row"
// @Router /communication-plans/project/{projectID} [post]
func (mgr *CommPlanMgr) CreateRow(c *gin.Context) {
	var uri uriProjectID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req CommPlanReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if _, err := requireDocumentWrite(c, mgr.resolver, uri.ProjectID, model.KindCommunicationPlan); err != nil {
		resputil.WrapError(c, err)
		return
	}

	row := model.CommunicationPlan{
		ProjectID: uri.ProjectID,
		CreatedBy: util.GetIdentity(c).UserID,
	}
	req.apply(&row)
	if err := mgr.db.WithContext(c).Create(&row).Error; err != nil {
		klog.Errorf("create communication plan row for project %d: %v", uri.ProjectID, err)
		resputil.Error(c, "Failed to create row", resputil.NotSpecified)
		return
	}
	resputil.Success(c, row)
}

// UpdateRow godoc
// @Summary Update a communication matrix row
// @Tags Communication
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "row id"
// @Param data body CommPlanReq true "row content"
// @Success 200 {object} resputil.Response[model.CommunicationPlan] "updated row"
// @Router /communication-plans/{id} [put]
func (mgr *CommPlanMgr) UpdateRow(c *gin.Context) {
	var uri uriID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req CommPlanReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	row, err := loadProjectDoc(c, mgr.db, mgr.resolver, uri.ID, model.KindCommunicationPlan,
		"communication plan row", func(r *model.CommunicationPlan) uint { return r.ProjectID })
	if err != nil {
		resputil.WrapError(c, err)
		return
	}

	req.apply(row)
	if err := mgr.db.WithContext(c).Save(row).Error; err != nil {
		klog.Errorf("update communication plan row %d: %v", uri.ID, err)
		resputil.Error(c, "Failed to update row", resputil.NotSpecified)
		return
	}
	resputil.Success(c, row)
}

// DeleteRow godoc
// @Summary Delete a communication matrix row
// @Tags Communication
// @Produce json
// @Security Bearer
// @Param id path int true "row id"
// @Success 200 {object} resputil.Response[any] "deleted"
// @Router /communication-plans/{id} [delete]
func (mgr *CommPlanMgr) DeleteRow(c *gin.Context) {
	deleteProjectDoc(c, mgr.db, mgr.resolver, model.KindCommunicationPlan,
		"communication plan row", func(r *model.CommunicationPlan) uint { return r.ProjectID })
}
