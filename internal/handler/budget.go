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
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewBudgetMgr)
}

type BudgetMgr struct {
	name     string
	db       *gorm.DB
	resolver *authz.ParentResolver
}

func NewBudgetMgr(conf *RegisterConfig) Manager {
	return &BudgetMgr{
		name:     "budget-items",
		db:       conf.DB,
		resolver: conf.Resolver,
	}
}

func (mgr *BudgetMgr) GetName() string { return mgr.name }

func (mgr *BudgetMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *BudgetMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("/project/:projectID", mgr.ListItems)
	g.GET("/project/:projectID/summary", mgr.Summary)
	g.POST("/project/:projectID", mgr.CreateItem)
	g.PUT("/:id", mgr.UpdateItem)
	g.DELETE("/:id", mgr.DeleteItem)
}

func (mgr *BudgetMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type BudgetItemReq struct {
	Category    model.BudgetCategory `json:"category" binding:"required,oneof=labor equipment materials travel training software contingency other"`
	ItemName    string               `json:"itemName" binding:"required,max=128"`
	Description string               `json:"description"`

	EstimatedCost float64    `json:"estimatedCost" binding:"gte=0"`
	ActualCost    float64    `json:"actualCost" binding:"omitempty,gte=0"`
	Vendor        string     `json:"vendor" binding:"omitempty,max=128"`
	PurchaseDate  *time.Time `json:"purchaseDate"`
	Notes         string     `json:"notes"`
}

func (req *BudgetItemReq) apply(item *model.BudgetItem) {
	item.Category = req.Category
	item.ItemName = req.ItemName
	item.Description = req.Description
	item.EstimatedCost = req.EstimatedCost
	item.ActualCost = req.ActualCost
	item.Vendor = req.Vendor
	item.PurchaseDate = req.PurchaseDate
	item.Notes = req.Notes
}

// ListItems godoc
// @Summary List the budget line items of a project
// @Tags Budget
// @Produce json
// @Security Bearer
// @Param projectID path int true "project id"
// @Success 200 {object} resputil.Response[[]model.BudgetItem] "budget items"
// @Router /budget-items/project/{projectID} [get]
func (mgr *BudgetMgr) ListItems(c *gin.Context) {
	listProjectDocs[model.BudgetItem](c, mgr.db, mgr.resolver)
}

type BudgetSummaryResp struct {
	ProjectBudget  float64                          `json:"projectBudget"`
	TotalEstimated float64                          `json:"totalEstimated"`
	TotalActual    float64                          `json:"totalActual"`
	Remaining      float64                          `json:"remaining"`
	ByCategory     map[model.BudgetCategory]float64 `json:"byCategory"`
}

// Summary godoc
// @Summary Aggregate the budget of a project
// @Description Remaining compares the project budget against actual spend
// @Tags Budget
// @Produce json
// @Security Bearer
// @Param projectID path int true "project id"
// @Success 200 {object} resputil.Response[BudgetSummaryResp] "budget rollup"
// @Router /budget-items/project/{projectID}/summary [get]
func (mgr *BudgetMgr) Summary(c *gin.Context) {
	var uri uriProjectID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	project, err := requireReadableProject(c, mgr.resolver, uri.ProjectID)
	if err != nil {
		resputil.WrapError(c, err)
		return
	}

	var items []model.BudgetItem
	if err := mgr.db.WithContext(c).
		Where("project_id = ?", uri.ProjectID).Find(&items).Error; err != nil {
		resputil.Error(c, "Failed to load budget items", resputil.NotSpecified)
		return
	}

	summary := BudgetSummaryResp{
		ProjectBudget: project.Budget,
		ByCategory:    map[model.BudgetCategory]float64{},
	}
	for _, item := range items {
		summary.TotalEstimated += item.EstimatedCost
		summary.TotalActual += item.ActualCost
		summary.ByCategory[item.Category] += item.EstimatedCost
	}
	summary.Remaining = project.Budget - summary.TotalActual
	resputil.Success(c, summary)
}

// CreateItem godoc
// @Summary Add a budget line item
// @Tags Budget
// @Accept json
// @Produce json
// @Security Bearer
// @Param projectID path int true "project id"
// @Param data body BudgetItemReq true "item content"
// @Success 200 {object} resputil.Response[model.BudgetItem] "created item"
// @Router /budget-items/project/{projectID} [post]
func (mgr *BudgetMgr) CreateItem(c *gin.Context) {
	var uri uriProjectID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req BudgetItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if _, err := requireDocumentWrite(c, mgr.resolver, uri.ProjectID, model.KindBudgetItem); err != nil {
		resputil.WrapError(c, err)
		return
	}

	item := model.BudgetItem{
		ProjectID: uri.ProjectID,
		CreatedBy: util.GetIdentity(c).UserID,
	}
	req.apply(&item)
	if err := mgr.db.WithContext(c).Create(&item).Error; err != nil {
		klog.Errorf("create budget item for project %d: %v", uri.ProjectID, err)
		resputil.Error(c, "Failed to create budget item", resputil.NotSpecified)
		return
	}
	resputil.Success(c, item)
}

// UpdateItem godoc
// @Summary Update a budget line item
// @Tags Budget
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "item id"
// @Param data body BudgetItemReq true "item content"
// @Success 200 {object} resputil.Response[model.BudgetItem] "updated item"
// @Router /budget-items/{id} [put]
func (mgr *BudgetMgr) UpdateItem(c *gin.Context) {
	var uri uriID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req BudgetItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	item, err := loadProjectDoc(c, mgr.db, mgr.resolver, uri.ID, model.KindBudgetItem,
		"budget item", func(i *model.BudgetItem) uint { return i.ProjectID })
	if err != nil {
		resputil.WrapError(c, err)
		return
	}

	req.apply(item)
	if err := mgr.db.WithContext(c).Save(item).Error; err != nil {
		klog.Errorf("update budget item %d: %v", uri.ID, err)
		resputil.Error(c, "Failed to update budget item", resputil.NotSpecified)
		return
	}
	resputil.Success(c, item)
}

// DeleteItem godoc
// @Summary Delete a budget line item
// @Tags Budget
// @Produce json
// @Security Bearer
// @Param id path int true "item id"
// @Success 200 {object} resputil.Response[any] "deleted"
// @Router /budget-items/{id} [delete]
func (mgr *BudgetMgr) DeleteItem(c *gin.Context) {
	deleteProjectDoc(c, mgr.db, mgr.resolver, model.KindBudgetItem,
		"budget item", func(i *model.BudgetItem) uint { return i.ProjectID })
}
