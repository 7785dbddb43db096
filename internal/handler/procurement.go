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
	Registers = append(Registers, NewProcurementMgr)
}

// ProcurementMgr owns the planned-purchase list. TotalCost is derived from
// quantity and unit cost on every write.
type ProcurementMgr struct {
	name     string
	db       *gorm.DB
	resolver *authz.ParentResolver
}

func NewProcurementMgr(conf *RegisterConfig) Manager {
	return &ProcurementMgr{
		name:     "procurement-items",
		db:       conf.DB,
		resolver: conf.Resolver,
	}
}

func (mgr *ProcurementMgr) GetName() string { return mgr.name }

func (mgr *ProcurementMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *ProcurementMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("/project/:projectID", mgr.ListItems)
	g.POST("/project/:projectID", mgr.CreateItem)
	g.PUT("/:id", mgr.UpdateItem)
	g.DELETE("/:id", mgr.DeleteItem)
}

func (mgr *ProcurementMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type ProcurementReq struct {
	ItemName    string     `json:"itemName" binding:"required,max=128"`
	Description string     `json:"description"`
	Vendor      string     `json:"vendor" binding:"omitempty,max=128"`
	Quantity    int        `json:"quantity" binding:"omitempty,gte=1"`
	UnitCost    float64    `json:"unitCost" binding:"omitempty,gte=0"`
	Status      string     `json:"status" binding:"omitempty,oneof=planned ordered received cancelled"`
	NeededBy    *time.Time `json:"neededBy"`
}

func (req *ProcurementReq) apply(item *model.ProcurementItem) {
	item.ItemName = req.ItemName
	item.Description = req.Description
	item.Vendor = req.Vendor
	if req.Quantity > 0 {
		item.Quantity = req.Quantity
	}
	item.UnitCost = req.UnitCost
	item.TotalCost = float64(item.Quantity) * item.UnitCost
	if req.Status != "" {
		item.Status = req.Status
	}
	item.NeededBy = req.NeededBy
}

// ListItems godoc
// @Summary List the procurement items of a project
// @Tags Procurement
// @Produce json
// @Security Bearer
// @Param projectID path int true "project id"
// @Success 200 {object} resputil.Response[[]model.ProcurementItem] "procurement items"
// @Router /procurement-items/project/{projectID} [get]
func (mgr *ProcurementMgr) ListItems(c *gin.Context) {
	listProjectDocs[model.ProcurementItem](c, mgr.db, mgr.resolver)
}

// CreateItem godoc
// @Summary Add a procurement item
// @Tags Procurement
// @Accept json
// @Produce json
// @Security Bearer
// @Param projectID path int true "project id"
// @Param data body ProcurementReq true "item content"
// @Success 200 {object} resputil.Response[model.ProcurementItem] "created item"
// @Router /procurement-items/project/{projectID} [post]
func (mgr *ProcurementMgr) CreateItem(c *gin.Context) {
	var uri uriProjectID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req ProcurementReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if _, err := requireDocumentWrite(c, mgr.resolver, uri.ProjectID, model.KindProcurementItem); err != nil {
		resputil.WrapError(c, err)
		return
	}

	item := model.ProcurementItem{
		ProjectID: uri.ProjectID,
		Quantity:  1,
		Status:    "planned",
		CreatedBy: util.GetIdentity(c).UserID,
	}
	req.apply(&item)
	if err := mgr.db.WithContext(c).Create(&item).Error; err != nil {
		klog.Errorf("create procurement item for project %d: %v", uri.ProjectID, err)
		resputil.Error(c, "Failed to create procurement item", resputil.NotSpecified)
		return
	}
	resputil.Success(c, item)
}

// UpdateItem godoc
// @Summary Update a procurement item
// @Tags Procurement
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "item id"
// @Param data body ProcurementReq true "item content"
// @Success 200 {object} resputil.Response[model.ProcurementItem] "updated item"
// @Router /procurement-items/{id} [put]
func (mgr *ProcurementMgr) UpdateItem(c *gin.Context) {
	var uri uriID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req ProcurementReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	item, err := loadProjectDoc(c, mgr.db, mgr.resolver, uri.ID, model.KindProcurementItem,
		"procurement item", func(i *model.ProcurementItem) uint { return i.ProjectID })
	if err != nil {
		resputil.WrapError(c, err)
		return
	}

	req.apply(item)
	if err := mgr.db.WithContext(c).Save(item).Error; err != nil {
		klog.Errorf("update procurement item %d: %v", uri.ID, err)
		resputil.Error(c, "Failed to update procurement item", resputil.NotSpecified)
		return
	}
	resputil.Success(c, item)
}

// DeleteItem godoc
// @Summary Delete a procurement item
// @Tags Procurement
// @Produce json
// @Security Bearer
// @Param id path int true "item id"
// @Success 200 {object} resputil.Response[any] "deleted"
// @Router /procurement-items/{id} [delete]
func (mgr *ProcurementMgr) DeleteItem(c *gin.Context) {
	deleteProjectDoc(c, mgr.db, mgr.resolver, model.KindProcurementItem,
		"procurement item", func(i *model.ProcurementItem) uint { return i.ProjectID })
}
