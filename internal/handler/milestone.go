package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"k8s.io/klog/v2"
	"k8s.io/utils/ptr"

	"github.com/pmo-lab/projecthub/dao/model"
	"github.com/pmo-lab/projecthub/internal/resputil"
	"github.com/pmo-lab/projecthub/internal/util"
	"github.com/pmo-lab/projecthub/pkg/authz"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewMilestoneMgr)
}

type MilestoneMgr struct {
	name     string
	db       *gorm.DB
	resolver *authz.ParentResolver
}

func NewMilestoneMgr(conf *RegisterConfig) Manager {
	return &MilestoneMgr{
		name:     "milestones",
		db:       conf.DB,
		resolver: conf.Resolver,
	}
}

func (mgr *MilestoneMgr) GetName() string { return mgr.name }

func (mgr *MilestoneMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *MilestoneMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("/project/:projectID", mgr.ListMilestones)
	g.POST("/project/:projectID", mgr.CreateMilestone)
	g.PUT("/:id", mgr.UpdateMilestone)
	g.PUT("/:id/achieve", mgr.AchieveMilestone)
	g.DELETE("/:id", mgr.DeleteMilestone)
}

func (mgr *MilestoneMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type MilestoneReq struct {
	Name        string    `json:"name" binding:"required,max=128"`
	Description string    `json:"description"`
	TargetDate  time.Time `json:"targetDate" binding:"required"`
}

func (req *MilestoneReq) apply(m *model.Milestone) {
	m.Name = req.Name
	m.Description = req.Description
	m.TargetDate = req.TargetDate
}

// ListMilestones godoc
// @Summary List the milestones of a project
// @Tags Milestone
// @Produce json
// @Security Bearer
// @Param projectID path int true "project id"
// @Success 200 {object} resputil.Response[[]model.Milestone] "milestones"
// @Router /milestones/project/{projectID} [get]
func (mgr *MilestoneMgr) ListMilestones(c *gin.Context) {
	listProjectDocs[model.Milestone](c, mgr.db, mgr.resolver)
}

// CreateMilestone godoc
// @Summary Add a milestone
// @Tags Milestone
// @Accept json
// @Produce json
// @Security Bearer
// @Param projectID path int true "project id"
// @Param data body MilestoneReq true "milestone content"
// @Success 200 {object} resputil.Response[model.Milestone] "created milestone"
// @Router /milestones/project/{projectID} [post]
func (mgr *MilestoneMgr) CreateMilestone(c *gin.Context) {
	var uri uriProjectID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req MilestoneReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if _, err := requireDocumentWrite(c, mgr.resolver, uri.ProjectID, model.KindMilestone); err != nil {
		resputil.WrapError(c, err)
		return
	}

	milestone := model.Milestone{
		ProjectID: uri.ProjectID,
		CreatedBy: util.GetIdentity(c).UserID,
	}
	req.apply(&milestone)
	if err := mgr.db.WithContext(c).Create(&milestone).Error; err != nil {
		klog.Errorf("create milestone for project %d: %v", uri.ProjectID, err)
		resputil.Error(c, "Failed to create milestone", resputil.NotSpecified)
		return
	}
	resputil.Success(c, milestone)
}

// UpdateMilestone godoc
// @Summary Update a milestone
// @Tags Milestone
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "milestone id"
// @Param data body MilestoneReq true "milestone content"
// @Success 200 {object} resputil.Response[model.Milestone] "updated milestone"
// @Router /milestones/{id} [put]
func (mgr *MilestoneMgr) UpdateMilestone(c *gin.Context) {
	var uri uriID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req MilestoneReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	milestone, err := loadProjectDoc(c, mgr.db, mgr.resolver, uri.ID, model.KindMilestone,
		"milestone", func(m *model.Milestone) uint { return m.ProjectID })
	if err != nil {
		resputil.WrapError(c, err)
		return
	}

	req.apply(milestone)
	if err := mgr.db.WithContext(c).Save(milestone).Error; err != nil {
		klog.Errorf("update milestone %d: %v", uri.ID, err)
		resputil.Error(c, "Failed to update milestone", resputil.NotSpecified)
		return
	}
	resputil.Success(c, milestone)
}

type AchieveMilestoneReq struct {
	Achieved bool `json:"achieved"`
}

// AchieveMilestone godoc
// @Summary Mark a milestone achieved or not
// @Description Achieving stamps the current time; clearing removes the stamp
// @Tags Milestone
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "milestone id"
// @Param data body AchieveMilestoneReq true "target state"
// @Success 200 {object} resputil.Response[model.Milestone] "updated milestone"
// @Router /milestones/{id}/achieve [put]
func (mgr *MilestoneMgr) AchieveMilestone(c *gin.Context) {
	var uri uriID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req AchieveMilestoneReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	milestone, err := loadProjectDoc(c, mgr.db, mgr.resolver, uri.ID, model.KindMilestone,
		"milestone", func(m *model.Milestone) uint { return m.ProjectID })
	if err != nil {
		resputil.WrapError(c, err)
		return
	}

	milestone.Achieved = req.Achieved
	if req.Achieved {
		milestone.AchievedDate = ptr.To(time.Now())
	} else {
		milestone.AchievedDate = nil
	}
	if err := mgr.db.WithContext(c).Save(milestone).Error; err != nil {
		klog.Errorf("achieve milestone %d: %v", uri.ID, err)
		resputil.Error(c, "Failed to update milestone", resputil.NotSpecified)
		return
	}
	resputil.Success(c, milestone)
}

// DeleteMilestone godoc
// @Summary Delete a milestone
// @Tags Milestone
// @Produce json
// @Security Bearer
// @Param id path int true "milestone id"
// @Success 200 {object} resputil.Response[any] "deleted"
// @Router /milestones/{id} [delete]
func (mgr *MilestoneMgr) DeleteMilestone(c *gin.Context) {
	deleteProjectDoc(c, mgr.db, mgr.resolver, model.KindMilestone,
		"milestone", func(m *model.Milestone) uint { return m.ProjectID })
}
