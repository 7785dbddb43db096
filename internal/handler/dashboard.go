package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pmo-lab/projecthub/dao/model"
	"github.com/pmo-lab/projecthub/internal/resputil"
	"github.com/pmo-lab/projecthub/internal/util"
	"github.com/pmo-lab/projecthub/pkg/authz"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewDashboardMgr)
}

// DashboardMgr aggregates counters over the caller's visible projects. The
// same predicate drives the list endpoint, so the numbers always reconcile
// with what the caller can enumerate.
type DashboardMgr struct {
	name string
	db   *gorm.DB
}

func NewDashboardMgr(conf *RegisterConfig) Manager {
	return &DashboardMgr{
		name: "dashboard",
		db:   conf.DB,
	}
}

func (mgr *DashboardMgr) GetName() string { return mgr.name }

func (mgr *DashboardMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *DashboardMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("/stats", mgr.Stats)
}

func (mgr *DashboardMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type DashboardStatsResp struct {
	TotalProjects     int64                         `json:"totalProjects"`
	ActiveProjects    int64                         `json:"activeProjects"`
	CompletedProjects int64                         `json:"completedProjects"`
	OverdueProjects   int64                         `json:"overdueProjects"`
	CompletionRate    float64                       `json:"completionRate"`
	ByStatus          map[model.ProjectStatus]int64 `json:"byStatus"`
	ByPriority        map[model.Priority]int64      `json:"byPriority"`
	AverageProgress   float64                       `json:"averageProgress"`
}

type statusCount struct {
	Status model.ProjectStatus
	Count  int64
}

type priorityCount struct {
	Priority model.Priority
	Count    int64
}

// Stats godoc
// @Summary Dashboard counters over the caller's visible projects
// @Description Completion rate is completed over total; overdue counts active projects past their end date
// @Tags Dashboard
// @Produce json
// @Security Bearer
// @Success 200 {object} resputil.Response[DashboardStatsResp] "aggregated counters"
// @Router /dashboard/stats [get]
func (mgr *DashboardMgr) Stats(c *gin.Context) {
	filter := authz.ListFilter(util.GetIdentity(c))
	visible := func(db *gorm.DB) *gorm.DB {
		return db.Model(&model.Project{}).Scopes(filter.Scope())
	}

	resp := DashboardStatsResp{
		ByStatus:   map[model.ProjectStatus]int64{},
		ByPriority: map[model.Priority]int64{},
	}

	if err := visible(mgr.db.WithContext(c)).Count(&resp.TotalProjects).Error; err != nil {
		resputil.Error(c, "Failed to aggregate projects", resputil.NotSpecified)
		return
	}
	if err := visible(mgr.db.WithContext(c)).Scopes(authz.ActiveScope).
		Count(&resp.ActiveProjects).Error; err != nil {
		resputil.Error(c, "Failed to aggregate projects", resputil.NotSpecified)
		return
	}
	if err := visible(mgr.db.WithContext(c)).Scopes(authz.CompletedScope).
		Count(&resp.CompletedProjects).Error; err != nil {
		resputil.Error(c, "Failed to aggregate projects", resputil.NotSpecified)
		return
	}
	if err := visible(mgr.db.WithContext(c)).Scopes(authz.ActiveScope).
		Where("end_date IS NOT NULL AND end_date < ?", time.Now()).
		Count(&resp.OverdueProjects).Error; err != nil {
		resputil.Error(c, "Failed to aggregate projects", resputil.NotSpecified)
		return
	}

	var byStatus []statusCount
	if err := visible(mgr.db.WithContext(c)).
		Select("status, count(*) as count").Group("status").
		Scan(&byStatus).Error; err != nil {
		resputil.Error(c, "Failed to aggregate projects", resputil.NotSpecified)
		return
	}
	for _, row := range byStatus {
		resp.ByStatus[row.Status] = row.Count
	}

	var byPriority []priorityCount
	if err := visible(mgr.db.WithContext(c)).
		Select("priority, count(*) as count").Group("priority").
		Scan(&byPriority).Error; err != nil {
		resputil.Error(c, "Failed to aggregate projects", resputil.NotSpecified)
		return
	}
	for _, row := range byPriority {
		resp.ByPriority[row.Priority] = row.Count
	}

	var avg *float64
	if err := visible(mgr.db.WithContext(c)).
		Select("avg(completion_percentage)").Scan(&avg).Error; err != nil {
		resputil.Error(c, "Failed to aggregate projects", resputil.NotSpecified)
		return
	}
	if avg != nil {
		resp.AverageProgress = *avg
	}
	if resp.TotalProjects > 0 {
		resp.CompletionRate = float64(resp.CompletedProjects) / float64(resp.TotalProjects)
	}
	resputil.Success(c, resp)
}
