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
	Registers = append(Registers, NewTimelineMgr)
}

type TimelineMgr struct {
	name     string
	db       *gorm.DB
	resolver *authz.ParentResolver
}

func NewTimelineMgr(conf *RegisterConfig) Manager {
	return &TimelineMgr{
		name:     "timeline-tasks",
		db:       conf.DB,
		resolver: conf.Resolver,
	}
}

func (mgr *TimelineMgr) GetName() string { return mgr.name }

func (mgr *TimelineMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *TimelineMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("/project/:projectID", mgr.ListTasks)
	g.GET("/project/:projectID/span", mgr.ProjectSpan)
	g.POST("/project/:projectID", mgr.CreateTask)
	g.PUT("/:id", mgr.UpdateTask)
	g.DELETE("/:id", mgr.DeleteTask)
}

func (mgr *TimelineMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type TimelineTaskReq struct {
	Name      string    `json:"name" binding:"required,max=128"`
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required,gtefield=StartDate"`
	Progress  float64   `json:"progress" binding:"omitempty,gte=0,lte=100"`
	DependsOn []uint    `json:"dependsOn"`
}

func (req *TimelineTaskReq) apply(task *model.TimelineTask) {
	task.Name = req.Name
	task.StartDate = req.StartDate
	task.EndDate = req.EndDate
	task.Progress = req.Progress
	task.DependsOn = datatypes.NewJSONSlice(req.DependsOn)
}

// ListTasks godoc
// @Summary List the timeline tasks of a project
// @Tags Timeline
// @Produce json
// @Security Bearer
// @Param projectID path int true "project id"
// @Success 200 {object} resputil.Response[[]model.TimelineTask] "timeline tasks"
// @Router /timeline-tasks/project/{projectID} [get]
func (mgr *TimelineMgr) ListTasks(c *gin.Context) {
	listProjectDocs[model.TimelineTask](c, mgr.db, mgr.resolver)
}

type TimelineSpanResp struct {
	TaskCount     int        `json:"taskCount"`
	EarliestStart *time.Time `json:"earliestStart"`
	LatestEnd     *time.Time `json:"latestEnd"`
	SpanDays      int        `json:"spanDays"`
}

// ProjectSpan godoc
// @Summary Compute the overall timeline span of a project
// @Description Scans the tasks for the earliest start and latest end; an empty timeline reports zero span
// @Tags Timeline
// @Produce json
// @Security Bearer
// @Param projectID path int true "project id"
// @Success 200 {object} resputil.Response[TimelineSpanResp] "timeline span"
// @Router /timeline-tasks/project/{projectID}/span [get]
func (mgr *TimelineMgr) ProjectSpan(c *gin.Context) {
	var uri uriProjectID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if _, err := requireReadableProject(c, mgr.resolver, uri.ProjectID); err != nil {
		resputil.WrapError(c, err)
		return
	}

	var tasks []model.TimelineTask
	if err := mgr.db.WithContext(c).
		Where("project_id = ?", uri.ProjectID).Find(&tasks).Error; err != nil {
		resputil.Error(c, "Failed to load timeline", resputil.NotSpecified)
		return
	}

	resp := TimelineSpanResp{TaskCount: len(tasks)}
	if len(tasks) > 0 {
		earliest, latest := tasks[0].StartDate, tasks[0].EndDate
		for _, task := range tasks[1:] {
			if task.StartDate.Before(earliest) {
				earliest = task.StartDate
			}
			if task.EndDate.After(latest) {
				latest = task.EndDate
			}
		}
		resp.EarliestStart = &earliest
		resp.LatestEnd = &latest
		resp.SpanDays = int(latest.Sub(earliest).Hours() / 24)
	}
	resputil.Success(c, resp)
}

// CreateTask godoc
// @Summary Add a timeline task
// @Tags Timeline
// @Accept json
// @Produce json
// @Security Bearer
// @Param projectID path int true "project id"
// @Param data body TimelineTaskReq true "task content"
// @Success 200 {object} resputil.Response[model.TimelineTask] "created task"
// @Router /timeline-tasks/project/{projectID} [post]
func (mgr *TimelineMgr) CreateTask(c *gin.Context) {
	var uri uriProjectID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req TimelineTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if _, err := requireDocumentWrite(c, mgr.resolver, uri.ProjectID, model.KindTimelineTask); err != nil {
		resputil.WrapError(c, err)
		return
	}

	task := model.TimelineTask{
		ProjectID: uri.ProjectID,
		CreatedBy: util.GetIdentity(c).UserID,
	}
	req.apply(&task)
	if err := mgr.db.WithContext(c).Create(&task).Error; err != nil {
		klog.Errorf("create timeline task for project %d: %v", uri.ProjectID, err)
		resputil.Error(c, "Failed to create task", resputil.NotSpecified)
		return
	}
	resputil.Success(c, task)
}

// UpdateTask godoc
// @Summary Update a timeline task
// @Tags Timeline
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "task id"
// @Param data body TimelineTaskReq true "task content"
// @Success 200 {object} resputil.Response[model.TimelineTask] "updated task"
// @Router /timeline-tasks/{id} [put]
func (mgr *TimelineMgr) UpdateTask(c *gin.Context) {
	var uri uriID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req TimelineTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	task, err := loadProjectDoc(c, mgr.db, mgr.resolver, uri.ID, model.KindTimelineTask,
		"timeline task", func(t *model.TimelineTask) uint { return t.ProjectID })
	if err != nil {
		resputil.WrapError(c, err)
		return
	}

	req.apply(task)
	if err := mgr.db.WithContext(c).Save(task).Error; err != nil {
		klog.Errorf("update timeline task %d: %v", uri.ID, err)
		resputil.Error(c, "Failed to update task", resputil.NotSpecified)
		return
	}
	resputil.Success(c, task)
}

// DeleteTask godoc
// @Summary Delete a timeline task
// @Tags Timeline
// @Produce json
// @Security Bearer
// @Param id path int true "task id"
// @Success 200 {object} resputil.Response[any] "deleted"
// @Router /timeline-tasks/{id} [delete]
func (mgr *TimelineMgr) DeleteTask(c *gin.Context) {
	deleteProjectDoc(c, mgr.db, mgr.resolver, model.KindTimelineTask,
		"timeline task", func(t *model.TimelineTask) uint { return t.ProjectID })
}
