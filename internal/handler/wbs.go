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
	Registers = append(Registers, NewWBSMgr)
}

// WBSMgr maintains the work breakdown structure. Hierarchy is carried by
// ParentID and the dotted code; the handler stores what the caller submits
// and does not renumber siblings.
type WBSMgr struct {
	name     string
	db       *gorm.DB
	resolver *authz.ParentResolver
}

func NewWBSMgr(conf *RegisterConfig) Manager {
	return &WBSMgr{
		name:     "wbs-tasks",
		db:       conf.DB,
		resolver: conf.Resolver,
	}
}

func (mgr *WBSMgr) GetName() string { return mgr.name }

func (mgr *WBSMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *WBSMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("/project/:projectID", mgr.ListTasks)
	g.POST("/project/:projectID", mgr.CreateTask)
	g.PUT("/:id", mgr.UpdateTask)
	g.DELETE("/:id", mgr.DeleteTask)
}

func (mgr *WBSMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type WBSTaskReq struct {
	Name        string `json:"name" binding:"required,max=128"`
	Description string `json:"description"`
	ParentID    *uint  `json:"parentId"`
	Level       int    `json:"level" binding:"omitempty,gte=1"`
	WBSCode     string `json:"wbsCode" binding:"required,max=32"`

	Status     model.WBSTaskStatus `json:"status" binding:"omitempty,oneof=not_started in_progress completed on_hold cancelled"`
	AssignedTo *uint               `json:"assignedTo"`

	EstimatedHours float64    `json:"estimatedHours" binding:"omitempty,gte=0"`
	ActualHours    float64    `json:"actualHours" binding:"omitempty,gte=0"`
	StartDate      *time.Time `json:"startDate"`
	EndDate        *time.Time `json:"endDate"`

	Dependencies []uint   `json:"dependencies"`
	Deliverables []string `json:"deliverables"`
	Notes        string   `json:"notes"`

	CompletionPercentage float64 `json:"completionPercentage" binding:"omitempty,gte=0,lte=100"`
}

func (req *WBSTaskReq) apply(task *model.WBSTask) {
	task.Name = req.Name
	task.Description = req.Description
	task.ParentID = req.ParentID
	if req.Level > 0 {
		task.Level = req.Level
	}
	task.WBSCode = req.WBSCode
	if req.Status != "" {
		task.Status = req.Status
	}
	task.AssignedTo = req.AssignedTo
	task.EstimatedHours = req.EstimatedHours
	task.ActualHours = req.ActualHours
	task.StartDate = req.StartDate
	task.EndDate = req.EndDate
	task.Dependencies = datatypes.NewJSONSlice(req.Dependencies)
	task.Deliverables = datatypes.NewJSONSlice(req.Deliverables)
	task.Notes = req.Notes
	task.CompletionPercentage = req.CompletionPercentage
}

// ListTasks godoc
// @Summary List the work breakdown structure of a project
// @Tags WBS
// @Produce json
// @Security Bearer
// @Param projectID path int true "project id"
// @Success 200 {object} resputil.Response[[]model.WBSTask] "tasks ordered by id"
// @Router /wbs-tasks/project/{projectID} [get]
func (mgr *WBSMgr) ListTasks(c *gin.Context) {
	listProjectDocs[model.WBSTask](c, mgr.db, mgr.resolver)
}

// CreateTask godoc
// @Summary Add a WBS task
// @Tags WBS
// @Accept json
// @Produce json
// @Security Bearer
// @Param projectID path int true "project id"
// @Param data body WBSTaskReq true "task content"
// @Success 200 {object} resputil.Response[model.WBSTask] "created task"
// @Router /wbs-tasks/project/{projectID} [post]
func (mgr *WBSMgr) CreateTask(c *gin.Context) {
	var uri uriProjectID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req WBSTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if _, err := requireDocumentWrite(c, mgr.resolver, uri.ProjectID, model.KindWBSTask); err != nil {
		resputil.WrapError(c, err)
		return
	}

	task := model.WBSTask{
		ProjectID: uri.ProjectID,
		Level:     1,
		Status:    model.WBSNotStarted,
		CreatedBy: util.GetIdentity(c).UserID,
	}
	req.apply(&task)
	if err := mgr.db.WithContext(c).Create(&task).Error; err != nil {
		klog.Errorf("create wbs task for project %d: %v", uri.ProjectID, err)
		resputil.Error(c, "Failed to create task", resputil.NotSpecified)
		return
	}
	resputil.Success(c, task)
}

// UpdateTask godoc
// @Summary Update a WBS task
// @Tags WBS
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "task id"
// @Param data body WBSTaskReq true "task content"
// @Success 200 {object} resputil.Response[model.WBSTask] "updated task"
// @Router /wbs-tasks/{id} [put]
func (mgr *WBSMgr) UpdateTask(c *gin.Context) {
	var uri uriID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req WBSTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	task, err := loadProjectDoc(c, mgr.db, mgr.resolver, uri.ID, model.KindWBSTask,
		"wbs task", func(t *model.WBSTask) uint { return t.ProjectID })
	if err != nil {
		resputil.WrapError(c, err)
		return
	}

	req.apply(task)
	if err := mgr.db.WithContext(c).Save(task).Error; err != nil {
		klog.Errorf("update wbs task %d: %v", uri.ID, err)
		resputil.Error(c, "Failed to update task", resputil.NotSpecified)
		return
	}
	resputil.Success(c, task)
}

// DeleteTask godoc
// @Summary Delete a WBS task
// @Tags WBS
// @Produce json
// @Security Bearer
// @Param id path int true "task id"
// @Success 200 {object} resputil.Response[any] "deleted"
// @Router /wbs-tasks/{id} [delete]
func (mgr *WBSMgr) DeleteTask(c *gin.Context) {
	deleteProjectDoc(c, mgr.db, mgr.resolver, model.KindWBSTask,
		"wbs task", func(t *model.WBSTask) uint { return t.ProjectID })
}
