package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"k8s.io/klog/v2"

	"github.com/pmo-lab/projecthub/dao/model"
	"github.com/pmo-lab/projecthub/internal/resputil"
	"github.com/pmo-lab/projecthub/internal/util"
	"github.com/pmo-lab/projecthub/pkg/alert"
	"github.com/pmo-lab/projecthub/pkg/apperror"
	"github.com/pmo-lab/projecthub/pkg/authz"
	"github.com/pmo-lab/projecthub/pkg/metrics"
	"github.com/pmo-lab/projecthub/pkg/workflow"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewProjectMgr)
}

type ProjectMgr struct {
	name    string
	db      *gorm.DB
	alerter alert.Interface
}

func NewProjectMgr(conf *RegisterConfig) Manager {
	return &ProjectMgr{
		name:    "projects",
		db:      conf.DB,
		alerter: conf.Alerter,
	}
}

func (mgr *ProjectMgr) GetName() string { return mgr.name }

func (mgr *ProjectMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *ProjectMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("", mgr.ListProjects)
	g.POST("", mgr.CreateProject)
	g.POST("/wizard", mgr.CreateProjectWizard)
	g.GET("/phases/:phase/candidates", mgr.ListPhaseCandidates)
	g.GET("/:id", mgr.GetProject)
	g.PUT("/:id", mgr.UpdateProject)
	g.DELETE("/:id", mgr.DeleteProject)
	g.PUT("/:id/status", mgr.UpdateProjectStatus)
}

func (mgr *ProjectMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type ProjectResp struct {
	ID                   uint                `json:"id"`
	Ref                  string              `json:"ref"`
	Name                 string              `json:"name"`
	Description          string              `json:"description"`
	Status               model.ProjectStatus `json:"status"`
	Priority             model.Priority      `json:"priority"`
	StartDate            *time.Time          `json:"startDate"`
	EndDate              *time.Time          `json:"endDate"`
	Budget               float64             `json:"budget"`
	Stakeholders         []uint              `json:"stakeholders"`
	Tags                 []string            `json:"tags"`
	ProjectManagerID     uint                `json:"projectManagerId"`
	CreatedBy            uint                `json:"createdBy"`
	CompletionPercentage float64             `json:"completionPercentage"`
	ProjectType          *string             `json:"projectType,omitempty"`
	Industry             *string             `json:"industry,omitempty"`
	ComplexityLevel      *string             `json:"complexityLevel,omitempty"`
	TeamSize             *int                `json:"teamSize,omitempty"`
	DurationEstimate     *string             `json:"durationEstimate,omitempty"`
	BudgetRange          *string             `json:"budgetRange,omitempty"`
	Methodology          *string             `json:"methodology,omitempty"`
	CreatedAt            time.Time           `json:"createdAt"`
	UpdatedAt            time.Time           `json:"updatedAt"`
}

func toProjectResp(p *model.Project) ProjectResp {
	return ProjectResp{
		ID:                   p.ID,
		Ref:                  p.Ref,
		Name:                 p.Name,
		Description:          p.Description,
		Status:               p.Status,
		Priority:             p.Priority,
		StartDate:            p.StartDate,
		EndDate:              p.EndDate,
		Budget:               p.Budget,
		Stakeholders:         p.Stakeholders,
		Tags:                 p.Tags,
		ProjectManagerID:     p.ProjectManagerID,
		CreatedBy:            p.CreatedBy,
		CompletionPercentage: p.CompletionPercentage,
		ProjectType:          p.ProjectType,
		Industry:             p.Industry,
		ComplexityLevel:      p.ComplexityLevel,
		TeamSize:             p.TeamSize,
		DurationEstimate:     p.DurationEstimate,
		BudgetRange:          p.BudgetRange,
		Methodology:          p.Methodology,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

type ListProjectReq struct {
	Status   model.ProjectStatus `form:"status" binding:"omitempty,oneof=initiation planning execution monitoring closure completed cancelled"`
	Priority model.Priority      `form:"priority" binding:"omitempty,oneof=low medium high critical"`
}

// ListProjects godoc
// @Summary List projects visible to the caller
// @Description Executives see all projects; other roles see projects they manage, created or are stakeholder of
// @Tags Project
// @Produce json
// @Security Bearer
// @Param status query string false "filter by status"
// @Param priority query string false "filter by priority"
// @Success 200 {object} resputil.Response[[]ProjectResp] "visible projects"
// @Router /projects [get]
func (mgr *ProjectMgr) ListProjects(c *gin.Context) {
	var req ListProjectReq
	if err := c.ShouldBindQuery(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	filter := authz.ListFilter(util.GetIdentity(c))
	tx := mgr.db.WithContext(c).Scopes(filter.Scope())
	if req.Status != "" {
		tx = tx.Where("status = ?", req.Status)
	}
	if req.Priority != "" {
		tx = tx.Where("priority = ?", req.Priority)
	}

	var projects []model.Project
	if err := tx.Order("id DESC").Find(&projects).Error; err != nil {
		resputil.Error(c, "Can't list projects", resputil.NotSpecified)
		return
	}

	result := lo.Map(projects, func(p model.Project, _ int) ProjectResp {
		return toProjectResp(&p)
	})
	resputil.Success(c, result)
}

type CreateProjectReq struct {
	Name             string         `json:"name" binding:"required,max=128"`
	Description      string         `json:"description"`
	Priority         model.Priority `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	StartDate        *time.Time     `json:"startDate"`
	EndDate          *time.Time     `json:"endDate"`
	Budget           float64        `json:"budget" binding:"omitempty,gte=0"`
	Stakeholders     []uint         `json:"stakeholders"`
	Tags             []string       `json:"tags"`
	ProjectManagerID *uint          `json:"projectManagerId"`
}

// CreateProject godoc
// @Summary Create a project
// @Description Only project managers and executives may create projects. The caller becomes the project manager unless another one is assigned explicitly.
// @Tags Project
// @Accept json
// @Produce json
// @Security Bearer
// @Param data body CreateProjectReq true "project attributes"
// @Success 200 {object} resputil.Response[ProjectResp] "created project"
// @Failure 403 {object} resputil.Response[any] "caller role may not create projects"
// @Router /projects [post]
func (mgr *ProjectMgr) CreateProject(c *gin.Context) {
	var req CreateProjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	ident := util.GetIdentity(c)
	if !ident.Role.IsManagerial() {
		metrics.AuthzDenials.WithLabelValues("project").Inc()
		resputil.WrapError(c, apperror.ErrAuthorization)
		return
	}

	project := mgr.buildProject(&req, ident.UserID)
	if err := mgr.db.WithContext(c).Create(project).Error; err != nil {
		klog.Errorf("create project %q: %v", req.Name, err)
		resputil.Error(c, "Failed to create project", resputil.NotSpecified)
		return
	}
	resputil.Success(c, toProjectResp(project))
}

func (mgr *ProjectMgr) buildProject(req *CreateProjectReq, creator uint) *model.Project {
	managerID := creator
	if req.ProjectManagerID != nil {
		managerID = *req.ProjectManagerID
	}
	priority := req.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	return &model.Project{
		Ref:              uuid.NewString(),
		Name:             req.Name,
		Description:      req.Description,
		Status:           model.StatusInitiation,
		Priority:         priority,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		Budget:           req.Budget,
		Stakeholders:     datatypes.NewJSONSlice(req.Stakeholders),
		Tags:             datatypes.NewJSONSlice(req.Tags),
		ProjectManagerID: managerID,
		CreatedBy:        creator,
	}
}

type WizardProjectReq struct {
	CreateProjectReq
	ProjectType      string `json:"projectType" binding:"required,max=32"`
	Industry         string `json:"industry" binding:"omitempty,max=64"`
	ComplexityLevel  string `json:"complexityLevel" binding:"omitempty,oneof=low medium high"`
	TeamSize         *int   `json:"teamSize" binding:"omitempty,gte=1"`
	DurationEstimate string `json:"durationEstimate" binding:"omitempty,max=64"`
	BudgetRange      string `json:"budgetRange" binding:"omitempty,max=64"`
	Methodology      string `json:"methodology" binding:"omitempty,oneof=agile waterfall hybrid"`
}

// CreateProjectWizard godoc
// @Summary Create a project through the setup wizard
// @Description Same gate as plain creation, but records the wizard metadata alongside the project
// @Tags Project
// @Accept json
// @Produce json
// @Security Bearer
// @Param data body WizardProjectReq true "project attributes with wizard metadata"
// @Success 200 {object} resputil.Response[ProjectResp] "created project"
// @Router /projects/wizard [post]
func (mgr *ProjectMgr) CreateProjectWizard(c *gin.Context) {
	var req WizardProjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	ident := util.GetIdentity(c)
	if !ident.Role.IsManagerial() {
		metrics.AuthzDenials.WithLabelValues("project").Inc()
		resputil.WrapError(c, apperror.ErrAuthorization)
		return
	}

	project := mgr.buildProject(&req.CreateProjectReq, ident.UserID)
	project.ProjectType = &req.ProjectType
	project.TeamSize = req.TeamSize
	if req.Industry != "" {
		project.Industry = &req.Industry
	}
	if req.ComplexityLevel != "" {
		project.ComplexityLevel = &req.ComplexityLevel
	}
	if req.DurationEstimate != "" {
		project.DurationEstimate = &req.DurationEstimate
	}
	if req.BudgetRange != "" {
		project.BudgetRange = &req.BudgetRange
	}
	if req.Methodology != "" {
		project.Methodology = &req.Methodology
	}

	if err := mgr.db.WithContext(c).Create(project).Error; err != nil {
		klog.Errorf("create project via wizard %q: %v", req.Name, err)
		resputil.Error(c, "Failed to create project", resputil.NotSpecified)
		return
	}
	resputil.Success(c, toProjectResp(project))
}

// loadProject fetches a project by primary key, mapping the miss onto the
// error taxonomy.
func (mgr *ProjectMgr) loadProject(c *gin.Context, id uint) (*model.Project, error) {
	var project model.Project
	if err := mgr.db.WithContext(c).First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("project")
		}
		return nil, err
	}
	return &project, nil
}

// GetProject godoc
// @Summary Get one project
// @Tags Project
// @Produce json
// @Security Bearer
// @Param id path int true "project id"
// @Success 200 {object} resputil.Response[ProjectResp] "project"
// @Failure 403 {object} resputil.Response[any] "not visible to the caller"
// @Failure 404 {object} resputil.Response[any] "project not found"
// @Router /projects/{id} [get]
func (mgr *ProjectMgr) GetProject(c *gin.Context) {
	var uri uriID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	project, err := mgr.loadProject(c, uri.ID)
	if err != nil {
		resputil.WrapError(c, err)
		return
	}
	if !authz.CanRead(util.GetIdentity(c), project) {
		metrics.AuthzDenials.WithLabelValues("project").Inc()
		resputil.WrapError(c, apperror.ErrAuthorization)
		return
	}
	resputil.Success(c, toProjectResp(project))
}

type UpdateProjectReq struct {
	Name                 *string         `json:"name" binding:"omitempty,max=128"`
	Description          *string         `json:"description"`
	Priority             *model.Priority `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	StartDate            *time.Time      `json:"startDate"`
	EndDate              *time.Time      `json:"endDate"`
	Budget               *float64        `json:"budget" binding:"omitempty,gte=0"`
	Stakeholders         *[]uint         `json:"stakeholders"`
	Tags                 *[]string       `json:"tags"`
	ProjectManagerID     *uint           `json:"projectManagerId"`
	CompletionPercentage *float64        `json:"completionPercentage" binding:"omitempty,gte=0,lte=100"`
}

// UpdateProject godoc
// @Summary Update project attributes
// @Description Partial update. Status is excluded here; it only moves through the transition endpoint.
// @Tags Project
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "project id"
// @Param data body UpdateProjectReq true "fields to change"
// @Success 200 {object} resputil.Response[ProjectResp] "updated project"
// @Failure 403 {object} resputil.Response[any] "caller may not modify this project"
// @Router /projects/{id} [put]
func (mgr *ProjectMgr) UpdateProject(c *gin.Context) {
	var uri uriID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req UpdateProjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	project, err := mgr.loadProject(c, uri.ID)
	if err != nil {
		resputil.WrapError(c, err)
		return
	}
	if !authz.CanWrite(util.GetIdentity(c), project) {
		metrics.AuthzDenials.WithLabelValues("project").Inc()
		resputil.WrapError(c, apperror.ErrAuthorization)
		return
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Priority != nil {
		project.Priority = *req.Priority
	}
	if req.StartDate != nil {
		project.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		project.EndDate = req.EndDate
	}
	if req.Budget != nil {
		project.Budget = *req.Budget
	}
	if req.Stakeholders != nil {
		project.Stakeholders = datatypes.NewJSONSlice(*req.Stakeholders)
	}
	if req.Tags != nil {
		project.Tags = datatypes.NewJSONSlice(*req.Tags)
	}
	if req.ProjectManagerID != nil {
		project.ProjectManagerID = *req.ProjectManagerID
	}
	if req.CompletionPercentage != nil {
		project.CompletionPercentage = *req.CompletionPercentage
	}

	if err := mgr.db.WithContext(c).Save(project).Error; err != nil {
		klog.Errorf("update project %d: %v", uri.ID, err)
		resputil.Error(c, "Failed to update project", resputil.NotSpecified)
		return
	}
	resputil.Success(c, toProjectResp(project))
}

// DeleteProject godoc
// @Summary Delete a project
// @Description Sub-documents are left in place; the audit sweep reports them as orphans
// @Tags Project
// @Produce json
// @Security Bearer
// @Param id path int true "project id"
// @Success 200 {object} resputil.Response[any] "deleted"
// @Failure 403 {object} resputil.Response[any] "caller may not delete this project"
// @Router /projects/{id} [delete]
func (mgr *ProjectMgr) DeleteProject(c *gin.Context) {
	var uri uriID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	project, err := mgr.loadProject(c, uri.ID)
	if err != nil {
		resputil.WrapError(c, err)
		return
	}
	if !authz.CanWrite(util.GetIdentity(c), project) {
		metrics.AuthzDenials.WithLabelValues("project").Inc()
		resputil.WrapError(c, apperror.ErrAuthorization)
		return
	}

	if err := mgr.db.WithContext(c).Delete(project).Error; err != nil {
		klog.Errorf("delete project %d: %v", uri.ID, err)
		resputil.Error(c, "Failed to delete project", resputil.NotSpecified)
		return
	}
	resputil.Success(c, gin.H{"id": uri.ID})
}

type UpdateStatusReq struct {
	Status model.ProjectStatus `json:"status" binding:"required,oneof=initiation planning execution monitoring closure completed cancelled"`
}

// UpdateProjectStatus godoc
// @Summary Transition the project status
// @Description Validates the move against the lifecycle table, then applies it conditionally so concurrent transitions cannot both win
// @Tags Project
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "project id"
// @Param data body UpdateStatusReq true "requested status"
// @Success 200 {object} resputil.Response[ProjectResp] "project with the new status"
// @Failure 409 {object} resputil.Response[any] "illegal transition or concurrent update"
// @Router /projects/{id}/status [put]
func (mgr *ProjectMgr) UpdateProjectStatus(c *gin.Context) {
	var uri uriID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req UpdateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	project, err := mgr.loadProject(c, uri.ID)
	if err != nil {
		resputil.WrapError(c, err)
		return
	}
	if !authz.CanWrite(util.GetIdentity(c), project) {
		metrics.AuthzDenials.WithLabelValues("project").Inc()
		resputil.WrapError(c, apperror.ErrAuthorization)
		return
	}

	from := project.Status
	target, err := workflow.Transition(from, req.Status)
	if err != nil {
		metrics.StatusTransitions.WithLabelValues(string(from), string(req.Status), "invalid").Inc()
		resputil.WrapError(c, err)
		return
	}

	// Guard on the status we read so a concurrent transition shows up as
	// zero affected rows instead of a silent overwrite.
	result := mgr.db.WithContext(c).Model(&model.Project{}).
		Where("id = ? AND status = ?", project.ID, from).
		Update("status", target)
	if result.Error != nil {
		klog.Errorf("transition project %d to %s: %v", project.ID, target, result.Error)
		resputil.Error(c, "Failed to update project status", resputil.NotSpecified)
		return
	}
	if _, err := workflow.ApplyResult(result.RowsAffected, target); err != nil {
		metrics.StatusTransitions.WithLabelValues(string(from), string(target), "conflict").Inc()
		resputil.WrapError(c, err)
		return
	}
	metrics.StatusTransitions.WithLabelValues(string(from), string(target), "ok").Inc()

	project.Status = target
	if err := mgr.alerter.ProjectStatusAlert(c, project, from, target); err != nil {
		klog.Errorf("status alert for project %d: %v", project.ID, err)
	}
	resputil.Success(c, toProjectResp(project))
}

type uriPhase struct {
	Phase model.ProjectStatus `uri:"phase" binding:"required,oneof=initiation planning execution monitoring closure completed cancelled"`
}

// ListPhaseCandidates godoc
// @Summary List projects eligible to reach a phase
// @Description Candidacy is advisory and wider than the strict transition table; it never authorizes a transition by itself
// @Tags Project
// @Produce json
// @Security Bearer
// @Param phase path string true "target phase"
// @Success 200 {object} resputil.Response[[]ProjectResp] "candidate projects visible to the caller"
// @Router /projects/phases/{phase}/candidates [get]
func (mgr *ProjectMgr) ListPhaseCandidates(c *gin.Context) {
	var uri uriPhase
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	candidates := workflow.CandidatesForPhase(uri.Phase)
	if len(candidates) == 0 {
		resputil.Success(c, []ProjectResp{})
		return
	}

	filter := authz.ListFilter(util.GetIdentity(c))
	var projects []model.Project
	if err := mgr.db.WithContext(c).Scopes(filter.Scope()).
		Where("status IN ?", candidates).
		Order("id DESC").Find(&projects).Error; err != nil {
		resputil.Error(c, "Can't list phase candidates", resputil.NotSpecified)
		return
	}

	result := lo.Map(projects, func(p model.Project, _ int) ProjectResp {
		return toProjectResp(&p)
	})
	resputil.Success(c, result)
}
