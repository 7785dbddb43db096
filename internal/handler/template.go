package handler

import (
	"encoding/json"
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
	"github.com/pmo-lab/projecthub/pkg/metrics"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewTemplateMgr)
}

// TemplateMgr owns the reusable document templates and their application to
// projects. Templates are global, not project-scoped.
type TemplateMgr struct {
	name     string
	db       *gorm.DB
	resolver *authz.ParentResolver
}

func NewTemplateMgr(conf *RegisterConfig) Manager {
	return &TemplateMgr{
		name:     "templates",
		db:       conf.DB,
		resolver: conf.Resolver,
	}
}

func (mgr *TemplateMgr) GetName() string { return mgr.name }

func (mgr *TemplateMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *TemplateMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("", mgr.ListTemplates)
	g.POST("", mgr.CreateTemplate)
	g.GET("/:id", mgr.GetTemplate)
	g.POST("/:id/use", mgr.UseTemplate)
	g.POST("/:id/apply", mgr.ApplyTemplate)
}

func (mgr *TemplateMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type ListTemplateReq struct {
	Type model.TemplateType `form:"type" binding:"omitempty,oneof=project_charter business_case stakeholder_register risk_log feasibility_study"`
}

// ListTemplates godoc
// @Summary List templates
// @Tags Template
// @Produce json
// @Security Bearer
// @Param type query string false "filter by template type"
// @Success 200 {object} resputil.Response[[]model.Template] "templates"
// @Router /templates [get]
func (mgr *TemplateMgr) ListTemplates(c *gin.Context) {
	var req ListTemplateReq
	if err := c.ShouldBindQuery(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	tx := mgr.db.WithContext(c)
	if req.Type != "" {
		tx = tx.Where("type = ?", req.Type)
	}
	var templates []model.Template
	if err := tx.Order("is_default DESC, usage_count DESC").Find(&templates).Error; err != nil {
		resputil.Error(c, "Can't list templates", resputil.NotSpecified)
		return
	}
	resputil.Success(c, templates)
}

type CreateTemplateReq struct {
	Name        string             `json:"name" binding:"required,max=128"`
	Description string             `json:"description"`
	Type        model.TemplateType `json:"type" binding:"required,oneof=project_charter business_case stakeholder_register risk_log feasibility_study"`
	Industry    string             `json:"industry" binding:"omitempty,max=64"`
	ProjectType string             `json:"projectType" binding:"omitempty,max=32"`
	Data        datatypes.JSON     `json:"data" binding:"required" swaggertype:"object"`
	IsDefault   bool               `json:"isDefault"`
}

// CreateTemplate godoc
// @Summary Create a template
// @Description Only project managers and executives may author templates
// @Tags Template
// @Accept json
// @Produce json
// @Security Bearer
// @Param data body CreateTemplateReq true "template content"
// @Success 200 {object} resputil.Response[model.Template] "created template"
// @Failure 403 {object} resputil.Response[any] "caller role may not author templates"
// @Router /templates [post]
func (mgr *TemplateMgr) CreateTemplate(c *gin.Context) {
	var req CreateTemplateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	ident := util.GetIdentity(c)
	if !authz.CanManageDocument(ident, model.KindTemplate) {
		metrics.AuthzDenials.WithLabelValues(string(model.KindTemplate)).Inc()
		resputil.WrapError(c, apperror.ErrAuthorization)
		return
	}

	template := model.Template{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		Industry:    req.Industry,
		ProjectType: req.ProjectType,
		Data:        req.Data,
		IsDefault:   req.IsDefault,
		CreatedBy:   ident.UserID,
	}
	if err := mgr.db.WithContext(c).Create(&template).Error; err != nil {
		klog.Errorf("create template %q: %v", req.Name, err)
		resputil.Error(c, "Failed to create template", resputil.NotSpecified)
		return
	}
	resputil.Success(c, template)
}

// GetTemplate godoc
// @Summary Get one template
// @Tags Template
// @Produce json
// @Security Bearer
// @Param id path int true "template id"
// @Success 200 {object} resputil.Response[model.Template] "template"
// @Failure 404 {object} resputil.Response[any] "template not found"
// @Router /templates/{id} [get]
func (mgr *TemplateMgr) GetTemplate(c *gin.Context) {
	var uri uriID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var template model.Template
	if err := mgr.db.WithContext(c).First(&template, uri.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resputil.WrapError(c, apperror.NotFound("template"))
			return
		}
		resputil.Error(c, "Failed to load template", resputil.NotSpecified)
		return
	}
	resputil.Success(c, template)
}

// UseTemplate godoc
// @Summary Record a template use
// @Description Atomically increments the usage count without materializing any documents, for clients that copy template content into their own drafts
// @Tags Template
// @Produce json
// @Security Bearer
// @Param id path int true "template id"
// @Success 200 {object} resputil.Response[model.Template] "template with updated usage count"
// @Failure 404 {object} resputil.Response[any] "template not found"
// @Router /templates/{id}/use [post]
func (mgr *TemplateMgr) UseTemplate(c *gin.Context) {
	var uri uriID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	result := mgr.db.WithContext(c).Model(&model.Template{}).Where("id = ?", uri.ID).
		Update("usage_count", gorm.Expr("usage_count + 1"))
	if result.Error != nil {
		klog.Errorf("use template %d: %v", uri.ID, result.Error)
		resputil.Error(c, "Failed to record template use", resputil.NotSpecified)
		return
	}
	if result.RowsAffected == 0 {
		resputil.WrapError(c, apperror.NotFound("template"))
		return
	}

	var template model.Template
	if err := mgr.db.WithContext(c).First(&template, uri.ID).Error; err != nil {
		resputil.Error(c, "Failed to load template", resputil.NotSpecified)
		return
	}
	resputil.Success(c, template)
}

type ApplyTemplateReq struct {
	ProjectID uint `json:"projectId" binding:"required"`
}

type ApplyTemplateResp struct {
	TemplateID          uint               `json:"templateId"`
	Type                model.TemplateType `json:"type"`
	CharterID           *uint              `json:"charterId,omitempty"`
	BusinessCaseID      *uint              `json:"businessCaseId,omitempty"`
	StakeholdersCreated int                `json:"stakeholdersCreated,omitempty"`
	Prepared            json.RawMessage    `json:"prepared,omitempty"`
}

// ApplyTemplate godoc
// @Summary Apply a template to a project
// @Description Charter and business case templates upsert the project's singleton document. Stakeholder register templates always insert, so re-applying duplicates the rows. Risk log and feasibility templates return their payload for review without writing anything. Usage count is incremented atomically on every application.
// @Tags Template
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "template id"
// @Param data body ApplyTemplateReq true "target project"
// @Success 200 {object} resputil.Response[ApplyTemplateResp] "materialization summary"
// @Failure 404 {object} resputil.Response[any] "template or project not found"
// @Router /templates/{id}/apply [post]
func (mgr *TemplateMgr) ApplyTemplate(c *gin.Context) {
	var uri uriID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req ApplyTemplateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	var template model.Template
	if err := mgr.db.WithContext(c).First(&template, uri.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resputil.WrapError(c, apperror.NotFound("template"))
			return
		}
		resputil.Error(c, "Failed to load template", resputil.NotSpecified)
		return
	}
	if _, err := requireDocumentWrite(c, mgr.resolver, req.ProjectID, writeKind(template.Type)); err != nil {
		resputil.WrapError(c, err)
		return
	}

	plan, err := buildApplyPlan(&template, req.ProjectID, util.GetIdentity(c).UserID)
	if err != nil {
		resputil.WrapError(c, err)
		return
	}

	resp := ApplyTemplateResp{TemplateID: template.ID, Type: template.Type, Prepared: plan.Prepared}
	err = mgr.db.WithContext(c).Transaction(func(tx *gorm.DB) error {
		if plan.Charter != nil {
			id, err := upsertSingleton(tx, plan.Charter, req.ProjectID)
			if err != nil {
				return err
			}
			resp.CharterID = &id
		}
		if plan.BusinessCase != nil {
			id, err := upsertSingleton(tx, plan.BusinessCase, req.ProjectID)
			if err != nil {
				return err
			}
			resp.BusinessCaseID = &id
		}
		if len(plan.Stakeholders) > 0 {
			if err := tx.Create(&plan.Stakeholders).Error; err != nil {
				return err
			}
			resp.StakeholdersCreated = len(plan.Stakeholders)
		}
		return tx.Model(&model.Template{}).Where("id = ?", template.ID).
			Update("usage_count", gorm.Expr("usage_count + 1")).Error
	})
	if err != nil {
		klog.Errorf("apply template %d to project %d: %v", template.ID, req.ProjectID, err)
		resputil.Error(c, "Failed to apply template", resputil.NotSpecified)
		return
	}

	metrics.TemplateApplications.WithLabelValues(string(template.Type)).Inc()
	resputil.Success(c, resp)
}

// upsertSingleton writes a per-project singleton document, replacing the
// existing row's content while keeping its primary key. Returns the row id.
func upsertSingleton[T any](tx *gorm.DB, doc *T, projectID uint) (uint, error) {
	var existing T
	err := tx.Where("project_id = ?", projectID).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := tx.Create(doc).Error; err != nil {
			return 0, err
		}
	case err != nil:
		return 0, err
	default:
		if err := tx.Model(&existing).Select("*").
			Omit("id", "created_at", "project_id").Updates(doc).Error; err != nil {
			return 0, err
		}
	}

	var id uint
	err = tx.Model(new(T)).Select("id").
		Where("project_id = ?", projectID).Scan(&id).Error
	return id, err
}
