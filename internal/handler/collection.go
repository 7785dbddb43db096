package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"k8s.io/klog/v2"

	"github.com/pmo-lab/projecthub/dao/model"
	"github.com/pmo-lab/projecthub/internal/resputil"
	"github.com/pmo-lab/projecthub/pkg/apperror"
	"github.com/pmo-lab/projecthub/pkg/authz"
)

// The repeating halves of every project-scoped collection (list by parent,
// load-and-authorize, delete) live here; create and update stay in the
// per-document handlers because their request shapes differ.

// listProjectDocs lists all rows of T under a project after the read check.
func listProjectDocs[T any](c *gin.Context, db *gorm.DB, resolver *authz.ParentResolver) {
	var uri uriProjectID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if _, err := requireReadableProject(c, resolver, uri.ProjectID); err != nil {
		resputil.WrapError(c, err)
		return
	}

	var docs []T
	if err := db.WithContext(c).
		Where("project_id = ?", uri.ProjectID).Order("id").Find(&docs).Error; err != nil {
		resputil.Error(c, "Failed to list documents", resputil.NotSpecified)
		return
	}
	resputil.Success(c, docs)
}

// loadProjectDoc fetches one row of T by primary key and authorizes the
// write against its parent project. resource names the row in errors.
func loadProjectDoc[T any](
	c *gin.Context, db *gorm.DB, resolver *authz.ParentResolver,
	id uint, kind model.DocKind, resource string, projectIDOf func(*T) uint,
) (*T, error) {
	var doc T
	if err := db.WithContext(c).First(&doc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(resource)
		}
		return nil, err
	}
	if _, err := requireDocumentWrite(c, resolver, projectIDOf(&doc), kind); err != nil {
		return nil, err
	}
	return &doc, nil
}

// deleteProjectDoc removes one row of T after the per-kind write check.
func deleteProjectDoc[T any](
	c *gin.Context, db *gorm.DB, resolver *authz.ParentResolver,
	kind model.DocKind, resource string, projectIDOf func(*T) uint,
) {
	var uri uriID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	doc, err := loadProjectDoc(c, db, resolver, uri.ID, kind, resource, projectIDOf)
	if err != nil {
		resputil.WrapError(c, err)
		return
	}
	if err := db.WithContext(c).Delete(doc).Error; err != nil {
		klog.Errorf("delete %s %d: %v", resource, uri.ID, err)
		resputil.Error(c, "Failed to delete document", resputil.NotSpecified)
		return
	}
	resputil.Success(c, gin.H{"id": uri.ID})
}
