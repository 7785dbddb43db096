package authz

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pmo-lab/projecthub/dao/model"
	"github.com/pmo-lab/projecthub/pkg/apperror"
)

// ParentResolver maps a sub-document to its owning project. It runs before
// any visibility check: a sub-document referencing a missing project is
// unauthorizable by definition and must surface NotFound, not a silent deny.
type ParentResolver struct {
	db *gorm.DB
}

func NewParentResolver(db *gorm.DB) *ParentResolver {
	return &ParentResolver{db: db}
}

// ResolveParent loads the project a sub-document belongs to, or a
// NotFoundError when the project does not exist.
func (r *ParentResolver) ResolveParent(ctx context.Context, projectID uint) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).First(&project, projectID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("project")
		}
		return nil, err
	}
	return &project, nil
}
