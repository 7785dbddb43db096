package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/pmo-lab/projecthub/dao/model"
	"github.com/pmo-lab/projecthub/internal/resputil"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewUserMgr)
}

type UserMgr struct {
	name string
	db   *gorm.DB
}

func NewUserMgr(conf *RegisterConfig) Manager {
	return &UserMgr{
		name: "users",
		db:   conf.DB,
	}
}

func (mgr *UserMgr) GetName() string { return mgr.name }

func (mgr *UserMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *UserMgr) RegisterProtected(_ *gin.RouterGroup) {}

func (mgr *UserMgr) RegisterAdmin(g *gin.RouterGroup) {
	g.GET("", mgr.ListUsers)
	g.PUT("/:id/active", mgr.SetActive)
}

type UserResp struct {
	model.UserInfo
	Email      string  `json:"email"`
	Department *string `json:"department"`
	Active     bool    `json:"active"`
}

// ListUsers godoc
// @Summary List all users
// @Tags User
// @Produce json
// @Security Bearer
// @Success 200 {object} resputil.Response[[]UserResp] "all users"
// @Router /admin/users [get]
func (mgr *UserMgr) ListUsers(c *gin.Context) {
	var users []model.User
	if err := mgr.db.WithContext(c).Order("id").Find(&users).Error; err != nil {
		resputil.Error(c, "Can't list users", resputil.NotSpecified)
		return
	}

	result := lo.Map(users, func(u model.User, _ int) UserResp {
		return UserResp{
			UserInfo:   u.Info(),
			Email:      u.Email,
			Department: u.Department,
			Active:     u.Active,
		}
	})
	resputil.Success(c, result)
}

type SetActiveReq struct {
	Active *bool `json:"active" binding:"required"`
}

// SetActive godoc
// @Summary Activate or deactivate a user
// @Description Deactivated users cannot log in and their tokens stop working for mutating requests
// @Tags User
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "user id"
// @Param data body SetActiveReq true "target state"
// @Success 200 {object} resputil.Response[any] "updated"
// @Failure 404 {object} resputil.Response[any] "user not found"
// @Router /admin/users/{id}/active [put]
func (mgr *UserMgr) SetActive(c *gin.Context) {
	var uri uriID
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req SetActiveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	result := mgr.db.WithContext(c).Model(&model.User{}).
		Where("id = ?", uri.ID).
		Update("active", *req.Active)
	if result.Error != nil {
		resputil.Error(c, "Failed to update user", resputil.NotSpecified)
		return
	}
	if result.RowsAffected == 0 {
		resputil.HTTPError(c, http.StatusNotFound, "User not found", resputil.NotFound)
		return
	}
	resputil.Success(c, gin.H{"id": uri.ID, "active": *req.Active})
}
