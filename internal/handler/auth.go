package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pmo-lab/projecthub/dao/model"
	"github.com/pmo-lab/projecthub/internal/resputil"
	"github.com/pmo-lab/projecthub/internal/util"
	"github.com/pmo-lab/projecthub/pkg/logutils"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewAuthMgr)
}

type AuthMgr struct {
	name     string
	db       *gorm.DB
	tokenMgr *util.TokenManager
}

func NewAuthMgr(conf *RegisterConfig) Manager {
	return &AuthMgr{
		name:     "auth",
		db:       conf.DB,
		tokenMgr: util.GetTokenMgr(),
	}
}

func (mgr *AuthMgr) GetName() string { return mgr.name }

func (mgr *AuthMgr) RegisterPublic(g *gin.RouterGroup) {
	g.POST("/register", mgr.Register)
	g.POST("/login", mgr.Login)
	g.POST("/refresh", mgr.RefreshToken)
}

func (mgr *AuthMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("/me", mgr.CurrentUser)
}

func (mgr *AuthMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type (
	RegisterReq struct {
		Email      string     `json:"email" binding:"required,email"`
		Username   string     `json:"username" binding:"required"`
		FullName   string     `json:"fullName" binding:"required"`
		Role       model.Role `json:"role" binding:"required,oneof=project_manager team_member stakeholder executive"`
		Department *string    `json:"department"`
		Password   string     `json:"password" binding:"required,min=6"`
	}

	LoginReq struct {
		Username string `json:"username" binding:"required"` // email or username
		Password string `json:"password" binding:"required"`
	}

	RefreshReq struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}

	LoginResp struct {
		AccessToken  string         `json:"accessToken"`
		RefreshToken string         `json:"refreshToken"`
		User         model.UserInfo `json:"user"`
	}
)

// Register godoc
// @Summary Register a new user
// @Description Create a user account and return a token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param data body RegisterReq true "registration data"
// @Success 200 {object} resputil.Response[LoginResp] "token pair and user info"
// @Failure 400 {object} resputil.Response[any] "email or username already registered"
// @Router /auth/register [post]
func (mgr *AuthMgr) Register(c *gin.Context) {
	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	var existing model.User
	err := mgr.db.WithContext(c).
		Where("email = ? OR username = ?", req.Email, req.Username).
		First(&existing).Error
	if err == nil {
		resputil.HTTPError(c, http.StatusBadRequest, "Email or username already registered", resputil.AlreadyRegistered)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}

	user := model.User{
		Email:      req.Email,
		Username:   req.Username,
		FullName:   req.FullName,
		Role:       req.Role,
		Department: req.Department,
		Password:   string(hash),
		Active:     true,
	}
	if err := mgr.db.WithContext(c).Create(&user).Error; err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}

	mgr.respondWithTokens(c, &user)
}

// Login godoc
// @Summary Log a user in
// @Description Verify credentials by email or username and return a token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param data body LoginReq true "credentials"
// @Success 200 {object} resputil.Response[LoginResp] "token pair and user info"
// @Failure 401 {object} resputil.Response[any] "bad credentials"
// @Router /auth/login [post]
func (mgr *AuthMgr) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	l := logutils.Log.WithFields(logutils.Fields{"username": req.Username})

	var user model.User
	err := mgr.db.WithContext(c).
		Where("email = ? OR username = ?", req.Username, req.Username).
		First(&user).Error
	if err != nil {
		l.Error("login: user lookup failed: ", err)
		resputil.HTTPError(c, http.StatusUnauthorized, "Incorrect email/username or password", resputil.InvalidCredentials)
		return
	}
	if !user.Active {
		l.Warn("login: user is deactivated")
		resputil.HTTPError(c, http.StatusUnauthorized, "User is deactivated", resputil.InvalidCredentials)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		l.Error("login: invalid credentials")
		resputil.HTTPError(c, http.StatusUnauthorized, "Incorrect email/username or password", resputil.InvalidCredentials)
		return
	}

	mgr.respondWithTokens(c, &user)
}

// RefreshToken godoc
// @Summary Refresh the token pair
// @Description Exchange a valid refresh token for a fresh access/refresh pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param data body RefreshReq true "refresh token"
// @Success 200 {object} resputil.Response[LoginResp] "new token pair"
// @Failure 401 {object} resputil.Response[any] "token invalid or user gone"
// @Router /auth/refresh [post]
func (mgr *AuthMgr) RefreshToken(c *gin.Context) {
	var req RefreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	msg, err := mgr.tokenMgr.CheckRefreshToken(req.RefreshToken)
	if err != nil {
		resputil.HTTPError(c, http.StatusUnauthorized, err.Error(), resputil.TokenExpired)
		return
	}

	// Re-read the user so a role or active change invalidates old pairs.
	var user model.User
	if err := mgr.db.WithContext(c).First(&user, msg.UserID).Error; err != nil {
		resputil.HTTPError(c, http.StatusUnauthorized, "User not found", resputil.TokenInvalid)
		return
	}
	if !user.Active {
		resputil.HTTPError(c, http.StatusUnauthorized, "User is deactivated", resputil.TokenInvalid)
		return
	}

	mgr.respondWithTokens(c, &user)
}

// CurrentUser godoc
// @Summary Current user info
// @Tags Auth
// @Produce json
// @Security Bearer
// @Success 200 {object} resputil.Response[model.UserInfo] "the authenticated user"
// @Router /auth/me [get]
func (mgr *AuthMgr) CurrentUser(c *gin.Context) {
	token := util.GetToken(c)

	var user model.User
	if err := mgr.db.WithContext(c).First(&user, token.UserID).Error; err != nil {
		resputil.HTTPError(c, http.StatusUnauthorized, "User not found", resputil.TokenInvalid)
		return
	}
	resputil.Success(c, user.Info())
}

func (mgr *AuthMgr) respondWithTokens(c *gin.Context, user *model.User) {
	msg := util.JWTMessage{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
	accessToken, refreshToken, err := mgr.tokenMgr.CreateTokens(&msg)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, LoginResp{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user.Info(),
	})
}
