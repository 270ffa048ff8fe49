package controller

import (
	"classhub_backend/internal/model"
	"classhub_backend/internal/service"
	"classhub_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Service *service.AuthService
}

func NewAuthController(svc *service.AuthService) *AuthController {
	return &AuthController{Service: svc}
}

type RegisterReq struct {
	Name     string         `json:"name" binding:"required"`
	Email    string         `json:"email" binding:"required,email"`
	Password string         `json:"password" binding:"required,min=6"`
	Role     model.UserRole `json:"role"`
}

type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// @Summary 用户注册
// @Tags 认证模块
// @Accept json
// @Produce json
// @Param body body RegisterReq true "注册信息"
// @Success 201 {object} util.Response
// @Router /register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	role := req.Role
	if role == "" {
		role = model.Student
	}
	if role == model.Admin {
		// 管理员账号只能由部署时的种子数据或已有管理员创建
		util.Forbidden(ctx)
		return
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	}

	if err := c.Service.Register(user); err != nil {
		if errors.Is(err, util.ErrEmailRegistered) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, user)
}

// @Summary 用户登录
// @Tags 认证模块
// @Accept json
// @Produce json
// @Param body body LoginReq true "登录信息"
// @Success 200 {object} util.Response
// @Router /login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, err := c.Service.Login(req.Email, req.Password)
	if err != nil {
		util.Unauthorized(ctx)
		return
	}

	util.Success(ctx, gin.H{"token": token})
}

// @Summary 获取当前用户信息
// @Tags 认证模块
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /profile [get]
func (c *AuthController) GetProfile(ctx *gin.Context) {
	user := c.Service.GetCurrentUser(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	util.Success(ctx, user)
}
