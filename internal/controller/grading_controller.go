package controller

import (
	"classhub_backend/internal/service"
	"classhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GradingController struct {
	Service *service.GradingService
}

func NewGradingController(svc *service.GradingService) *GradingController {
	return &GradingController{Service: svc}
}

// @Summary 批改提交
// @Description 作文题人工评分，也用于教师改判选择题自动分；重复批改覆盖旧值
// @Tags 批改模块
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "提交ID"
// @Param body body service.GradeReq true "分数与反馈"
// @Success 200 {object} util.Response
// @Router /teacher/submissions/{id}/grade [post]
func (c *GradingController) GradeSubmission(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id := ctx.Param("id")

	var req service.GradeReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sub, err := c.Service.GradeSubmission(user.UserID, user.Role, id, req)
	if err != nil {
		util.RespondDomainError(ctx, err)
		return
	}

	util.Success(ctx, sub)
}

// @Summary 获取作业的全部提交
// @Tags 批改模块
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "作业ID"
// @Success 200 {object} util.Response
// @Router /teacher/assignments/{id}/submissions [get]
func (c *GradingController) ListSubmissions(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	assignmentID := util.MustParseUint(ctx.Param("id"))

	subs, err := c.Service.ListForAssignment(user.UserID, user.Role, assignmentID)
	if err != nil {
		util.RespondDomainError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": subs, "total": len(subs)})
}
