package controller

import (
	"classhub_backend/internal/service"
	"classhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubmissionController struct {
	Service   *service.SubmissionService
	ReviewSvc *service.ReviewService
}

func NewSubmissionController(svc *service.SubmissionService, reviewSvc *service.ReviewService) *SubmissionController {
	return &SubmissionController{Service: svc, ReviewSvc: reviewSvc}
}

// @Summary 提交作业
// @Description 一次完整的答题提交。选择题当场返回自动分，作文题只返回确认；
// @Description 超出尝试次数返回 422，并发竞争落败返回 409
// @Tags 提交模块
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "作业ID"
// @Param body body service.SubmitReq true "答题内容"
// @Success 201 {object} util.Response
// @Router /assignments/{id}/submit [post]
func (c *SubmissionController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	assignmentID := util.MustParseUint(ctx.Param("id"))

	var req service.SubmitReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.Submit(user.UserID, assignmentID, req)
	if err != nil {
		util.RespondDomainError(ctx, err)
		return
	}

	util.Created(ctx, result)
}

// @Summary 获取我的提交列表
// @Tags 提交模块
// @Produce json
// @Security ApiKeyAuth
// @Param assignmentId query int false "按作业过滤"
// @Success 200 {object} util.Response
// @Router /submissions [get]
func (c *SubmissionController) ListMine(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	assignmentID := util.MustParseUint(ctx.Query("assignmentId"))

	var err error
	var subs interface{}
	if assignmentID > 0 {
		subs, err = c.Service.ListMineForAssignment(user.UserID, assignmentID)
	} else {
		subs, err = c.Service.ListOwn(user.UserID)
	}
	if err != nil {
		util.RespondDomainError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": subs})
}

// @Summary 获取提交回看
// @Description 重建一次提交的完整回看：所选答案、正误、正确答案与解析、教师反馈、最终得分
// @Tags 提交模块
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "提交ID"
// @Success 200 {object} util.Response
// @Router /submissions/{id}/review [get]
func (c *SubmissionController) GetReview(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id := ctx.Param("id")

	view, err := c.ReviewSvc.ComposeReview(id, user.UserID, user.Role)
	if err != nil {
		util.RespondDomainError(ctx, err)
		return
	}

	util.Success(ctx, view)
}
