package controller

import (
	"classhub_backend/internal/service"
	"classhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionBankController struct {
	Service *service.QuestionBankService
}

func NewQuestionBankController(svc *service.QuestionBankService) *QuestionBankController {
	return &QuestionBankController{Service: svc}
}

// @Summary 创建题库题目
// @Tags 题库模块
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateQuestionReq true "题目信息"
// @Success 201 {object} util.Response
// @Router /teacher/questions [post]
func (c *QuestionBankController) CreateQuestion(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateQuestionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	entry, err := c.Service.CreateQuestion(user.UserID, req)
	if err != nil {
		util.RespondDomainError(ctx, err)
		return
	}

	util.Created(ctx, entry)
}

// @Summary 获取题目详情
// @Tags 题库模块
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /teacher/questions/{id} [get]
func (c *QuestionBankController) GetQuestion(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	entry, err := c.Service.GetQuestion(id)
	if err != nil {
		util.RespondDomainError(ctx, err)
		return
	}

	util.Success(ctx, entry)
}

// @Summary 更新题库题目
// @Description 可替换题面、难度、学科和整套选项，选项按ID做增删改
// @Tags 题库模块
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Param body body service.UpdateQuestionReq true "题目信息"
// @Success 200 {object} util.Response
// @Router /teacher/questions/{id} [put]
func (c *QuestionBankController) UpdateQuestion(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	var req service.UpdateQuestionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	entry, err := c.Service.UpdateQuestion(id, req)
	if err != nil {
		util.RespondDomainError(ctx, err)
		return
	}

	util.Success(ctx, entry)
}

// @Summary 搜索题库
// @Description 文本为大小写不敏感的子串匹配，学科和难度精确匹配，条件AND叠加
// @Tags 题库模块
// @Produce json
// @Security ApiKeyAuth
// @Param text query string false "题面关键词"
// @Param subjectId query int false "学科ID"
// @Param difficulty query string false "难度 easy|medium|hard"
// @Success 200 {object} util.Response
// @Router /teacher/questions [get]
func (c *QuestionBankController) SearchQuestions(ctx *gin.Context) {
	var req service.SearchQuestionsReq
	if err := ctx.ShouldBindQuery(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	entries, err := c.Service.Search(req)
	if err != nil {
		util.RespondDomainError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": entries, "total": len(entries)})
}
