package controller

import (
	"classhub_backend/internal/model"
	"classhub_backend/internal/service"
	"classhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssignmentController struct {
	Service *service.AssignmentService
}

func NewAssignmentController(svc *service.AssignmentService) *AssignmentController {
	return &AssignmentController{Service: svc}
}

// @Summary 创建作业
// @Description 题目可引用题库已有条目或内联新建（新题先入库再引用），整体原子落库
// @Tags 作业模块
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateAssignmentReq true "作业信息"
// @Success 201 {object} util.Response
// @Router /teacher/assignments [post]
func (c *AssignmentController) CreateAssignment(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateAssignmentReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	assignment, err := c.Service.CreateAssignment(user.UserID, user.Role, req)
	if err != nil {
		util.RespondDomainError(ctx, err)
		return
	}

	util.Created(ctx, assignment)
}

// @Summary 更新作业
// @Description 排期与次数限制字段始终可改；类型仅可改为 external_link，题目引用随之解除
// @Tags 作业模块
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "作业ID"
// @Param body body service.UpdateAssignmentReq true "作业信息"
// @Success 200 {object} util.Response
// @Router /teacher/assignments/{id} [put]
func (c *AssignmentController) UpdateAssignment(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))

	var req service.UpdateAssignmentReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	assignment, err := c.Service.UpdateAssignment(user.UserID, user.Role, id, req)
	if err != nil {
		util.RespondDomainError(ctx, err)
		return
	}

	util.Success(ctx, assignment)
}

// @Summary 获取主题下的作业列表
// @Tags 作业模块
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "主题ID"
// @Success 200 {object} util.Response
// @Router /topics/{id}/assignments [get]
func (c *AssignmentController) ListForTopic(ctx *gin.Context) {
	topicID := util.MustParseUint(ctx.Param("id"))

	as, err := c.Service.ListForTopic(topicID)
	if err != nil {
		util.RespondDomainError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": as, "total": len(as)})
}

// @Summary 获取作业详情（含题目）
// @Description 学生开始答题前的读取，题目内容为实时题库内容。学生视图隐藏答案键
// @Tags 作业模块
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "作业ID"
// @Success 200 {object} util.Response
// @Router /assignments/{id} [get]
func (c *AssignmentController) GetResolved(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))

	resolved, err := c.Service.ResolveForAttempt(id)
	if err != nil {
		util.RespondDomainError(ctx, err)
		return
	}

	if user.Role == model.Student {
		util.Success(ctx, sanitizeForStudent(resolved))
		return
	}
	util.Success(ctx, resolved)
}

// studentAssignmentView 学生视角的作业视图，选项不带 isCorrect 和解析
type studentAssignmentView struct {
	model.Assignment
	Questions []studentQuestionView `json:"questions"`
}

type studentQuestionView struct {
	ID      uint                `json:"id"`
	Kind    model.QuestionKind  `json:"kind"`
	Text    string              `json:"text"`
	Options []studentOptionView `json:"options,omitempty"`
}

type studentOptionView struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

func sanitizeForStudent(resolved *model.ResolvedAssignment) *studentAssignmentView {
	view := &studentAssignmentView{Assignment: resolved.Assignment}
	for i := range resolved.Questions {
		q := &resolved.Questions[i]
		qv := studentQuestionView{
			ID:   q.ID,
			Kind: q.Kind,
			Text: q.Text,
		}
		for _, opt := range q.Options {
			qv.Options = append(qv.Options, studentOptionView{ID: opt.ID, Text: opt.Text})
		}
		view.Questions = append(view.Questions, qv)
	}
	return view
}
