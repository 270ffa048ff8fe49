package controller

import (
	"classhub_backend/internal/service"
	"classhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TopicController struct {
	Service *service.TopicService
}

func NewTopicController(svc *service.TopicService) *TopicController {
	return &TopicController{Service: svc}
}

// @Summary 创建主题
// @Tags 主题模块
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.TopicReq true "主题信息"
// @Success 201 {object} util.Response
// @Router /teacher/topics [post]
func (c *TopicController) CreateTopic(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.TopicReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	topic, err := c.Service.CreateTopic(user.UserID, req)
	if err != nil {
		util.RespondDomainError(ctx, err)
		return
	}

	util.Created(ctx, topic)
}

// @Summary 获取我的主题列表
// @Tags 主题模块
// @Produce json
// @Security ApiKeyAuth
// @Param classId query int false "按班级过滤"
// @Success 200 {object} util.Response
// @Router /teacher/topics [get]
func (c *TopicController) ListTopics(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	classID := util.MustParseUint(ctx.Query("classId"))

	var topics interface{}
	var err error
	if classID > 0 {
		topics, err = c.Service.ListByClass(classID)
	} else {
		topics, err = c.Service.ListByTeacher(user.UserID)
	}
	if err != nil {
		util.RespondDomainError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": topics})
}

// @Summary 获取主题详情
// @Tags 主题模块
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "主题ID"
// @Success 200 {object} util.Response
// @Router /topics/{id} [get]
func (c *TopicController) GetTopic(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	topic, err := c.Service.GetTopic(id)
	if err != nil {
		util.RespondDomainError(ctx, err)
		return
	}

	util.Success(ctx, topic)
}

// @Summary 更新主题
// @Tags 主题模块
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "主题ID"
// @Param body body service.TopicReq true "主题信息"
// @Success 200 {object} util.Response
// @Router /teacher/topics/{id} [put]
func (c *TopicController) UpdateTopic(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))

	var req service.TopicReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	topic, err := c.Service.UpdateTopic(user.UserID, user.Role, id, req)
	if err != nil {
		util.RespondDomainError(ctx, err)
		return
	}

	util.Success(ctx, topic)
}
