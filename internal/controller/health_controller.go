package controller

import (
	"classhub_backend/internal/util"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type HealthController struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewHealthController(db *gorm.DB, rdb *redis.Client) *HealthController {
	return &HealthController{DB: db, Redis: rdb}
}

// @Summary 健康检查
// @Description 检查数据库与缓存连接状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	components := gin.H{}

	sqlDB, err := c.DB.DB()
	if err != nil {
		util.InternalServerError(ctx)
		return
	}
	if err := sqlDB.Ping(); err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	components["database"] = "up"

	if c.Redis != nil {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), time.Second)
		defer cancel()
		if err := c.Redis.Ping(pingCtx).Err(); err != nil {
			components["cache"] = "down"
		} else {
			components["cache"] = "up"
		}
	} else {
		components["cache"] = "disabled"
	}

	util.Success(ctx, gin.H{
		"status":     "ok",
		"components": components,
	})
}
