package app

import (
	"classhub_backend/docs"
	"classhub_backend/internal/config"
	"classhub_backend/internal/middleware"
	"classhub_backend/internal/model"
	"classhub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.GetProfile)

		// 学生/通用接口
		authGroup.GET("/topics/:id", c.topic.GetTopic)
		authGroup.GET("/topics/:id/assignments", c.assignment.ListForTopic)
		authGroup.GET("/assignments/:id", c.assignment.GetResolved)
		authGroup.POST("/assignments/:id/submit", c.submission.Submit)
		authGroup.GET("/submissions", c.submission.ListMine)
		authGroup.GET("/submissions/:id/review", c.submission.GetReview)

		// 教师相关接口
		teacher := authGroup.Group("/teacher")
		teacher.Use(middleware.RoleMiddleware(model.Teacher))
		{
			teacher.POST("/topics", c.topic.CreateTopic)
			teacher.GET("/topics", c.topic.ListTopics)
			teacher.PUT("/topics/:id", c.topic.UpdateTopic)

			teacher.POST("/questions", c.questionBank.CreateQuestion)
			teacher.GET("/questions", c.questionBank.SearchQuestions)
			teacher.GET("/questions/:id", c.questionBank.GetQuestion)
			teacher.PUT("/questions/:id", c.questionBank.UpdateQuestion)

			teacher.POST("/assignments", c.assignment.CreateAssignment)
			teacher.PUT("/assignments/:id", c.assignment.UpdateAssignment)
			teacher.GET("/assignments/:id/submissions", c.grading.ListSubmissions)
			teacher.POST("/submissions/:id/grade", c.grading.GradeSubmission)
		}
	}
}
