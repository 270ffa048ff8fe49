package app

import (
	"classhub_backend/internal/config"
	"classhub_backend/internal/controller"
	"classhub_backend/internal/repository"
	"classhub_backend/internal/service"
	"classhub_backend/pkg/database"
	"classhub_backend/pkg/logger"
	"classhub_backend/pkg/monitoring"
	"classhub_backend/pkg/security"
	"classhub_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user       *repository.UserRepository
	topic      *repository.TopicRepository
	question   *repository.QuestionRepository
	assignment *repository.AssignmentRepository
	submission *repository.SubmissionRepository
}

type services struct {
	auth         *service.AuthService
	topic        *service.TopicService
	questionBank *service.QuestionBankService
	assignment   *service.AssignmentService
	submission   *service.SubmissionService
	grading      *service.GradingService
	review       *service.ReviewService
}

type controllers struct {
	auth         *controller.AuthController
	topic        *controller.TopicController
	questionBank *controller.QuestionBankController
	assignment   *controller.AssignmentController
	submission   *controller.SubmissionController
	grading      *controller.GradingController
	health       *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		topic:      repository.NewTopicRepository(db),
		question:   repository.NewQuestionRepository(db),
		assignment: repository.NewAssignmentRepository(db),
		submission: repository.NewSubmissionRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.auth = service.NewAuthService(repos.user, cfg)
	s.topic = service.NewTopicService(repos.topic)
	s.questionBank = service.NewQuestionBankService(repos.question)
	s.assignment = service.NewAssignmentService(repos.assignment, repos.question, repos.topic, rdb)
	s.submission = service.NewSubmissionService(repos.submission, s.assignment)
	s.grading = service.NewGradingService(repos.submission, repos.assignment, repos.topic)
	s.review = service.NewReviewService(repos.submission, repos.assignment, repos.topic)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		topic:        controller.NewTopicController(s.topic),
		questionBank: controller.NewQuestionBankController(s.questionBank),
		assignment:   controller.NewAssignmentController(s.assignment),
		submission:   controller.NewSubmissionController(s.submission, s.review),
		grading:      controller.NewGradingController(s.grading),
		health:       controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
	}
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("classhub-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
