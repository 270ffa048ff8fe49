// @title ClassHub 后端 API
// @version 1.0
// @description ClassHub 学校教学平台的后端服务器，核心为作业测评引擎。
// @termsOfService http://swagger.io/terms/

// @contact.name API支持
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"classhub_backend/internal/app"
	"classhub_backend/internal/config"
	"classhub_backend/pkg/configwatcher"
	"classhub_backend/pkg/logger"
	"flag"
	"log"
)

func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 迁移完成后直接退出
	if *migrateOnly {
		log.Println("数据库迁移完成，退出程序")
		return
	}

	// 配置热更新
	go configwatcher.WatchConfig("configs/config.yaml", func(newCfg *config.Config) {
		*cfg = *newCfg
		logger.Log.Info("Config reloaded")
	})

	application.Run()
}
