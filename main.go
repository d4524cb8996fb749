// @title MathTrack 后端 API
// @version 1.0
// @description 数学教材刷题进度追踪：习题提交、积分与连续打卡、周计划和排行榜。

// @contact.name API支持
// @contact.email support@mathtrack.local

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api

package main

import (
	"flag"
	"log"
	"mathtrack_backend/internal/app"
	"mathtrack_backend/internal/config"
	"mathtrack_backend/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	seedFake := flag.Bool("seed-fake", false, "创建模拟竞争者后退出")
	seedCatalog := flag.String("seed-catalog", "", "从书目文件（YAML）导入书籍后退出")
	flag.Parse()

	// .env 可选，不存在时只使用环境变量和配置文件
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 设置迁移标志
	seeding := *seedFake || *seedCatalog != ""
	cfg.ForceMigrate = *migrate || *migrateOnly || seeding
	cfg.MigrateOnly = *migrateOnly || seeding

	application := app.NewApp(cfg)

	if *seedCatalog != "" {
		result, err := application.SeedCatalog(*seedCatalog)
		if err != nil {
			logger.Log.Error("Failed to seed catalog", zap.String("file", *seedCatalog), zap.Error(err))
		} else {
			logger.Log.Info("Catalog imported",
				zap.Int("created", len(result.Created)),
				zap.Int("skipped", len(result.Skipped)))
		}
		if !*seedFake {
			application.Close()
			return
		}
	}

	if *seedFake {
		created, err := application.SeedFakeUsers()
		if err != nil {
			logger.Log.Error("Failed to seed fake users", zap.Error(err))
		}
		logger.Log.Info("Fake users seeded", zap.Int("created", created))
		application.Close()
		return
	}

	// 迁移完成后直接退出
	if *migrateOnly {
		logger.Log.Info("数据库迁移完成，退出程序")
		application.Close()
		return
	}

	application.Run()
}
