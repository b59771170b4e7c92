// @title Smart Project Assistant 后端 API
// @version 3.5
// @description 学生项目助手：项目周计划、创意、文档、代码片段、技能练习和作品集生成。
// @termsOfService http://swagger.io/terms/

// @contact.name API支持
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8000
// @BasePath /api

package main

import (
	"context"
	"flag"
	"log"
	"path/filepath"

	"project_assistant_backend/internal/app"
	"project_assistant_backend/internal/config"
	"project_assistant_backend/pkg/configwatcher"
	"project_assistant_backend/pkg/logger"

	"go.uber.org/zap"
)

const configDir = "configs"

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	watch := flag.Bool("watch-config", true, "配置文件变更时热更新模型和规划服务设置")
	flag.Parse()

	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 迁移完成后直接退出
	if *migrateOnly {
		log.Println("数据库迁移完成，退出程序")
		return
	}

	if *watch {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			path := filepath.Join(configDir, "config.yaml")
			if err := configwatcher.WatchConfig(ctx, path, application.ReloadConfig); err != nil {
				logger.Log.Warn("config watcher stopped", zap.Error(err))
			}
		}()
	}

	application.Run()
}
