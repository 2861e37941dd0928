// @title Interview Prep 后端 API
// @version 1.0
// @description 模拟面试练习工具的后端服务器。

// @host localhost:8080
// @BasePath /api

package main

import (
	"flag"
	"interview_prep_backend/internal/app"
	"interview_prep_backend/internal/config"
	"interview_prep_backend/pkg/logger"
	"log"
)

func main() {
	// 命令行参数
	configPath := flag.String("config", "configs", "配置文件目录")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	application.Run()
}
