package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/jengzang/commutetrackr-go/internal/api"
	"github.com/jengzang/commutetrackr-go/internal/config"
	"github.com/jengzang/commutetrackr-go/internal/database"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化数据库
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		log.Fatal("Failed to create data directory:", err)
	}
	dbConfig := database.Config{
		Path: cfg.DBPath,
	}
	if err := database.Init(dbConfig); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	// 初始化路由
	router, err := api.SetupRouter(cfg, database.GetDB())
	if err != nil {
		log.Fatal("Failed to set up router:", err)
	}

	// 启动服务器
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
