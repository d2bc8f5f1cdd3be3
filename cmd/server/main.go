package main

import (
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/cliffyan/go-site-search/internal/backend"
	"github.com/cliffyan/go-site-search/internal/config"
	"github.com/cliffyan/go-site-search/internal/logger"
	"github.com/cliffyan/go-site-search/internal/server"
)

func main() {
	// 加载配置
	cfg := config.Load()

	closeLog, err := logger.Setup(cfg.Log)
	if err != nil {
		log.Fatalf("❌ Logger setup failed: %v", err)
	}
	defer closeLog()

	log.Infof("🔍 Starting site-search web client...")
	cfg.Print()

	// 初始化后端客户端
	client := backend.NewClient(cfg.Backend.Endpoint, cfg.GetProxyURL())

	srv := server.New(cfg, client)

	// 优雅关闭
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Infof("🛑 Shutting down server...")
		closeLog()
		os.Exit(0)
	}()

	if err := srv.Start(); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
