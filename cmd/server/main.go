package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"casino-service/internal/api"
	"casino-service/internal/config"
	"casino-service/internal/repo"
	"casino-service/internal/service"
	"casino-service/internal/ws"
	"casino-service/pkg/logger"
	"casino-service/pkg/utils/random"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "path to config file")
	flag.Parse()

	// 1. Load Config
	config.LoadConfig(configPath)
	cfg := config.GlobalConfig

	// 2. Init Logger
	if err := logger.InitLogger(cfg.Server.Mode); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Log.Sync()

	logger.Log.Info("Starting server...",
		zap.String("mode", cfg.Server.Mode),
		zap.String("persistence", cfg.Persistence.Driver),
	)

	// 3. Init persistence
	stores := openStores(cfg)

	// 4. Init Services
	hub := ws.NewHub()
	services, err := service.NewContainer(cfg, stores, hub, random.New())
	if err != nil {
		logger.Log.Fatal("failed to build services", zap.Error(err))
	}

	// 5. Init Router
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	api.RegisterRoutes(r, services, hub)

	// 6. Start Server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Log.Info("Server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Log.Fatal("Server failed to start", zap.Error(err))
	}
}

func openStores(cfg *config.Config) service.Stores {
	switch strings.ToLower(cfg.Persistence.Driver) {
	case "redis":
		repo.InitRedis()
		st := repo.NewRedisStore(repo.RDB, cfg.Persistence.HistoryLimit)
		return service.Stores{State: st, History: st}
	case "memory":
		st := repo.NewMemoryStore()
		return service.Stores{State: st, History: st}
	default:
		repo.InitDB()
		st := repo.NewGormStore(repo.DB)
		return service.Stores{State: st, History: st}
	}
}
