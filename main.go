package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"kitobxona_go/config"
	"kitobxona_go/middleware"
	"kitobxona_go/routes"
	"kitobxona_go/websocket"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment variables")
	}

	mode := config.GetEnv("GIN_MODE", gin.DebugMode)
	gin.SetMode(mode)

	if err := middleware.InitLogger(mode); err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer middleware.FlushLogger()

	if err := config.InitDatabase(); err != nil {
		middleware.ErrorLogger("database init failed", zap.Error(err))
		os.Exit(1)
	}
	defer config.CloseDatabase()

	// Redis is optional: without it caching and the view ranking are
	// skipped, everything else still works.
	if config.GetServerConfig().RedisEnabled {
		if err := config.InitializeRedis(); err != nil {
			middleware.ErrorLogger("redis unavailable, continuing without cache", zap.Error(err))
		}
		defer config.CloseRedis()
	}

	if err := websocket.InitWebSocket(); err != nil {
		middleware.ErrorLogger("websocket init failed", zap.Error(err))
		os.Exit(1)
	}
	defer websocket.CloseWebSocket()

	r := config.SetupRouter()
	routes.SetupRoutes(r)

	port := config.GetEnv("SERVER_PORT", "8080")
	addr := fmt.Sprintf(":%s", port)
	middleware.InfoLogger("server starting", zap.String("addr", addr))

	go func() {
		if err := r.Run(addr); err != nil {
			middleware.ErrorLogger("server stopped", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	middleware.InfoLogger("shutting down")
}
