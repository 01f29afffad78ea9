package config

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RedisClient is the shared Redis client. It stays nil when Redis is
// disabled or unreachable; every caller treats nil as "no cache".
var RedisClient *redis.Client

// InitializeRedis dials Redis and verifies the connection.
func InitializeRedis() error {
	db := GetEnvInt("REDIS_DB", 0)

	RedisClient = redis.NewClient(&redis.Options{
		Addr:         GetEnv("REDIS_ADDR", "localhost:6379"),
		Password:     GetEnv("REDIS_PASSWORD", ""),
		DB:           db,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := RedisClient.Ping(ctx).Err(); err != nil {
		RedisClient.Close()
		RedisClient = nil
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Println("redis client initialized")
	return nil
}

// CloseRedis closes the Redis connection.
func CloseRedis() error {
	if RedisClient != nil {
		return RedisClient.Close()
	}
	return nil
}

// GetRedisClient exposes the shared client to other packages.
func GetRedisClient() *redis.Client {
	return RedisClient
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port         string
	Mode         string
	RedisEnabled bool
}

// GetServerConfig reads the server settings from the environment.
func GetServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:         GetEnv("SERVER_PORT", "8080"),
		Mode:         GetEnv("GIN_MODE", "debug"),
		RedisEnabled: GetEnvBool("REDIS_ENABLED", true),
	}
}

// SetupRouter builds the engine with recovery, CORS and the health
// endpoint. Route registration lives in routes.SetupRoutes.
func SetupRouter() *gin.Engine {
	serverConfig := GetServerConfig()
	gin.SetMode(serverConfig.Mode)

	r := gin.New()
	r.Use(gin.Recovery())

	origins := strings.Split(GetEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"), ",")
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		health := gin.H{
			"status": "ok",
		}

		if DB != nil {
			sqlDB, err := DB.DB()
			if err == nil && sqlDB.Ping() == nil {
				health["database"] = "connected"
			} else {
				health["database"] = "disconnected"
			}
		} else {
			health["database"] = "not initialized"
		}

		if RedisClient != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := RedisClient.Ping(ctx).Err(); err == nil {
				health["redis"] = "connected"
			} else {
				health["redis"] = "disconnected"
			}
		} else {
			health["redis"] = "disabled"
		}

		c.JSON(200, health)
	})

	return r
}
