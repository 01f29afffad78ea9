package middleware

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"kitobxona_go/config"
)

var (
	logger           *zap.Logger
	accessLogChannel chan *AccessLog
)

// AccessLog is one structured request record.
type AccessLog struct {
	Time       time.Time `json:"time"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	Query      string    `json:"query,omitempty"`
	IP         string    `json:"ip"`
	UserAgent  string    `json:"user_agent,omitempty"`
	StatusCode int       `json:"status_code"`
	Latency    int64     `json:"latency_ms"`
	StaffID    string    `json:"staff_id,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// InitLogger builds the zap logger: colored console output in debug
// mode, JSON in release mode. Access logs are written off the request
// path by a small worker pool.
func InitLogger(mode string) error {
	var err error
	var zapConfig zap.Config

	if mode == "debug" || mode == "" {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		zapConfig = zap.NewProductionConfig()
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	logger, err = zapConfig.Build()
	if err != nil {
		return err
	}

	accessLogChannel = make(chan *AccessLog, 1000)
	startLogWorkers()
	return nil
}

func startLogWorkers() {
	const workerCount = 3
	for i := 0; i < workerCount; i++ {
		go func() {
			for accessLog := range accessLogChannel {
				accessLog.write()
			}
		}()
	}
}

func (al *AccessLog) write() {
	logger.Info("access_log",
		zap.String("method", al.Method),
		zap.String("path", al.Path),
		zap.String("query", al.Query),
		zap.String("ip", al.IP),
		zap.Int("status_code", al.StatusCode),
		zap.Int64("latency_ms", al.Latency),
		zap.String("staff_id", al.StaffID),
		zap.String("request_id", al.RequestID),
		zap.String("error", al.Error),
	)

	// Mirror into a capped Redis stream for out-of-process analysis.
	if config.RedisClient != nil {
		ctx := context.Background()
		logData, _ := json.Marshal(al)
		config.RedisClient.XAdd(ctx, &redis.XAddArgs{
			Stream: "access_logs",
			MaxLen: 100000,
			Approx: true,
			Values: map[string]interface{}{
				"timestamp":   al.Time.Unix(),
				"method":      al.Method,
				"path":        al.Path,
				"status_code": al.StatusCode,
				"latency_ms":  al.Latency,
				"full_data":   string(logData),
			},
		})
	}
}

// Logger returns the access-log middleware.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()

		accessLog := &AccessLog{
			Time:       start,
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			Query:      c.Request.URL.RawQuery,
			IP:         c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
			StatusCode: c.Writer.Status(),
			Latency:    time.Since(start).Milliseconds(),
			StaffID:    c.GetString("staff_id"),
			RequestID:  requestID,
		}
		if len(c.Errors) > 0 {
			accessLog.Error = c.Errors.String()
		}

		select {
		case accessLogChannel <- accessLog:
		default:
			// Queue full; drop rather than block the request.
			log.Printf("log channel full, dropping log: %s %s", accessLog.Method, accessLog.Path)
		}
	}
}

// ErrorLogger logs an application error.
func ErrorLogger(msg string, fields ...zap.Field) {
	if logger != nil {
		logger.Error(msg, fields...)
	}
}

// InfoLogger logs an application event.
func InfoLogger(msg string, fields ...zap.Field) {
	if logger != nil {
		logger.Info(msg, fields...)
	}
}

// FlushLogger drains buffered log entries.
func FlushLogger() {
	if logger != nil {
		_ = logger.Sync()
	}
}
