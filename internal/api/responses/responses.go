// internal/api/responses/responses.go
package responses

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop()
)

// InitLogger configura o logger global: JSON em produção, console em desenvolvimento.
func InitLogger(level, env string) error {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	mu.Lock()
	logger = l
	mu.Unlock()
	return nil
}

// Logger devolve o logger global (no-op antes de InitLogger).
func Logger() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Sync descarrega o buffer do logger.
func Sync() {
	_ = Logger().Sync()
}

// Error responde {"success": false, "error": message[, "details": ...]} e registra a falha.
func Error(c *gin.Context, status int, message string, details ...string) {
	body := gin.H{"success": false, "error": message}
	if len(details) == 1 {
		body["details"] = details[0]
	} else if len(details) > 1 {
		body["details"] = details
	}

	fields := []zap.Field{
		zap.Int("status", status),
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Strings("details", details),
	}
	if status >= 500 {
		Logger().Error(message, fields...)
	} else {
		Logger().Info(message, fields...)
	}
	c.AbortWithStatusJSON(status, body)
}

// Success responde 200 com {"success": true, "data": data}.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}
