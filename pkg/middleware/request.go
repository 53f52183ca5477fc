package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hugohenrick/gestao-obras/pkg/logger"
)

// RequestIDHeader é o cabeçalho usado para correlacionar requisições e logs
const RequestIDHeader = "X-Request-ID"

// RequestID garante um identificador por requisição, reaproveitando o enviado pelo cliente
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.Request.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)
		c.Next()
	}
}

// RequestLogger registra método, rota, status e latência de cada requisição
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"status", status,
			"method", c.Request.Method,
			"path", path,
			"query", c.Request.URL.RawQuery,
			"ip", c.ClientIP(),
			"latency", time.Since(start).String(),
			"request_id", c.GetString("request_id"),
		}
		if userID := c.GetString("user_id"); userID != "" {
			fields = append(fields, "user_id", userID)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Error("erro no servidor", fields...)
		case status >= 400:
			log.Warn("erro do cliente", fields...)
		default:
			log.Info("requisição", fields...)
		}
	}
}
