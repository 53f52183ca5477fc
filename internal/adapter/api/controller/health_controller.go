package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger verifica a disponibilidade de uma dependência
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController responde à verificação de saúde da API
type HealthController struct {
	db      Pinger
	version string
}

// NewHealthController cria uma nova instância de HealthController
func NewHealthController(db Pinger, version string) *HealthController {
	return &HealthController{db: db, version: version}
}

// Check verifica a API e o banco de dados
// @Summary Verificação de saúde
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (c *HealthController) Check(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := c.db.Ping(pingCtx); err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unavailable",
			"database": err.Error(),
			"version":  c.version,
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": c.version,
	})
}
