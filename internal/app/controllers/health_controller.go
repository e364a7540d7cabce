package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/campusconnect/internal/app/models/dto"
)

// Pinger reports whether a backing service answers
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

// Ping calls f
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthController reports dependency status
type HealthController struct {
	db     Pinger
	redis  Pinger
	logger zerolog.Logger
}

// NewHealthController creates a new HealthController. A nil redis pinger reports "disabled".
func NewHealthController(db, redis Pinger, logger zerolog.Logger) *HealthController {
	return &HealthController{db: db, redis: redis, logger: logger}
}

// Health checks the database and redis
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.HealthResponse}
// @Failure 503 {object} dto.APIResponse{data=dto.HealthResponse}
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	resp := dto.HealthResponse{Status: "ok", Database: "up", Redis: "disabled"}
	status := http.StatusOK

	if err := c.db.Ping(pingCtx); err != nil {
		c.logger.Error().Err(err).Msg("Database health check failed")
		resp.Status, resp.Database = "degraded", "down"
		status = http.StatusServiceUnavailable
	}
	if c.redis != nil {
		resp.Redis = "up"
		if err := c.redis.Ping(pingCtx); err != nil {
			c.logger.Warn().Err(err).Msg("Redis health check failed")
			resp.Status, resp.Redis = "degraded", "down"
		}
	}

	ctx.JSON(status, dto.NewSuccessResponse(resp))
}

// Ping answers pong
func (c *HealthController) Ping(ctx *gin.Context) {
	ctx.String(http.StatusOK, "pong")
}
