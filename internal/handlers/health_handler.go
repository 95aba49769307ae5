package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by the redis client and by the database check.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Pinger
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := 200
	results := gin.H{}
	for name, ping := range h.checks {
		if err := ping(ctx); err != nil {
			results[name] = err.Error()
			status = 503
			continue
		}
		results[name] = "ok"
	}

	state := "ok"
	if status != 200 {
		state = "degraded"
	}
	c.JSON(status, gin.H{"status": state, "checks": results})
}
