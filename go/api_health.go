package pawhavenserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/pawhaven-api/internal/shared/errors"
)

var notFoundRoute = apierrors.ErrNotFound.WithDetail("route not found")

// ReadinessCheck probes one collaborator.
type ReadinessCheck func(ctx context.Context) error

// HealthAPI answers liveness and readiness probes.
type HealthAPI struct {
	checks map[string]ReadinessCheck
}

// NewHealthAPI registers named readiness checks (postgres, redis, ...).
func NewHealthAPI(checks map[string]ReadinessCheck) HealthAPI {
	return HealthAPI{checks: checks}
}

// Get /healthz
func (api *HealthAPI) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Get /readyz
func (api *HealthAPI) Readyz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(api.checks))
	for name, check := range api.checks {
		if err := check(ctx); err != nil {
			status = http.StatusServiceUnavailable
			results[name] = err.Error()
			continue
		}
		results[name] = "ok"
	}
	c.JSON(status, gin.H{"checks": results})
}
