package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/scheduler"
)

// TestMessage is the body of the GET /test liveness probe.
const TestMessage = "Server and MongoDB are working fine"

const healthPingTimeout = 2 * time.Second

// Pinger reports whether the document store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProbeStatus exposes the scheduled store probe.
type ProbeStatus interface {
	IsRunning() bool
	LastResult() (scheduler.Result, bool)
	NextRun() *time.Time
}

var _ ProbeStatus = (*scheduler.StoreProbe)(nil)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	store   Pinger
	probe   ProbeStatus
	version string
}

func NewHealthController(store Pinger, probe ProbeStatus, version string) *HealthController {
	return &HealthController{
		store:   store,
		probe:   probe,
		version: version,
	}
}

// Status pings the store and reports the last scheduled probe.
// GET /health
func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
		defer cancel()

		if err := h.store.Ping(ctx); err != nil {
			checks["store"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["store"] = "ok"
		}
	} else {
		checks["store"] = "not configured"
	}

	// The probe result is informational; only the live ping decides status.
	if h.probe != nil {
		checks["store_probe"] = probeCheck(h.probe)
	} else {
		checks["store_probe"] = "disabled"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}

// probeCheck describes the last probe run and when the next one fires.
func probeCheck(probe ProbeStatus) string {
	if !probe.IsRunning() {
		return "stopped"
	}

	check := "pending"
	if result, ok := probe.LastResult(); ok {
		if result.OK() {
			check = "ok at " + result.CheckedAt.Format(time.RFC3339)
		} else {
			check = "error: " + result.Err.Error() + " at " + result.CheckedAt.Format(time.RFC3339)
		}
	}
	if next := probe.NextRun(); next != nil {
		check += "; next at " + next.Format(time.RFC3339)
	}
	return check
}

// Test answers the plain-text liveness probe.
// GET /test
func (h *HealthController) Test(c *gin.Context) {
	c.String(http.StatusOK, TestMessage)
}
