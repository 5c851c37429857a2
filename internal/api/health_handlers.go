package api

import (
	"context"
	"net/http"
	"time"

	"github.com/quillpress/quillpress-server/internal/http/response"
)

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status     string                     `json:"status"`
	Version    string                     `json:"version"`
	Components map[string]ComponentHealth `json:"components"`
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	db := s.checkDatabase(r.Context())
	resp := HealthResponse{
		Status:     db.Status,
		Version:    s.version,
		Components: map[string]ComponentHealth{"database": db},
	}

	if db.Status != "healthy" {
		response.ServiceUnavailable(w, resp, s.logger)
		return
	}
	response.Success(w, resp, s.logger)
}

func (s *Server) checkDatabase(ctx context.Context) ComponentHealth {
	if s.pinger == nil {
		return ComponentHealth{Status: "unhealthy", Message: "database not configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := s.pinger.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		s.logger.Error("Health check: database ping failed", "error", err)
		return ComponentHealth{
			Status:  "unhealthy",
			Latency: latency.String(),
			Message: "database unreachable",
		}
	}
	return ComponentHealth{Status: "healthy", Latency: latency.String()}
}
