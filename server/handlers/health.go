package handlers

import (
	"net/http"

	"go.uber.org/zap"
)

// HealthResponse is the body returned by the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// HealthHandler reports that the process is up. It makes no upstream calls.
func HealthHandler(version string, logger *zap.Logger) http.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if err := writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: version}); err != nil {
			logger.Error("Failed to write health response", zap.Error(err))
		}
	}
}
