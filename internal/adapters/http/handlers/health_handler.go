package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/JeanGrijp/products-rate-limiter/internal/core/ports"
)

const healthCheckTimeout = time.Second

type healthResponse struct {
	Status string `json:"status"`
}

// NewHealthHandler responde 200 quando o store responde ao ping e 503 caso contrário.
func NewHealthHandler(checker ports.HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		status, body := http.StatusOK, healthResponse{Status: "ok"}
		if checker != nil {
			if err := checker.Ping(ctx); err != nil {
				status, body = http.StatusServiceUnavailable, healthResponse{Status: "unavailable"}
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}
