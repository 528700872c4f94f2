// Package health exposes a minimal liveness endpoint: process up, corpus
// database reachable.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Pinger is the slice of the database the health check needs.
type Pinger interface {
	PingCtx(ctx context.Context) error
}

// Handler reports overall status and the database component. A failed
// ping yields 503 so orchestration can act on it.
func Handler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		overall := "healthy"
		dbState := "up"
		if err := db.PingCtx(ctx); err != nil {
			status = http.StatusServiceUnavailable
			overall = "unhealthy"
			dbState = "down"
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":   overall,
			"database": dbState,
			"time":     time.Now().Format(time.RFC3339),
		})
	}
}
