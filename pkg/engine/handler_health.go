// Liveness probe handler.

package engine

import (
	"net/http"
	"time"

	"github.com/getmockd/pokedex/pkg/httputil"
)

// HealthStatus is the /healthz response body.
type HealthStatus struct {
	Status    string `json:"status"`
	Records   int    `json:"records"`
	Timestamp string `json:"timestamp"`
}

// handleHealth handles the liveness probe endpoint.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !isRead(r) {
		httputil.WriteMethodNotAllowed(w, r, http.MethodGet, http.MethodHead)
		return
	}
	h.writeJSON(w, r, http.StatusOK, HealthStatus{
		Status:    "healthy",
		Records:   h.store.Len(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
