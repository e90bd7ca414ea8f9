// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

package api

import (
	"net/http"
	"time"
)

// HealthLive handles liveness probe requests (Kubernetes-style).
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]any{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// The service is not ready while the CRM circuit is open or the session
// store cannot be read.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	breaker := h.crm.BreakerState()
	sessions, storeErr := h.sessions.Store().Count(r.Context())

	ready := breaker != "open" && storeErr == nil
	components := map[string]any{
		"crm_circuit":   breaker,
		"session_store": "ok",
	}
	if storeErr != nil {
		components["session_store"] = storeErr.Error()
	} else {
		components["active_sessions"] = sessions
	}

	data := map[string]any{
		"status":     "ready",
		"components": components,
		"uptime":     time.Since(h.startTime).Seconds(),
	}
	if !ready {
		data["status"] = "not_ready"
		NewResponseWriter(w, r).ErrorWithDetails(http.StatusServiceUnavailable,
			ErrCodeServiceUnavailable, "Service is not ready", data)
		return
	}
	WriteSuccess(w, r, data)
}
