package controllers

import (
	"net/http"

	"github.com/agroconnect-tz/agroconnect-backend/api/responses"
	"github.com/agroconnect-tz/agroconnect-backend/pkg/config"
)

// HealthLive reports process liveness.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-AgroConnect-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

// HealthReady reports readiness. All state is in-process, so readiness only
// requires the catalog to have been seeded.
func HealthReady(cfg *config.Config, catalogReady func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-AgroConnect-Env", cfg.App.Env)
		if catalogReady != nil && !catalogReady() {
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "catalog not seeded"})
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
