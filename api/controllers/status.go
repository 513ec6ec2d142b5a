package controllers

import (
	"net/http"

	"github.com/tillpointhq/tillpoint-backend/api/middleware"
	"github.com/tillpointhq/tillpoint-backend/api/responses"
	"github.com/tillpointhq/tillpoint-backend/internal/lifecycle"
	"github.com/tillpointhq/tillpoint-backend/pkg/logger"
)

// RegisterStatus serves the lifecycle cells for the register, one per
// async operation kind, so the cashier UI can render pending and error
// states.
func RegisterStatus(trackers *lifecycle.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		registerID := middleware.RegisterIDFromContext(r.Context())
		responses.WriteSuccess(w, trackers.ForRegister(registerID).Snapshot())
	}
}
