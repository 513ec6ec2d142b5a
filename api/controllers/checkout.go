package controllers

import (
	"net/http"

	"github.com/tillpointhq/tillpoint-backend/api/middleware"
	"github.com/tillpointhq/tillpoint-backend/api/responses"
	"github.com/tillpointhq/tillpoint-backend/api/validators"
	checkoutsvc "github.com/tillpointhq/tillpoint-backend/internal/checkout"
	pkgerrors "github.com/tillpointhq/tillpoint-backend/pkg/errors"
	"github.com/tillpointhq/tillpoint-backend/pkg/logger"
)

type confirmCheckoutRequest struct {
	PaymentMethod string `json:"payment_method"`
	CustomMethod  string `json:"custom_method"`
	NameOverride  string `json:"name_override"`
}

// CheckoutConfirm runs the submission pipeline for the register's cart.
func CheckoutConfirm(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload confirmCheckoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		registerID := middleware.RegisterIDFromContext(r.Context())
		claims := middleware.ClaimsFromContext(r.Context())

		record, err := svc.Submit(r.Context(), registerID, claims, checkoutsvc.SubmitInput{
			PaymentMethod: payload.PaymentMethod,
			CustomMethod:  payload.CustomMethod,
			NameOverride:  payload.NameOverride,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// CheckoutLastSale serves the most recently fulfilled sale for the
// register, backing the receipt screen.
func CheckoutLastSale(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		registerID := middleware.RegisterIDFromContext(r.Context())
		record := svc.LastSale(registerID)
		if record == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no fulfilled sale for this register"))
			return
		}

		responses.WriteSuccess(w, record)
	}
}
