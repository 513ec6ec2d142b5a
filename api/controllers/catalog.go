package controllers

import (
	"net/http"
	"strings"

	"github.com/tillpointhq/tillpoint-backend/api/middleware"
	"github.com/tillpointhq/tillpoint-backend/api/responses"
	"github.com/tillpointhq/tillpoint-backend/api/validators"
	catalogsvc "github.com/tillpointhq/tillpoint-backend/internal/catalog"
	pkgerrors "github.com/tillpointhq/tillpoint-backend/pkg/errors"
	"github.com/tillpointhq/tillpoint-backend/pkg/logger"
)

// CatalogProducts serves the browsable product listing with resolved
// brand names. Supports q= substring search and in_stock= filtering.
func CatalogProducts(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		filter := catalogsvc.Filter{
			Query:       strings.TrimSpace(r.URL.Query().Get("q")),
			InStockOnly: validators.ParseQueryBool(r, "in_stock", false),
		}

		registerID := middleware.RegisterIDFromContext(r.Context())
		products, err := svc.Products(r.Context(), registerID, filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, products)
	}
}

// CatalogBrands serves the brand list.
func CatalogBrands(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		registerID := middleware.RegisterIDFromContext(r.Context())
		brands, err := svc.Brands(r.Context(), registerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, brands)
	}
}
