package middleware

import (
	"net/http"
	"strings"

	"github.com/tillpointhq/tillpoint-backend/api/responses"
	pkgAuth "github.com/tillpointhq/tillpoint-backend/pkg/auth"
	"github.com/tillpointhq/tillpoint-backend/pkg/config"
	pkgerrors "github.com/tillpointhq/tillpoint-backend/pkg/errors"
	"github.com/tillpointhq/tillpoint-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the
// cashier's claims.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := WithClaims(r.Context(), claims)

			if logg != nil {
				ctx = logg.WithAdminID(ctx, claims.AdminID.String())
				if claims.ShopID != "" {
					ctx = logg.WithShopID(ctx, claims.ShopID)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
