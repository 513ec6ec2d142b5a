package middleware

import (
	"net/http"
	"strings"

	"github.com/tillpointhq/tillpoint-backend/api/responses"
	pkgerrors "github.com/tillpointhq/tillpoint-backend/pkg/errors"
	"github.com/tillpointhq/tillpoint-backend/pkg/logger"
)

const registerIDHeader = "X-Register-Id"

// RegisterContext requires the register header that scopes cart and
// lifecycle state to one terminal. Every stateful route runs behind it.
func RegisterContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			registerID := strings.TrimSpace(r.Header.Get(registerIDHeader))
			if registerID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "register id header required"))
				return
			}

			ctx := WithRegisterID(r.Context(), registerID)
			if logg != nil {
				ctx = logg.WithRegisterID(ctx, registerID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
