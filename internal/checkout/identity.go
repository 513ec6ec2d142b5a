package checkout

import (
	"strings"

	"github.com/tillpointhq/tillpoint-backend/pkg/auth"
)

// ResolveAdminName derives the display name stamped on the sale record.
// An operator-entered override takes precedence over every derived name;
// otherwise first+last, then full name, then surname, first non-empty wins.
func ResolveAdminName(override string, claims *auth.AccessTokenClaims) string {
	if name := strings.TrimSpace(override); name != "" {
		return name
	}
	if claims == nil {
		return ""
	}

	first := strings.TrimSpace(claims.FirstName)
	last := strings.TrimSpace(claims.LastName)
	if first != "" && last != "" {
		return first + " " + last
	}
	if first != "" {
		return first
	}
	if full := strings.TrimSpace(claims.FullName); full != "" {
		return full
	}
	return strings.TrimSpace(claims.Surname)
}

// ResolveAdminPhone derives the contact number stamped on the sale record.
func ResolveAdminPhone(claims *auth.AccessTokenClaims) string {
	if claims == nil {
		return ""
	}
	return strings.TrimSpace(claims.Phone)
}

// ResolvePaymentMethod picks the effective method: a preset value wins as
// is; "other" requires a non-empty custom method.
func ResolvePaymentMethod(preset, custom string) string {
	method := strings.TrimSpace(preset)
	if strings.EqualFold(method, "other") {
		return strings.TrimSpace(custom)
	}
	return method
}
