package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT for a
// cashier terminal session.
type AccessTokenPayload struct {
	AdminID   uuid.UUID
	FirstName string
	LastName  string
	FullName  string
	Surname   string
	Phone     string
	ShopID    string
	Branch    int
	Role      string
	JTI       string
}

// AccessTokenClaims represents the typed JWT presented by the cashier UI.
// The name and phone fields feed checkout identity resolution.
type AccessTokenClaims struct {
	AdminID   uuid.UUID `json:"admin_id"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	FullName  string    `json:"full_name,omitempty"`
	Surname   string    `json:"surname,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	ShopID    string    `json:"shop_id"`
	Branch    int       `json:"branch"`
	Role      string    `json:"role,omitempty"`
	jwt.RegisteredClaims
}
