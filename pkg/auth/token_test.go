package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tillpointhq/tillpoint-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "tillpoint-test",
		ExpirationMinutes: 60,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	adminID := uuid.New()

	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		AdminID:   adminID,
		FirstName: "Sara",
		LastName:  "Haile",
		Phone:     "0911000000",
		ShopID:    "shop-1",
		Branch:    2,
		Role:      "cashier",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseAccessToken(cfg, token)
	require.NoError(t, err)
	require.Equal(t, adminID, claims.AdminID)
	require.Equal(t, "Sara", claims.FirstName)
	require.Equal(t, "shop-1", claims.ShopID)
	require.Equal(t, 2, claims.Branch)
	require.NotEmpty(t, claims.ID)
}

func TestMintAccessTokenRequiresIdentity(t *testing.T) {
	cfg := testJWTConfig()

	_, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{ShopID: "shop-1"})
	require.Error(t, err)

	_, err = MintAccessToken(cfg, time.Now(), AccessTokenPayload{AdminID: uuid.New()})
	require.Error(t, err)
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		AdminID: uuid.New(),
		ShopID:  "shop-1",
	})
	require.NoError(t, err)

	other := cfg
	other.Issuer = "someone-else"
	_, err = ParseAccessToken(other, token)
	require.Error(t, err)
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), AccessTokenPayload{
		AdminID: uuid.New(),
		ShopID:  "shop-1",
	})
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, token)
	require.Error(t, err)
}
