package utils // package utils provides helpers for reading session tokens

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5" // JWT library, used here only to split and decode tokens

	"github.com/iliyamo/movie-console/internal/model"
)

// ErrEmptyToken is returned when there is nothing to decode.
var ErrEmptyToken = errors.New("empty token")

// DecodeToken reads the claims of a session token WITHOUT verifying its
// signature or expiry.  The console has no key to verify against; the
// movie API enforces authorization on its own.  The result must only be
// used for presentation (e.g. which navigation links to show).
func DecodeToken(raw string) (model.TokenClaims, error) {
	if raw == "" {
		return model.TokenClaims{}, ErrEmptyToken
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return model.TokenClaims{}, fmt.Errorf("decode token: %w", err)
	}

	out := model.TokenClaims{
		UserID:   stringClaim(claims, "userId"),
		UserType: stringClaim(claims, "userType"),
	}
	// exp and iat are optional; a malformed numeric claim is treated as absent.
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	return out, nil
}

// stringClaim returns the string value of a claim, or "" when the claim is
// missing or not a string.
func stringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
