// ABOUTME: Bearer token payload decoder for display-only user identity
// ABOUTME: Decodes JWT claims without signature verification; never used for authorization

package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jacksmith315/homealign-dashboard/models"
)

// ErrMalformedToken is returned when a token is not three base64url JSON segments
var ErrMalformedToken = errors.New("malformed token")

// segmentParser restores stripped base64 padding before decoding.
var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// DecodeClaims returns the payload claims of a JWT.
// The signature is NOT verified: the token reached us in an HttpOnly cookie
// issued by the upstream backend, which stays the only party that validates it.
// The result is advisory and must never be used for an authorization decision.
func DecodeClaims(token string) (jwt.MapClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformedToken, len(parts))
	}

	payload, err := segmentParser.DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: payload encoding: %v", ErrMalformedToken, err)
	}

	var claims jwt.MapClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("%w: payload format: %v", ErrMalformedToken, err)
	}
	if claims == nil {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedToken)
	}

	return claims, nil
}

// ExtractIdentity decodes the token and maps its claims onto a UserIdentity.
// Fields the token does not carry are left empty.
func ExtractIdentity(token string) (*models.UserIdentity, error) {
	claims, err := DecodeClaims(token)
	if err != nil {
		return nil, err
	}

	return &models.UserIdentity{
		Email:    firstClaim(claims, "email", "user_email", "sub"),
		Username: firstClaim(claims, "username", "user_username", "preferred_username"),
		ID:       firstClaim(claims, "user_id", "sub", "id"),
		Role:     roleClaim(claims),
	}, nil
}

// roleClaim prefers the first entry of a non-empty roles list; entries are
// either plain strings or objects carrying role_name.
func roleClaim(claims jwt.MapClaims) string {
	if roles, ok := claims["roles"].([]any); ok && len(roles) > 0 {
		switch first := roles[0].(type) {
		case string:
			return first
		case map[string]any:
			return claimString(first["role_name"])
		}
		return ""
	}
	return firstClaim(claims, "role_name", "role")
}

// firstClaim returns the first claim among keys holding a non-empty value.
func firstClaim(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		if v := claimString(claims[key]); v != "" {
			return v
		}
	}
	return ""
}

// claimString renders scalar claim values; zero numbers and false count as empty.
func claimString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == 0 {
			return ""
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if !val {
			return ""
		}
		return strconv.FormatBool(val)
	default:
		return ""
	}
}
