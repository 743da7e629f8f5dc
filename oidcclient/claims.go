package oidcclient

import (
	"github.com/String-Atharv/Event-Hub-sub001/internal/errors"
	"github.com/golang-jwt/jwt/v5"
)

// RealmRoles reads realm_access.roles from an access token without
// verifying its signature. The token came straight from the provider's
// token endpoint, so it is not re-verified here.
func RealmRoles(accessToken string) ([]string, error) {
	token, _, err := jwt.NewParser().ParseUnverified(accessToken, jwt.MapClaims{})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidAccessToken, "decoding claims: %v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidAccessToken, "error extracting claims")
	}

	realmAccess, _ := claims["realm_access"].(map[string]any)
	rawRoles, _ := realmAccess["roles"].([]any)

	// Non-string entries are skipped; an empty list is still a valid token.
	roles := make([]string, 0, len(rawRoles))
	for _, r := range rawRoles {
		if role, ok := r.(string); ok && role != "" {
			roles = append(roles, role)
		}
	}
	return roles, nil
}
