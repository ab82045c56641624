package identity

import (
	"errors"
	"strings"
	"time"

	"taskboard/internal/model"

	"github.com/golang-jwt/jwt/v4"
)

var (
	errMissingToken = errors.New("missing token")
	errMissingSub   = errors.New("missing sub")
)

// Claims is the subset of identity-provider claims the board reads.
type Claims struct {
	Email       string   `json:"email,omitempty"`
	GivenName   string   `json:"given_name,omitempty"`
	FamilyName  string   `json:"family_name,omitempty"`
	Role        string   `json:"role,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// ParseToken reads a bearer token (the "Bearer " prefix is optional).
// With a secret the token must be HS256-signed by it and unexpired; without one
// the claims are read unverified, as a local development convenience.
func ParseToken(raw, secret string) (Claims, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
		raw = strings.TrimSpace(raw[7:])
	}
	if raw == "" {
		return Claims{}, errMissingToken
	}

	var claims Claims
	if secret == "" {
		if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
			return Claims{}, err
		}
	} else {
		parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
		_, err := parser.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil {
			return Claims{}, err
		}
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Claims{}, errMissingSub
	}
	return claims, nil
}

// Profile converts claims into the board's user profile. Any role other than
// "admin" becomes employee.
func (c Claims) Profile() *model.UserProfile {
	id := strings.TrimSpace(c.Subject)
	if id == "" {
		return nil
	}
	perms := append([]string{}, c.Permissions...)
	return &model.UserProfile{
		ID:          id,
		Email:       strings.TrimSpace(c.Email),
		FirstName:   strings.TrimSpace(c.GivenName),
		LastName:    strings.TrimSpace(c.FamilyName),
		Role:        model.NormalizeRole(strings.TrimSpace(c.Role)),
		Permissions: perms,
	}
}

// Sign issues an HS256 token for u valid for ttl. It is used by local sign-in and tests.
func Sign(u model.UserProfile, secret string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(u.ID) == "" {
		return "", errMissingSub
	}
	now := time.Now()
	claims := Claims{
		Email:       u.Email,
		GivenName:   u.FirstName,
		FamilyName:  u.LastName,
		Role:        string(u.Role),
		Permissions: u.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  u.ID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
