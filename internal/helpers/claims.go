package helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin     = "admin"
	RoleOrganizer = "organizer"
)

type OrganizerClaims struct {
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

func (oc *OrganizerClaims) IsAdmin() bool {
	return oc.Role == RoleAdmin
}

func (oc *OrganizerClaims) IsOrganizer() bool {
	return oc.Role == RoleOrganizer
}

func (oc *OrganizerClaims) CanEditEvents() bool {
	return oc.IsAdmin() || oc.IsOrganizer()
}

// TokenVerifier checks bearer tokens either against a remote JWKS or a shared HMAC secret.
type TokenVerifier struct {
	keyFunc jwt.Keyfunc
	methods []string
	jwks    *keyfunc.JWKS
}

func NewTokenVerifier(secret, jwksURL string) (*TokenVerifier, error) {
	if jwksURL != "" {
		jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
			RefreshInterval:   time.Hour,
			RefreshUnknownKID: true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load JWKS from %s: %w", jwksURL, err)
		}
		return &TokenVerifier{
			keyFunc: jwks.Keyfunc,
			methods: []string{"RS256", "ES256"},
			jwks:    jwks,
		}, nil
	}

	if secret == "" {
		return nil, errors.New("either a JWT secret or a JWKS url is required")
	}
	key := []byte(secret)
	return &TokenVerifier{
		keyFunc: func(*jwt.Token) (interface{}, error) { return key, nil },
		methods: []string{"HS256"},
	}, nil
}

func (tv *TokenVerifier) Verify(tokenStr string) (*OrganizerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &OrganizerClaims{}, tv.keyFunc, jwt.WithValidMethods(tv.methods))
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	claims, ok := token.Claims.(*OrganizerClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	return claims, nil
}

// Close stops the JWKS background refresh, if any.
func (tv *TokenVerifier) Close() {
	if tv.jwks != nil {
		tv.jwks.EndBackground()
	}
}
