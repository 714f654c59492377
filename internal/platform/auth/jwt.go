// Package auth verifies the bearer tokens issued by the external identity provider.
package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const RoleAdmin = "admin"

var (
	ErrMissingSecret = errors.New("jwt secret must be provided")
	ErrInvalidToken  = errors.New("invalid or expired token")
)

// Principal is the authenticated caller.
type Principal struct {
	UserID string
	Role   string
}

// Admin reports whether the caller holds the admin role.
func (p Principal) Admin() bool {
	return p.Role == RoleAdmin
}

// Claims are the token claims the API relies on.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 tokens.
type Verifier struct {
	secret []byte
	now    func() time.Time
}

func NewVerifier(secret string) (*Verifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrMissingSecret
	}
	return &Verifier{secret: []byte(secret), now: time.Now}, nil
}

// Verify parses token and returns its principal. Only HMAC signatures are accepted.
func (v *Verifier) Verify(token string) (Principal, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(v.now))
	if err != nil || !parsed.Valid {
		return Principal{}, errors.Wrap(ErrInvalidToken, errMessage(err))
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Principal{}, errors.Wrap(ErrInvalidToken, "subject missing")
	}
	return Principal{UserID: claims.Subject, Role: strings.ToLower(claims.Role)}, nil
}

// Issue signs a token for subject. It serves local tooling and tests; production tokens come from the identity provider.
func (v *Verifier) Issue(subject, role string, ttl time.Duration) (string, error) {
	now := v.now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

func errMessage(err error) string {
	if err == nil {
		return "token not valid"
	}
	return err.Error()
}
