// Package token mints the short-lived service credential used to authorize
// the order-service create/confirm calls.
//
// The credential is a pure value computed from the signing secret and the
// current time; there is no signing state to share between requests. The
// token must never be logged or persisted.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claim values asserted by every issued credential.
const (
	Subject  = "lambda-orchestrator"
	Role     = "service"
	Audience = "orders-api"
)

// TTL is the credential lifetime. Long enough to cover the create and
// confirm calls of one orchestration, short enough to be useless if leaked.
const TTL = 5 * time.Minute

// ErrNoSecret indicates the signing secret is absent. This is a
// configuration error, not a client error.
var ErrNoSecret = errors.New("token: signing secret is empty")

// Issue signs a service credential valid for TTL from now, using HS256.
func Issue(secret string, now time.Time) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}

	claims := jwt.MapClaims{
		"sub":  Subject,
		"role": Role,
		"aud":  Audience,
		"iat":  now.Unix(),
		"exp":  now.Add(TTL).Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
