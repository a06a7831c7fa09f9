// Package token issues and validates the signed bearer tokens that bind
// a login and account id to an expiry. Tokens are self-contained HS256
// JWTs; nothing is persisted.
package token

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is the single outward failure of Validate. Expired,
// malformed, badly signed and claim-deficient tokens all collapse into
// it so callers cannot distinguish tampering from expiry.
var ErrInvalidToken = errors.New("invalid token")

const accountIDClaim = "accountId"

// Identity is the request-scoped result of a successful validation.
type Identity struct {
	Login     string
	AccountID uuid.UUID
}

type accountClaims struct {
	AccountID string `json:"accountId"`
	jwt.RegisteredClaims
}

// Issuer mints and validates tokens with a process-wide secret and TTL,
// both fixed at startup.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	logger *slog.Logger
}

func NewIssuer(secret string, ttl time.Duration, logger *slog.Logger) (*Issuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("jwt ttl must be positive")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		logger: logger,
	}, nil
}

// Issue produces a signed token with subject login, the account id as a
// claim, and expiry now+TTL.
func (i *Issuer) Issue(login string, accountID uuid.UUID) (string, error) {
	now := time.Now()
	claims := accountClaims{
		AccountID: accountID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   login,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Validate parses and verifies a token string. The distinct failure
// causes are logged but callers only ever see ErrInvalidToken.
func (i *Issuer) Validate(tokenString string) (Identity, error) {
	claims := &accountClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			i.logger.Warn("token expired")
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			i.logger.Warn("token signature invalid")
		case errors.Is(err, jwt.ErrTokenMalformed):
			i.logger.Warn("token malformed")
		default:
			i.logger.Warn("token parse failed", "error", err)
		}
		return Identity{}, ErrInvalidToken
	}
	if !parsed.Valid {
		i.logger.Warn("token rejected")
		return Identity{}, ErrInvalidToken
	}

	if strings.TrimSpace(claims.Subject) == "" {
		i.logger.Warn("token missing subject")
		return Identity{}, ErrInvalidToken
	}
	accountID, err := uuid.Parse(claims.AccountID)
	if err != nil {
		i.logger.Warn("token account id claim invalid")
		return Identity{}, ErrInvalidToken
	}

	return Identity{
		Login:     claims.Subject,
		AccountID: accountID,
	}, nil
}

// TTL reports the configured token lifetime.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}
