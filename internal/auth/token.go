package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vidshelf/backend/internal/models"
)

var (
	// ErrTokenMalformed indicates the token could not be parsed or lacks required claims.
	ErrTokenMalformed = errors.New("token malformed")
	// ErrTokenSignature indicates the token was not signed with the configured secret.
	ErrTokenSignature = errors.New("token signature invalid")
	// ErrTokenExpired indicates the token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the identity carried inside a session token.
type Claims struct {
	UserID    string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and validates HS256-signed session tokens. Tokens are not
// tracked server side, so they stay valid until they expire.
type TokenIssuer struct {
	secret  []byte
	ttl     time.Duration
	nowFunc func() time.Time
}

// NewTokenIssuer constructs an issuer signing with secret and granting tokens for ttl.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if secret == "" {
		panic("auth: token secret must not be empty")
	}
	return &TokenIssuer{
		secret:  []byte(secret),
		ttl:     ttl,
		nowFunc: time.Now,
	}
}

// WithClock overrides the time source. Used by tests.
func (i *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	clone := *i
	clone.nowFunc = now
	return &clone
}

// Issue signs a token for the given user.
func (i *TokenIssuer) Issue(userID, email string) (models.Token, error) {
	if userID == "" {
		return models.Token{}, errors.New("user id must be provided")
	}

	issuedAt := i.nowFunc().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(i.ttl)

	claims := sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return models.Token{}, fmt.Errorf("sign token: %w", err)
	}

	return models.Token{Value: signed, IssuedAt: issuedAt, ExpiresAt: expiresAt}, nil
}

// Validate verifies the token signature and expiry and returns its claims.
func (i *TokenIssuer) Validate(token string) (Claims, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithTimeFunc(i.nowFunc),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, classifyTokenError(err)
	}
	if !parsed.Valid {
		return Claims{}, ErrTokenMalformed
	}

	if claims.Subject == "" || claims.IssuedAt == nil {
		return Claims{}, ErrTokenMalformed
	}

	return Claims{
		UserID:    claims.Subject,
		Email:     claims.Email,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %w", ErrTokenSignature, err)
	default:
		return fmt.Errorf("%w: %w", ErrTokenMalformed, err)
	}
}
