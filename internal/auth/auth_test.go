package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-unit-tests-0123456789"

func TestPasswordHasherRoundTrip(t *testing.T) {
	hasher := NewPasswordHasher(4)

	hash, err := hasher.Hash("password1")
	require.NoError(t, err)
	assert.NotEqual(t, "password1", hash)
	assert.True(t, hasher.Verify("password1", hash))
	assert.False(t, hasher.Verify("password2", hash))
	assert.False(t, hasher.Verify("password1", "not-a-bcrypt-hash"))

	again, err := hasher.Hash("password1")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "hashes must be salted")
}

func TestPasswordHasherRejectsOverlongInput(t *testing.T) {
	_, err := NewPasswordHasher(4).Hash(strings.Repeat("x", 80))
	require.Error(t, err)
	assert.Equal(t, 1, strings.Count(err.Error(), "hash password"))
}

func TestNewPasswordHasherClampsCost(t *testing.T) {
	assert.Equal(t, DefaultBcryptCost, NewPasswordHasher(1).cost)
	assert.Equal(t, DefaultBcryptCost, NewPasswordHasher(99).cost)
	assert.Equal(t, 10, NewPasswordHasher(10).cost)
}

func TestTokenIssueAndValidate(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, 5*time.Hour)

	token, err := issuer.Issue("user-1", "a@test.com")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Hour, token.ExpiresAt.Sub(token.IssuedAt))

	claims, err := issuer.Validate(token.Value)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@test.com", claims.Email)
}

func TestTokenIssueRequiresUserID(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour)
	_, err := issuer.Issue("", "a@test.com")
	assert.Error(t, err)
}

func TestTokenValidateExpired(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewTokenIssuer(testSecret, 5*time.Hour).WithClock(func() time.Time { return start })

	token, err := issuer.Issue("user-1", "a@test.com")
	require.NoError(t, err)

	later := issuer.WithClock(func() time.Time { return start.Add(5*time.Hour + time.Second) })
	_, err = later.Validate(token.Value)
	assert.ErrorIs(t, err, ErrTokenExpired)

	earlier := issuer.WithClock(func() time.Time { return start.Add(4 * time.Hour) })
	_, err = earlier.Validate(token.Value)
	assert.NoError(t, err)
}

func TestTokenValidateWrongSecret(t *testing.T) {
	token, err := NewTokenIssuer(testSecret, time.Hour).Issue("user-1", "a@test.com")
	require.NoError(t, err)

	_, err = NewTokenIssuer("another-secret-another-secret-0000", time.Hour).Validate(token.Value)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestTokenValidateMalformed(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour)

	_, err := issuer.Validate("mocktoken")
	assert.ErrorIs(t, err, ErrTokenMalformed)

	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := noSubject.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = issuer.Validate(signed)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestTokenValidateRejectsNoneAlgorithm(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "user-1",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenIssuer(testSecret, time.Hour).Validate(signed)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

type stubValidator struct {
	claims Claims
	err    error
	calls  int
}

func (s *stubValidator) Validate(string) (Claims, error) {
	s.calls++
	return s.claims, s.err
}

func TestGateAuthenticate(t *testing.T) {
	validator := &stubValidator{claims: Claims{UserID: "user-7"}}
	gate := NewGate(validator)

	userID, err := gate.Authenticate("Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "user-7", userID)
}

func TestGateMissingHeaderShortCircuits(t *testing.T) {
	validator := &stubValidator{}
	gate := NewGate(validator)

	_, err := gate.Authenticate("   ")
	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.Zero(t, validator.calls, "validator must not run without a credential")
}

func TestGateInvalidCredential(t *testing.T) {
	tests := []struct {
		name   string
		header string
		err    error
	}{
		{name: "no scheme", header: "mocktoken"},
		{name: "wrong scheme", header: "Basic abc"},
		{name: "empty token", header: "Bearer "},
		{name: "expired", header: "Bearer abc", err: ErrTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewGate(&stubValidator{err: tt.err})
			_, err := gate.Authenticate(tt.header)
			require.ErrorIs(t, err, ErrInvalidCredential)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestGateWithRealIssuer(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour)
	token, err := issuer.Issue("user-9", "x@test.com")
	require.NoError(t, err)

	userID, err := NewGate(issuer).Authenticate("Bearer " + token.Value)
	require.NoError(t, err)
	assert.Equal(t, "user-9", userID)
}

func TestUserIDContext(t *testing.T) {
	_, ok := UserIDFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithUserID(context.Background(), "user-1")
	userID, ok := UserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "user-1", userID)
}
