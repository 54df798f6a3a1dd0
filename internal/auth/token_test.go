package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mygroup/apphub/internal/domain"
	"github.com/mygroup/apphub/internal/roles"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 30)
	user := &domain.User{ID: "u-1", Username: "admin", Role: roles.Admin, IsAdmin: true}

	tok, err := tm.GenerateToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, tok.ID)
	assert.Equal(t, "u-1", tok.UserID)
	assert.WithinDuration(t, tok.IssuedAt.Add(30*time.Minute), tok.ExpiresAt, time.Second)

	claims, err := tm.ParseToken(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID())
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin", claims.Role)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, tok.ID, claims.ID)
	assert.WithinDuration(t, tok.ExpiresAt, claims.ExpiresAtTime(), time.Second)
}

func TestTokenIDsAreUnique(t *testing.T) {
	tm := NewTokenManager("secret", 30)
	user := &domain.User{ID: "u-1"}

	a, err := tm.GenerateToken(user)
	require.NoError(t, err)
	b, err := tm.GenerateToken(user)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestGenerateTokenRequiresUserID(t *testing.T) {
	_, err := NewTokenManager("secret", 30).GenerateToken(&domain.User{Username: "x"})
	assert.Error(t, err)
}

func TestParseTokenRejects(t *testing.T) {
	tm := NewTokenManager("secret", 30)
	tok, err := tm.GenerateToken(&domain.User{ID: "u-1"})
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewTokenManager("other", 30).ParseToken(tok.Value)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewTokenManager("secret", 30)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.ParseToken(tok.Value)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tm.ParseToken("not-a-token")
		assert.Error(t, err)
	})

	t.Run("missing jti", func(t *testing.T) {
		claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = tm.ParseToken(raw)
		assert.Error(t, err)
	})

	t.Run("other algorithm", func(t *testing.T) {
		claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u-1", ID: "j"}}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = tm.ParseToken(raw)
		assert.Error(t, err)
	})
}

func TestNewTokenManagerDefaultsTTL(t *testing.T) {
	assert.Equal(t, time.Hour, NewTokenManager("s", 0).ttl)
}
