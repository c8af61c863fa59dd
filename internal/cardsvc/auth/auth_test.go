package auth

import (
	"context"
	"testing"

	"github.com/go-chi/jwtauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContextDecodesClaims(t *testing.T) {
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)

	token, _, err := ja.Encode(map[string]interface{}{
		"userId":   "64f1b2a9c3d4e5f601234567",
		"name":     "Ana",
		"group":    "norte",
		"isAdmin":  false,
		"isSS":     true,
		"isSCards": false,
	})
	require.NoError(t, err)

	ctx := jwtauth.NewContext(context.Background(), token, nil)

	claims, err := FromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "64f1b2a9c3d4e5f601234567", claims.UserID)
	assert.Equal(t, "Ana", claims.Name)
	assert.Equal(t, "norte", claims.Group)
	assert.False(t, claims.IsAdmin)
	assert.True(t, claims.IsSS)
	assert.True(t, claims.CanAssign())
}

func TestFromContextMissingToken(t *testing.T) {
	_, err := FromContext(context.Background())
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestFromContextVerifierError(t *testing.T) {
	ctx := jwtauth.NewContext(context.Background(), nil, jwtauth.ErrNoTokenFound)
	_, err := FromContext(ctx)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	ctx = jwtauth.NewContext(context.Background(), nil, jwtauth.ErrExpired)
	_, err = FromContext(ctx)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestCanAssign(t *testing.T) {
	assert.False(t, (&Claims{}).CanAssign())
	assert.True(t, (&Claims{IsAdmin: true}).CanAssign())
	assert.True(t, (&Claims{IsSS: true}).CanAssign())
	assert.True(t, (&Claims{IsSCards: true}).CanAssign())
}
