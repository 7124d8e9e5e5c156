package authctx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antbox/antbox/internal/node"
	"github.com/antbox/antbox/internal/permission"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("shh", time.Hour)
	ctx := Context{Tenant: "acme", Mode: ModeDirect, Principal: permission.Principal{Email: "a@example.com", Groups: []string{"eng"}}}

	tok, err := svc.GenerateToken(ctx)
	require.NoError(t, err)

	got, rerr := svc.ValidateToken(tok)
	require.Nil(t, rerr)
	assert.Equal(t, ctx.Tenant, got.Tenant)
	assert.Equal(t, ctx.Principal.Email, got.Principal.Email)
	assert.Equal(t, ctx.Principal.Groups, got.Principal.Groups)
}

func TestTokenRejectsExpired(t *testing.T) {
	svc := NewTokenService("shh", -time.Hour)
	tok, err := svc.GenerateToken(Context{Principal: permission.Principal{Email: "a@example.com"}})
	require.NoError(t, err)

	_, rerr := svc.ValidateToken(tok)
	require.NotNil(t, rerr)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	svc := NewTokenService("shh", time.Hour)
	tok, err := svc.GenerateToken(Context{Principal: permission.Principal{Email: "a@example.com"}})
	require.NoError(t, err)

	other := NewTokenService("different", time.Hour)
	_, rerr := other.ValidateToken(tok)
	require.NotNil(t, rerr)
}

func TestHashAndValidatePassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.Nil(t, err)
	assert.True(t, ValidatePassword("correct horse battery staple", hash))
	assert.False(t, ValidatePassword("wrong", hash))
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := HashPassword("")
	require.NotNil(t, err)
}

func TestCheckPasswordStrength(t *testing.T) {
	assert.NotNil(t, CheckPasswordStrength("short", false))
	assert.Nil(t, CheckPasswordStrength("longenough", false))
	assert.NotNil(t, CheckPasswordStrength("longenough", true))
	assert.Nil(t, CheckPasswordStrength("Longenough1!", true))
}

func TestVerifyApiKey(t *testing.T) {
	_, hash, err := NewApiKeySecret()
	require.Nil(t, err)

	keyNode := &node.Node{
		Envelope: node.Envelope{
			UUID: "key-1", Kind: node.KindApiKey, Parent: node.ApiKeysUUID,
			Properties: map[string]any{"secret": hash, "group": "eng"},
		},
	}
	lookup := func(_ context.Context, uuid string) (*node.Node, bool) {
		if uuid == "key-1" {
			return keyNode, true
		}
		return nil, false
	}

	plaintext, hash2, err := NewApiKeySecret()
	require.Nil(t, err)
	keyNode.Properties["secret"] = hash2

	principal, verr := VerifyApiKey(context.Background(), "key-1", plaintext, lookup)
	require.Nil(t, verr)
	assert.Equal(t, "key-1", principal.Email)
	assert.Equal(t, []string{"eng"}, principal.Groups)

	_, verr2 := VerifyApiKey(context.Background(), "key-1", "wrong-secret", lookup)
	require.NotNil(t, verr2)

	_, verr3 := VerifyApiKey(context.Background(), "missing", plaintext, lookup)
	require.NotNil(t, verr3)
}
