package identity

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/dmitrijs2005/medmod/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testClientID = "medmod-web"

type googleTestClaims struct {
	jwt.RegisteredClaims
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
}

func newTestGoogleVerifier(t *testing.T) (*GoogleVerifier, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	keySet := &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&key.PublicKey}}
	v := oidc.NewVerifier(GoogleIssuer, keySet, &oidc.Config{ClientID: testClientID})
	return NewGoogleVerifierFrom(v), key
}

func signRS256(t *testing.T, key *rsa.PrivateKey, c googleTestClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodRS256, c).SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims() googleTestClaims {
	return googleTestClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    GoogleIssuer,
			Subject:   "108234",
			Audience:  jwt.ClaimStrings{testClientID},
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Name:          "Ada Lovelace",
		Email:         "ada@example.com",
		EmailVerified: true,
	}
}

func TestGoogleVerifier_Valid(t *testing.T) {
	v, key := newTestGoogleVerifier(t)

	p, err := v.Verify(context.Background(), signRS256(t, key, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "108234", p.ProviderID)
	assert.Equal(t, "Ada Lovelace", p.Name)
	assert.Equal(t, "ada@example.com", p.Email)
}

func TestGoogleVerifier_Rejects(t *testing.T) {
	v, key := newTestGoogleVerifier(t)
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	wrongAudience := validClaims()
	wrongAudience.Audience = jwt.ClaimStrings{"someone-else"}

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	wrongIssuer := validClaims()
	wrongIssuer.Issuer = "https://evil.example.com"

	noEmail := validClaims()
	noEmail.Email = ""

	unverified := validClaims()
	unverified.Email = "boss@test.com"
	unverified.EmailVerified = false

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"wrong audience", signRS256(t, key, wrongAudience)},
		{"expired", signRS256(t, key, expired)},
		{"wrong issuer", signRS256(t, key, wrongIssuer)},
		{"foreign key", signRS256(t, otherKey, validClaims())},
		{"no email", signRS256(t, key, noEmail)},
		{"unverified email", signRS256(t, key, unverified)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := v.Verify(context.Background(), tt.token)
			require.Error(t, err)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, common.ErrorUnauthorized)
		})
	}
}

func TestGoogleVerifier_UnverifiedEmailCannotClaimAddress(t *testing.T) {
	v, key := newTestGoogleVerifier(t)

	c := validClaims()
	c.Email = "boss@test.com"
	c.EmailVerified = false

	p, err := v.Verify(context.Background(), signRS256(t, key, c))
	require.Error(t, err)
	assert.Nil(t, p)
	assert.Equal(t, common.KindUnauthorized, common.KindOf(err))
	assert.Equal(t, "identity token email is not verified", common.PublicMessage(err))
}

func TestNewGoogleVerifier_RequiresClientID(t *testing.T) {
	_, err := NewGoogleVerifier(context.Background(), "")
	require.Error(t, err)
}

func TestNewGoogleVerifier_DiscoveryError(t *testing.T) {
	orig := newProvider
	t.Cleanup(func() { newProvider = orig })

	newProvider = func(ctx context.Context, issuer string) (*oidc.Provider, error) {
		assert.Equal(t, GoogleIssuer, issuer)
		return nil, errors.New("dns failure")
	}

	_, err := NewGoogleVerifier(context.Background(), testClientID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oidc discovery")
}

func TestNewGoogleVerifier_UsesDiscoveredProvider(t *testing.T) {
	orig := newProvider
	t.Cleanup(func() { newProvider = orig })

	newProvider = func(ctx context.Context, issuer string) (*oidc.Provider, error) {
		cfg := &oidc.ProviderConfig{IssuerURL: issuer, JWKSURL: issuer + "/certs"}
		return cfg.NewProvider(ctx), nil
	}

	v, err := NewGoogleVerifier(context.Background(), testClientID)
	require.NoError(t, err)
	require.NotNil(t, v)

	_, err = v.Verify(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}
