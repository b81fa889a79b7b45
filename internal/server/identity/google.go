package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/dmitrijs2005/medmod/internal/common"
	"github.com/dmitrijs2005/medmod/internal/server/models"
)

// GoogleIssuer is the OIDC discovery root for Google ID tokens.
const GoogleIssuer = "https://accounts.google.com"

var newProvider = oidc.NewProvider

type googleClaims struct {
	Subject       string `json:"sub"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// GoogleVerifier checks Google ID tokens against the provider's published keys.
type GoogleVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewGoogleVerifier discovers the Google provider and builds a verifier
// accepting tokens issued for clientID.
func NewGoogleVerifier(ctx context.Context, clientID string) (*GoogleVerifier, error) {
	if clientID == "" {
		return nil, errors.New("google client id is required")
	}
	provider, err := newProvider(ctx, GoogleIssuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}
	return NewGoogleVerifierFrom(provider.Verifier(&oidc.Config{ClientID: clientID})), nil
}

// NewGoogleVerifierFrom wraps an already configured oidc verifier.
func NewGoogleVerifierFrom(v *oidc.IDTokenVerifier) *GoogleVerifier {
	return &GoogleVerifier{verifier: v}
}

func (g *GoogleVerifier) Verify(ctx context.Context, rawToken string) (*models.IdentityProfile, error) {
	if rawToken == "" {
		return nil, common.Unauthorized(nil, "missing identity token")
	}

	token, err := g.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, common.Unauthorized(err, "invalid identity token")
	}

	var claims googleClaims
	if err := token.Claims(&claims); err != nil {
		return nil, common.Unauthorized(err, "invalid identity token")
	}
	if claims.Email == "" {
		return nil, common.Unauthorized(nil, "identity token carries no email")
	}
	// email is the user's unique key, so only provider-verified addresses count
	if !claims.EmailVerified {
		return nil, common.Unauthorized(nil, "identity token email is not verified")
	}

	return &models.IdentityProfile{
		ProviderID: token.Subject,
		Name:       claims.Name,
		Email:      claims.Email,
	}, nil
}
