package identity

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/medmod/internal/common"
	"github.com/dmitrijs2005/medmod/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// SignedClaims is the payload of an HS256 identity token.
type SignedClaims struct {
	jwt.RegisteredClaims
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SignedVerifier accepts HS256 tokens minted with a shared secret,
// e.g. by a gateway that already authenticated the caller.
type SignedVerifier struct {
	secret []byte
	issuer string
}

func NewSignedVerifier(secret []byte, issuer string) (*SignedVerifier, error) {
	if len(secret) == 0 {
		return nil, errors.New("signed identity secret is required")
	}
	return &SignedVerifier{secret: secret, issuer: issuer}, nil
}

func (s *SignedVerifier) Verify(_ context.Context, rawToken string) (*models.IdentityProfile, error) {
	if rawToken == "" {
		return nil, common.Unauthorized(nil, "missing identity token")
	}

	claims := &SignedClaims{}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(rawToken, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.Unauthorized(err, "identity token expired")
		}
		return nil, common.Unauthorized(err, "invalid identity token")
	}
	if !token.Valid || claims.Subject == "" || claims.Email == "" {
		return nil, common.Unauthorized(nil, "invalid identity token")
	}

	return &models.IdentityProfile{
		ProviderID: claims.Subject,
		Name:       claims.Name,
		Email:      claims.Email,
	}, nil
}

// IssueSigned mints a token SignedVerifier accepts.
func IssueSigned(profile models.IdentityProfile, secret []byte, issuer string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SignedClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profile.ProviderID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Name:  profile.Name,
		Email: profile.Email,
	})
	return token.SignedString(secret)
}
