// Package identity verifies caller tokens issued by an external identity
// provider and extracts the profile a user record is created from.
package identity

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/medmod/internal/server/models"
)

// Verifier validates a raw token and returns the verified profile.
// Every failure is a common.KindUnauthorized error.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (*models.IdentityProfile, error)
}

// Options selects and parameterizes a Verifier.
type Options struct {
	Mode           string
	GoogleClientID string
	SignedSecret   []byte
	SignedIssuer   string
}

const (
	ModeGoogle = "google"
	ModeSigned = "signed"
)

// New builds the verifier for opts.Mode.
func New(ctx context.Context, opts Options) (Verifier, error) {
	switch opts.Mode {
	case ModeGoogle:
		return NewGoogleVerifier(ctx, opts.GoogleClientID)
	case ModeSigned:
		return NewSignedVerifier(opts.SignedSecret, opts.SignedIssuer)
	default:
		return nil, fmt.Errorf("unknown identity mode %q", opts.Mode)
	}
}
