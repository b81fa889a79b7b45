// Package identitytest provides verifiers for tests that run without an
// identity provider.
package identitytest

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/dmitrijs2005/medmod/internal/common"
	"github.com/dmitrijs2005/medmod/internal/server/models"
)

type profileToken struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Token returns a raw token ProfileVerifier decodes into the given profile.
func Token(id, name, email string) string {
	b, _ := json.Marshal(profileToken{ID: id, Name: name, Email: email})
	return string(b)
}

// ProfileVerifier treats the raw token as the JSON of {id, name, email}.
// Calls counts Verify invocations.
type ProfileVerifier struct {
	Calls atomic.Int64
}

func (v *ProfileVerifier) Verify(_ context.Context, rawToken string) (*models.IdentityProfile, error) {
	v.Calls.Add(1)

	var p profileToken
	if err := json.Unmarshal([]byte(rawToken), &p); err != nil {
		return nil, common.Unauthorized(err, "invalid identity token")
	}
	if p.ID == "" || p.Email == "" {
		return nil, common.Unauthorized(nil, "invalid identity token")
	}
	return &models.IdentityProfile{ProviderID: p.ID, Name: p.Name, Email: p.Email}, nil
}

// Rejecting fails every verification.
type Rejecting struct{}

func (Rejecting) Verify(context.Context, string) (*models.IdentityProfile, error) {
	return nil, common.Unauthorized(nil, "invalid identity token")
}
