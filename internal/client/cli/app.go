package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/medmod/internal/client/api"
	"github.com/dmitrijs2005/medmod/internal/client/config"
	"github.com/dmitrijs2005/medmod/internal/secretx"
	"github.com/dmitrijs2005/medmod/internal/server/identity"
	"github.com/dmitrijs2005/medmod/internal/server/models"
)

type userAPI interface {
	CreateUser(ctx context.Context, idToken string) (*api.User, error)
	GetUser(ctx context.Context, id string) (*api.User, error)
	DeleteUser(ctx context.Context, id string) (*api.User, error)
}

type healthAPI interface {
	Check(ctx context.Context) error
}

type App struct {
	config *config.Config
	users  userAPI
	health healthAPI
	reader *bufio.Reader
	out    io.Writer
	secret []byte
	closer func() error
}

func NewApp(c *config.Config) (*App, error) {
	hc, err := api.NewHealthChecker(c.GRPCAddr)
	if err != nil {
		return nil, err
	}

	return &App{
		config: c,
		users:  api.NewClient(c.ServerURL, c.RequestTimeout),
		health: hc,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		closer: hc.Close,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	if a.closer != nil {
		defer a.closer()
	}
	defer func() { secretx.Wipe(a.secret) }()
	fmt.Fprintln(a.out, "Welcome to medmod CLI (type 'help' for commands)")
	runREPL(ctx, a, a.reader, a.out)
}

// signingSecret asks for the server's signing secret once per session.
func (a *App) signingSecret() ([]byte, error) {
	if a.secret != nil {
		return a.secret, nil
	}
	secret, err := GetSecret("Signing secret", a.out)
	if err != nil {
		return nil, err
	}
	if len(secret) == 0 {
		return nil, errors.New("signing secret is required")
	}
	a.secret = secret
	return secret, nil
}

func (a *App) promptProfile() (models.IdentityProfile, error) {
	var p models.IdentityProfile
	var err error

	if p.ProviderID, err = GetSimpleText(a.reader, "Provider id (empty for random)", a.out); err != nil {
		return p, err
	}
	if p.ProviderID == "" {
		p.ProviderID = uuid.NewString()
	}
	if p.Name, err = GetSimpleText(a.reader, "Name", a.out); err != nil {
		return p, err
	}
	if p.Email, err = GetSimpleText(a.reader, "Email", a.out); err != nil {
		return p, err
	}
	if p.Email == "" {
		return p, errors.New("email is required")
	}
	return p, nil
}

func (a *App) issueToken() (string, error) {
	profile, err := a.promptProfile()
	if err != nil {
		return "", err
	}
	secret, err := a.signingSecret()
	if err != nil {
		return "", err
	}
	return identity.IssueSigned(profile, secret, a.config.SignedIssuer, a.config.TokenTTL)
}

func (a *App) printUser(u *api.User) {
	fmt.Fprintf(a.out, "%s  %s <%s>  privileged=%t  created=%s\n",
		u.ID, u.Name, u.Email, u.Privileged, u.Created.Format("2006-01-02 15:04:05"))
}
