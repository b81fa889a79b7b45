package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/medmod/internal/secretx"
)

// secretBytes is the entropy of generated signing secrets.
const secretBytes = 32

// Secret prints a fresh random signing secret for the server's signed mode.
func (a *App) Secret(ctx context.Context) error {
	s, err := secretx.RandHex(secretBytes)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, s)
	return nil
}

// Token prints a signed identity token for a prompted profile.
func (a *App) Token(ctx context.Context) error {
	token, err := a.issueToken()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, token)
	return nil
}

// Register mints a token and creates the user on the server.
func (a *App) Register(ctx context.Context) error {
	token, err := a.issueToken()
	if err != nil {
		return err
	}
	u, err := a.users.CreateUser(ctx, token)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, "Created ")
	a.printUser(u)
	return nil
}

func (a *App) Get(ctx context.Context, id string) error {
	u, err := a.users.GetUser(ctx, id)
	if err != nil {
		return err
	}
	a.printUser(u)
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	u, err := a.users.DeleteUser(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, "Removed ")
	a.printUser(u)
	return nil
}

func (a *App) Health(ctx context.Context) error {
	if err := a.health.Check(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Server is serving")
	return nil
}
