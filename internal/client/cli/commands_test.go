package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/medmod/internal/client/api"
	"github.com/dmitrijs2005/medmod/internal/client/config"
	"github.com/dmitrijs2005/medmod/internal/server/identity"
)

type fakeUsers struct {
	token string
	err   error
}

func (f *fakeUsers) CreateUser(_ context.Context, idToken string) (*api.User, error) {
	f.token = idToken
	if f.err != nil {
		return nil, f.err
	}
	return &api.User{ID: "u1", Name: "Test User 1", Email: "test1@test.com"}, nil
}

func (f *fakeUsers) GetUser(_ context.Context, id string) (*api.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &api.User{ID: id, Name: "Test User 1"}, nil
}

func (f *fakeUsers) DeleteUser(ctx context.Context, id string) (*api.User, error) {
	return f.GetUser(ctx, id)
}

type fakeHealth struct{ err error }

func (f fakeHealth) Check(context.Context) error { return f.err }

func newTestApp(input string, users *fakeUsers) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &App{
		config: &config.Config{SignedIssuer: "medmod", TokenTTL: time.Minute},
		users:  users,
		health: fakeHealth{},
		reader: bufio.NewReader(strings.NewReader(input)),
		out:    out,
	}, out
}

func TestToken_IsAcceptedBySignedVerifier(t *testing.T) {
	stubPassword(t, []byte("secret"), nil)
	app, out := newTestApp("123\nTest User 1\ntest1@test.com\n", &fakeUsers{})

	require.NoError(t, app.Token(context.Background()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	token := lines[len(lines)-1]

	v, err := identity.NewSignedVerifier([]byte("secret"), "medmod")
	require.NoError(t, err)
	p, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "123", p.ProviderID)
	assert.Equal(t, "Test User 1", p.Name)
	assert.Equal(t, "test1@test.com", p.Email)
}

func TestToken_RandomProviderIDAndCachedSecret(t *testing.T) {
	calls := 0
	old := readPassword
	readPassword = func(int) ([]byte, error) { calls++; return []byte("secret"), nil }
	t.Cleanup(func() { readPassword = old })

	app, _ := newTestApp("\nA\na@b.c\n\nB\nb@b.c\n", &fakeUsers{})
	require.NoError(t, app.Token(context.Background()))
	require.NoError(t, app.Token(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestToken_RequiresEmailAndSecret(t *testing.T) {
	stubPassword(t, []byte(""), nil)

	app, _ := newTestApp("1\nA\n\n", &fakeUsers{})
	require.ErrorContains(t, app.Token(context.Background()), "email is required")

	app, _ = newTestApp("1\nA\na@b.c\n", &fakeUsers{})
	require.ErrorContains(t, app.Token(context.Background()), "signing secret is required")
}

func TestRegister(t *testing.T) {
	stubPassword(t, []byte("secret"), nil)
	users := &fakeUsers{}
	app, out := newTestApp("123\nTest User 1\ntest1@test.com\n", users)

	require.NoError(t, app.Register(context.Background()))
	assert.NotEmpty(t, users.token)
	assert.Contains(t, out.String(), "Created u1  Test User 1 <test1@test.com>")

	users.err = &api.APIError{StatusCode: 400, Message: "already exists"}
	app.reader = bufio.NewReader(strings.NewReader("123\nTest User 1\ntest1@test.com\n"))
	err := app.Register(context.Background())
	var apiErr *api.APIError
	require.True(t, errors.As(err, &apiErr))
}

func TestGetDeleteHealth(t *testing.T) {
	app, out := newTestApp("", &fakeUsers{})
	ctx := context.Background()

	require.NoError(t, app.Get(ctx, "u9"))
	require.NoError(t, app.Delete(ctx, "u9"))
	require.NoError(t, app.Health(ctx))
	assert.Contains(t, out.String(), "Removed u9")
	assert.Contains(t, out.String(), "Server is serving")

	app.health = fakeHealth{err: api.ErrUnavailable}
	require.ErrorIs(t, app.Health(ctx), api.ErrUnavailable)
}

func TestSecret(t *testing.T) {
	app, out := newTestApp("", &fakeUsers{})

	require.NoError(t, app.Secret(context.Background()))
	assert.Len(t, strings.TrimSpace(out.String()), 2*secretBytes)
}
