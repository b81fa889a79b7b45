package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/medmod/internal/common"
	"github.com/dmitrijs2005/medmod/internal/logging"
	"github.com/dmitrijs2005/medmod/internal/server/models"
	"github.com/dmitrijs2005/medmod/internal/server/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testUser = &models.User{
	ID:        "u-1",
	Profile:   models.IdentityProfile{ProviderID: "123", Name: "Test User 1", Email: "test1@test.com"},
	CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
}

type fakeUsers struct {
	createErr  error
	getErr     error
	removeErr  error
	gotToken   string
	getCalls   int
	privileged bool
}

func (f *fakeUsers) Create(_ context.Context, token string) (*models.User, error) {
	f.gotToken = token
	if f.createErr != nil {
		return nil, f.createErr
	}
	return testUser, nil
}

func (f *fakeUsers) Get(context.Context, string) (*models.User, error) {
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return testUser, nil
}

func (f *fakeUsers) Remove(context.Context, string) (*models.User, error) {
	if f.removeErr != nil {
		return nil, f.removeErr
	}
	return testUser, nil
}

func (f *fakeUsers) IsPrivileged(*models.User) bool { return f.privileged }

type fakeMeshes struct {
	got       services.CreateMeshInput
	contents  []string
	ownerID   string
	createErr error
	getErr    error
	url       string
	urlErr    error
}

var testMesh = &models.Mesh{
	ID:      "m-1",
	OwnerID: "u-1",
	Name:    "Skull",
	Files:   []models.MeshFile{{ID: "f-1", OriginalName: "skull.obj", MimeType: "model/obj", Size: 4, StorageKey: "meshes/k"}},
}

func (f *fakeMeshes) Create(_ context.Context, ownerID string, in services.CreateMeshInput) (*models.Mesh, error) {
	f.ownerID = ownerID
	f.got = in
	for _, file := range in.Files {
		b, _ := io.ReadAll(file.Content)
		f.contents = append(f.contents, string(b))
	}
	if f.createErr != nil {
		return nil, f.createErr
	}
	return testMesh, nil
}

func (f *fakeMeshes) Get(context.Context, string) (*models.Mesh, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return testMesh, nil
}

func (f *fakeMeshes) FileURL(context.Context, string, string) (string, error) {
	return f.url, f.urlErr
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func newTestRouter(u *fakeUsers, m *fakeMeshes) *gin.Engine {
	return NewRouter(Deps{
		Users:          u,
		Meshes:         m,
		Store:          fakePinger{},
		Logger:         logging.Discard(),
		MaxUploadBytes: 1 << 20,
	})
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestCreateUser_FromBody(t *testing.T) {
	u := &fakeUsers{privileged: true}
	r := newTestRouter(u, &fakeMeshes{})

	req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewBufferString(`{"idToken":"tok-1"}`))
	req.Header.Set("Content-Type", "application/json")
	w := do(r, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "tok-1", u.gotToken)

	body := decode[map[string]any](t, w)
	assert.Equal(t, "u-1", body["id"])
	assert.Equal(t, "Test User 1", body["name"])
	assert.Equal(t, "test1@test.com", body["email"])
	assert.Equal(t, true, body["privileged"])
	assert.Equal(t, "2024-05-01T12:00:00Z", body["created"])
	assert.Equal(t, map[string]any{"id": "123", "name": "Test User 1", "email": "test1@test.com"}, body["google"])
}

func TestCreateUser_FromBearerHeader(t *testing.T) {
	for _, header := range []string{"Bearer tok-2", "bearer tok-2", "BEARER  tok-2"} {
		t.Run(header, func(t *testing.T) {
			u := &fakeUsers{}
			r := newTestRouter(u, &fakeMeshes{})

			req := httptest.NewRequest(http.MethodPost, "/api/users", nil)
			req.Header.Set("Authorization", header)
			w := do(r, req)

			require.Equal(t, http.StatusCreated, w.Code)
			assert.Equal(t, "tok-2", u.gotToken)
		})
	}
}

func TestCreateUser_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"unauthorized", common.Unauthorized(nil, "invalid identity token"), http.StatusUnauthorized, "invalid identity token"},
		{"conflict", common.Conflict(nil, "A user with email 'test1@test.com' already exists"), http.StatusBadRequest, "A user with email 'test1@test.com' already exists"},
		{"internal is redacted", common.Internal(errors.New("pq: password=hunter2"), "Unable to create user with email 'x'"), http.StatusInternalServerError, common.InternalMessage},
		{"unclassified is redacted", errors.New("boom"), http.StatusInternalServerError, common.InternalMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(&fakeUsers{createErr: tt.err}, &fakeMeshes{})
			req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewBufferString(`{"idToken":"x"}`))
			w := do(r, req)

			require.Equal(t, tt.status, w.Code)
			assert.Equal(t, ErrorResponse{Message: tt.msg}, decode[ErrorResponse](t, w))
		})
	}
}

func TestCreateUser_MalformedBody(t *testing.T) {
	r := newTestRouter(&fakeUsers{}, &fakeMeshes{})

	w := do(r, httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewBufferString(`{`)))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "malformed request body", decode[ErrorResponse](t, w).Message)
}

func TestGetUser_LoadsOnce(t *testing.T) {
	u := &fakeUsers{}
	r := newTestRouter(u, &fakeMeshes{})

	w := do(r, httptest.NewRequest(http.MethodGet, "/api/users/u-1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-1", decode[UserResponse](t, w).ID)
	assert.Equal(t, 1, u.getCalls)
}

func TestGetUser_NotFound(t *testing.T) {
	r := newTestRouter(&fakeUsers{getErr: common.NotFound("user with id nope does not exist")}, &fakeMeshes{})

	w := do(r, httptest.NewRequest(http.MethodGet, "/api/users/nope", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "user with id nope does not exist", decode[ErrorResponse](t, w).Message)
}

func TestRemoveUser(t *testing.T) {
	r := newTestRouter(&fakeUsers{}, &fakeMeshes{})
	w := do(r, httptest.NewRequest(http.MethodDelete, "/api/users/u-1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "test1@test.com", decode[UserResponse](t, w).Email)

	r = newTestRouter(&fakeUsers{removeErr: common.Internal(errors.New("gone"), "Unable to remove user with id u-1")}, &fakeMeshes{})
	w = do(r, httptest.NewRequest(http.MethodDelete, "/api/users/u-1", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, common.InternalMessage, decode[ErrorResponse](t, w).Message)
}

func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for name, content := range files {
		fw, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func TestCreateMesh(t *testing.T) {
	m := &fakeMeshes{}
	r := newTestRouter(&fakeUsers{}, m)

	body, ct := multipartBody(t,
		map[string]string{"name": "Skull", "shortDesc": "s", "longDesc": "l"},
		map[string]string{"skull.obj": "obj!"})
	req := httptest.NewRequest(http.MethodPost, "/api/users/u-1/meshes", body)
	req.Header.Set("Content-Type", ct)
	w := do(r, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "u-1", m.ownerID)
	assert.Equal(t, "Skull", m.got.Name)
	assert.Equal(t, "s", m.got.ShortDesc)
	assert.Equal(t, "l", m.got.LongDesc)
	require.Len(t, m.got.Files, 1)
	assert.Equal(t, "skull.obj", m.got.Files[0].OriginalName)
	assert.Equal(t, int64(4), m.got.Files[0].Size)
	assert.Equal(t, []string{"obj!"}, m.contents)

	resp := decode[MeshResponse](t, w)
	assert.Equal(t, "m-1", resp.ID)
	require.Len(t, resp.Files, 1)
	assert.Equal(t, "f-1", resp.Files[0].ID)
	assert.NotContains(t, w.Body.String(), "storageKey")
}

func TestCreateMesh_NotMultipart(t *testing.T) {
	r := newTestRouter(&fakeUsers{}, &fakeMeshes{})

	req := httptest.NewRequest(http.MethodPost, "/api/users/u-1/meshes", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := do(r, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateMesh_TooLarge(t *testing.T) {
	r := NewRouter(Deps{Users: &fakeUsers{}, Meshes: &fakeMeshes{}, Logger: logging.Discard(), MaxUploadBytes: 64})

	body, ct := multipartBody(t, map[string]string{"name": "Big"}, map[string]string{"big.obj": string(make([]byte, 4096))})
	req := httptest.NewRequest(http.MethodPost, "/api/users/u-1/meshes", body)
	req.Header.Set("Content-Type", ct)
	w := do(r, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateMesh_ServiceError(t *testing.T) {
	m := &fakeMeshes{createErr: common.Invalid("mesh name is required")}
	r := newTestRouter(&fakeUsers{}, m)

	body, ct := multipartBody(t, nil, map[string]string{"a.obj": "x"})
	req := httptest.NewRequest(http.MethodPost, "/api/users/u-1/meshes", body)
	req.Header.Set("Content-Type", ct)
	w := do(r, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "mesh name is required", decode[ErrorResponse](t, w).Message)
}

func TestGetMeshAndFileURL(t *testing.T) {
	m := &fakeMeshes{url: "https://blobs/meshes/k"}
	r := newTestRouter(&fakeUsers{}, m)

	w := do(r, httptest.NewRequest(http.MethodGet, "/api/meshes/m-1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Skull", decode[MeshResponse](t, w).Name)

	w = do(r, httptest.NewRequest(http.MethodGet, "/api/meshes/m-1/files/f-1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, FileURLResponse{URL: "https://blobs/meshes/k"}, decode[FileURLResponse](t, w))

	m.urlErr = common.NotFound("file with id f-9 does not exist in mesh m-1")
	w = do(r, httptest.NewRequest(http.MethodGet, "/api/meshes/m-1/files/f-9", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	m.getErr = common.NotFound("mesh with id m-2 does not exist")
	w = do(r, httptest.NewRequest(http.MethodGet, "/api/meshes/m-2", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(&fakeUsers{}, &fakeMeshes{})
	w := do(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	r = NewRouter(Deps{Users: &fakeUsers{}, Meshes: &fakeMeshes{}, Store: fakePinger{err: errors.New("down")}, Logger: logging.Discard()})
	w = do(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestBlobDirIsServed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "meshes"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "meshes", "k"), []byte("solid"), 0o644))

	r := NewRouter(Deps{Users: &fakeUsers{}, Meshes: &fakeMeshes{}, Logger: logging.Discard(), BlobDir: dir})
	w := do(r, httptest.NewRequest(http.MethodGet, "/blobs/meshes/k", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "solid", w.Body.String())
}
