package http

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strogmv/userstore/internal/adapter/repository/file"
	"github.com/strogmv/userstore/internal/adapter/repository/memory"
	"github.com/strogmv/userstore/internal/domain"
	"github.com/strogmv/userstore/internal/port"
	"github.com/strogmv/userstore/internal/service"
)

type mutationBody struct {
	Message string       `json:"message"`
	Users   domain.Users `json:"users"`
	Error   string       `json:"error"`
}

func newTestServer(t *testing.T, store port.UserStore, opts RouterOptions) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(service.NewUsersImpl(store), opts))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rdr)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, b
}

func decodeMutation(t *testing.T, b []byte) mutationBody {
	t.Helper()
	var out mutationBody
	require.NoError(t, json.Unmarshal(b, &out), "body: %s", b)
	return out
}

func TestUsersAPI_FullSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")
	store := file.NewUserStore(path)
	srv := newTestServer(t, store, RouterOptions{})
	api := srv.URL + "/api/users"

	resp, b := do(t, http.MethodGet, api, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(b))

	resp, b = do(t, http.MethodPost, api, `{"number":"555-1234","status":"active"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(b))
	got := decodeMutation(t, b)
	assert.Equal(t, "User added successfully", got.Message)
	assert.Equal(t, domain.Users{{Number: "555-1234", Status: "active"}}, got.Users)

	resp, b = do(t, http.MethodPost, api, `{"number":"555-1234","status":"active"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"User already exists"}`, string(b))

	resp, b = do(t, http.MethodPut, api+"/555-1234", `{"status":"inactive"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(b))
	got = decodeMutation(t, b)
	assert.Equal(t, "User updated successfully", got.Message)
	assert.Equal(t, domain.Users{{Number: "555-1234", Status: "inactive"}}, got.Users)

	persisted, err := store.Load(t.Context())
	require.NoError(t, err)
	assert.Equal(t, got.Users, persisted)

	resp, b = do(t, http.MethodDelete, api+"/555-1234", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(b))
	got = decodeMutation(t, b)
	assert.Equal(t, "User deleted successfully", got.Message)
	assert.NotNil(t, got.Users)
	assert.Empty(t, got.Users)
	assert.Contains(t, string(b), `"users":[]`)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestUsersAPI_NotFound(t *testing.T) {
	srv := newTestServer(t, memory.NewUserStore(domain.User{Number: "1", Status: "a"}), RouterOptions{})

	resp, b := do(t, http.MethodPut, srv.URL+"/api/users/2", `{"status":"x"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"User not found"}`, string(b))

	resp, b = do(t, http.MethodDelete, srv.URL+"/api/users/2", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"User not found"}`, string(b))
}

func TestUsersAPI_SaveFailures(t *testing.T) {
	store := memory.NewUserStore(domain.User{Number: "1", Status: "a"})
	store.SaveErr = stderrors.New("disk full")
	srv := newTestServer(t, store, RouterOptions{})

	cases := []struct {
		method, path, body, want string
	}{
		{http.MethodPost, "/api/users", `{"number":"2","status":"b"}`, "Failed to save user"},
		{http.MethodPut, "/api/users/1", `{"status":"b"}`, "Failed to update user"},
		{http.MethodDelete, "/api/users/1", "", "Failed to delete user"},
	}
	for _, tc := range cases {
		t.Run(tc.method, func(t *testing.T) {
			resp, b := do(t, tc.method, srv.URL+tc.path, tc.body)
			assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
			assert.JSONEq(t, `{"error":"`+tc.want+`"}`, string(b))
		})
	}
	assert.Equal(t, domain.Users{{Number: "1", Status: "a"}}, store.Snapshot())
}

func TestUsersAPI_ListSwallowsLoadError(t *testing.T) {
	store := memory.NewUserStore(domain.User{Number: "1"})
	store.LoadErr = stderrors.New("corrupt")
	srv := newTestServer(t, store, RouterOptions{})

	resp, b := do(t, http.MethodGet, srv.URL+"/api/users", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(b))
}

func TestUsersAPI_InvalidJSON(t *testing.T) {
	store := memory.NewUserStore()
	srv := newTestServer(t, store, RouterOptions{})

	resp, b := do(t, http.MethodPost, srv.URL+"/api/users", `{"number":`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Invalid JSON body"}`, string(b))
	assert.Zero(t, store.Saves())
}

func TestUsersAPI_EmptyAndMixedCaseBodies(t *testing.T) {
	store := memory.NewUserStore()
	srv := newTestServer(t, store, RouterOptions{})

	resp, _ := do(t, http.MethodPost, srv.URL+"/api/users", `{"Number":"A1","STATUS":"on"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, http.MethodPut, srv.URL+"/api/users/A1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, domain.Users{{Number: "A1", Status: ""}}, store.Snapshot())
}

func TestUsersAPI_EscapedNumber(t *testing.T) {
	store := memory.NewUserStore(domain.User{Number: "+1 555/1234", Status: "a"})
	srv := newTestServer(t, store, RouterOptions{})

	resp, b := do(t, http.MethodDelete, srv.URL+"/api/users/%2B1%20555%2F1234", "")

	require.Equal(t, http.StatusOK, resp.StatusCode, string(b))
	assert.Empty(t, store.Snapshot())
}

func TestRouter_HealthMetricsAndCORS(t *testing.T) {
	srv := newTestServer(t, memory.NewUserStore(), RouterOptions{})

	resp, b := do(t, http.MethodGet, srv.URL+"/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(b))

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/users", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://ui.test")
	cresp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	cresp.Body.Close()
	assert.Equal(t, "*", cresp.Header.Get("Access-Control-Allow-Origin"))

	_, b = do(t, http.MethodGet, srv.URL+"/metrics", "")
	assert.Contains(t, string(b), `http_requests_total{method="GET",path="/api/users`)
}

func TestUsersAPI_ResponseDoesNotEscapeHTML(t *testing.T) {
	srv := newTestServer(t, memory.NewUserStore(), RouterOptions{})

	resp, b := do(t, http.MethodPost, srv.URL+"/api/users", `{"number":"a&b","status":"<on>"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(b), `"number":"a&b"`)
	assert.Contains(t, string(b), `"status":"<on>"`)
}

func TestRouter_HealthChecks(t *testing.T) {
	healthy := HealthCheck{Name: "store", Check: func(context.Context) error { return nil }}
	down := HealthCheck{Name: "nats", Check: func(context.Context) error { return stderrors.New("not connected") }}

	srv := newTestServer(t, memory.NewUserStore(), RouterOptions{HealthChecks: []HealthCheck{healthy}})
	resp, b := do(t, http.MethodGet, srv.URL+"/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(b))

	srv = newTestServer(t, memory.NewUserStore(), RouterOptions{HealthChecks: []HealthCheck{healthy, down}})
	resp, b = do(t, http.MethodGet, srv.URL+"/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "nats: not connected", string(b))
}

func TestRouter_ServesStaticDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>users</h1>"), 0o644))
	srv := newTestServer(t, memory.NewUserStore(), RouterOptions{StaticDir: dir})

	resp, b := do(t, http.MethodGet, srv.URL+"/", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<h1>users</h1>", string(b))

	resp, _ = do(t, http.MethodGet, srv.URL+"/missing.js", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, b = do(t, http.MethodGet, srv.URL+"/api/users", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(b))
}
