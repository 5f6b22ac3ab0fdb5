package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberstack/hemu/internal/config"
	"github.com/cyberstack/hemu/internal/device"
)

type countingSleeper struct {
	calls int
}

func (s *countingSleeper) Sleep() {
	s.calls++
}

func newTestServer(user, password string) (*Server, *countingSleeper) {
	cfg := &config.Config{}
	cfg.HTTP.Listen = config.DefaultListen
	cfg.HTTP.User = user
	cfg.HTTP.Password = password

	sleeper := &countingSleeper{}
	s := New(cfg, sleeper, "0.3.0")
	s.DeviceInfo = func() device.Info {
		return device.Info{Hostname: "studio", Platform: "darwin/arm64", MachineID: "m-1"}
	}
	return s, sleeper
}

func do(s *Server, method, path string, auth ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if len(auth) == 2 {
		req.SetBasicAuth(auth[0], auth[1])
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestSleepEndpoint(t *testing.T) {
	s, sleeper := newTestServer("", "")

	rec := do(s, http.MethodPost, "/api/sleep")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, sleeper.calls)

	rec = do(s, http.MethodPost, "/api/sleep")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, sleeper.calls, "repeated requests each trigger sleep")
}

func TestSleepRequiresPost(t *testing.T) {
	s, sleeper := newTestServer("", "")

	rec := do(s, http.MethodGet, "/api/sleep")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Zero(t, sleeper.calls)
}

func TestInfoEndpoint(t *testing.T) {
	s, sleeper := newTestServer("", "")

	rec := do(s, http.MethodGet, "/api/info")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	assert.Equal(t, "studio", resp.Data["hostname"])
	assert.Equal(t, "m-1", resp.Data["machine_id"])
	assert.Equal(t, "0.3.0", resp.Data["version"])
	assert.Equal(t, "darwin/arm64", resp.Data["platform"])

	keys := make([]string, 0, len(resp.Data))
	for k := range resp.Data {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"hostname", "username", "os_version", "platform", "machine_id", "version"}, keys)
	require.Zero(t, sleeper.calls)
}

func TestBasicAuth(t *testing.T) {
	s, sleeper := newTestServer("admin", "secret")

	rec := do(s, http.MethodPost, "/api/sleep")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(s, http.MethodPost, "/api/sleep", "admin", "wrong")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Zero(t, sleeper.calls)

	rec = do(s, http.MethodPost, "/api/sleep", "admin", "secret")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, sleeper.calls)
}
