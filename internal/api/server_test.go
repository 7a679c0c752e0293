package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/derivacheck/internal/checker"
	"github.com/abhisek/derivacheck/internal/diagnosis"
	"github.com/abhisek/derivacheck/internal/llm"
	"github.com/abhisek/derivacheck/internal/store"
	"github.com/abhisek/derivacheck/internal/symbolic"
)

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	s, err := New(cfg)
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func post(t *testing.T, ts *httptest.Server, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(ts.URL+"/v1/check", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestCheckOK(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp, out := post(t, ts, `{"mode":"normal","function":"x**3 + 4x","steps":["3x² + 4"]}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	verdicts := out["verdicts"].([]any)
	require.Len(t, verdicts, 1)
	assert.Equal(t, "correct", verdicts[0].(map[string]any)["kind"])
	assert.Equal(t, true, out["summary"].(map[string]any)["passed"])
}

func TestCheckModeIgnoresCase(t *testing.T) {
	ts := newTestServer(t, Config{})

	for _, mode := range []string{"NORMAL", "Normal", " normal "} {
		t.Run(mode, func(t *testing.T) {
			resp, out := post(t, ts, `{"mode":"`+mode+`","function":"x**2","steps":["2x"]}`)
			require.Equal(t, http.StatusOK, resp.StatusCode, "body: %v", out)
			assert.Equal(t, "normal", out["mode"])
		})
	}
}

func TestCheckInvalidBody(t *testing.T) {
	ts := newTestServer(t, Config{})

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{"mode":`},
		{"missing steps", `{"mode":"normal","function":"x"}`},
		{"empty steps", `{"mode":"normal","function":"x","steps":[]}`},
		{"unknown mode", `{"mode":"polar","function":"x","steps":["1"]}`},
		{"mode with suffix", `{"mode":"normalize","function":"x","steps":["1"]}`},
		{"unknown field", `{"mode":"normal","function":"x","steps":["1"],"grade":3}`},
		{"steps not strings", `{"mode":"normal","function":"x","steps":[1]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, out := post(t, ts, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "bad_request", out["kind"])
			assert.NotEmpty(t, out["error"])
		})
	}
}

func TestCheckEngineErrors(t *testing.T) {
	ts := newTestServer(t, Config{})

	tests := []struct {
		body string
		kind string
	}{
		{`{"mode":"parametric","x":"5","y":"t**3","steps":["0"]}`, checker.KindUndefinedDerivative},
		{`{"mode":"implicit","function":"x + y","steps":["1"]}`, checker.KindEquationFormat},
		{`{"mode":"normal","function":"","steps":["1"]}`, checker.KindEmptyInput},
		{`{"mode":"normal","function":"x + (","steps":["1"]}`, checker.KindParse},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			resp, out := post(t, ts, tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
			assert.Equal(t, tt.kind, out["kind"])
		})
	}
}

func TestCheckSavesHistory(t *testing.T) {
	st := openStore(t)
	ts := newTestServer(t, Config{Events: st.Events()})

	for _, steps := range []string{`["2x"]`, `["3x"]`} {
		resp, _ := post(t, ts, `{"mode":"normal","function":"x**2","steps":`+steps+`}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := http.Get(ts.URL + "/v1/history?limit=1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var entries []historyEntry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Passed, "newest check first")
	assert.Equal(t, "normal", entries[0].Mode)
}

func TestHistoryErrors(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp, err := http.Get(ts.URL + "/v1/history")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	st := openStore(t)
	ts = newTestServer(t, Config{Events: st.Events()})
	resp, err = http.Get(ts.URL + "/v1/history?limit=zero")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCheckExplain(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"rule_id":"power_rule","explanation":"The exponent comes down and drops by one.","confidence":0.9}`),
	})
	tutor := diagnosis.NewService(symbolic.Simplifier{}, mock)
	ts := newTestServer(t, Config{Tutor: tutor})

	resp, out := post(t, ts, `{"mode":"normal","function":"x**2","steps":["3x"],"explain":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	tutorOut := out["tutor"].([]any)
	require.Len(t, tutorOut, 1)
	assert.Equal(t, "power_rule", tutorOut[0].(map[string]any)["rule_id"])
	assert.Equal(t, 1, mock.CallCount())
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, err := http.Get(ts.URL + "/v1/check")
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp2.StatusCode)
}
