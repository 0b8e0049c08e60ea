package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agendawire/internal/config"
	"agendawire/internal/model"
)

func newTestServer() *Server {
	cfg := config.DefaultConfig()
	s := NewServer(cfg)
	s.SetSnapshot([]model.Item{
		{
			ID:      "foo",
			Summary: "Opening ceremony",
			Start:   time.Date(2018, 10, 15, 10, 0, 0, 0, time.UTC),
			End:     time.Date(2018, 10, 17, 11, 0, 0, 0, time.UTC),
		},
		{
			ID:      "bar",
			Summary: "Press briefing",
			Start:   time.Date(2018, 10, 18, 9, 0, 0, 0, time.UTC),
			End:     time.Date(2018, 10, 18, 10, 0, 0, 0, time.UTC),
		},
	})
	return s
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer()

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestHandleAgendaGroupsSnapshot(t *testing.T) {
	s := newTestServer()

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/agenda?from=2018-10-15&to=2018-10-18", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp agendaResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Len(t, resp.Groups, 4)
	assert.Equal(t, "15-10-2018", resp.Groups[0].Key)
	assert.Equal(t, []string{"foo"}, resp.Groups[0].Primary)
	assert.Equal(t, "16-10-2018", resp.Groups[1].Key)
	assert.Equal(t, []string{"foo"}, resp.Groups[1].Hidden)
	assert.Equal(t, "18-10-2018", resp.Groups[3].Key)
	assert.Equal(t, []string{"bar"}, resp.Groups[3].Primary)

	// Collapsed rows: only primary entries produce rows.
	require.Len(t, resp.Rows, 2)
	assert.Equal(t, "foo", resp.Rows[0].ItemID)
	assert.Equal(t, "bar", resp.Rows[1].ItemID)

	require.Contains(t, resp.Items, "foo")
	assert.Equal(t, "multi-day", resp.Items["foo"].Kind)
	assert.NotEmpty(t, resp.Items["foo"].Dates)
	assert.Equal(t, "day", resp.Granularity)
}

func TestHandleAgendaShowHiddenSurfacesRows(t *testing.T) {
	s := newTestServer()

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/agenda?from=2018-10-15&to=2018-10-18&show_hidden=16-10-2018", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp agendaResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Contains(t, resp.Rows, rowDTO{ItemID: "foo", GroupKey: "16-10-2018"})
}

func TestHandleAgendaWeekGranularity(t *testing.T) {
	s := newTestServer()

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/agenda?granularity=week&from=2018-10-15&to=2018-10-21", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp agendaResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	// Both items fall in the week starting Monday the 15th.
	require.Len(t, resp.Groups, 1)
	assert.Equal(t, "15-10-2018", resp.Groups[0].Key)
	assert.Equal(t, "week", resp.Granularity)
}

func TestHandleItems(t *testing.T) {
	s := newTestServer()

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/items", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items []itemDTO `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Items, 2)
}

func TestBasicAuthGuardsAPI(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.BasicAuth = &config.BasicAuthConfig{Username: "editor", Password: "secret"}
	s := NewServer(cfg)

	h := s.Handler()

	// /health stays open.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// API without credentials is rejected.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/items", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Correct credentials pass.
	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	req.SetBasicAuth("editor", "secret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
