package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwijanarko1/rijal/internal/config"
	"github.com/mwijanarko1/rijal/internal/logger"
	"github.com/mwijanarko1/rijal/internal/testutil"
	"github.com/mwijanarko1/rijal/internal/websocket"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	tdb := testutil.NewTestDB(t)
	t.Cleanup(tdb.Close)

	cfg := &config.Config{}
	cfg.Matching.CrossScriptDiscount = 0.7
	cfg.Matching.ConfidenceFloor = 0.3
	cfg.Scraper.TimeoutSeconds = 5
	cfg.Scraper.SyncCron = "0 3 * * *"

	appLogger := logger.New(logger.Config{Level: "error", Format: "json"})
	t.Cleanup(func() { appLogger.Close() })

	hub := websocket.NewHub()
	go hub.Run()

	server, err := NewServer(tdb.Conn, hub, cfg, appLogger)
	require.NoError(t, err)
	return server
}

func doRequest(server *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	server.Echo().ServeHTTP(rec, req)
	return rec
}

func TestServer_HealthAndStatus(t *testing.T) {
	server := newTestServer(t)

	rec := doRequest(server, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(server, http.MethodGet, "/api/v1/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var status map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Contains(t, status, "narratorCount")
	assert.Contains(t, status, "hadithCount")
	assert.Equal(t, config.Version, status["version"])
}

func TestServer_NarratorCRUDAndMatch(t *testing.T) {
	server := newTestServer(t)

	rec := doRequest(server, http.MethodPost, "/api/v1/narrators",
		`{"primaryArabicName": "مالك بن أنس", "primaryEnglishName": "Malik ibn Anas"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	rec = doRequest(server, http.MethodGet, "/api/v1/narrators/"+created.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(server, http.MethodPost, "/api/v1/narrators/match",
		`{"arabicName": "مالك بن انس"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var match struct {
		Candidates []struct {
			NarratorID string  `json:"narratorId"`
			Confidence float64 `json:"confidence"`
		} `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &match))
	require.NotEmpty(t, match.Candidates)
	assert.Equal(t, created.ID, match.Candidates[0].NarratorID)
	assert.Equal(t, 1.0, match.Candidates[0].Confidence)

	rec = doRequest(server, http.MethodGet, "/api/v1/narrators/search?q="+
		"%D9%85%D8%A7%D9%84%D9%83", "") // "مالك" url-encoded
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_HadithChainResolution(t *testing.T) {
	server := newTestServer(t)

	rec := doRequest(server, http.MethodPost, "/api/v1/narrators",
		`{"primaryArabicName": "سفيان بن عيينة"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(server, http.MethodPost, "/api/v1/hadiths",
		`{"collection": "bukhari", "number": "1", "arabicText": "إنما الأعمال بالنيات"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var hadithResp struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hadithResp))

	rec = doRequest(server, http.MethodPost, "/api/v1/hadiths/"+hadithResp.ID+"/chains",
		`{"rawNames": ["سفيان بن عيينة"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var chainResp struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chainResp))

	rec = doRequest(server, http.MethodPost, "/api/v1/chains/"+chainResp.ID+"/resolve", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Resolved int `json:"resolved"`
		Total    int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 1, result.Resolved)
}

func TestServer_AuthFlow(t *testing.T) {
	server := newTestServer(t)

	// Fresh install: no password yet, protected routes are open.
	rec := doRequest(server, http.MethodGet, "/api/v1/narrators", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(server, http.MethodPost, "/api/v1/auth/password", `{"password": "hunter2!"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// Now a token is required.
	rec = doRequest(server, http.MethodGet, "/api/v1/narrators", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(server, http.MethodPost, "/api/v1/auth/login", `{"password": "wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(server, http.MethodPost, "/api/v1/auth/login", `{"password": "hunter2!"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/narrators", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	recorder := httptest.NewRecorder()
	server.Echo().ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestServer_TaskListing(t *testing.T) {
	server := newTestServer(t)

	rec := doRequest(server, http.MethodGet, "/api/v1/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var tasks []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	require.Len(t, tasks, 2)
	assert.Equal(t, "chain-resolution", tasks[0].ID)
	assert.Equal(t, "source-sync", tasks[1].ID)
}
