package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvextract/internal/config"
	"csvextract/internal/extract"
	"csvextract/internal/fetch"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:           "127.0.0.1",
			Port:           8000,
			RequestTimeout: 30 * time.Second,
		},
		Fetch: config.FetchConfig{
			Timeout:  5 * time.Second,
			MaxBytes: 1 << 20,
		},
		Rate:    config.RateLimitConfig{Enabled: false},
		Logging: config.LoggingConfig{Level: "error", Format: "text"},
	}
}

func newTestServer(cfg *config.Config) *Server {
	client := fetch.NewClient(cfg.Fetch.Timeout, cfg.Fetch.MaxBytes, cfg.Fetch.UserAgent)
	return NewServer(extract.NewService(client), cfg)
}

// sourceServer serves a fixed CSV body as the extraction source.
func sourceServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			http.Error(w, "nope", status)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func postExtract(t *testing.T, s *Server, payload map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/extract", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHandleExtract_FullForm(t *testing.T) {
	src := sourceServer(t, "Item No.,Description of Goods,(CM)\n123,Example product,10\n", http.StatusOK)
	s := newTestServer(testConfig())

	rec := postExtract(t, s, map[string]any{
		"excel_url": src.URL,
		"excel_headers": []map[string]any{
			{"header": "Item No.", "selected": "bc_item_number"},
			{"header": "Description of Goods", "selected": "product_simple_description"},
			{"header": "", "selected": "", "sub_header1": "(CM)", "selected1": "height"},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var records []map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, map[string]string{
		"bc_item_number":             "123",
		"product_simple_description": "Example product",
		"height":                     "10",
	}, records[0])
}

func TestHandleExtract_ShorthandForm(t *testing.T) {
	src := sourceServer(t, "Item No.,Measurement(cm)-1,L,W,H\n123,,20,15,5\n", http.StatusOK)
	s := newTestServer(testConfig())

	rec := postExtract(t, s, map[string]any{
		"csv": src.URL,
		"csvUrl": []map[string]any{
			{"header": "Item No.", "subHeaders": []string{}},
			{"header": "Measurement(cm)-1", "subHeaders": []string{"L", "W", "H"}},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var records []map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "123", records[0]["Item No."])
	assert.Equal(t, "20", records[0]["L"])
	assert.Equal(t, "15", records[0]["W"])
	assert.Equal(t, "5", records[0]["H"])
}

func TestHandleExtract_MissingParams(t *testing.T) {
	s := newTestServer(testConfig())

	rec := postExtract(t, s, map[string]any{"excel_url": "http://example.com/x.csv"})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "REQ001", errResp.Code)
}

func TestHandleExtract_InvalidJSON(t *testing.T) {
	s := newTestServer(testConfig())

	req := httptest.NewRequest(http.MethodPost, "/extract", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleExtract_HeaderNotFound(t *testing.T) {
	src := sourceServer(t, "Item No.,Packing\n123,carton\n", http.StatusOK)
	s := newTestServer(testConfig())

	rec := postExtract(t, s, map[string]any{
		"excel_url": src.URL,
		"excel_headers": []map[string]any{
			{"header": "Warehouse", "selected": "warehouse"},
		},
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "MAP001", errResp.Code)
}

func TestHandleExtract_DuplicateField(t *testing.T) {
	src := sourceServer(t, "Item No.,Packing\n123,carton\n", http.StatusOK)
	s := newTestServer(testConfig())

	rec := postExtract(t, s, map[string]any{
		"excel_url": src.URL,
		"excel_headers": []map[string]any{
			{"header": "Item No.", "selected": "item"},
			{"header": "Packing", "selected": "item"},
		},
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "MAP002", errResp.Code)
}

func TestHandleExtract_SourceDown(t *testing.T) {
	src := sourceServer(t, "", http.StatusNotFound)
	s := newTestServer(testConfig())

	rec := postExtract(t, s, map[string]any{
		"excel_url": src.URL,
		"excel_headers": []map[string]any{
			{"header": "Item No.", "selected": "item"},
		},
	})

	require.Equal(t, http.StatusBadGateway, rec.Code)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "DL002", errResp.Code)
}

func TestHandleExtract_ExcludePhoto(t *testing.T) {
	src := sourceServer(t, "Item No.,Photo\n123,img.png\n", http.StatusOK)
	s := newTestServer(testConfig())

	rec := postExtract(t, s, map[string]any{
		"excel_url": src.URL,
		"excel_headers": []map[string]any{
			{"header": "Item No.", "selected": "item"},
			{"header": "Photo", "selected": "Photo"},
		},
		"exclude_photo": true,
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var records []map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "", records[0]["Photo"])
	assert.Equal(t, "123", records[0]["item"])
}

func TestHandleRoot(t *testing.T) {
	s := newTestServer(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "/docs", body["docs"])
}

func TestHandleDocs(t *testing.T) {
	s := newTestServer(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/docs", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "/extract")
}

func TestSecurityHeaders(t *testing.T) {
	s := newTestServer(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestRateLimiter(t *testing.T) {
	cfg := testConfig()
	cfg.Rate = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 2}
	s := newTestServer(cfg)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
