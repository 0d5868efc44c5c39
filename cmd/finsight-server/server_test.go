package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/finsightlab/finsight/internal/app"
	"github.com/finsightlab/finsight/internal/models"
	"github.com/finsightlab/finsight/internal/server"
)

// stubMarketServer serves canned EODHD responses for a fixed set of symbols.
func stubMarketServer(t *testing.T) *httptest.Server {
	t.Helper()
	prices := map[string]float64{
		"TCS.NSE":  100,
		"INFY.NSE": 50,
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasPrefix(r.URL.Path, "/real-time/"):
			ticker := strings.TrimPrefix(r.URL.Path, "/real-time/")
			price, ok := prices[ticker]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			fmt.Fprintf(w, `{"code": %q, "timestamp": 1756600000, "close": %v}`, ticker, price)
		case strings.HasPrefix(r.URL.Path, "/fundamentals/"):
			w.Write([]byte(`{"General": {"Sector": "Technology"}, "Highlights": {"PERatio": 25.0}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

// writeTestConfig writes a config file pointing at the stub market server
// and a temp storage directory.
func writeTestConfig(t *testing.T, marketURL string) string {
	t.Helper()
	dir := t.TempDir()
	config := fmt.Sprintf(`
environment = "test"

[server]
host = "127.0.0.1"
port = 0

[engine]
fetch_concurrency = 2
retry_attempts = 1

[clients.eodhd]
base_url = %q
api_key = "test-key"
rate_limit = 100

[storage.analyses]
path = %q

[logging]
level = "error"
`, marketURL, filepath.Join(dir, "analyses"))

	path := filepath.Join(dir, "finsight.toml")
	if err := os.WriteFile(path, []byte(config), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// testServer creates an httptest.Server with the full finsight-server handler.
func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	market := stubMarketServer(t)
	configPath := writeTestConfig(t, market.URL)

	a, err := app.NewApp(configPath)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	t.Cleanup(a.Close)

	srv := server.NewServer(a)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestHealthEndpoint(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	if body["status"] != "ok" {
		t.Errorf("status = %q", body["status"])
	}
	if body["alias_version"] == "" {
		t.Error("alias_version should be set")
	}
}

func TestAnalyzeEndToEnd(t *testing.T) {
	ts := testServer(t)

	payload, _ := json.Marshal(map[string]string{
		"portfolio": "TCS: 10\nINFY 5\nFOO: 3",
		"user_id":   "alice",
	})

	resp, err := http.Post(ts.URL+"/api/analyze", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST /api/analyze failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var result struct {
		ID       string                   `json:"id"`
		Analysis models.PortfolioAnalysis `json:"analysis"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if result.ID == "" {
		t.Error("expected persisted analysis id")
	}
	if result.Analysis.TotalValue != 1250 {
		t.Errorf("TotalValue = %v, want 1250", result.Analysis.TotalValue)
	}
	if len(result.Analysis.Warnings) != 1 || !strings.Contains(result.Analysis.Warnings[0], "FOO") {
		t.Errorf("Warnings = %v", result.Analysis.Warnings)
	}

	// The persisted analysis is retrievable by id.
	getResp, err := http.Get(ts.URL + "/api/analyses/" + result.ID)
	if err != nil {
		t.Fatalf("GET analysis failed: %v", err)
	}
	defer getResp.Body.Close()
	if getResp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", getResp.StatusCode)
	}

	var record models.AnalysisRecord
	json.NewDecoder(getResp.Body).Decode(&record)
	if record.UserID != "alice" {
		t.Errorf("UserID = %q", record.UserID)
	}
	if record.Analysis.TotalValue != 1250 {
		t.Errorf("stored TotalValue = %v", record.Analysis.TotalValue)
	}
}

func TestAnalyzeEmptyInputEndToEnd(t *testing.T) {
	ts := testServer(t)

	payload, _ := json.Marshal(map[string]string{"portfolio": "   "})
	resp, err := http.Post(ts.URL+"/api/analyze", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
}

func TestScenarioUnconfiguredEndToEnd(t *testing.T) {
	ts := testServer(t)

	payload, _ := json.Marshal(map[string]string{"analysis_id": "x", "scenario": "crash"})
	resp, err := http.Post(ts.URL+"/api/scenario", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
}
