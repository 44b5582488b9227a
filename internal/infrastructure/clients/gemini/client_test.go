package gemini

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/umedhealth/umed-backend/internal/domain/entities"
	"github.com/umedhealth/umed-backend/internal/domain/providers"
	"github.com/umedhealth/umed-backend/pkg/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&config.GeminiConfig{
		APIKey:       "test-key",
		Model:        "gemini-1.5-flash",
		RateLimitRPM: -1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	client.baseURL = server.URL
	client.httpClient = &http.Client{Timeout: 5 * time.Second}
	return client, server
}

func candidateResponse(text string) string {
	envelope := `{"candidates":[{"content":{"parts":[{"text":` + text + `}]}}]}`
	return envelope
}

func TestAnalyzeDocument_ValidResponse(t *testing.T) {
	body := `"{\"title\":\"Blood test: CBC\",\"summary\":\"Counts are normal.\",\"doctorNotes\":\"Hb 14.1 g/dL\",\"riskLevel\":\"Medium\",\"recommendation\":\"Repeat in 6 months\"}"`
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(candidateResponse(body)))
	})

	analysis, err := client.AnalyzeDocument(context.Background(), "aGVsbG8=", "Name: Akmal, Age: 34")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.Title != "Blood test: CBC" {
		t.Errorf("wrong title: %s", analysis.Title)
	}
	if analysis.RiskLevel != entities.RiskLevelMedium {
		t.Errorf("wrong risk level: %s", analysis.RiskLevel)
	}
}

func TestAnalyzeDocument_FencedResponse(t *testing.T) {
	body := `"` + "```json\\n" + `{\"title\":\"X-ray\",\"summary\":\"Clear.\",\"riskLevel\":\"Low\",\"recommendation\":\"None\"}` + "\\n```" + `"`
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(candidateResponse(body)))
	})

	analysis, err := client.AnalyzeDocument(context.Background(), "aGVsbG8=", "Name: Akmal")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.Title != "X-ray" {
		t.Errorf("wrong title: %s", analysis.Title)
	}
}

func TestAnalyzeDocument_NonMedicalImage(t *testing.T) {
	body := `"{\"error\":\"No medical content detected\"}"`
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(candidateResponse(body)))
	})

	_, err := client.AnalyzeDocument(context.Background(), "aGVsbG8=", "Name: Akmal")
	if !errors.Is(err, providers.ErrNotMedicalDocument) {
		t.Fatalf("expected ErrNotMedicalDocument, got %v", err)
	}
}

func TestAnalyzeDocument_Unauthorized(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.AnalyzeDocument(context.Background(), "aGVsbG8=", "Name: Akmal")
	if !errors.Is(err, providers.ErrAnalyzerUnauthorized) {
		t.Fatalf("expected ErrAnalyzerUnauthorized, got %v", err)
	}
}

func TestChat_ReturnsText(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(candidateResponse(`"Drink plenty of fluids and rest."`)))
	})

	reply, err := client.Chat(context.Background(), "What helps with a headache?", "Name: Akmal, Age: 34")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "Drink plenty of fluids and rest." {
		t.Errorf("wrong reply: %s", reply)
	}
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(&config.GeminiConfig{})
	if err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestParseAnalysisPayload_MissingTitle(t *testing.T) {
	_, err := parseAnalysisPayload([]byte(`{"summary":"something"}`))
	if err == nil {
		t.Fatal("expected error for missing title")
	}
}

func TestParseAnalysisPayload_UnknownRiskLevelDefaultsLow(t *testing.T) {
	analysis, err := parseAnalysisPayload([]byte(`{"title":"Scan","riskLevel":"Severe"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.RiskLevel != entities.RiskLevelLow {
		t.Errorf("expected Low fallback, got %s", analysis.RiskLevel)
	}
}

func TestStripCodeFences(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}\n```":     `{"a":1}`,
		`{"a":1}`:                 `{"a":1}`,
	}
	for in, want := range cases {
		if got := stripCodeFences(in); got != want {
			t.Errorf("stripCodeFences(%q) = %q, want %q", in, got, want)
		}
	}
}
