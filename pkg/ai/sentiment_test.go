package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prepvoice/interview-coach/pkg/config"
)

func newSentimentServer(t *testing.T, dists [][]labelScore) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		var req classifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Inputs == "" {
			t.Error("empty inputs in request")
		}
		json.NewEncoder(w).Encode(dists)
	}))
}

func newSentimentTestClient(url string) *SentimentClient {
	return NewSentimentClient(&config.SentimentConfig{
		BaseURL: url,
		Model:   "sst-2",
		Timeout: 5 * time.Second,
	})
}

func TestSentimentScorePositive(t *testing.T) {
	srv := newSentimentServer(t, [][]labelScore{{
		{Label: "POSITIVE", Score: 0.9132},
		{Label: "NEGATIVE", Score: 0.0868},
	}})
	defer srv.Close()

	got, err := newSentimentTestClient(srv.URL).Score(context.Background(), "I enjoyed the challenge")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if got.Label != "POSITIVE" {
		t.Fatalf("label = %q, want POSITIVE", got.Label)
	}
	if got.Score != 0.91 {
		t.Fatalf("score = %v, want 0.91", got.Score)
	}
}

// A NEGATIVE verdict still reports the POSITIVE-class probability.
func TestSentimentScoreNegativeKeepsPositiveProbability(t *testing.T) {
	srv := newSentimentServer(t, [][]labelScore{{
		{Label: "NEGATIVE", Score: 0.8},
		{Label: "POSITIVE", Score: 0.2},
	}})
	defer srv.Close()

	got, err := newSentimentTestClient(srv.URL).Score(context.Background(), "it went badly")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if got.Label != "NEGATIVE" {
		t.Fatalf("label = %q, want NEGATIVE", got.Label)
	}
	if got.Score != 0.2 {
		t.Fatalf("score = %v, want 0.2", got.Score)
	}
}

func TestSentimentScoreEmptyResponse(t *testing.T) {
	srv := newSentimentServer(t, [][]labelScore{})
	defer srv.Close()

	if _, err := newSentimentTestClient(srv.URL).Score(context.Background(), "text"); err == nil {
		t.Fatal("expected error for empty distribution")
	}
}

func TestSentimentScoreServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := newSentimentTestClient(srv.URL).Score(context.Background(), "text"); err == nil {
		t.Fatal("expected error for 503 response")
	}
}
