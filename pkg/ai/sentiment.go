package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"os"

	"github.com/prepvoice/interview-coach/pkg/config"
)

// SentimentResult is the binary classifier output. Score is always the
// probability of the POSITIVE class, regardless of the winning label.
type SentimentResult struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// SentimentClient is a minimal client for a HuggingFace-style text
// classification endpoint serving an SST-2 model.
type SentimentClient struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewSentimentClient creates a sentiment client using the provided config.
// If cfg is nil, falls back to environment variables.
func NewSentimentClient(cfg *config.SentimentConfig) *SentimentClient {
	c := &SentimentClient{
		model:  "distilbert-base-uncased-finetuned-sst-2-english",
		client: &http.Client{},
	}
	if cfg != nil {
		c.baseURL = cfg.BaseURL
		if cfg.Model != "" {
			c.model = cfg.Model
		}
		c.client.Timeout = cfg.Timeout
	}
	if c.baseURL == "" {
		c.baseURL = os.Getenv("SENTIMENT_URL")
	}
	return c
}

// classifyRequest is the payload for /models/{model}
type classifyRequest struct {
	Inputs string `json:"inputs"`
}

// labelScore is one entry of the classifier's label distribution
type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Score classifies the text and returns the winning label together with the
// POSITIVE-class probability rounded to 2 decimals.
func (s *SentimentClient) Score(ctx context.Context, text string) (SentimentResult, error) {
	b, err := json.Marshal(classifyRequest{Inputs: text})
	if err != nil {
		return SentimentResult{}, err
	}

	endpoint := fmt.Sprintf("%s/models/%s", s.baseURL, s.model)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return SentimentResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return SentimentResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return SentimentResult{}, fmt.Errorf("sentiment server returned status %d", resp.StatusCode)
	}

	// One label distribution per input; we send exactly one input.
	var dists [][]labelScore
	if err := json.NewDecoder(resp.Body).Decode(&dists); err != nil {
		return SentimentResult{}, err
	}
	if len(dists) == 0 || len(dists[0]) == 0 {
		return SentimentResult{}, fmt.Errorf("empty response from sentiment server")
	}

	var positive float64
	best := dists[0][0]
	for _, ls := range dists[0] {
		if ls.Label == "POSITIVE" {
			positive = ls.Score
		}
		if ls.Score > best.Score {
			best = ls
		}
	}

	return SentimentResult{
		Label: best.Label,
		Score: math.Round(positive*100) / 100,
	}, nil
}

// Ping checks whether the sentiment server is reachable.
func (s *SentimentClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sentiment server returned status %d", resp.StatusCode)
	}
	return nil
}
