package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/prepvoice/interview-coach/pkg/config"
)

// WhisperClient is a minimal client for a faster-whisper server exposing the
// OpenAI-compatible /v1/audio/transcriptions endpoint.
type WhisperClient struct {
	baseURL     string
	model       string
	language    string
	vadFilter   bool
	minSpeechMS int
	beamSize    int
	temperature float64
	client      *http.Client
}

// NewWhisperClient creates a whisper client using the provided config.
// If cfg is nil, falls back to environment variables.
func NewWhisperClient(cfg *config.WhisperConfig) *WhisperClient {
	c := &WhisperClient{
		model:       "base",
		language:    "en",
		vadFilter:   true,
		minSpeechMS: 300,
		beamSize:    1,
		client:      &http.Client{},
	}
	if cfg != nil {
		c.baseURL = cfg.BaseURL
		c.model = cfg.Model
		c.language = cfg.Language
		c.vadFilter = cfg.VADFilter
		c.minSpeechMS = cfg.MinSpeechDurationMS
		c.beamSize = cfg.BeamSize
		c.temperature = cfg.Temperature
		c.client.Timeout = cfg.Timeout
	}
	if c.baseURL == "" {
		c.baseURL = os.Getenv("WHISPER_URL")
	}
	return c
}

// transcriptionResponse is the minimal response shape
type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe uploads the audio file and returns the transcript text.
// Decoding is deterministic: greedy beam, zero temperature, VAD to skip
// silence.
func (w *WhisperClient) Transcribe(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("copy audio: %w", err)
	}

	fields := map[string]string{
		"model":              w.model,
		"language":           w.language,
		"response_format":    "json",
		"vad_filter":         strconv.FormatBool(w.vadFilter),
		"beam_size":          strconv.Itoa(w.beamSize),
		"temperature":        strconv.FormatFloat(w.temperature, 'f', -1, 64),
		"without_timestamps": "true",
	}
	if w.vadFilter {
		fields["vad_parameters"] = fmt.Sprintf(`{"min_speech_duration_ms": %d}`, w.minSpeechMS)
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return "", err
		}
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", w.baseURL+"/v1/audio/transcriptions", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := w.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("whisper server returned status %d", resp.StatusCode)
	}

	var tr transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", err
	}
	return strings.TrimSpace(tr.Text), nil
}

// Ping checks whether the whisper server is reachable. Used by the startup
// warmup probe.
func (w *WhisperClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", w.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("whisper server returned status %d", resp.StatusCode)
	}
	return nil
}
