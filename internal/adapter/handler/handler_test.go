package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/prepvoice/interview-coach/internal/adapter/dto/common"
	"github.com/prepvoice/interview-coach/internal/infrastructure/storage"
	"github.com/prepvoice/interview-coach/internal/usecase/analysis"
	"github.com/prepvoice/interview-coach/internal/usecase/report"
	"github.com/prepvoice/interview-coach/pkg/ai"
	"github.com/prepvoice/interview-coach/pkg/pdf"
	pkgvalidator "github.com/prepvoice/interview-coach/pkg/validator"
)

type stubTranscriber struct{ text string }

func (s stubTranscriber) Transcribe(context.Context, string) (string, error) { return s.text, nil }

type stubSentiment struct{ result ai.SentimentResult }

func (s stubSentiment) Score(context.Context, string) (ai.SentimentResult, error) {
	return s.result, nil
}

func newAnalysisService(t *testing.T) *analysis.Service {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	conf := analysis.NewConfidenceScorer(
		analysis.OpenerFunc(func(context.Context, string) (analysis.FrameReader, error) {
			return nil, errors.New("no decoder in tests")
		}),
		nil, nil, 10, 320, 1, zap.NewNop(),
	)
	return analysis.NewService(
		store,
		stubTranscriber{text: "I led the project at work"},
		stubSentiment{result: ai.SentimentResult{Label: "POSITIVE", Score: 0.9}},
		conf,
		func(string) (float64, error) { return 20, nil },
		nil, 60, time.Minute, zap.NewNop(),
	)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = pkgvalidator.New()
	return e
}

func multipartBody(t *testing.T, fields map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for field, content := range fields {
		part, err := mw.CreateFormFile(field, field+".wav")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestAnalyzeEndpoint(t *testing.T) {
	e := newEcho()
	h := NewAnalyzeHandler(newAnalysisService(t), zap.NewNop())

	body, contentType := multipartBody(t, map[string][]byte{"file": []byte("audio bytes")})
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()

	if err := h.Analyze(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Transcription    string  `json:"transcription"`
		Clarity          float64 `json:"clarity"`
		Pace             float64 `json:"pace"`
		Confidence       float64 `json:"confidence"`
		Overall          float64 `json:"overall"`
		ConfidenceSource string  `json:"confidence_source"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Transcription != "I led the project at work" {
		t.Fatalf("transcription = %q", resp.Transcription)
	}
	if resp.Clarity != 1.0 || resp.Pace != 0.14 || resp.Confidence != 0.5 || resp.Overall != 0.64 {
		t.Fatalf("unexpected scores: %+v", resp)
	}
	if resp.ConfidenceSource != "default" {
		t.Fatalf("confidence_source = %q, want default", resp.ConfidenceSource)
	}
}

func TestAnalyzeEndpointMissingFile(t *testing.T) {
	e := newEcho()
	h := NewAnalyzeHandler(newAnalysisService(t), zap.NewNop())

	body, contentType := multipartBody(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()

	if err := h.Analyze(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp common.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != "No audio file uploaded (field name: file)" {
		t.Fatalf("error = %q", resp.Error)
	}
}

func newReportHandler(t *testing.T) *ReportHandler {
	t.Helper()
	svc, err := report.NewService(pdf.NewRenderer(), t.TempDir(), nil, zap.NewNop())
	if err != nil {
		t.Fatalf("report.NewService: %v", err)
	}
	return NewReportHandler(svc, zap.NewNop())
}

func postReport(t *testing.T, h *ReportHandler, payload string) *httptest.ResponseRecorder {
	t.Helper()
	e := newEcho()
	req := httptest.NewRequest(http.MethodPost, "/api/report", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h.Create(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return rec
}

func TestReportEndpoint(t *testing.T) {
	payload := `{
		"transcription": "I led the project at work",
		"sentiment": {"label": "POSITIVE", "score": 0.9},
		"clarity": 1.0,
		"pace": 0.14,
		"confidence": 0.5,
		"overall": 0.64,
		"username": "Jane Doe",
		"duration_sec": 20
	}`
	rec := postReport(t, newReportHandler(t), payload)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "application/pdf" {
		t.Fatalf("content type = %q", ct)
	}
	cd := rec.Header().Get(echo.HeaderContentDisposition)
	if !strings.Contains(cd, `report_Jane_Doe.pdf`) {
		t.Fatalf("content disposition = %q", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("body is not a PDF (starts with %q)", rec.Body.Bytes()[:8])
	}
}

func TestReportEndpointMissingFields(t *testing.T) {
	rec := postReport(t, newReportHandler(t), `{"transcription": "hello", "clarity": 0.8}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp common.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	want := []string{"sentiment", "pace", "confidence", "overall"}
	if len(resp.Missing) != len(want) {
		t.Fatalf("missing = %v, want %v", resp.Missing, want)
	}
	for i, f := range want {
		if resp.Missing[i] != f {
			t.Fatalf("missing = %v, want %v", resp.Missing, want)
		}
	}
	if !strings.HasPrefix(resp.Error, "Missing fields:") {
		t.Fatalf("error = %q", resp.Error)
	}
}

func TestReportEndpointOutOfRangeScore(t *testing.T) {
	payload := `{
		"transcription": "x",
		"sentiment": {"label": "POSITIVE", "score": 0.9},
		"clarity": 1.5,
		"pace": 0.5,
		"confidence": 0.5,
		"overall": 0.7
	}`
	rec := postReport(t, newReportHandler(t), payload)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestReportEndpointMalformedJSON(t *testing.T) {
	rec := postReport(t, newReportHandler(t), `{"transcription": `)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
