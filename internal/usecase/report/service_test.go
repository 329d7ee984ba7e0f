package report

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/prepvoice/interview-coach/internal/domain/entities"
	"github.com/prepvoice/interview-coach/pkg/pdf"
)

// captureRenderer records the document it was asked to render and returns
// fixed bytes.
type captureRenderer struct {
	doc pdf.Document
}

func (r *captureRenderer) Render(doc pdf.Document) ([]byte, error) {
	r.doc = doc
	return []byte("%PDF-1.4 fake"), nil
}

func sampleResult() entities.AnalysisResult {
	return entities.AnalysisResult{
		Transcription: "I improved throughput by 40% & reduced <latency>",
		Sentiment:     entities.Sentiment{Label: entities.SentimentPositive, Score: 0.91},
		Clarity:       0.83,
		Pace:          1.0,
		Confidence:    0.7,
		Overall:       0.86,
		DurationSec:   45,
	}
}

func TestBuildWritesAndReturnsDocument(t *testing.T) {
	dir := t.TempDir()
	renderer := &captureRenderer{}
	svc, err := NewService(renderer, dir, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	data, filename, err := svc.Build(context.Background(), sampleResult(), "Jane Doe", "Backend Engineer")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if filename != "report_Jane_Doe.pdf" {
		t.Fatalf("filename = %q", filename)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("unexpected document bytes %q", data)
	}

	written, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !bytes.Equal(written, data) {
		t.Fatal("written report differs from returned bytes")
	}
}

func TestBuildDocumentContent(t *testing.T) {
	renderer := &captureRenderer{}
	svc, err := NewService(renderer, t.TempDir(), nil, zap.NewNop())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if _, _, err := svc.Build(context.Background(), sampleResult(), "Jane Doe", "Backend Engineer"); err != nil {
		t.Fatalf("Build: %v", err)
	}

	doc := renderer.doc
	if doc.Title != "AI Interview Feedback Report" {
		t.Fatalf("title = %q", doc.Title)
	}
	if doc.Subtitle != "Jane Doe - Backend Engineer" {
		t.Fatalf("subtitle = %q", doc.Subtitle)
	}

	wantRows := [][2]string{
		{"Overall", "86%"},
		{"Sentiment", "Positive (91%)"},
		{"Clarity", "83%"},
		{"Pace", "100%"},
		{"Confidence", "70%"},
	}
	if len(doc.Table) != len(wantRows) {
		t.Fatalf("table has %d rows, want %d", len(doc.Table), len(wantRows))
	}
	for i, want := range wantRows {
		if doc.Table[i] != want {
			t.Fatalf("row %d = %v, want %v", i, doc.Table[i], want)
		}
	}

	if !strings.Contains(doc.Body, "&lt;latency&gt;") || !strings.Contains(doc.Body, "&amp;") {
		t.Fatalf("transcript not escaped: %q", doc.Body)
	}
	if len(doc.List) == 0 {
		t.Fatal("no suggestions in document")
	}
}

func TestBuildDefaultsNameAndRole(t *testing.T) {
	renderer := &captureRenderer{}
	svc, err := NewService(renderer, t.TempDir(), nil, zap.NewNop())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, filename, err := svc.Build(context.Background(), sampleResult(), "", "")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if filename != "report_candidate.pdf" {
		t.Fatalf("filename = %q", filename)
	}
	if renderer.doc.Subtitle != "Candidate - Interview Practice" {
		t.Fatalf("subtitle = %q", renderer.doc.Subtitle)
	}
}

func TestPct(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.83, "83%"},
		{0.0, "0%"},
		{1.0, "100%"},
		{0.005, "1%"},
	}
	for _, tt := range tests {
		if got := pct(tt.in); got != tt.want {
			t.Fatalf("pct(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
