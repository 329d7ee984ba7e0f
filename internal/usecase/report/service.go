package report

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/prepvoice/interview-coach/errors"
	"github.com/prepvoice/interview-coach/internal/domain/entities"
	"github.com/prepvoice/interview-coach/pkg/pdf"
)

// Renderer turns structured report content into document bytes.
type Renderer interface {
	Render(doc pdf.Document) ([]byte, error)
}

// Archiver copies rendered reports into long-term storage. Optional.
type Archiver interface {
	ArchiveBytes(ctx context.Context, objectName string, data []byte, contentType string) error
}

// Service builds feedback reports from analysis results.
type Service struct {
	renderer  Renderer
	reportDir string
	archive   Archiver
	logger    *zap.Logger
}

// NewService creates the report service and its output directory.
func NewService(renderer Renderer, reportDir string, archive Archiver, logger *zap.Logger) (*Service, error) {
	if err := os.MkdirAll(reportDir, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir %s: %w", reportDir, err)
	}
	return &Service{
		renderer:  renderer,
		reportDir: reportDir,
		archive:   archive,
		logger:    logger,
	}, nil
}

// Build renders the PDF for one result. Returns the document bytes and the
// attachment filename. The document is also written under the report
// directory, keyed by sanitized username; same-name requests overwrite.
func (s *Service) Build(ctx context.Context, result entities.AnalysisResult, username, role string) ([]byte, string, error) {
	rpt := &entities.Report{
		Username:    username,
		Role:        role,
		GeneratedAt: time.Now(),
		Result:      result,
		Suggestions: Suggestions(result),
	}

	data, err := s.renderer.Render(buildDocument(rpt))
	if err != nil {
		return nil, "", apperrors.ErrReportRenderFailed(err)
	}

	filename := rpt.Filename()
	outPath := filepath.Join(s.reportDir, filename)
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return nil, "", apperrors.ErrStorageFailed("write report", err)
	}

	if s.archive != nil {
		if err := s.archive.ArchiveBytes(ctx, "reports/"+filename, data, "application/pdf"); err != nil && s.logger != nil {
			s.logger.Warn("failed to archive report",
				zap.String("filename", filename),
				zap.Error(err))
		}
	}

	if s.logger != nil {
		s.logger.Info("report generated",
			zap.String("filename", filename),
			zap.Int("bytes", len(data)),
			zap.Int("suggestions", len(rpt.Suggestions)))
	}
	return data, filename, nil
}

// buildDocument maps a report onto the renderer's content model.
func buildDocument(rpt *entities.Report) pdf.Document {
	displayName := rpt.Username
	if displayName == "" {
		displayName = "Candidate"
	}
	role := rpt.Role
	if role == "" {
		role = "Interview Practice"
	}

	res := rpt.Result
	return pdf.Document{
		Title:    "AI Interview Feedback Report",
		Subtitle: fmt.Sprintf("%s - %s", displayName, role),
		Meta:     "Generated: " + rpt.GeneratedAt.Format("2006-01-02 15:04"),
		Table: [][2]string{
			{"Overall", pct(res.Overall)},
			{"Sentiment", fmt.Sprintf("%s (%s)", titleCase(res.Sentiment.Label), pct(res.Sentiment.Score))},
			{"Clarity", pct(res.Clarity)},
			{"Pace", pct(res.Pace)},
			{"Confidence", pct(res.Confidence)},
		},
		ListHeading: "Actionable Suggestions",
		List:        rpt.Suggestions,
		BodyHeading: "Transcript",
		Body:        EscapeMarkup(res.Transcription),
	}
}

// pct formats a [0,1] score as a rounded percentage.
func pct(x float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(x*100)))
}

// titleCase renders classifier labels like POSITIVE as Positive.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
