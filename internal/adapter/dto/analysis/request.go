package analysis

import (
	"github.com/prepvoice/interview-coach/internal/domain/entities"
)

// requiredReportFields lists the report request keys that must be present, in
// the order they are reported back when missing.
var requiredReportFields = []string{"transcription", "sentiment", "clarity", "pace", "confidence", "overall"}

// SentimentInput is the sentiment block of a report request.
type SentimentInput struct {
	Label string  `json:"label"`
	Score float64 `json:"score" validate:"score"`
}

// ReportRequest is the body accepted by POST /api/report. Required fields are
// pointers so absence is distinguishable from a zero value.
type ReportRequest struct {
	Transcription *string         `json:"transcription"`
	Sentiment     *SentimentInput `json:"sentiment"`
	Clarity       *float64        `json:"clarity" validate:"omitempty,score"`
	Pace          *float64        `json:"pace" validate:"omitempty,score"`
	Confidence    *float64        `json:"confidence" validate:"omitempty,score"`
	Overall       *float64        `json:"overall" validate:"omitempty,score"`
	Username      string          `json:"username"`
	Role          string          `json:"role"`
	DurationSec   float64         `json:"duration_sec"`
}

// Missing returns the names of absent required fields in canonical order.
func (r *ReportRequest) Missing() []string {
	present := map[string]bool{
		"transcription": r.Transcription != nil,
		"sentiment":     r.Sentiment != nil,
		"clarity":       r.Clarity != nil,
		"pace":          r.Pace != nil,
		"confidence":    r.Confidence != nil,
		"overall":       r.Overall != nil,
	}
	var missing []string
	for _, f := range requiredReportFields {
		if !present[f] {
			missing = append(missing, f)
		}
	}
	return missing
}

// ToResult maps the request onto a domain result. Callers must have checked
// Missing first.
func (r *ReportRequest) ToResult() entities.AnalysisResult {
	return entities.AnalysisResult{
		Transcription: *r.Transcription,
		Sentiment: entities.Sentiment{
			Label: r.Sentiment.Label,
			Score: r.Sentiment.Score,
		},
		Clarity:     *r.Clarity,
		Pace:        *r.Pace,
		Confidence:  *r.Confidence,
		Overall:     *r.Overall,
		DurationSec: r.DurationSec,
	}
}
