package analysis

import (
	"github.com/prepvoice/interview-coach/internal/domain/entities"
)

// SentimentPayload mirrors entities.Sentiment on the wire.
type SentimentPayload struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// AnalyzeResponse is the body returned by POST /api/analyze.
type AnalyzeResponse struct {
	Transcription    string           `json:"transcription"`
	Sentiment        SentimentPayload `json:"sentiment"`
	Clarity          float64          `json:"clarity"`
	Pace             float64          `json:"pace"`
	Confidence       float64          `json:"confidence"`
	Overall          float64          `json:"overall"`
	DurationSec      float64          `json:"duration_sec"`
	ConfidenceSource string           `json:"confidence_source"`
}

// FromResult maps a domain result onto the response shape.
func FromResult(result *entities.AnalysisResult) AnalyzeResponse {
	return AnalyzeResponse{
		Transcription: result.Transcription,
		Sentiment: SentimentPayload{
			Label: result.Sentiment.Label,
			Score: result.Sentiment.Score,
		},
		Clarity:          result.Clarity,
		Pace:             result.Pace,
		Confidence:       result.Confidence,
		Overall:          result.Overall,
		DurationSec:      result.DurationSec,
		ConfidenceSource: string(result.ConfidenceSource),
	}
}
