package entities

import (
	"fmt"
	"math"
)

// Sentiment labels from the binary classifier.
const (
	SentimentPositive = "POSITIVE"
	SentimentNegative = "NEGATIVE"
)

// ConfidenceSource records where the confidence score came from. A missing
// video yields the neutral default 0.5, which is a different thing from a
// supplied video with zero detected faces (0.0); the source keeps the two
// fallback conventions distinguishable in the API.
type ConfidenceSource string

const (
	ConfidenceSourceVideo   ConfidenceSource = "video"
	ConfidenceSourceDefault ConfidenceSource = "default"
)

// NeutralConfidence is the score assigned when no video was supplied.
const NeutralConfidence = 0.5

// Sentiment is the classifier output: a label over {POSITIVE, NEGATIVE} and
// the probability of the positive class.
type Sentiment struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// AnalysisResult is the normalized score vector produced by a single analyze
// request. Constructed once, never mutated.
type AnalysisResult struct {
	Transcription    string           `json:"transcription"`
	Sentiment        Sentiment        `json:"sentiment"`
	Clarity          float64          `json:"clarity"`
	Pace             float64          `json:"pace"`
	Confidence       float64          `json:"confidence"`
	Overall          float64          `json:"overall"`
	DurationSec      float64          `json:"duration_sec"`
	ConfidenceSource ConfidenceSource `json:"confidence_source"`
}

// NewAnalysisResult validates the score fields and derives the overall score.
// Overall is the arithmetic mean of clarity, pace, sentiment score and
// confidence, rounded to 2 decimals.
func NewAnalysisResult(transcription string, sentiment Sentiment, clarity, pace, confidence, durationSec float64, source ConfidenceSource) (*AnalysisResult, error) {
	for name, v := range map[string]float64{
		"clarity":         clarity,
		"pace":            pace,
		"confidence":      confidence,
		"sentiment.score": sentiment.Score,
	} {
		if v < 0 || v > 1 {
			return nil, fmt.Errorf("%s out of range [0,1]: %v", name, v)
		}
	}
	if sentiment.Label != SentimentPositive && sentiment.Label != SentimentNegative {
		return nil, fmt.Errorf("invalid sentiment label %q", sentiment.Label)
	}
	if durationSec < 0 {
		return nil, fmt.Errorf("negative duration: %v", durationSec)
	}

	return &AnalysisResult{
		Transcription:    transcription,
		Sentiment:        sentiment,
		Clarity:          clarity,
		Pace:             pace,
		Confidence:       confidence,
		Overall:          Round2((clarity + pace + sentiment.Score + confidence) / 4),
		DurationSec:      Round2(durationSec),
		ConfidenceSource: source,
	}, nil
}

// Round2 rounds to 2 decimal places. All exported scores go through it.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
