package analysis

import (
	"strings"

	apperrors "github.com/prepvoice/interview-coach/errors"
	"github.com/prepvoice/interview-coach/internal/domain/entities"
)

// PaceScore returns a speaking-rate score in [0,1]. The ideal range is roughly
// 130-160 WPM. A non-positive duration is rejected outright instead of
// dividing by zero.
func PaceScore(transcript string, durationSec float64) (float64, error) {
	if durationSec <= 0 {
		return 0, apperrors.ErrInvalidDuration(durationSec)
	}

	words := len(strings.Fields(transcript))
	wpm := float64(words) / (durationSec / 60)

	var score float64
	switch {
	case wpm < 100:
		score = wpm / 130 // too slow
	case wpm > 180:
		score = 180 / wpm // too fast
	default:
		score = 1.0
	}

	if score > 1.0 {
		score = 1.0
	}
	return entities.Round2(score), nil
}
