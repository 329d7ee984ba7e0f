package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/prepvoice/interview-coach/internal/domain/entities"
)

// Threshold rules for coaching tips. Evaluated independently; any number of
// them can fire.
const (
	clarityTipThreshold    = 0.90
	slowWPMThreshold       = 120
	fastWPMThreshold       = 180
	paceTipThreshold       = 0.80
	sentimentTipThreshold  = 0.5
	confidenceTipThreshold = 0.6
	shortAnswerWordCount   = 40
)

// Suggestions derives the coaching tips for a result. When no rule fires, a
// single encouragement message is returned.
func Suggestions(result entities.AnalysisResult) []string {
	var tips []string

	words := len(strings.Fields(result.Transcription))

	if result.Clarity < clarityTipThreshold {
		tips = append(tips, "Reduce filler words (um, uh, like). Pause briefly instead of using fillers.")
	}

	// Literal WPM tips need a usable duration; otherwise degrade to the
	// normalized pace score.
	wpm := 0
	if result.DurationSec > 0 {
		wpm = int(math.Round(float64(words) / (result.DurationSec / 60)))
	}
	if wpm > 0 {
		if wpm < slowWPMThreshold {
			tips = append(tips, fmt.Sprintf("Speak a bit faster (current ~%d WPM). Target 130-160 WPM.", wpm))
		} else if wpm > fastWPMThreshold {
			tips = append(tips, fmt.Sprintf("Slow down slightly (current ~%d WPM). Aim for 130-160 WPM.", wpm))
		}
	} else if result.Pace < paceTipThreshold {
		tips = append(tips, "Adjust speaking rate toward the 130-160 WPM range.")
	}

	if result.Sentiment.Label == entities.SentimentNegative && result.Sentiment.Score < sentimentTipThreshold {
		tips = append(tips, "Use more positive framing and outcomes when describing experiences.")
	}

	if result.Confidence < confidenceTipThreshold {
		tips = append(tips, "Project confidence: steady tone, steady pace, and concise points.")
	}

	if words < shortAnswerWordCount {
		tips = append(tips, "Provide more detail using the STAR method (Situation, Task, Action, Result).")
	}

	if len(tips) == 0 {
		tips = append(tips, "Great job! Keep practicing to maintain consistency across answers.")
	}
	return tips
}

// EscapeMarkup escapes the characters the document renderer treats as markup
// before the transcript is embedded.
func EscapeMarkup(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
