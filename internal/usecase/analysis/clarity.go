package analysis

import (
	"strings"

	"github.com/prepvoice/interview-coach/internal/domain/entities"
)

// fillerWords are the hesitation markers counted against clarity. Matching is
// exact per whitespace-split token, so the multi-word entry "you know" never
// matches; it is kept for parity with the published scoring contract.
var fillerWords = []string{"um", "uh", "like", "you know", "so", "actually", "basically"}

// ClarityScore returns a clarity score in [0,1] based on filler-word density.
// More filler words means a lower score. The empty transcript scores 1.0.
func ClarityScore(transcript string) float64 {
	words := strings.Fields(strings.ToLower(transcript))

	fillerCount := 0
	for _, filler := range fillerWords {
		for _, w := range words {
			if w == filler {
				fillerCount++
			}
		}
	}

	totalWords := len(words)
	if totalWords < 1 {
		totalWords = 1
	}
	return entities.Round2(1 - float64(fillerCount)/float64(totalWords))
}
