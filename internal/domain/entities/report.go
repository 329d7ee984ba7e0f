package entities

import (
	"strings"
	"time"
)

// Report is the transient representation of one feedback document. It is
// derived from an AnalysisResult, rendered once, and not retained.
type Report struct {
	Username    string
	Role        string
	GeneratedAt time.Time
	Result      AnalysisResult
	Suggestions []string
}

// Filename returns the attachment name for the rendered document, keyed by
// the sanitized username.
func (r *Report) Filename() string {
	return "report_" + SanitizeUsername(r.Username) + ".pdf"
}

// SanitizeUsername makes a username safe for use in a file name. Spaces become
// underscores; path separators and parent references are stripped.
func SanitizeUsername(username string) string {
	if username == "" {
		username = "candidate"
	}
	s := strings.ReplaceAll(username, " ", "_")
	s = strings.ReplaceAll(s, "/", "")
	s = strings.ReplaceAll(s, "\\", "")
	s = strings.ReplaceAll(s, "..", "")
	if s == "" {
		s = "candidate"
	}
	return s
}
