package common

// ErrorResponse is the standard error body. Missing is populated only for
// report requests lacking required fields.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing,omitempty"`
}
