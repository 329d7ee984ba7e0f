package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode identifies a class of application error.
type ErrorCode string

const (
	ErrorCode_HTTP_OK               ErrorCode = "OK"
	ErrorCode_INTERNAL              ErrorCode = "INTERNAL"
	ErrorCode_INVALID_ARGUMENT      ErrorCode = "INVALID_ARGUMENT"
	ErrorCode_NOT_FOUND             ErrorCode = "NOT_FOUND"
	ErrorCode_MISSING_AUDIO         ErrorCode = "MISSING_AUDIO"
	ErrorCode_MISSING_REPORT_FIELDS ErrorCode = "MISSING_REPORT_FIELDS"
	ErrorCode_UNSAFE_FILENAME       ErrorCode = "UNSAFE_FILENAME"
	ErrorCode_INVALID_DURATION      ErrorCode = "INVALID_DURATION"
	ErrorCode_TRANSCRIPTION_FAILED  ErrorCode = "TRANSCRIPTION_FAILED"
	ErrorCode_SENTIMENT_FAILED      ErrorCode = "SENTIMENT_FAILED"
	ErrorCode_STORAGE_FAILED        ErrorCode = "STORAGE_FAILED"
	ErrorCode_REPORT_RENDER_FAILED  ErrorCode = "REPORT_RENDER_FAILED"
	ErrorCode_MODEL_UNAVAILABLE     ErrorCode = "MODEL_UNAVAILABLE"
	ErrorCode_ANALYSIS_FAILED       ErrorCode = "ANALYSIS_FAILED"
)

func (c ErrorCode) String() string { return string(c) }

// AppError is the application error type carried from usecases to handlers.
type AppError struct {
	Raw      error
	HTTPCode int
	Code     ErrorCode
	Message  string
	Details  map[string]string
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is/As.
func (e AppError) Unwrap() error { return e.Raw }

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// General errors

func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  "Internal server error",
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_ARGUMENT,
		Message:  message,
	}
}

func ErrNotFound(resource string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_NOT_FOUND,
		Message:  fmt.Sprintf("%s not found", resource),
	}
}

// Upload errors

func ErrMissingAudio() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_MISSING_AUDIO,
		Message:  "No audio file uploaded (field name: file)",
	}
}

func ErrEmptyAudioFilename() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_MISSING_AUDIO,
		Message:  "Empty audio filename",
	}
}

func ErrUnsafeFilename(name string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_UNSAFE_FILENAME,
		Message:  "Filename contains path separators",
	}.WithDetail("filename", name)
}

// Analysis errors

func ErrInvalidDuration(durationSec float64) AppError {
	return AppError{
		HTTPCode: http.StatusUnprocessableEntity,
		Code:     ErrorCode_INVALID_DURATION,
		Message:  "Audio duration must be positive",
	}.WithDetail("duration_sec", fmt.Sprintf("%.2f", durationSec))
}

func ErrTranscriptionFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_TRANSCRIPTION_FAILED,
		Message:  "Audio transcription failed",
	}
}

func ErrSentimentFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_SENTIMENT_FAILED,
		Message:  "Sentiment classification failed",
	}
}

func ErrAnalysisFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_ANALYSIS_FAILED,
		Message:  "Analysis failed",
	}
}

func ErrModelUnavailable(service string) AppError {
	return AppError{
		HTTPCode: http.StatusServiceUnavailable,
		Code:     ErrorCode_MODEL_UNAVAILABLE,
		Message:  "Model service temporarily unavailable",
	}.WithDetail("service", service)
}

// Report errors

func ErrMissingReportFields(missing []string) AppError {
	e := AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_MISSING_REPORT_FIELDS,
		Message:  fmt.Sprintf("Missing fields: %v", missing),
	}
	for _, f := range missing {
		e = e.WithDetail(f, "required")
	}
	return e
}

func ErrReportRenderFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_REPORT_RENDER_FAILED,
		Message:  "Failed to render report",
	}
}

// Storage errors

func ErrStorageFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_STORAGE_FAILED,
		Message:  fmt.Sprintf("Storage operation failed: %s", operation),
	}
}
