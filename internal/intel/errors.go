package intel

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

var (
	ErrEmptyResponse  = errors.New("no response from AI")
	ErrInvalidFormat  = errors.New("the AI returned an invalid data format")
	ErrQuotaExhausted = errors.New("API quota exhausted")
	ErrUpstream       = errors.New("report generation failed")
	ErrMissingAPIKey  = errors.New("no Gemini API key configured")
)

// classify maps a GenerateContent failure onto the package errors. Context
// errors pass through untouched.
func classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	if apiErr, ok := asAPIError(err); ok {
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED" {
			return fmt.Errorf("%w: %s", ErrQuotaExhausted, apiErr.Message)
		}
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	// Transport wrappers sometimes flatten the API error into text.
	msg := err.Error()
	if strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED") {
		return fmt.Errorf("%w: %w", ErrQuotaExhausted, err)
	}
	return fmt.Errorf("%w: %w", ErrUpstream, err)
}

func asAPIError(err error) (genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var ptr *genai.APIError
	if errors.As(err, &ptr) && ptr != nil {
		return *ptr, true
	}
	return genai.APIError{}, false
}
