package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrEmptyImage         = errors.New("image is empty")
	ErrEmptyText          = errors.New("text is empty")
	ErrSpeechDisabled     = errors.New("speech synthesis is not configured")
	ErrUnexpectedResponse = errors.New("unexpected response shape")
)

// ProviderError is returned by every call to a hosted AI provider.
// StatusCode is zero when the request never got an HTTP response.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 && e.Err == nil {
		return fmt.Sprintf("%s: unexpected status code: %d, response: %s", e.Provider, e.StatusCode, e.Body)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %v (status code: %d, response: %s)", e.Provider, e.Err, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
