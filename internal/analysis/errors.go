package analysis

import (
	"errors"
	"fmt"
	"net/url"
)

// ErrInvalidURL rejects input before any outbound call is made.
var ErrInvalidURL = errors.New("url must be a valid http or https address")

// ConfigurationError means a mandatory credential is missing. The reason is
// logged but never sent to the client.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// ProviderError wraps a failed or unparseable LLM call.
type ProviderError struct {
	Provider Provider
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ValidateRequestURL accepts absolute http/https URLs with a host and
// nothing else. Scheme-less input is a client-side normalization concern;
// the server stays strict.
func ValidateRequestURL(raw string) (*url.URL, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, ErrInvalidURL
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, ErrInvalidURL
	}

	if parsed.Host == "" {
		return nil, ErrInvalidURL
	}

	return parsed, nil
}
