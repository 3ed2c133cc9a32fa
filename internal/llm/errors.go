package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrQuotaExceeded distinguishes "try again later" failures from credential
// problems. Match with errors.Is.
var ErrQuotaExceeded = errors.New("QUOTA_EXCEEDED")

// QuotaError wraps an upstream rate/quota failure.
type QuotaError struct {
	Cause error
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("QUOTA_EXCEEDED: %v", e.Cause)
}

func (e *QuotaError) Unwrap() error { return e.Cause }

func (e *QuotaError) Is(target error) bool { return target == ErrQuotaExceeded }

// NormalizeUpstreamError maps rate/quota failures (HTTP 429 or a message
// mentioning "quota") onto QuotaError. Everything else, including invalid
// credential errors, propagates unchanged so callers can trigger their own
// re-authorization flow.
func NormalizeUpstreamError(status int, err error) error {
	if err == nil {
		return nil
	}
	if status == 429 || strings.Contains(strings.ToLower(err.Error()), "quota") {
		return &QuotaError{Cause: err}
	}
	return err
}
