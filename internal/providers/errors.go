package providers

import (
	"fmt"
	"strings"
)

type ErrorType string

const (
	ErrorQuota     ErrorType = "quota"
	ErrorRate      ErrorType = "rate"
	ErrorAuth      ErrorType = "auth"
	ErrorTransient ErrorType = "transient"
	ErrorPermanent ErrorType = "permanent"
	ErrorContext   ErrorType = "context"
)

// StatusError is returned when a provider answers with a non-success status.
type StatusError struct {
	Provider string
	Status   int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s generate error %d: %s", e.Provider, e.Status, e.Body)
}

func (e *StatusError) HTTPStatusCode() int { return e.Status }

func ClassifyError(err error) ErrorType {
	if err == nil {
		return ""
	}
	e := strings.ToLower(err.Error())
	switch {
	case strings.Contains(e, "quota"), strings.Contains(e, "credit"), strings.Contains(e, "insufficient_quota"), strings.Contains(e, "resource_exhausted"):
		return ErrorQuota
	case strings.Contains(e, "rate limit"), strings.Contains(e, "rate_limit"), strings.Contains(e, "429"):
		return ErrorRate
	case strings.Contains(e, "api key"), strings.Contains(e, "401"), strings.Contains(e, "403"), strings.Contains(e, "permission"):
		return ErrorAuth
	case strings.Contains(e, "context length"), strings.Contains(e, "too long"):
		return ErrorContext
	case strings.Contains(e, "timeout"), strings.Contains(e, "deadline"), strings.Contains(e, "temporarily"), strings.Contains(e, "unavailable"):
		return ErrorTransient
	default:
		return ErrorPermanent
	}
}
