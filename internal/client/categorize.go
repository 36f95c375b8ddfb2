package client

import (
	"context"
	"errors"

	"github.com/kjstillabower/weather-report/internal/validation"
)

// ErrorCategory is a stable label for error classification in logs and metrics.
type ErrorCategory string

const (
	ErrorCategoryInput            ErrorCategory = "input"
	ErrorCategoryTimeout          ErrorCategory = "timeout"
	ErrorCategoryCanceled         ErrorCategory = "canceled"
	ErrorCategoryNetwork          ErrorCategory = "network"
	ErrorCategoryInvalidAPIKey    ErrorCategory = "invalid_api_key"
	ErrorCategoryLocationNotFound ErrorCategory = "location_not_found"
	ErrorCategoryRateLimited      ErrorCategory = "rate_limited"
	ErrorCategoryUpstream         ErrorCategory = "upstream"
	ErrorCategoryParsing          ErrorCategory = "parsing"
	ErrorCategoryMissingField     ErrorCategory = "missing_field"
	ErrorCategoryUnknown          ErrorCategory = "unknown"
)

var inputErrors = []error{
	validation.ErrNoInput,
	validation.ErrMalformedLocation,
	validation.ErrLocationEmpty,
	validation.ErrLocationTooLong,
	validation.ErrLocationInvalidChars,
}

// CategorizeError maps an error to a stable ErrorCategory. Order matters: timeouts and
// cancellation win over the transport wrapper that carries them.
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ""
	}

	for _, inputErr := range inputErrors {
		if errors.Is(err, inputErr) {
			return ErrorCategoryInput
		}
	}

	switch {
	case errors.Is(err, context.Canceled):
		return ErrorCategoryCanceled
	case errors.Is(err, ErrTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return ErrorCategoryTimeout
	case errors.Is(err, ErrNetwork):
		return ErrorCategoryNetwork
	case errors.Is(err, ErrInvalidAPIKey):
		return ErrorCategoryInvalidAPIKey
	case errors.Is(err, ErrLocationNotFound):
		return ErrorCategoryLocationNotFound
	case errors.Is(err, ErrRateLimited):
		return ErrorCategoryRateLimited
	case errors.Is(err, ErrUpstreamFailure):
		return ErrorCategoryUpstream
	case errors.Is(err, ErrMissingField):
		return ErrorCategoryMissingField
	case errors.Is(err, ErrMalformedResponse):
		return ErrorCategoryParsing
	}
	return ErrorCategoryUnknown
}
