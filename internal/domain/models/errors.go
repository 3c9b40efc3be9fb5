package models

import "errors"

var (
	// ErrConfiguration marks a user-correctable query problem that blocks dispatch.
	ErrConfiguration = errors.New("configuration error")
	// ErrInputEmpty marks a blank symbol or search term.
	ErrInputEmpty = errors.New("input empty")
	// ErrTransport marks a network failure or non-2xx provider response.
	ErrTransport = errors.New("transport error")
	// ErrMalformedPayload marks a provider body that fails structural validation.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrNoData marks a valid provider response with zero points.
	ErrNoData = errors.New("no data")
	// ErrUnknownField marks an update for a field QueryState does not have.
	ErrUnknownField = errors.New("unknown query field")
)

// ConfigurationError describes a rejected query value.
type ConfigurationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ConfigurationError) Error() string { return e.Message }

// Is makes errors.Is(err, ErrConfiguration) match.
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// ErrDateRangeUnset is returned by submit when no range has been chosen.
var ErrDateRangeUnset = &ConfigurationError{
	Field:   string(FieldDateRange),
	Message: "select a date range",
}

// ProviderError is an error message embedded in a successful provider response.
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string { return e.Message }
