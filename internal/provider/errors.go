package provider

import "fmt"

// NetworkError reports a failed outbound request: timeout, connection
// failure, or a non-2xx status. Status is 0 when no response was received.
type NetworkError struct {
	URL    string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fiscal data request %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fiscal data request %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError reports a response body that does not match the expected
// schema. Field and Value identify the offending record for diagnostics.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("parse fiscal data response: field %s=%q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("parse fiscal data response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// InsufficientDataError reports that a computation needs more observations
// than the series holds.
type InsufficientDataError struct {
	Have int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: have %d observations, need %d", e.Have, e.Need)
}
