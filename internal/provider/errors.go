package provider

import "errors"

var (
	// ErrUnavailable indicates the analysis provider is unreachable.
	ErrUnavailable = errors.New("analysis provider unavailable")

	// ErrTimeout indicates the provider request exceeded the configured timeout.
	ErrTimeout = errors.New("provider request timed out")

	// ErrInvalidOutput indicates the provider response could not be parsed
	// into the expected structured format.
	ErrInvalidOutput = errors.New("invalid provider output format")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("provider retry attempts exhausted")

	// ErrProviderFailure indicates the provider answered but marked the
	// result as failed. An error marker in a 200 response is still a failure.
	ErrProviderFailure = errors.New("provider reported failure")
)
