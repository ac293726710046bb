package musicpal

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownCommand  = errors.New("unknown command")
	ErrInvalidArgument = errors.New("invalid argument")
)

// UnknownCommandError is returned by Resolve, it matches ErrUnknownCommand.
type UnknownCommandError struct {
	Name string
	// Suggestion is the closest registered command, it may be empty.
	Suggestion string
}

func (e UnknownCommandError) Error() string {
	if e.Suggestion == "" {
		return fmt.Sprintf("unknown command %q", e.Name)
	}
	return fmt.Sprintf("unknown command %q (did you mean %q?)", e.Name, e.Suggestion)
}

func (e UnknownCommandError) Is(target error) bool {
	return target == ErrUnknownCommand
}

// TransportError wraps a failure to get any response from the device, this
// includes refused connections, dns failures and timeouts.
type TransportError struct {
	Cause error
}

func (e TransportError) Error() string {
	return fmt.Sprintf("could not reach device: %s", e.Cause.Error())
}

func (e TransportError) Unwrap() error {
	return e.Cause
}

// HTTPStatusError is returned when the device answered with a non-2xx status.
type HTTPStatusError struct {
	StatusCode int
	Status     string
}

func (e HTTPStatusError) Error() string {
	return fmt.Sprintf("device responded with status %s", e.Status)
}

// ExtractionError is returned when the response of a command does not look the
// way its extractor expects.
type ExtractionError struct {
	Command string
	Reason  string
}

func (e ExtractionError) Error() string {
	return fmt.Sprintf("%s: malformed response: %s", e.Command, e.Reason)
}

func invalidArgument(command, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", command, ErrInvalidArgument, fmt.Sprintf(format, args...))
}
