// internal/errors/errors.go
package errors

import "fmt"

// ErrInvalidRepoFormat is returned when a repository full name is not in 'owner/name' format.
type ErrInvalidRepoFormat struct {
	Repo string
}

func (e *ErrInvalidRepoFormat) Error() string {
	return fmt.Sprintf("invalid repository format: %q, expected 'owner/name'", e.Repo)
}

// ErrMissingPrerequisite is returned when an input file produced by an earlier
// pipeline step does not exist.
type ErrMissingPrerequisite struct {
	Path string
	Hint string
}

func (e *ErrMissingPrerequisite) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("%s not found", e.Path)
	}
	return fmt.Sprintf("%s not found, %s", e.Path, e.Hint)
}

// ErrUnexpectedResponse is returned when a GitHub response lacks a field the
// pipeline needs.
type ErrUnexpectedResponse struct {
	Endpoint string
	Reason   string
}

func (e *ErrUnexpectedResponse) Error() string {
	return fmt.Sprintf("unexpected response from %s: %s", e.Endpoint, e.Reason)
}
