package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// Returned for unknown groups and for missing batch files.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument indicates malformed or invalid input, such as a
	// rule conjunction other than "and"/"or" or a missing group name.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrParse indicates a desired-state document could not be decoded.
	ErrParse = errors.New("parse error")

	// ErrNotImplemented indicates a required collaborator is not wired.
	ErrNotImplemented = errors.New("not implemented")

	// Classifier Errors.

	// ErrGroupCreationFailed indicates a group was created but its id
	// could not be resolved afterwards.
	ErrGroupCreationFailed = errors.New("group creation failed")

	// ErrUpdateVerificationFailed indicates the group read back after an
	// update does not carry the submitted delta.
	ErrUpdateVerificationFailed = errors.New("update verification failed")

	// ErrUnavailable indicates the classifier did not accept connections
	// before the availability timeout elapsed.
	ErrUnavailable = errors.New("classifier unavailable")
)
