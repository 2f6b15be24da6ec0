// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package scm

import "errors"

// Kind classifies a fetch-time failure. A Kind is itself an error so callers
// can match it with errors.Is.
type Kind string

const (
	CloneFailure      Kind = "clone failure"
	FetchFailure      Kind = "fetch failure"
	InvalidReference  Kind = "invalid reference"
	ArchiveIOFailure  Kind = "archive i/o failure"
	InvalidRepository Kind = "invalid repository"
)

func (k Kind) Error() string {
	return string(k)
}

var _ error = &Error{}

// Error is returned by every Client operation. Message is safe to show to
// the user, Err holds the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	kind, ok := target.(Kind)
	return ok && kind == e.Kind
}

// KindOf returns the Kind of err, or an empty Kind if err isn't an *Error.
func KindOf(err error) Kind {
	var scmErr *Error
	if errors.As(err, &scmErr) {
		return scmErr.Kind
	}
	return ""
}
