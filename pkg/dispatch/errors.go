// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dispatch

import (
	"errors"
	"fmt"
)

// ErrNoCommand is returned by Group.Invoke when no sub-command was named
// and the group has no run callback of its own. Help has already been
// printed by the time it is returned; callers should map it to a non-zero
// exit status.
var ErrNoCommand = errors.New("no command given")

// UnknownFlagError is returned when a token names a flag that is not
// registered in the flag set being parsed.
type UnknownFlagError struct {
	Token string // the offending token, as given (e.g. "--colour")
}

func (e *UnknownFlagError) Error() string {
	return fmt.Sprintf("could not find flag '%s'", e.Token)
}

// MissingValueError is returned when a non-boolean flag is the last token
// or is followed by another flag instead of a value.
type MissingValueError struct {
	Flag string
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("'--%s' needs a value", e.Flag)
}

// BoolValueError is returned when a boolean flag is given an explicit
// =value. Booleans toggle; they never take a value.
type BoolValueError struct {
	Flag  string
	Value string
}

func (e *BoolValueError) Error() string {
	return fmt.Sprintf("'--%s' takes no value, got %q", e.Flag, e.Value)
}

// ConversionError is returned when a raw token cannot be coerced into a
// flag's declared type. It wraps the underlying parse failure.
type ConversionError struct {
	Flag  string // empty when the coercion was not tied to a flag
	Value string
	Type  string
	Err   error
}

func (e *ConversionError) Error() string {
	if e.Flag != "" {
		return fmt.Sprintf("bad value %q for flag '--%s' (%s)", e.Value, e.Flag, e.Type)
	}
	return fmt.Sprintf("cannot convert %q to %s", e.Value, e.Type)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// RequiredFlagError is returned in strict mode for a non-boolean flag
// that has neither an explicit value nor a declared default.
type RequiredFlagError struct {
	Flag string
}

func (e *RequiredFlagError) Error() string {
	return fmt.Sprintf("'--%s' is a required flag", e.Flag)
}

// IsUserError reports whether err came from user input rather than a
// programming mistake. Hosts catch these, print them, and exit non-zero;
// everything else should be allowed to crash.
func IsUserError(err error) bool {
	var (
		unknown  *UnknownFlagError
		missing  *MissingValueError
		boolval  *BoolValueError
		conv     *ConversionError
		required *RequiredFlagError
	)
	return errors.As(err, &unknown) ||
		errors.As(err, &missing) ||
		errors.As(err, &boolval) ||
		errors.As(err, &conv) ||
		errors.As(err, &required) ||
		errors.Is(err, ErrNoCommand)
}
