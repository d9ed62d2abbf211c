// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cmdutil holds the shared plumbing of command-line hosts:
// error-to-exit-status mapping and interactive confirmation.
package cmdutil

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yeetrun/dispatch/pkg/dispatch"
	"github.com/yeetrun/dispatch/pkg/tui"
)

// ExitCode prints err to w and returns the process exit status for it.
// User errors (bad flags, bad values) render as "Error: <msg>" and map
// to status 2; ErrNoCommand is silent because help was already printed.
// Anything else is a real failure and maps to status 1.
func ExitCode(w io.Writer, color tui.Colorizer, err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, dispatch.ErrNoCommand) {
		return 2
	}
	fmt.Fprintln(w, color.Error(fmt.Sprintf("Error: %v", err)))
	if dispatch.IsUserError(err) {
		return 2
	}
	return 1
}

// Confirm prompts on w and reads a y/N answer from r. Anything but y
// (case-insensitive) is a no.
func Confirm(r io.Reader, w io.Writer, msg string) (bool, error) {
	fmt.Fprintf(w, "%s [y/N]: ", msg)

	var confirm string
	_, err := fmt.Fscanln(r, &confirm)
	if err != nil && err.Error() != "unexpected newline" {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	return strings.ToLower(confirm) == "y", nil
}
