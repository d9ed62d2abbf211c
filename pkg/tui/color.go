// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tui colors terminal output, with the usual escape hatches
// (NO_COLOR, dumb terminals, non-TTY writers).
package tui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

type Colorizer struct {
	Enabled bool
}

// NewColorizer decides whether output to w should be colored. A nil w
// means "assume a capable terminal" minus the environment checks.
func NewColorizer(w *os.File) Colorizer {
	if os.Getenv("NO_COLOR") != "" {
		return Colorizer{}
	}
	termEnv := os.Getenv("TERM")
	if termEnv == "" || termEnv == "dumb" {
		return Colorizer{}
	}
	if w != nil && !term.IsTerminal(int(w.Fd())) {
		return Colorizer{}
	}
	return Colorizer{Enabled: true}
}

func (c Colorizer) wrap(attr color.Attribute, text string) string {
	if !c.Enabled {
		return text
	}
	p := color.New(attr)
	p.EnableColor()
	return p.Sprint(text)
}

func (c Colorizer) Error(text string) string   { return c.wrap(color.FgRed, text) }
func (c Colorizer) Success(text string) string { return c.wrap(color.FgGreen, text) }
func (c Colorizer) Warn(text string) string    { return c.wrap(color.FgYellow, text) }
func (c Colorizer) Dim(text string) string     { return c.wrap(color.FgHiBlack, text) }
