// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dispatch

import (
	"fmt"
	"strings"
)

// minPadding separates the flag-name column from the help column.
const minPadding = 3

// HelpDoc is the format-independent model of a help screen. The core
// produces this; rendering it to text (or anything else) is the
// renderer's job.
type HelpDoc struct {
	Description string
	Usage       string
	Flags       []FlagHelp    // visible flags, display order
	Commands    []CommandHelp // visible sub-commands, registration order
}

// FlagHelp is one row of the options table.
type FlagHelp struct {
	Name       string // dashed display name
	Shorthand  string
	Help       string
	Default    string // rendered default, valid when HasDefault
	HasDefault bool
}

// CommandHelp is one row of the commands table.
type CommandHelp struct {
	Name    string
	Aliases []string
	Summary string // first non-blank line of the command's description
}

// Renderer turns a help model into display text.
type Renderer func(*HelpDoc) string

// helpFlag is the synthesized -h/--help entry. It is never stored in a
// FlagSet; the renderer appends it last.
var helpFlag = FlagHelp{Name: "help", Shorthand: "h", Help: "Get help."}

func (fs *FlagSet) helpFlags() []FlagHelp {
	var out []FlagHelp
	for _, f := range fs.visible() {
		fh := FlagHelp{
			Name:      f.Display(),
			Shorthand: f.Shorthand,
			Help:      f.Help,
		}
		if f.hasDefault {
			fh.HasDefault = true
			fh.Default = fmt.Sprint(f.def.Interface())
		}
		out = append(out, fh)
	}
	return append(out, helpFlag)
}

// RenderText is the default renderer. Output is deterministic: flags
// and commands keep their declared order and every name column is
// padded to the longest visible name.
func RenderText(d *HelpDoc) string {
	var b strings.Builder
	if d.Description != "" {
		b.WriteString(d.Description)
		b.WriteString("\n\n")
	}
	b.WriteString("Usage:\n")
	fmt.Fprintf(&b, "    %s\n", d.Usage)

	if len(d.Commands) > 0 {
		b.WriteString("\nCommands:\n")
		width := 0
		names := make([]string, len(d.Commands))
		for i, c := range d.Commands {
			names[i] = strings.Join(append([]string{c.Name}, c.Aliases...), ", ")
			if len(names[i]) > width {
				width = len(names[i])
			}
		}
		for i, c := range d.Commands {
			fmt.Fprintf(&b, "    %-*s%s\n", width+minPadding, names[i], c.Summary)
		}
	}

	if len(d.Flags) > 0 {
		b.WriteString("\nOptions:\n")
		width := 0
		for _, f := range d.Flags {
			if len(f.Name) > width {
				width = len(f.Name)
			}
		}
		for _, f := range d.Flags {
			short := "    "
			if f.Shorthand != "" {
				short = fmt.Sprintf("-%s, ", f.Shorthand)
			}
			fmt.Fprintf(&b, "    %s--%-*s%s", short, width+minPadding, f.Name, f.Help)
			if f.HasDefault {
				fmt.Fprintf(&b, " (default: %s)", f.Default)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// summary returns the first non-blank line of a description.
func summary(desc string) string {
	for _, line := range strings.Split(desc, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}
