// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dispatch

import (
	"context"
	"fmt"
	"io"
	"os"
)

// RunFunc is a command callback. It runs after the command's flags have
// been parsed into the bound struct; args holds the positional tokens
// from this invocation.
type RunFunc func(ctx context.Context, args []string) error

// Command binds a callback to a flag set derived from a flags struct.
// It is immutable after construction except for Args, which accumulates
// positionals across invocations until Reset.
type Command struct {
	// Args holds the trailing positional arguments collected by parses
	// of this command. It is appended to, never replaced; call Reset
	// between invocations that must not see earlier positionals.
	Args []string

	name     string
	flags    *FlagSet
	run      RunFunc
	desc     string
	usage    string
	doc      string
	docHelp  bool
	strict   bool
	renderer Renderer
	out      io.Writer
}

// NewCommand builds a Command named name. flags is a pointer to a
// struct whose tagged fields become the command's flags (nil for a
// command with no flags); run is called by Invoke with the parse's
// positional arguments. Registration problems (an override naming a
// nonexistent flag, a reserved or duplicate shorthand, an unsupported
// field type) are reported here, never at parse time.
func NewCommand(name string, flags any, run RunFunc, opts ...Option) (*Command, error) {
	if run == nil {
		return nil, fmt.Errorf("command %q needs a run callback", name)
	}
	cfg := buildConfig(opts)
	fs, err := NewFlagSet(flags)
	if err != nil {
		return nil, fmt.Errorf("command %q: %w", name, err)
	}
	desc, err := cfg.applyTo(fs)
	if err != nil {
		return nil, fmt.Errorf("command %q: %w", name, err)
	}
	c := &Command{
		name:     name,
		flags:    fs,
		run:      run,
		desc:     desc,
		usage:    cfg.usage,
		doc:      cfg.doc,
		docHelp:  cfg.docHelp,
		strict:   cfg.strict,
		renderer: cfg.renderer,
		out:      cfg.out,
	}
	if c.usage == "" {
		c.usage = fmt.Sprintf("%s [options]", display(name))
	}
	if c.renderer == nil {
		c.renderer = RenderText
	}
	if c.out == nil {
		c.out = os.Stdout
	}
	fs.Reset()
	return c, nil
}

// MustCommand is NewCommand that panics on a registration error.
func MustCommand(name string, flags any, run RunFunc, opts ...Option) *Command {
	c, err := NewCommand(name, flags, run, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the command's registered name.
func (c *Command) Name() string { return c.name }

// Flags returns the command's flag set.
func (c *Command) Flags() *FlagSet { return c.flags }

// Description returns the command's resolved description.
func (c *Command) Description() string { return c.desc }

// Invoke parses argv against the command's flags and calls the
// callback. A --help or -h anywhere in argv short-circuits to printing
// help without calling the callback.
func (c *Command) Invoke(ctx context.Context, argv []string) error {
	for _, t := range argv {
		if t == "--help" || t == "-h" {
			c.Help()
			return nil
		}
	}
	res, err := c.flags.Parse(argv, c.strict)
	if err != nil {
		return err
	}
	c.Args = append(c.Args, res.Positionals...)
	return c.run(ctx, res.Positionals)
}

// Parse runs the argument parser without invoking the callback.
func (c *Command) Parse(argv []string) (*ParseResult, error) {
	res, err := c.flags.Parse(argv, c.strict)
	if err != nil {
		return nil, err
	}
	c.Args = append(c.Args, res.Positionals...)
	return res, nil
}

// Reset clears collected positionals and restores flag defaults.
func (c *Command) Reset() {
	c.Args = nil
	c.flags.Reset()
}

// HelpDoc builds the command's help model.
func (c *Command) HelpDoc() *HelpDoc {
	return &HelpDoc{
		Description: c.desc,
		Usage:       c.usage,
		Flags:       c.flags.helpFlags(),
	}
}

// HelpText renders the command's help screen.
func (c *Command) HelpText() string {
	if c.docHelp {
		return c.doc
	}
	return c.renderer(c.HelpDoc())
}

// Help prints the help screen to the command's output writer.
func (c *Command) Help() {
	fmt.Fprintln(c.out, c.HelpText())
}
