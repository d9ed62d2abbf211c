// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dispatch

import (
	"fmt"
	"io"
)

// Option configures a Command or Group at registration time. Options
// that name flags are validated against the introspected flag names;
// naming a flag that does not exist is a registration error, reported
// by the constructor before any parsing can happen.
type Option func(*config)

type config struct {
	usage      string
	doc        string
	help       string
	shorthands map[string]string
	docs       map[string]string
	defaults   map[string]any
	hidden     []string
	docHelp    bool
	strict     bool
	renderer   Renderer
	out        io.Writer
}

// WithUsage overrides the rendered usage line.
func WithUsage(usage string) Option {
	return func(c *config) { c.usage = usage }
}

// WithDoc attaches a doc comment. Its text before the first flag
// annotation becomes the description; its ":short name: text" lines
// contribute shorthands and help text (see ParseDoc).
func WithDoc(doc string) Option {
	return func(c *config) { c.doc = doc }
}

// WithHelp overrides the description, taking precedence over WithDoc.
func WithHelp(help string) Option {
	return func(c *config) { c.help = help }
}

// WithShorthands assigns single-character shorthands, keyed by flag
// name. Takes precedence over doc-comment annotations.
func WithShorthands(shorthands map[string]string) Option {
	return func(c *config) { c.shorthands = shorthands }
}

// WithDocs assigns per-flag help text, keyed by flag name. Takes
// precedence over doc-comment annotations.
func WithDocs(docs map[string]string) Option {
	return func(c *config) { c.docs = docs }
}

// WithDefaults assigns default values, keyed by flag name. Values may
// be already typed or raw strings to be coerced. Takes precedence over
// struct-tag defaults.
func WithDefaults(defaults map[string]any) Option {
	return func(c *config) { c.defaults = defaults }
}

// WithHidden hides the named flags (on a Group, also sub-commands) from
// help output. Hidden entries stay fully invocable by exact name.
func WithHidden(names ...string) Option {
	return func(c *config) { c.hidden = append(c.hidden, names...) }
}

// WithDocHelp renders the raw doc comment verbatim as the help text,
// bypassing the renderer.
func WithDocHelp() Option {
	return func(c *config) { c.docHelp = true }
}

// WithStrict makes parsing fail with a RequiredFlagError for any
// non-boolean flag left without a value and without a default. The
// default mode leaves such flags null. Booleans fall back to false
// under strict mode instead of erroring.
func WithStrict() Option {
	return func(c *config) { c.strict = true }
}

// WithRenderer replaces the default help renderer.
func WithRenderer(r Renderer) Option {
	return func(c *config) { c.renderer = r }
}

// WithOutput sets the writer help is printed to. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(c *config) { c.out = w }
}

func buildConfig(opts []Option) *config {
	c := &config{}
	for _, o := range opts {
		o(c)
	}
	return c
}

// applyTo merges the config into a freshly introspected FlagSet, in
// the documented precedence order: introspected tags, then doc-comment
// annotations, then explicit override maps. Returns the resolved
// description.
func (c *config) applyTo(fs *FlagSet) (string, error) {
	desc, flagdoc := ParseDoc(c.doc)
	for name, fd := range flagdoc {
		f := fs.Lookup(name)
		if f == nil {
			return "", fmt.Errorf("%s is not a flag", name)
		}
		if fd.Help != "" {
			f.Help = fd.Help
		}
		if fd.Shorthand != "" {
			if err := fs.setShorthand(name, fd.Shorthand); err != nil {
				return "", err
			}
		}
	}
	for name, short := range c.shorthands {
		if err := fs.setShorthand(name, short); err != nil {
			return "", err
		}
	}
	for name, help := range c.docs {
		f := fs.Lookup(name)
		if f == nil {
			return "", fmt.Errorf("%s is not a flag", name)
		}
		f.Help = help
	}
	for name, def := range c.defaults {
		f := fs.Lookup(name)
		if f == nil {
			return "", fmt.Errorf("%s is not a flag", name)
		}
		if err := f.setDefault(def); err != nil {
			return "", err
		}
	}
	for _, name := range c.hidden {
		if f := fs.Lookup(name); f != nil {
			f.Hidden = true
		}
	}
	if c.help != "" {
		desc = c.help
	}
	return desc, nil
}
