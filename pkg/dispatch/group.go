// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dispatch

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Runner is implemented by a group's flags struct when the group itself
// has call behavior. Run is invoked on every group invocation, before
// and independently of sub-command dispatch.
type Runner interface {
	Run(ctx context.Context, args []string) error
}

// Group is a container of sub-commands sharing one underlying instance.
// The instance's tagged fields are the group's flags; every sub-command
// callback that captures the instance pointer reads and writes the same
// fields the group's flags are bound to. That pointer is the one piece
// of shared mutable state in the design, and a Group must not be
// invoked concurrently with itself or with Reset.
type Group struct {
	// Args holds group-level positionals, accumulated like Command.Args.
	Args []string

	name     string
	flags    *FlagSet
	runner   Runner
	commands map[string]*Command
	order    []string          // command registration order, for help
	aliases  map[string]string // alias -> canonical command name
	hidden   map[string]bool   // hidden sub-command names
	desc     string
	usage    string
	strict   bool
	renderer Renderer
	out      io.Writer
}

// NewGroup builds a Group named name around a pointer to a struct whose
// tagged fields become the group's flags. If the struct implements
// Runner, the group is itself invocable. Hidden names given via
// WithHidden may name flags or sub-commands.
func NewGroup(name string, flags any, opts ...Option) (*Group, error) {
	cfg := buildConfig(opts)
	fs, err := NewFlagSet(flags)
	if err != nil {
		return nil, fmt.Errorf("group %q: %w", name, err)
	}
	desc, err := cfg.applyTo(fs)
	if err != nil {
		return nil, fmt.Errorf("group %q: %w", name, err)
	}
	g := &Group{
		name:     name,
		flags:    fs,
		commands: make(map[string]*Command),
		aliases:  make(map[string]string),
		hidden:   make(map[string]bool),
		desc:     desc,
		usage:    cfg.usage,
		strict:   cfg.strict,
		renderer: cfg.renderer,
		out:      cfg.out,
	}
	if r, ok := flags.(Runner); ok {
		g.runner = r
	}
	for _, h := range cfg.hidden {
		g.hidden[canonical(h)] = true
	}
	if g.usage == "" {
		g.usage = fmt.Sprintf("%s [options] <command>", display(name))
	}
	if g.renderer == nil {
		g.renderer = RenderText
	}
	if g.out == nil {
		g.out = os.Stdout
	}
	fs.Reset()
	return g, nil
}

// MustGroup is NewGroup that panics on a registration error.
func MustGroup(name string, flags any, opts ...Option) *Group {
	g, err := NewGroup(name, flags, opts...)
	if err != nil {
		panic(err)
	}
	return g
}

// Name returns the group's registered name.
func (g *Group) Name() string { return g.name }

// Flags returns the group-level flag set.
func (g *Group) Flags() *FlagSet { return g.flags }

// Command registers a sub-command on the group. The callback usually
// closes over the group's flags struct to read the shared state.
// Sub-commands inherit the group's output writer and renderer unless
// their own options say otherwise.
func (g *Group) Command(name string, flags any, run RunFunc, opts ...Option) (*Command, error) {
	cname := canonical(name)
	if _, ok := g.commands[cname]; ok {
		return nil, fmt.Errorf("group %q: duplicate command %q", g.name, name)
	}
	if _, ok := g.aliases[cname]; ok {
		return nil, fmt.Errorf("group %q: command %q collides with an alias", g.name, name)
	}
	opts = append([]Option{WithOutput(g.out), WithRenderer(g.renderer)}, opts...)
	c, err := NewCommand(name, flags, run, opts...)
	if err != nil {
		return nil, err
	}
	g.commands[cname] = c
	g.order = append(g.order, cname)
	return c, nil
}

// MustCommand is Command that panics on a registration error.
func (g *Group) MustCommand(name string, flags any, run RunFunc, opts ...Option) *Command {
	c, err := g.Command(name, flags, run, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Alias makes a registered command reachable under a second name. Help
// renders the alias next to the canonical name, not as its own entry.
func (g *Group) Alias(alias, target string) error {
	calias, ctarget := canonical(alias), canonical(target)
	if _, ok := g.commands[ctarget]; !ok {
		return fmt.Errorf("group %q: %q is not a command", g.name, target)
	}
	if _, ok := g.commands[calias]; ok {
		return fmt.Errorf("group %q: alias %q collides with a command", g.name, alias)
	}
	if _, ok := g.aliases[calias]; ok {
		return fmt.Errorf("group %q: duplicate alias %q", g.name, alias)
	}
	g.aliases[calias] = ctarget
	return nil
}

// MustAlias is Alias that panics on a registration error.
func (g *Group) MustAlias(alias, target string) {
	if err := g.Alias(alias, target); err != nil {
		panic(err)
	}
}

// Hide removes a sub-command from help listings. It stays invocable by
// exact name.
func (g *Group) Hide(name string) {
	g.hidden[canonical(name)] = true
}

func (g *Group) lookupCommand(token string) *Command {
	name := canonical(token)
	if target, ok := g.aliases[name]; ok {
		name = target
	}
	return g.commands[name]
}

// Invoke scans argv once, left to right. The first non-flag token that
// names a registered sub-command (after alias resolution) binds it;
// every later token the group does not recognize is forwarded verbatim
// to that sub-command's own parse. Before a sub-command is bound an
// unknown flag is a hard error, and --help, -h, or the literal word
// help short-circuits to the group's help screen. At most one
// sub-command resolves per invocation.
func (g *Group) Invoke(ctx context.Context, argv []string) error {
	g.flags.Reset()
	var sub *Command
	var subTokens []string
	for i := 0; i < len(argv); i++ {
		t := argv[i]
		if !isFlagToken(t) {
			if sub != nil {
				subTokens = append(subTokens, t)
				continue
			}
			if t == "help" {
				g.Help()
				return nil
			}
			if c := g.lookupCommand(t); c != nil {
				sub = c
				continue
			}
			g.Args = append(g.Args, t)
			continue
		}
		if t == "--help" || t == "-h" {
			if sub == nil {
				g.Help()
				return nil
			}
			subTokens = append(subTokens, t)
			continue
		}
		name, inline, hasInline := cutFlagToken(t)
		f := g.flags.Lookup(name)
		if f == nil {
			if sub == nil {
				return &UnknownFlagError{Token: t}
			}
			subTokens = append(subTokens, t)
			continue
		}
		if f.Type.Kind == KindBool {
			if hasInline {
				return &BoolValueError{Flag: f.Display(), Value: inline}
			}
			g.flags.toggle(f)
			continue
		}
		raw := inline
		if !hasInline {
			if i+1 >= len(argv) || strings.HasPrefix(argv[i+1], "-") {
				return &MissingValueError{Flag: f.Display()}
			}
			raw = argv[i+1]
			i++
		}
		if err := g.flags.setRaw(f, raw); err != nil {
			return err
		}
	}
	if err := g.flags.finish(g.strict); err != nil {
		return err
	}
	if g.runner != nil {
		if err := g.runner.Run(ctx, g.Args); err != nil {
			return err
		}
	}
	if sub != nil {
		return sub.Invoke(ctx, subTokens)
	}
	if g.runner == nil {
		g.Help()
		return ErrNoCommand
	}
	return nil
}

// Reset restores the group and every sub-command to the post-
// registration state: flag defaults, no collected positionals.
func (g *Group) Reset() {
	g.Args = nil
	g.flags.Reset()
	for _, c := range g.commands {
		c.Reset()
	}
}

// HelpDoc builds the group's help model: group flags plus one summary
// row per visible sub-command, aliases folded into their target's row.
func (g *Group) HelpDoc() *HelpDoc {
	doc := &HelpDoc{
		Description: g.desc,
		Usage:       g.usage,
		Flags:       g.flags.helpFlags(),
	}
	aliasesOf := make(map[string][]string)
	for alias, target := range g.aliases {
		aliasesOf[target] = append(aliasesOf[target], display(alias))
	}
	for _, name := range g.order {
		if g.hidden[name] {
			continue
		}
		c := g.commands[name]
		doc.Commands = append(doc.Commands, CommandHelp{
			Name:    display(name),
			Aliases: aliasesOf[name],
			Summary: summary(c.desc),
		})
	}
	return doc
}

// HelpText renders the group's help screen.
func (g *Group) HelpText() string {
	return g.renderer(g.HelpDoc())
}

// Help prints the help screen to the group's output writer.
func (g *Group) Help() {
	fmt.Fprintln(g.out, g.HelpText())
}
