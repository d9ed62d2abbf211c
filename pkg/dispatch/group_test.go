// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dispatch

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type taskFlags struct {
	File    string `flag:"file" short:"f" help:"Task database"`
	Verbose bool   `flag:"verbose" short:"v" help:"Log more"`
}

type addFlags struct {
	Title string `flag:"title" short:"t" help:"Task title"`
}

func newTaskGroup(t *testing.T) (*Group, *taskFlags, *addFlags, *[]string) {
	t.Helper()
	shared := &taskFlags{}
	add := &addFlags{}
	var ran []string
	g := MustGroup("tasks", shared, WithHelp("Manage tasks."), WithOutput(&bytes.Buffer{}))
	g.MustCommand("add", add, func(ctx context.Context, args []string) error {
		ran = append(ran, "add")
		return nil
	}, WithHelp("Add a task."))
	g.MustCommand("list", nil, func(ctx context.Context, args []string) error {
		ran = append(ran, "list")
		return nil
	}, WithHelp("List tasks."))
	return g, shared, add, &ran
}

func TestGroupDispatch(t *testing.T) {
	g, shared, add, ran := newTaskGroup(t)
	err := g.Invoke(context.Background(),
		[]string{"--file", "db.json", "add", "--title", "buy milk"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"add"}, *ran); diff != "" {
		t.Errorf("dispatch mismatch (-want +got):\n%s", diff)
	}
	if shared.File != "db.json" {
		t.Errorf("File = %q, want db.json", shared.File)
	}
	if add.Title != "buy milk" {
		t.Errorf("Title = %q, want buy milk", add.Title)
	}
}

func TestGroupFlagsAfterSubcommand(t *testing.T) {
	g, shared, add, _ := newTaskGroup(t)
	err := g.Invoke(context.Background(),
		[]string{"add", "--title", "x", "--file", "db.json", "--verbose"})
	if err != nil {
		t.Fatal(err)
	}
	if shared.File != "db.json" || !shared.Verbose {
		t.Errorf("group flags after the sub-command token not consumed: %+v", shared)
	}
	if add.Title != "x" {
		t.Errorf("Title = %q, want x", add.Title)
	}
}

func TestGroupUnknownFlag(t *testing.T) {
	t.Run("before a sub-command binds", func(t *testing.T) {
		g, _, _, ran := newTaskGroup(t)
		err := g.Invoke(context.Background(), []string{"--bogus", "add"})
		var uf *UnknownFlagError
		if !errors.As(err, &uf) {
			t.Fatalf("err = %v, want *UnknownFlagError", err)
		}
		if len(*ran) != 0 {
			t.Error("a sub-command ran despite the group-level error")
		}
	})
	t.Run("after binding is forwarded", func(t *testing.T) {
		g, _, _, _ := newTaskGroup(t)
		err := g.Invoke(context.Background(), []string{"add", "--bogus", "x"})
		var uf *UnknownFlagError
		if !errors.As(err, &uf) {
			t.Fatalf("err = %v, want the sub-command's *UnknownFlagError", err)
		}
		if uf.Token != "--bogus" {
			t.Errorf("Token = %q, want --bogus", uf.Token)
		}
	})
}

func TestGroupPositionalsForwarded(t *testing.T) {
	shared := &taskFlags{}
	var got []string
	g := MustGroup("tasks", shared)
	g.MustCommand("done", nil, func(ctx context.Context, args []string) error {
		got = args
		return nil
	})
	err := g.Invoke(context.Background(), []string{"done", "3", "7"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"3", "7"}, got); diff != "" {
		t.Errorf("forwarded positionals mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupAtMostOneSubcommand(t *testing.T) {
	g, _, _, ran := newTaskGroup(t)
	// "list" after "add" binds is a plain token for add, not a second
	// dispatch.
	err := g.Invoke(context.Background(), []string{"add", "list"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"add"}, *ran); diff != "" {
		t.Errorf("dispatch mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupAlias(t *testing.T) {
	g, _, _, ran := newTaskGroup(t)
	if err := g.Alias("ls", "list"); err != nil {
		t.Fatal(err)
	}
	if err := g.Invoke(context.Background(), []string{"ls"}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"list"}, *ran); diff != "" {
		t.Errorf("dispatch mismatch (-want +got):\n%s", diff)
	}
	text := g.HelpText()
	if !strings.Contains(text, "list, ls") {
		t.Errorf("help text does not fold the alias into the list row:\n%s", text)
	}
	if err := g.Alias("ls", "list"); err == nil {
		t.Error("duplicate alias registered without error")
	}
	if err := g.Alias("rm", "missing"); err == nil {
		t.Error("alias to a missing command registered without error")
	}
}

func TestGroupMustAlias(t *testing.T) {
	g, _, _, ran := newTaskGroup(t)
	g.MustAlias("ls", "list")
	if err := g.Invoke(context.Background(), []string{"ls"}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"list"}, *ran); diff != "" {
		t.Errorf("dispatch mismatch (-want +got):\n%s", diff)
	}
	defer func() {
		if recover() == nil {
			t.Error("MustAlias to a missing command did not panic")
		}
	}()
	g.MustAlias("rm", "missing")
}

func TestGroupHidden(t *testing.T) {
	g, _, _, ran := newTaskGroup(t)
	g.MustCommand("nuke", nil, func(ctx context.Context, args []string) error {
		*ran = append(*ran, "nuke")
		return nil
	})
	g.Hide("nuke")
	if strings.Contains(g.HelpText(), "nuke") {
		t.Errorf("help text lists the hidden command:\n%s", g.HelpText())
	}
	if err := g.Invoke(context.Background(), []string{"nuke"}); err != nil {
		t.Fatalf("hidden command not invocable: %v", err)
	}
	if diff := cmp.Diff([]string{"nuke"}, *ran); diff != "" {
		t.Errorf("dispatch mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupHelp(t *testing.T) {
	tests := []struct {
		name string
		argv []string
	}{
		{"long flag", []string{"--help"}},
		{"short flag", []string{"-h"}},
		{"literal word", []string{"help"}},
		{"before a sub-command binds", []string{"--verbose", "--help", "add"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shared := &taskFlags{}
			var out bytes.Buffer
			g := MustGroup("tasks", shared, WithHelp("Manage tasks."), WithOutput(&out))
			g.MustCommand("add", nil, nopRun, WithHelp("Add a task."))
			if err := g.Invoke(context.Background(), tt.argv); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out.String(), "Manage tasks.") {
				t.Errorf("output %q, want the group help screen", out.String())
			}
		})
	}
}

func TestGroupHelpAfterBindGoesToSubcommand(t *testing.T) {
	shared := &taskFlags{}
	var out bytes.Buffer
	g := MustGroup("tasks", shared, WithOutput(&out))
	called := false
	g.MustCommand("add", nil,
		func(context.Context, []string) error { called = true; return nil },
		WithHelp("Add a task."))
	if err := g.Invoke(context.Background(), []string{"add", "--help"}); err != nil {
		t.Fatal(err)
	}
	if called {
		t.Error("callback ran on --help")
	}
	if !strings.Contains(out.String(), "Add a task.") {
		t.Errorf("output %q, want the sub-command help screen", out.String())
	}
}

func TestGroupNoCommand(t *testing.T) {
	var out bytes.Buffer
	g := MustGroup("tasks", &taskFlags{}, WithOutput(&out))
	g.MustCommand("add", nil, nopRun)
	err := g.Invoke(context.Background(), []string{"--verbose"})
	if !errors.Is(err, ErrNoCommand) {
		t.Fatalf("err = %v, want ErrNoCommand", err)
	}
	if out.Len() == 0 {
		t.Error("no help printed alongside ErrNoCommand")
	}
	if !IsUserError(err) {
		t.Error("ErrNoCommand not classified as a user error")
	}
}

type runnableGroup struct {
	Verbose bool `flag:"verbose"`

	calls int
}

func (r *runnableGroup) Run(ctx context.Context, args []string) error {
	r.calls++
	return nil
}

func TestGroupRunner(t *testing.T) {
	t.Run("no sub-command", func(t *testing.T) {
		rg := &runnableGroup{}
		g := MustGroup("top", rg)
		if err := g.Invoke(context.Background(), []string{"--verbose"}); err != nil {
			t.Fatal(err)
		}
		if rg.calls != 1 {
			t.Errorf("calls = %d, want 1", rg.calls)
		}
	})
	t.Run("runs before the sub-command", func(t *testing.T) {
		rg := &runnableGroup{}
		g := MustGroup("top", rg)
		var order []string
		g.MustCommand("sub", nil, func(context.Context, []string) error {
			order = append(order, "sub")
			return nil
		})
		if err := g.Invoke(context.Background(), []string{"sub"}); err != nil {
			t.Fatal(err)
		}
		if rg.calls != 1 {
			t.Errorf("calls = %d, want 1", rg.calls)
		}
		if diff := cmp.Diff([]string{"sub"}, order); diff != "" {
			t.Errorf("order mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestGroupValueConsumesNextTokenEvenIfCommand(t *testing.T) {
	g, shared, _, ran := newTaskGroup(t)
	// "add" here is --file's value, then "list" dispatches.
	err := g.Invoke(context.Background(), []string{"--file", "add", "list"})
	if err != nil {
		t.Fatal(err)
	}
	if shared.File != "add" {
		t.Errorf("File = %q, want add", shared.File)
	}
	if diff := cmp.Diff([]string{"list"}, *ran); diff != "" {
		t.Errorf("dispatch mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupReset(t *testing.T) {
	g, shared, _, _ := newTaskGroup(t)
	if err := g.Invoke(context.Background(), []string{"--file", "db.json", "stray", "list"}); err != nil {
		t.Fatal(err)
	}
	if len(g.Args) != 1 || g.Args[0] != "stray" {
		t.Fatalf("Args = %v, want [stray]", g.Args)
	}
	g.Reset()
	if len(g.Args) != 0 {
		t.Errorf("Args after Reset = %v, want empty", g.Args)
	}
	if shared.File != "" {
		t.Errorf("File after Reset = %q, want zeroed", shared.File)
	}
}
