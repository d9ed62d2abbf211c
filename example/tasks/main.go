// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The tasks command is a worked example: a small todo manager built on
// the dispatch package. It shows group-level flags shared across
// sub-commands, doc-comment annotations, env and config-file defaults,
// and the standard error-to-exit-status mapping.
//
// Usage:
//
//	tasks add --labels chores,home buy milk
//	tasks list --all
//	tasks done 9b2d
//	tasks --file other.toml clear
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"github.com/yeetrun/dispatch/pkg/cmdutil"
	"github.com/yeetrun/dispatch/pkg/dispatch"
	"github.com/yeetrun/dispatch/pkg/env"
	"github.com/yeetrun/dispatch/pkg/tui"
)

// storeVersion is written into new task files; files from other major
// versions are rejected on load.
var storeVersion = semver.MustParse("1.0.0")

type task struct {
	ID      uuid.UUID `toml:"id"`
	Title   string    `toml:"title"`
	Labels  []string  `toml:"labels,omitempty"`
	Done    bool      `toml:"done"`
	Created time.Time `toml:"created"`
}

type store struct {
	Version string `toml:"version"`
	Tasks   []task `toml:"tasks"`
}

type rootFlags struct {
	File  string `flag:"file" short:"f" help:"Path to the task file" default:"tasks.toml"`
	Color bool   `flag:"color" help:"Colorize output" default:"true"`
}

type addFlags struct {
	Labels []string `flag:"labels"`
}

type listFlags struct {
	All bool `flag:"all"`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	root := &rootFlags{}
	add := &addFlags{}
	list := &listFlags{}
	col := tui.NewColorizer(os.Stderr)

	defaults, err := loadDefaults()
	if err != nil {
		return cmdutil.ExitCode(os.Stderr, col, err)
	}

	g := dispatch.MustGroup("tasks", root,
		dispatch.WithHelp("Manage a todo list kept in a TOML file."),
		dispatch.WithDefaults(defaults))

	g.MustCommand("add", add, func(ctx context.Context, args []string) error {
		if len(args) == 0 {
			return errors.New("add needs a title")
		}
		return withStore(root.File, func(s *store) error {
			s.Tasks = append(s.Tasks, task{
				ID:      uuid.New(),
				Title:   strings.Join(args, " "),
				Labels:  add.Labels,
				Created: time.Now().UTC(),
			})
			return nil
		})
	}, dispatch.WithDoc(`
Add a task. The positional arguments form the title.

:l labels: Comma-separated labels to attach.
`))

	g.MustCommand("list", list, func(ctx context.Context, args []string) error {
		s, err := loadStore(root.File)
		if err != nil {
			return err
		}
		out := tui.Colorizer{Enabled: root.Color && col.Enabled}
		for _, t := range s.Tasks {
			if t.Done && !list.All {
				continue
			}
			line := fmt.Sprintf("%s  %s", shortID(t.ID), t.Title)
			if len(t.Labels) > 0 {
				line += out.Dim("  [" + strings.Join(t.Labels, ",") + "]")
			}
			if t.Done {
				line = out.Dim(line)
			}
			fmt.Println(line)
		}
		return nil
	}, dispatch.WithDoc(`
List open tasks.

:a all: Include completed tasks.
`))
	g.MustAlias("ls", "list")

	g.MustCommand("done", nil, func(ctx context.Context, args []string) error {
		if len(args) != 1 {
			return errors.New("done needs exactly one task id")
		}
		return withStore(root.File, func(s *store) error {
			for i, t := range s.Tasks {
				if strings.HasPrefix(t.ID.String(), strings.ToLower(args[0])) {
					s.Tasks[i].Done = true
					return nil
				}
			}
			return fmt.Errorf("no task matches %q", args[0])
		})
	}, dispatch.WithHelp("Mark a task as done, by id prefix."))

	g.MustCommand("clear", nil, func(ctx context.Context, args []string) error {
		ok, err := cmdutil.Confirm(os.Stdin, os.Stderr, "Delete every task?")
		if err != nil || !ok {
			return err
		}
		return withStore(root.File, func(s *store) error {
			s.Tasks = nil
			return nil
		})
	}, dispatch.WithHelp("Delete all tasks."))

	err = g.Invoke(context.Background(), argv)
	return cmdutil.ExitCode(os.Stderr, col, err)
}

// loadDefaults layers flag defaults from an optional TOML config file
// (TASKS_CONFIG) and the environment. Command-line flags still win.
func loadDefaults() (map[string]any, error) {
	defaults := map[string]any{}
	if path := os.Getenv("TASKS_CONFIG"); path != "" {
		var cfg struct {
			File  string `toml:"file"`
			Color *bool  `toml:"color"`
		}
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
		if cfg.File != "" {
			defaults["file"] = cfg.File
		}
		if cfg.Color != nil {
			defaults["color"] = *cfg.Color
		}
	}
	for flag, v := range env.Overrides(map[string]string{"file": "TASKS_FILE"}) {
		defaults[flag] = v
	}
	return defaults, nil
}

func loadStore(path string) (*store, error) {
	s := &store{Version: storeVersion.String()}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	v, err := semver.NewVersion(s.Version)
	if err != nil {
		return nil, fmt.Errorf("%s: bad version %q", path, s.Version)
	}
	if v.Major() != storeVersion.Major() {
		return nil, fmt.Errorf("%s: version %s is not compatible with %s", path, v, storeVersion)
	}
	return s, nil
}

func withStore(path string, fn func(*store) error) error {
	s, err := loadStore(path)
	if err != nil {
		return err
	}
	if err := fn(s); err != nil {
		return err
	}
	s.Version = storeVersion.String()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(s); err != nil {
		return err
	}
	return f.Close()
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
