// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dispatch turns plain Go functions and structs into
// command-line interfaces: flag sets are derived from struct tags,
// commands bind callbacks to those sets, and groups collect commands
// under shared flags with automatic help screens.
//
// The design follows a few rules:
//   - Registration-time validation. Bad shorthand, unknown override
//     names, and unsupported field types fail in the constructor, never
//     mid-parse.
//   - Flags can appear anywhere in the token stream, before or after
//     positionals and sub-command names.
//   - Booleans toggle. They never consume a value; --flag negates the
//     declared default (or turns an unset flag on), and giving the flag
//     twice toggles it again.
//   - Deterministic help. Flags render in declaration order, commands
//     in registration order, with a synthesized -h/--help entry last.
//
// # Commands
//
// A command binds a callback to a flag struct:
//
//	type Flags struct {
//	    Name  string `flag:"name" short:"n" help:"Who to greet"`
//	    Shout bool   `help:"Greet loudly"`
//	}
//
//	flags := &Flags{}
//	cmd := dispatch.MustCommand("greet", flags, func(ctx context.Context, args []string) error {
//	    fmt.Println("hello,", flags.Name)
//	    return nil
//	})
//	err := cmd.Invoke(ctx, os.Args[1:])
//
// Untagged exported fields still become flags, named by the snake_case
// of the field name; --multi-word-flag and multi_word_flag refer to the
// same flag.
//
// # Groups
//
// A group shares one flags struct across sub-commands. Callbacks close
// over the struct pointer, so group-level flags parsed from anywhere in
// the command line are visible to whichever sub-command runs:
//
//	type Tasks struct {
//	    File string `flag:"file" short:"f" help:"Task database"`
//	}
//
//	tasks := &Tasks{}
//	g := dispatch.MustGroup("tasks", tasks)
//	g.MustCommand("add", addFlags, runAdd)
//	g.MustCommand("list", nil, runList)
//	g.Alias("ls", "list")
//	err := g.Invoke(ctx, os.Args[1:])
//
// The first non-flag token naming a sub-command binds it; tokens the
// group does not recognize after that point are forwarded verbatim to
// the sub-command's own parse.
//
// # Doc comments
//
// Descriptions and per-flag annotations can come from one free-text doc
// comment instead of tags:
//
//	dispatch.MustCommand("greet", flags, run, dispatch.WithDoc(`
//	    Greet someone by name.
//
//	    :n name: Who to greet.
//	    :shout: Greet loudly.
//	`))
//
// # Supported types
//
// Flag fields may be bool, string, the signed and unsigned integer
// types, float32/float64, complex64/complex128, time.Duration, url.URL,
// any type whose pointer implements encoding.TextUnmarshaler, slices of
// these, map[T]struct{} sets, and maps. Container values are written as
// comma-separated elements with one optional layer of [] or {}
// brackets; map entries are key:value pairs and the last write to a key
// wins. Pointer fields distinguish "not given" (nil) from "given".
//
// # Errors
//
// Failures caused by user input (unknown flag, missing value, bad
// conversion) come back as typed errors recognized by IsUserError;
// hosts print those and exit non-zero. Everything else is a
// programming mistake surfaced at registration.
package dispatch
