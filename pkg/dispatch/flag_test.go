// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dispatch

import (
	"strings"
	"testing"
	"time"
)

func TestNewFlagSetIntrospection(t *testing.T) {
	type flags struct {
		Name      string        `flag:"name" short:"n" help:"Who to greet"`
		MultiWord bool          `help:"Untagged fields get snake_case names"`
		Timeout   time.Duration `default:"30s"`
		Level     int           `flag:"-"`
		hidden    string        // unexported, skipped
	}
	_ = flags{}.hidden
	fs, err := NewFlagSet(&flags{})
	if err != nil {
		t.Fatal(err)
	}
	if fs.Len() != 3 {
		t.Fatalf("Len = %d, want 3", fs.Len())
	}
	if f := fs.Lookup("name"); f == nil || f.Shorthand != "n" || f.Help != "Who to greet" {
		t.Errorf("name flag = %+v, want shorthand n with help", f)
	}
	if f := fs.Lookup("multi_word"); f == nil {
		t.Error("untagged field MultiWord did not become multi_word")
	}
	if f := fs.Lookup("multi-word"); f == nil {
		t.Error("dashed lookup multi-word did not resolve")
	}
	f := fs.Lookup("timeout")
	if f == nil || !f.HasDefault() {
		t.Fatalf("timeout flag = %+v, want a default", f)
	}
	fs.Reset()
	if got := f.Value(); got != 30*time.Second {
		t.Errorf("timeout default = %v, want 30s", got)
	}
	if fs.Lookup("level") != nil {
		t.Error(`flag:"-" field was not skipped`)
	}
}

func TestNewFlagSetErrors(t *testing.T) {
	t.Run("not a pointer", func(t *testing.T) {
		if _, err := NewFlagSet(struct{ X int }{}); err == nil {
			t.Fatal("NewFlagSet succeeded on a non-pointer")
		}
	})
	t.Run("unsupported field type", func(t *testing.T) {
		type flags struct {
			C chan int
		}
		if _, err := NewFlagSet(&flags{}); err == nil {
			t.Fatal("NewFlagSet succeeded with a chan field")
		}
	})
	t.Run("duplicate name", func(t *testing.T) {
		type flags struct {
			A string `flag:"x"`
			B string `flag:"x"`
		}
		if _, err := NewFlagSet(&flags{}); err == nil {
			t.Fatal("NewFlagSet succeeded with duplicate flag names")
		}
	})
	t.Run("bad default", func(t *testing.T) {
		type flags struct {
			N int `default:"joe"`
		}
		if _, err := NewFlagSet(&flags{}); err == nil {
			t.Fatal("NewFlagSet succeeded with an uncoercible default")
		}
	})
	t.Run("reserved shorthand", func(t *testing.T) {
		type flags struct {
			Host string `short:"h"`
		}
		_, err := NewFlagSet(&flags{})
		if err == nil || !strings.Contains(err.Error(), "reserved") {
			t.Fatalf("err = %v, want reserved shorthand error", err)
		}
	})
	t.Run("shorthand collision", func(t *testing.T) {
		type flags struct {
			Name string `short:"n"`
			Num  int    `short:"n"`
		}
		if _, err := NewFlagSet(&flags{}); err == nil {
			t.Fatal("NewFlagSet succeeded with colliding shorthands")
		}
	})
	t.Run("multi-character shorthand", func(t *testing.T) {
		type flags struct {
			Name string `short:"na"`
		}
		if _, err := NewFlagSet(&flags{}); err == nil {
			t.Fatal("NewFlagSet succeeded with a two-character shorthand")
		}
	})
}

func TestFlagSetMirrorsStruct(t *testing.T) {
	type flags struct {
		Name string `flag:"name"`
		Port int    `default:"8080"`
	}
	bound := &flags{}
	fs, err := NewFlagSet(bound)
	if err != nil {
		t.Fatal(err)
	}
	fs.Reset()
	if bound.Port != 8080 {
		t.Errorf("Port after Reset = %d, want default 8080", bound.Port)
	}
	if _, err := fs.Parse([]string{"--name", "joe", "--port", "9090"}, false); err != nil {
		t.Fatal(err)
	}
	if bound.Name != "joe" || bound.Port != 9090 {
		t.Errorf("struct = %+v, want Name=joe Port=9090", bound)
	}
	fs.Reset()
	if bound.Name != "" || bound.Port != 8080 {
		t.Errorf("struct after Reset = %+v, want zeroed Name and default Port", bound)
	}
}

func TestSnake(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Name", "name"},
		{"MultiWord", "multi_word"},
		{"DryRun", "dry_run"},
		{"lower", "lower"},
	}
	for _, tt := range tests {
		if got := snake(tt.in); got != tt.want {
			t.Errorf("snake(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
