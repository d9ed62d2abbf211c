// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dispatch

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
)

// Flag is one named, typed command-line option. A Flag is owned by
// exactly one FlagSet; the set indexes it under both its canonical name
// and its shorthand, so a mutation through either key is visible
// through the other.
type Flag struct {
	Name      string // canonical name, underscores
	Shorthand string // single character, or ""
	Help      string
	Type      Type
	Hidden    bool

	field      int // index into the bound struct, -1 when unbound
	def        reflect.Value
	hasDefault bool
	value      reflect.Value
	explicit   bool // set by a token during the current parse
}

// HasDefault reports whether the flag declared a default value.
func (f *Flag) HasDefault() bool { return f.hasDefault }

// Value returns the flag's current value, or nil when it is unset.
func (f *Flag) Value() any {
	if !f.value.IsValid() {
		return nil
	}
	return f.value.Interface()
}

// Display returns the name as rendered in help and error text, with
// underscores shown as dashes.
func (f *Flag) Display() string { return display(f.Name) }

func (f *Flag) setDefault(v any) error {
	if rv, ok := f.Type.assignable(v); ok {
		f.def = rv
		f.hasDefault = true
		return nil
	}
	if s, ok := v.(string); ok {
		rv, err := f.Type.coerce(s)
		if err != nil {
			return fmt.Errorf("bad default for flag %q: %w", f.Display(), err)
		}
		f.def = rv
		f.hasDefault = true
		return nil
	}
	return fmt.Errorf("default for flag %q has incompatible type %T", f.Display(), v)
}

// FlagSet is the ordered collection of flags belonging to one command
// or group, optionally bound to the fields of a struct. Insertion order
// follows field declaration order so help renders deterministically.
type FlagSet struct {
	order []*Flag
	index map[string]*Flag
	strct reflect.Value // bound struct, or the zero Value
}

// NewFlagSet derives a FlagSet from a pointer to a struct. Exported
// fields become flags in declaration order; the field's declared type
// fixes the flag's Type for its lifetime. Recognized tags:
//
//	flag:"name"     canonical name (default: snake_case of the field name)
//	flag:"-"        skip the field
//	short:"x"       single-character shorthand
//	help:"text"     help text
//	default:"raw"   default value, coerced at registration time
//
// A nil v yields an empty set.
func NewFlagSet(v any) (*FlagSet, error) {
	fs := &FlagSet{index: make(map[string]*Flag)}
	if v == nil {
		return fs, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("flags must be a pointer to a struct, got %T", v)
	}
	fs.strct = rv.Elem()
	rt := fs.strct.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Tag.Get("flag")
		if name == "-" {
			continue
		}
		if name == "" {
			name = snake(field.Name)
		}
		typ, err := TypeOf(field.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		f := &Flag{
			Name:  canonical(name),
			Help:  field.Tag.Get("help"),
			Type:  typ,
			field: i,
		}
		if def := field.Tag.Get("default"); def != "" {
			if err := f.setDefault(def); err != nil {
				return nil, err
			}
		}
		if err := fs.add(f); err != nil {
			return nil, err
		}
		if short := field.Tag.Get("short"); short != "" {
			if err := fs.setShorthand(f.Name, short); err != nil {
				return nil, err
			}
		}
	}
	return fs, nil
}

func (fs *FlagSet) add(f *Flag) error {
	if _, ok := fs.index[f.Name]; ok {
		return fmt.Errorf("duplicate flag %q", f.Display())
	}
	fs.order = append(fs.order, f)
	fs.index[f.Name] = f
	return nil
}

// setShorthand registers (or replaces) the shorthand for a named flag.
// The character 'h' is reserved for the synthesized help flag.
func (fs *FlagSet) setShorthand(name, short string) error {
	f, ok := fs.index[canonical(name)]
	if !ok {
		return fmt.Errorf("%s is not a flag", name)
	}
	if len(short) != 1 {
		return fmt.Errorf("shorthand for %q must be one character, got %q", f.Display(), short)
	}
	if short == "h" && f.Name != "help" {
		return fmt.Errorf("cannot use 'h' as shorthand (reserved for --help)")
	}
	if prev, ok := fs.index[short]; ok && prev != f {
		return fmt.Errorf("shorthand %q already taken by flag %q", short, prev.Display())
	}
	if f.Shorthand != "" {
		delete(fs.index, f.Shorthand)
	}
	f.Shorthand = short
	fs.index[short] = f
	return nil
}

// Lookup finds a flag by canonical name, dashed name, or shorthand.
func (fs *FlagSet) Lookup(name string) *Flag {
	return fs.index[canonical(name)]
}

// Flags returns the flags in insertion order.
func (fs *FlagSet) Flags() []*Flag { return fs.order }

// Len returns the number of flags in the set.
func (fs *FlagSet) Len() int { return len(fs.order) }

func (fs *FlagSet) visible() []*Flag {
	var out []*Flag
	for _, f := range fs.order {
		if f.Hidden {
			continue
		}
		out = append(out, f)
	}
	return out
}

// set stores a parsed value on the flag and mirrors it into the bound
// struct field, if any.
func (fs *FlagSet) set(f *Flag, v reflect.Value) {
	f.value = v
	f.explicit = true
	fs.apply(f)
}

func (fs *FlagSet) apply(f *Flag) {
	if !fs.strct.IsValid() || f.field < 0 {
		return
	}
	field := fs.strct.Field(f.field)
	if f.value.IsValid() {
		field.Set(f.value)
	} else {
		field.Set(reflect.Zero(field.Type()))
	}
}

// Reset returns every flag to its default (or unset) state. Each parse
// starts from a freshly reset set so repeated invocations are
// idempotent.
func (fs *FlagSet) Reset() {
	for _, f := range fs.order {
		f.explicit = false
		if f.hasDefault {
			f.value = f.def
		} else {
			f.value = reflect.Value{}
		}
		fs.apply(f)
	}
}

// Values returns the current flag values keyed by canonical name.
// Unset flags map to nil.
func (fs *FlagSet) Values() map[string]any {
	out := make(map[string]any, len(fs.order))
	for _, f := range fs.order {
		out[f.Name] = f.Value()
	}
	return out
}

// canonical maps dashed spellings onto the underscore form used as the
// flag's identity, so --multi-word-flag and multi_word_flag agree.
func canonical(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

func display(name string) string {
	return strings.ReplaceAll(name, "_", "-")
}

// snake converts a Go field name to its snake_case flag name.
func snake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
