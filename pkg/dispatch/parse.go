// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dispatch

import "strings"

// ParseResult is the outcome of one parse: resolved flag values keyed
// by canonical name (nil for flags left unset in allow-null mode) and
// the positional tokens in the order they appeared.
type ParseResult struct {
	Values      map[string]any
	Positionals []string
}

// Parse consumes a raw token vector against the set, mutating flag
// values in place. Tokens are scanned left to right, one token (plus,
// for a non-boolean flag given no inline value, the next token) per
// step, with no backtracking.
//
// The set is reset to its defaults first, so repeated parses are
// idempotent. With strict set, a non-boolean flag with neither a value
// nor a default fails with a RequiredFlagError; otherwise it stays nil
// in the result.
func (fs *FlagSet) Parse(tokens []string, strict bool) (*ParseResult, error) {
	fs.Reset()
	res := &ParseResult{}
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		if !isFlagToken(t) {
			res.Positionals = append(res.Positionals, t)
			continue
		}
		name, inline, hasInline := cutFlagToken(t)
		f := fs.Lookup(name)
		if f == nil {
			return nil, &UnknownFlagError{Token: t}
		}
		if f.Type.Kind == KindBool {
			if hasInline {
				return nil, &BoolValueError{Flag: f.Display(), Value: inline}
			}
			fs.toggle(f)
			continue
		}
		raw := inline
		if !hasInline {
			if i+1 >= len(tokens) || strings.HasPrefix(tokens[i+1], "-") {
				return nil, &MissingValueError{Flag: f.Display()}
			}
			raw = tokens[i+1]
			i++
		}
		if err := fs.setRaw(f, raw); err != nil {
			return nil, err
		}
	}
	if err := fs.finish(strict); err != nil {
		return nil, err
	}
	res.Values = fs.Values()
	return res, nil
}

// toggle flips a boolean flag: a declared default is negated, an unset
// flag becomes true, and re-specifying the flag in the same token
// stream flips it again.
func (fs *FlagSet) toggle(f *Flag) {
	cur := false
	if f.value.IsValid() {
		bv := f.value
		if f.Type.ptr {
			bv = bv.Elem()
		}
		cur = bv.Bool()
	} else if !f.hasDefault {
		fs.set(f, boolValue(f.Type, true))
		return
	}
	fs.set(f, boolValue(f.Type, !cur))
}

func (fs *FlagSet) setRaw(f *Flag, raw string) error {
	v, err := f.Type.coerce(raw)
	if err != nil {
		if ce, ok := err.(*ConversionError); ok && ce.Flag == "" {
			ce.Flag = f.Display()
		}
		return err
	}
	fs.set(f, v)
	return nil
}

// finish applies the post-parse completion policy.
func (fs *FlagSet) finish(strict bool) error {
	if !strict {
		return nil
	}
	for _, f := range fs.order {
		if f.explicit || f.hasDefault {
			continue
		}
		if f.Type.Kind == KindBool {
			fs.set(f, boolValue(f.Type, false))
			continue
		}
		return &RequiredFlagError{Flag: f.Display()}
	}
	return nil
}

// isFlagToken reports whether t should be parsed as a flag. A bare "-"
// or "--" is treated as a positional.
func isFlagToken(t string) bool {
	return strings.HasPrefix(t, "-") && strings.TrimLeft(t, "-") != ""
}

// cutFlagToken strips the leading dashes and splits an inline value off
// at the first '='.
func cutFlagToken(t string) (name, inline string, hasInline bool) {
	t = strings.TrimLeft(t, "-")
	return strings.Cut(t, "=")
}
