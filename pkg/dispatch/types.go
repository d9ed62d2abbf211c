// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dispatch

import (
	"encoding"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Kind is the closed set of value kinds a flag can have. The kind is
// decided once, at registration time, from the declared Go type of the
// flag's field; it never changes during a parse.
type Kind int

const (
	KindBool Kind = iota
	KindString
	KindInt
	KindUint
	KindFloat
	KindComplex
	KindDuration
	KindList          // a slice of a scalar element type
	KindSet           // map[T]struct{}
	KindMap           // map[K]V
	KindConstructible // a type that parses itself (encoding.TextUnmarshaler, url.URL)
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindComplex:
		return "complex"
	case KindDuration:
		return "duration"
	case KindList:
		return "list"
	case KindSet:
		return "set"
	case KindMap:
		return "map"
	case KindConstructible:
		return "constructible"
	}
	return "unknown"
}

var (
	durationType        = reflect.TypeOf(time.Duration(0))
	urlType             = reflect.TypeOf(url.URL{})
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// Type describes the declared type of a flag: a kind tag plus the
// concrete Go type values are built as. Container types carry the
// element (and key) types.
type Type struct {
	Kind Kind
	rt   reflect.Type
	ptr  bool // declared as a pointer; nil means "not set"

	elem *Type // List/Set element
	key  *Type // Map key
	val  *Type // Map value
}

// GoType returns the concrete Go type values of this Type have.
func (t Type) GoType() reflect.Type { return t.rt }

// TypeOf derives a Type from a Go type. It fails for types outside the
// supported set; that failure is a registration-time developer error.
func TypeOf(rt reflect.Type) (Type, error) {
	ptr := false
	if rt.Kind() == reflect.Ptr {
		ptr = true
		rt = rt.Elem()
	}
	t, err := scalarOrContainer(rt)
	if err != nil {
		return Type{}, err
	}
	t.ptr = ptr
	return t, nil
}

// TypeFor is the generic convenience form of TypeOf. It panics on an
// unsupported type, which is always a programming mistake.
func TypeFor[T any]() Type {
	t, err := TypeOf(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		panic(err)
	}
	return t
}

func scalarOrContainer(rt reflect.Type) (Type, error) {
	if rt == durationType {
		return Type{Kind: KindDuration, rt: rt}, nil
	}
	if rt == urlType || reflect.PtrTo(rt).Implements(textUnmarshalerType) {
		return Type{Kind: KindConstructible, rt: rt}, nil
	}
	switch rt.Kind() {
	case reflect.Bool:
		return Type{Kind: KindBool, rt: rt}, nil
	case reflect.String:
		return Type{Kind: KindString, rt: rt}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Type{Kind: KindInt, rt: rt}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Type{Kind: KindUint, rt: rt}, nil
	case reflect.Float32, reflect.Float64:
		return Type{Kind: KindFloat, rt: rt}, nil
	case reflect.Complex64, reflect.Complex128:
		return Type{Kind: KindComplex, rt: rt}, nil
	case reflect.Slice:
		elem, err := scalarOrContainer(rt.Elem())
		if err != nil {
			return Type{}, fmt.Errorf("unsupported list element type %s: %w", rt.Elem(), err)
		}
		return Type{Kind: KindList, rt: rt, elem: &elem}, nil
	case reflect.Map:
		key, err := scalarOrContainer(rt.Key())
		if err != nil {
			return Type{}, fmt.Errorf("unsupported map key type %s: %w", rt.Key(), err)
		}
		if rt.Elem() == reflect.TypeOf(struct{}{}) {
			return Type{Kind: KindSet, rt: rt, elem: &key}, nil
		}
		val, err := scalarOrContainer(rt.Elem())
		if err != nil {
			return Type{}, fmt.Errorf("unsupported map value type %s: %w", rt.Elem(), err)
		}
		return Type{Kind: KindMap, rt: rt, key: &key, val: &val}, nil
	}
	return Type{}, fmt.Errorf("unsupported flag type %s", rt)
}

// Coerce converts a raw string token into a value of type t. It is a
// pure function; the only failure mode is a *ConversionError.
//
// Container syntax: one optional layer of [] or {} brackets, elements
// separated by commas. Map entries are key:value pairs; a duplicate key
// is not an error, the last write wins.
func Coerce(raw string, t Type) (any, error) {
	v, err := t.coerce(raw)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func (t Type) coerce(raw string) (reflect.Value, error) {
	v, err := t.coerceBase(raw)
	if err != nil {
		return reflect.Value{}, err
	}
	if t.ptr {
		p := reflect.New(t.rt)
		p.Elem().Set(v)
		return p, nil
	}
	return v, nil
}

func (t Type) coerceBase(raw string) (reflect.Value, error) {
	fail := func(err error) (reflect.Value, error) {
		return reflect.Value{}, &ConversionError{Value: raw, Type: t.Kind.String(), Err: err}
	}
	switch t.Kind {
	case KindString:
		return reflect.ValueOf(raw).Convert(t.rt), nil
	case KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fail(err)
		}
		return reflect.ValueOf(b).Convert(t.rt), nil
	case KindInt:
		i, err := strconv.ParseInt(raw, 10, t.rt.Bits())
		if err != nil {
			return fail(err)
		}
		return reflect.ValueOf(i).Convert(t.rt), nil
	case KindUint:
		u, err := strconv.ParseUint(raw, 10, t.rt.Bits())
		if err != nil {
			return fail(err)
		}
		return reflect.ValueOf(u).Convert(t.rt), nil
	case KindFloat:
		f, err := strconv.ParseFloat(raw, t.rt.Bits())
		if err != nil {
			return fail(err)
		}
		return reflect.ValueOf(f).Convert(t.rt), nil
	case KindComplex:
		c, err := strconv.ParseComplex(raw, t.rt.Bits())
		if err != nil {
			return fail(err)
		}
		return reflect.ValueOf(c).Convert(t.rt), nil
	case KindDuration:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fail(err)
		}
		return reflect.ValueOf(d), nil
	case KindList:
		parts := splitContainer(raw)
		slice := reflect.MakeSlice(t.rt, 0, len(parts))
		for _, p := range parts {
			ev, err := t.elem.coerceBase(p)
			if err != nil {
				return reflect.Value{}, err
			}
			slice = reflect.Append(slice, ev)
		}
		return slice, nil
	case KindSet:
		set := reflect.MakeMap(t.rt)
		for _, p := range splitContainer(raw) {
			kv, err := t.elem.coerceBase(p)
			if err != nil {
				return reflect.Value{}, err
			}
			set.SetMapIndex(kv, reflect.ValueOf(struct{}{}))
		}
		return set, nil
	case KindMap:
		m := reflect.MakeMap(t.rt)
		for _, p := range splitContainer(raw) {
			ks, vs, ok := strings.Cut(p, ":")
			if !ok {
				return fail(fmt.Errorf("entry %q is not a key:value pair", p))
			}
			kv, err := t.key.coerceBase(ks)
			if err != nil {
				return reflect.Value{}, err
			}
			vv, err := t.val.coerceBase(vs)
			if err != nil {
				return reflect.Value{}, err
			}
			m.SetMapIndex(kv, vv)
		}
		return m, nil
	case KindConstructible:
		if t.rt == urlType {
			u, err := url.Parse(raw)
			if err != nil {
				return fail(err)
			}
			return reflect.ValueOf(*u), nil
		}
		nv := reflect.New(t.rt)
		if err := nv.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(raw)); err != nil {
			return fail(err)
		}
		return nv.Elem(), nil
	}
	return fail(fmt.Errorf("unsupported kind"))
}

// splitContainer strips one layer of bracket characters and splits on
// commas. An empty body yields no elements.
func splitContainer(raw string) []string {
	raw = strings.Trim(raw, "[]{}")
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

// boolValue builds a value of a boolean-kinded Type.
func boolValue(t Type, b bool) reflect.Value {
	v := reflect.ValueOf(b).Convert(t.rt)
	if t.ptr {
		p := reflect.New(t.rt)
		p.Elem().Set(v)
		return p
	}
	return v
}

// assignable reports whether v can be stored directly as a value of
// type t, without string coercion. Already-typed values pass through
// unchanged (coercion is idempotent over typed input). Conversions are
// allowed only within t's kind, so an int64 default can narrow to an
// int flag but a float or int never silently becomes a string; strings
// always take the coercion path instead.
func (t Type) assignable(v any) (reflect.Value, bool) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return reflect.Value{}, false
	}
	want := t.rt
	if t.ptr {
		want = reflect.PtrTo(t.rt)
	}
	if rv.Type() == want {
		return rv, true
	}
	st, err := TypeOf(rv.Type())
	if err != nil || st.Kind != t.Kind || st.Kind == KindString {
		return reflect.Value{}, false
	}
	if rv.Type().ConvertibleTo(want) {
		return rv.Convert(want), true
	}
	return reflect.Value{}, false
}
