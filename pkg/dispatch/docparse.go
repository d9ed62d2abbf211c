// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dispatch

import "strings"

// FlagDoc is one flag's annotation from a doc comment.
type FlagDoc struct {
	Shorthand string
	Help      string
}

// ParseDoc splits a free-text doc comment into a description and a map
// of per-flag annotations. The annotation block starts at the first
// colon; each of its lines has the form
//
//	:name: help text
//	:n name: help text
//
// with one or two whitespace-separated names before the second colon.
// Two names mean shorthand then canonical name. Lines inside the block
// that do not start with a colon are ignored, so annotations may be
// separated by blank lines or prose.
//
// Known limitation, inherited from the original grammar: a literal
// colon in the description starts the annotation block early. Keep
// colons out of descriptions or pass the description separately.
//
// An empty doc yields ("", nil).
func ParseDoc(doc string) (string, map[string]FlagDoc) {
	if doc == "" {
		return "", nil
	}
	var desc string
	var flags map[string]FlagDoc
	if strings.Count(doc, ":") < 2 {
		desc = doc
	} else {
		i := strings.Index(doc, ":")
		desc = doc[:i]
		flags = parseFlagsDoc(doc[i:])
	}

	var lines []string
	for _, l := range strings.Split(desc, "\n") {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		lines = append(lines, l)
	}
	return strings.Join(lines, "\n"), flags
}

func parseFlagsDoc(doc string) map[string]FlagDoc {
	res := make(map[string]FlagDoc)
	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, ":") {
			continue
		}
		var parts []string
		for _, p := range strings.Split(line, ":") {
			if p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) == 0 {
			continue
		}
		names := strings.Fields(parts[0])
		help := ""
		if len(parts) >= 2 {
			help = strings.TrimSpace(parts[1])
		}
		switch len(names) {
		case 1:
			res[canonical(names[0])] = FlagDoc{Help: help}
		case 2:
			res[canonical(names[1])] = FlagDoc{Shorthand: names[0], Help: help}
		}
	}
	return res
}
