// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package block

import "strconv"

// TokenKind is an enumeration of the closed set of block token variants.
type TokenKind uint8

const (
	// BlankLineKind marks one or more lines containing only whitespace.
	BlankLineKind TokenKind = 1 + iota
	// ThematicBreakKind is a horizontal rule. It has no children.
	ThematicBreakKind
	// HeadingKind is an ATX (`#`) or setext (`===`/`---`) heading.
	// Attrs["level"] holds the 1-6 heading level. Carries Text.
	HeadingKind
	// BlockCodeKind is an indented or fenced code block.
	// Carries Raw; if fenced, Attrs["info"] holds the (unescaped) info string.
	BlockCodeKind
	// ParagraphKind is a run of text lines. Carries Text. Never emitted empty.
	ParagraphKind
	// BlockTextKind is a ParagraphKind demoted by [Render] because its
	// parent list item is tight. Carries Text.
	BlockTextKind
	// BlockQuoteKind is a `>` block quote. Carries Children.
	BlockQuoteKind
	// ListKind is an ordered or unordered list.
	// Attrs holds "ordered", "start" (ordered lists only), "depth", "tight".
	// Carries Children, all of ListItemKind.
	ListKind
	// ListItemKind is one item of a ListKind. Attrs holds "depth" and
	// "tight"; StartLine/EndLine record its source extent. Carries Children.
	ListItemKind
	// BlockHTMLKind is a raw HTML block. Carries Raw.
	BlockHTMLKind
)

// String returns the Go identifier-style name of the kind, e.g. "ParagraphKind".
func (k TokenKind) String() string {
	switch k {
	case BlankLineKind:
		return "BlankLineKind"
	case ThematicBreakKind:
		return "ThematicBreakKind"
	case HeadingKind:
		return "HeadingKind"
	case BlockCodeKind:
		return "BlockCodeKind"
	case ParagraphKind:
		return "ParagraphKind"
	case BlockTextKind:
		return "BlockTextKind"
	case BlockQuoteKind:
		return "BlockQuoteKind"
	case ListKind:
		return "ListKind"
	case ListItemKind:
		return "ListItemKind"
	case BlockHTMLKind:
		return "BlockHTMLKind"
	default:
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Token is a single node in the block tree produced by [Parser.ParseDocument].
//
// At most one of Text, Raw, or Children is meaningful for a given Kind;
// see the TokenKind constants for which.
type Token struct {
	Kind TokenKind

	// Text is unparsed inline Markdown content (paragraph, heading, block_text).
	// The inline pass replaces it with Children during [Render].
	Text string
	// Raw is source content (code blocks, HTML blocks). Fenced code and
	// HTML blocks carry it verbatim; indented code carries it
	// HTML-escaped.
	Raw string
	// Fenced reports whether a BlockCodeKind token came from a fenced
	// code block rather than an indented one.
	Fenced bool
	// Attrs holds kind-specific named options, e.g. "level", "info",
	// "ordered", "start", "depth", "tight".
	Attrs map[string]any
	// Children holds nested tokens (block_quote, list, list_item) or,
	// after [Render], the inline children of a text-bearing token.
	Children []*Token

	// StartLine and EndLine are 1-based source line numbers, populated for
	// ListItemKind only.
	StartLine int
	EndLine   int
}

// Level returns Attrs["level"] for a HeadingKind token, or 0 otherwise.
func (t *Token) Level() int {
	if t == nil || t.Kind != HeadingKind {
		return 0
	}
	lvl, _ := t.Attrs["level"].(int)
	return lvl
}

// IsOrderedList reports whether t is a ListKind token for an ordered list.
func (t *Token) IsOrderedList() bool {
	if t == nil || t.Kind != ListKind {
		return false
	}
	ordered, _ := t.Attrs["ordered"].(bool)
	return ordered
}

// IsTight reports whether t is a ListKind or ListItemKind token belonging
// to a tight list.
func (t *Token) IsTight() bool {
	if t == nil || (t.Kind != ListKind && t.Kind != ListItemKind) {
		return false
	}
	tight, _ := t.Attrs["tight"].(bool)
	return tight
}

// InfoString returns Attrs["info"] for a fenced BlockCodeKind token, or ""
// otherwise.
func (t *Token) InfoString() string {
	if t == nil || t.Kind != BlockCodeKind {
		return ""
	}
	info, _ := t.Attrs["info"].(string)
	return info
}

func attrsWith(pairs ...any) map[string]any {
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			continue
		}
		m[key] = pairs[i+1]
	}
	return m
}
