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

// Package htmlrender is a minimal demonstration [block.Renderer]: it
// exists to give the block parser's Render Bridge (spec.md §4.7) a real,
// testable call site, not to implement a full
// HTML rendering layer (spec.md's Non-goals explicitly exclude HTML
// sanitization and styling policy beyond this). It is adapted from the
// teacher's much larger html_renderer.go, trimmed to the subset of
// behavior that makes sense without a wired-in inline parser: since
// [block.Render] only replaces a token's Text with Children when an
// [block.InlineParser] is supplied, this renderer falls back to emitting
// a token's raw Text (HTML-escaped) whenever it has no Children, so it
// produces reasonable output whether or not the caller plugged in an
// inline pass.
package htmlrender

import (
	"fmt"
	"html"
	"io"
	"strings"

	block "github.com/go-blockmd/blockmd"
)

// Renderer writes a block-token stream to W as HTML. It implements
// [block.Renderer].
type Renderer struct {
	W io.Writer

	err error
}

// New returns a [Renderer] that writes to w.
func New(w io.Writer) *Renderer {
	return &Renderer{W: w}
}

// Render implements [block.Renderer] by writing tokens to r.W as HTML.
func (r *Renderer) Render(tokens []*block.Token) error {
	r.err = nil
	r.blocks(tokens)
	return r.err
}

func (r *Renderer) writeString(s string) {
	if r.err != nil {
		return
	}
	_, r.err = io.WriteString(r.W, s)
}

func (r *Renderer) blocks(tokens []*block.Token) {
	for _, tok := range tokens {
		r.block(tok)
	}
}

func (r *Renderer) block(tok *block.Token) {
	switch tok.Kind {
	case block.BlankLineKind:
		// No output: blank lines are structural, not content.
	case block.ThematicBreakKind:
		r.writeString("<hr />\n")
	case block.HeadingKind:
		lvl := tok.Level()
		r.writeString(fmt.Sprintf("<h%d>", lvl))
		r.inline(tok)
		r.writeString(fmt.Sprintf("</h%d>\n", lvl))
	case block.ParagraphKind:
		r.writeString("<p>")
		r.inline(tok)
		r.writeString("</p>\n")
	case block.BlockTextKind:
		r.inline(tok)
		r.writeString("\n")
	case block.BlockCodeKind:
		r.writeString("<pre><code")
		if info := tok.InfoString(); info != "" {
			lang := info
			if i := strings.IndexAny(info, " \t"); i >= 0 {
				lang = info[:i]
			}
			r.writeString(fmt.Sprintf(" class=%q", "language-"+lang))
		}
		r.writeString(">")
		if tok.Fenced {
			r.writeString(html.EscapeString(tok.Raw))
		} else {
			// Indented code arrives pre-escaped from the block parser.
			r.writeString(tok.Raw)
		}
		if tok.Raw != "" && !strings.HasSuffix(tok.Raw, "\n") {
			r.writeString("\n")
		}
		r.writeString("</code></pre>\n")
	case block.BlockHTMLKind:
		r.writeString(tok.Raw)
	case block.BlockQuoteKind:
		r.writeString("<blockquote>\n")
		r.blocks(tok.Children)
		r.writeString("</blockquote>\n")
	case block.ListKind:
		tag := "ul"
		attrs := ""
		if tok.IsOrderedList() {
			tag = "ol"
			if start, ok := tok.Attrs["start"].(int); ok && start != 1 {
				attrs = fmt.Sprintf(" start=%q", fmt.Sprint(start))
			}
		}
		r.writeString(fmt.Sprintf("<%s%s>\n", tag, attrs))
		r.blocks(tok.Children)
		r.writeString(fmt.Sprintf("</%s>\n", tag))
	case block.ListItemKind:
		r.writeString("<li>")
		if tok.IsTight() && len(tok.Children) == 1 && isInlineContent(tok.Children[0]) {
			r.inline(tok.Children[0])
		} else {
			r.writeString("\n")
			r.blocks(tok.Children)
		}
		r.writeString("</li>\n")
	default:
		r.err = fmt.Errorf("htmlrender: unhandled token kind %v", tok.Kind)
	}
}

func isInlineContent(tok *block.Token) bool {
	return tok.Kind == block.ParagraphKind || tok.Kind == block.BlockTextKind
}

// inline writes tok's resolved inline content: Children if an
// [block.InlineParser] populated them, otherwise tok's raw, HTML-escaped
// Text. Rendering inline token kinds beyond plain text is out of scope
// here (see the package doc comment): whatever its Kind, each child
// contributes its Raw verbatim, or else its HTML-escaped Text, and a child
// with neither is skipped rather than erroring, since this renderer's job
// is only to exercise the block-level Render Bridge.
func (r *Renderer) inline(tok *block.Token) {
	if len(tok.Children) == 0 {
		r.writeString(html.EscapeString(tok.Text))
		return
	}
	for _, c := range tok.Children {
		switch {
		case c.Raw != "":
			r.writeString(c.Raw)
		case c.Text != "":
			r.writeString(html.EscapeString(c.Text))
		}
	}
}
