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

import "strings"

// InlineParser converts the unparsed Markdown in a token's Text field into
// a tree of inline tokens, consulting env (most importantly env.RefLinks)
// to resolve reference-style links. This package does not implement one;
// it is an external collaborator plugged into the render bridge.
type InlineParser func(text string, env *Env) []*Token

// Renderer is whatever consumes the finished, inline-resolved token
// stream. Implementations are free to walk tokens however suits their
// output format (HTML, plain text, a different Markdown dialect, ...).
type Renderer interface {
	Render(tokens []*Token) error
}

// RenderBridge stitches a parsed block token tree together with an inline
// pass and a renderer. All three fields are optional: with a nil Inline,
// text-bearing tokens keep their (trimmed) Text; with a nil Renderer, the
// bridge only materializes the tree; with a nil PostprocessParagraph, the
// default demotes paragraphs inside tight list items to [BlockTextKind].
type RenderBridge struct {
	Inline   InlineParser
	Renderer Renderer
	// PostprocessParagraph is invoked for every ParagraphKind token that
	// has a parent container, right when its Text is resolved. Replace it
	// to customize paragraph handling without forking the parser.
	PostprocessParagraph func(tok, parent *Token)
}

// Render walks tokens depth-first: every token whose Kind carries unparsed
// Text (paragraph, heading, block_text) has its Text trimmed and, when an
// inline parser is present, replaced by the inline Children. Paragraphs
// are post-processed against their parent container along the way. If a
// renderer is present, the finished stream is handed to it; the (possibly
// mutated) token slice is always returned so callers without a renderer
// can inspect the materialized result directly.
func (b *RenderBridge) Render(tokens []*Token, env *Env) ([]*Token, error) {
	b.walk(tokens, nil, env)
	if b.Renderer == nil {
		return tokens, nil
	}
	return tokens, b.Renderer.Render(tokens)
}

// Render applies a default-configured [RenderBridge]. inline and renderer
// may each be nil.
func Render(tokens []*Token, env *Env, inline InlineParser, renderer Renderer) ([]*Token, error) {
	b := &RenderBridge{Inline: inline, Renderer: renderer}
	return b.Render(tokens, env)
}

func (b *RenderBridge) walk(tokens []*Token, parent *Token, env *Env) {
	for _, tok := range tokens {
		switch tok.Kind {
		case ParagraphKind, HeadingKind, BlockTextKind:
			text := strings.TrimSpace(tok.Text)
			if b.Inline != nil {
				tok.Children = b.Inline(text, env)
				tok.Text = ""
			} else {
				tok.Text = text
			}
			if tok.Kind == ParagraphKind && parent != nil {
				pp := b.PostprocessParagraph
				if pp == nil {
					pp = demoteTightParagraph
				}
				pp(tok, parent)
			}
		default:
			if len(tok.Children) > 0 {
				b.walk(tok.Children, tok, env)
			}
		}
	}
}

// demoteTightParagraph is the default paragraph post-processing: inside a
// tight list item, a paragraph renders without its wrapper, which the
// token stream expresses by rewriting it to [BlockTextKind].
func demoteTightParagraph(tok, parent *Token) {
	if parent.Kind == ListItemKind && parent.IsTight() {
		tok.Kind = BlockTextKind
	}
}
