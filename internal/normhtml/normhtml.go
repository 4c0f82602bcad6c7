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

// Package normhtml normalizes HTML so that test assertions can compare a
// renderer's output against the CommonMark specification fixtures without
// tripping over insignificant differences (whitespace between block tags,
// attribute order, entity spelling). The rules follow the
// [CommonMark spec test normalization].
//
// [CommonMark spec test normalization]: https://github.com/commonmark/commonmark-spec/blob/0.30.0/test/normalize.py
package normhtml

import (
	"bytes"
	"regexp"
	"sort"
	"unicode"

	"go4.org/bytereplacer"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var whitespaceRE = regexp.MustCompile(`\s+`)

var htmlEscaper = bytereplacer.New(
	"&", "&amp;",
	`'`, "&apos;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
)

// NormalizeHTML strips insignificant differences from HTML: whitespace
// around block-level tags is dropped (except inside <pre>), runs of
// whitespace in text collapse to one space, attributes are sorted and
// consistently quoted, and text is re-escaped with one entity spelling.
func NormalizeHTML(b []byte) []byte {
	n := &normalizer{last: html.StartTagToken}
	tok := html.NewTokenizerFragment(bytes.NewReader(b), "div")
	for {
		tt := tok.Next()
		switch tt {
		case html.ErrorToken:
			return n.output
		case html.TextToken:
			n.text(tok.Text())
		case html.EndTagToken:
			tagBytes, _ := tok.TagName()
			n.endTag(string(tagBytes))
		case html.StartTagToken, html.SelfClosingTagToken:
			tagBytes, hasAttr := tok.TagName()
			n.startTag(tok, string(tagBytes), hasAttr)
		case html.CommentToken:
			n.output = append(n.output, tok.Raw()...)
		}

		n.last = tt
		if tt == html.SelfClosingTagToken {
			// "<br/>" and "<br>" normalize identically.
			n.last = html.EndTagToken
		}
	}
}

type normalizer struct {
	output  []byte
	last    html.TokenType
	lastTag string
	inPre   bool
}

func (n *normalizer) text(data []byte) {
	afterTag := n.last == html.EndTagToken || n.last == html.StartTagToken
	afterBlockTag := afterTag && isBlockTag(n.lastTag)
	if afterTag && n.lastTag == "br" {
		data = bytes.TrimLeft(data, "\n")
	}
	if !n.inPre {
		data = whitespaceRE.ReplaceAll(data, []byte(" "))
	}
	if afterBlockTag && !n.inPre {
		switch n.last {
		case html.StartTagToken:
			data = bytes.TrimLeftFunc(data, unicode.IsSpace)
		case html.EndTagToken:
			data = bytes.TrimSpace(data)
		}
	}
	n.output = append(n.output, htmlEscaper.Replace(bytes.Clone(data))...)
}

func (n *normalizer) endTag(tag string) {
	if tag == "pre" {
		n.inPre = false
	} else if isBlockTag(tag) {
		n.output = bytes.TrimRightFunc(n.output, unicode.IsSpace)
	}
	n.output = append(n.output, "</"...)
	n.output = append(n.output, tag...)
	n.output = append(n.output, ">"...)
	n.lastTag = tag
}

func (n *normalizer) startTag(tok *html.Tokenizer, tag string, hasAttr bool) {
	if tag == "pre" {
		n.inPre = true
	}
	if isBlockTag(tag) {
		n.output = bytes.TrimRightFunc(n.output, unicode.IsSpace)
	}
	n.output = append(n.output, "<"...)
	n.output = append(n.output, tag...)
	if hasAttr {
		type htmlAttribute struct {
			key   string
			value string
		}
		var attrs []htmlAttribute
		for {
			k, v, more := tok.TagAttr()
			attrs = append(attrs, htmlAttribute{string(k), string(v)})
			if !more {
				break
			}
		}
		sort.Slice(attrs, func(i, j int) bool {
			return attrs[i].key < attrs[j].key
		})
		for _, attr := range attrs {
			n.output = append(n.output, " "...)
			n.output = append(n.output, attr.key...)
			if attr.value != "" {
				n.output = append(n.output, `="`...)
				n.output = append(n.output, html.EscapeString(attr.value)...)
				n.output = append(n.output, `"`...)
			}
		}
	}
	n.output = append(n.output, ">"...)
	n.lastTag = tag
}

var blockTags = buildBlockTags()

func buildBlockTags() map[string]struct{} {
	names := []atom.Atom{
		atom.Article, atom.Aside, atom.Blockquote, atom.Body, atom.Button,
		atom.Canvas, atom.Caption, atom.Col, atom.Colgroup, atom.Dd,
		atom.Div, atom.Dl, atom.Dt, atom.Embed, atom.Fieldset,
		atom.Figcaption, atom.Figure, atom.Footer, atom.Form,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Header, atom.Hgroup, atom.Hr, atom.Iframe, atom.Li, atom.Map,
		atom.Object, atom.Ol, atom.Output, atom.P, atom.Pre, atom.Progress,
		atom.Script, atom.Section, atom.Style, atom.Table, atom.Tbody,
		atom.Td, atom.Textarea, atom.Tfoot, atom.Th, atom.Thead, atom.Tr,
		atom.Ul, atom.Video,
	}
	m := make(map[string]struct{}, len(names))
	for _, a := range names {
		m[a.String()] = struct{}{}
	}
	return m
}

func isBlockTag(tag string) bool {
	_, ok := blockTags[tag]
	return ok
}
