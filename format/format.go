// Copyright 2024 Ross Light
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

// Package format writes a block token tree back out as Markdown that is
// equivalent to the original document.
package format

import (
	"io"
	"strconv"
	"strings"

	block "github.com/go-blockmd/blockmd"
)

// Format writes the given token tree as CommonMark to the given writer.
// The output is normalized rather than byte-identical to the source the
// tokens came from: headings come out in ATX form, code blocks fenced,
// thematic breaks as `***`, bullet markers as `-`, and blocks separated
// by single blank lines.
func Format(w io.Writer, tokens []*block.Token) error {
	text := blocksText(tokens)
	if text != "" {
		text += "\n"
	}
	_, err := io.WriteString(w, text)
	return err
}

// blocksText renders a sibling token sequence, blocks separated by one
// blank line, with no trailing newline. Blank-line tokens are structural
// and contribute nothing: separation is synthesized.
func blocksText(tokens []*block.Token) string {
	return blocksTextSep(tokens, "\n\n")
}

func blocksTextSep(tokens []*block.Token, sep string) string {
	var parts []string
	for _, tok := range tokens {
		if tok.Kind == block.BlankLineKind {
			continue
		}
		parts = append(parts, blockText(tok))
	}
	return strings.Join(parts, sep)
}

func blockText(tok *block.Token) string {
	switch tok.Kind {
	case block.ParagraphKind, block.BlockTextKind:
		return strings.TrimSpace(tok.Text)
	case block.HeadingKind:
		hashes := strings.Repeat("#", tok.Level())
		text := strings.TrimSpace(tok.Text)
		if text == "" {
			return hashes
		}
		return hashes + " " + text
	case block.ThematicBreakKind:
		// `***` cannot be misread as a setext underline or front matter.
		return "***"
	case block.BlockCodeKind:
		return codeText(tok)
	case block.BlockHTMLKind:
		return strings.TrimRight(tok.Raw, "\n")
	case block.BlockQuoteKind:
		return prefixLines(blocksText(tok.Children), "> ", "> ")
	case block.ListKind:
		return listText(tok)
	default:
		return strings.TrimSpace(tok.Text)
	}
}

func codeText(tok *block.Token) string {
	n := longestRun(tok.Raw, '`') + 1
	if n < 3 {
		n = 3
	}
	fence := strings.Repeat("`", n)
	raw := tok.Raw
	if raw != "" && !strings.HasSuffix(raw, "\n") {
		raw += "\n"
	}
	return fence + tok.InfoString() + "\n" + raw + fence
}

func longestRun(s string, c byte) int {
	max, cur := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			cur++
			if cur > max {
				max = cur
			}
		} else {
			cur = 0
		}
	}
	return max
}

func listText(tok *block.Token) string {
	next := 1
	if s, ok := tok.Attrs["start"].(int); ok {
		next = s
	}
	sep := "\n"
	innerSep := "\n"
	if !tok.IsTight() {
		sep = "\n\n"
		innerSep = "\n\n"
	}
	var items []string
	for _, item := range tok.Children {
		marker := "-"
		if tok.IsOrderedList() {
			marker = strconv.Itoa(next) + "."
			next++
		}
		// A tight item keeps its blocks on adjacent lines: a blank line
		// inside any item would make the reparsed list loose.
		inner := blocksTextSep(item.Children, innerSep)
		items = append(items, prefixLines(inner, marker+" ", strings.Repeat(" ", len(marker)+1)))
	}
	return strings.Join(items, sep)
}

// prefixLines prepends first to text's first line and rest to every
// following line, trimming the trailing whitespace a prefix would leave on
// blank lines.
func prefixLines(text, first, rest string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		p := rest
		if i == 0 {
			p = first
		}
		lines[i] = strings.TrimRight(p+line, " \t")
	}
	return strings.Join(lines, "\n")
}
