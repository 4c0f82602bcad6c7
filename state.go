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

import "regexp"

// inBlock names the kind of container a [BlockState] is parsing inside of.
type inBlock string

const (
	inDocument   inBlock = "document"
	inBlockQuote inBlock = "block_quote"
	inListItem   inBlock = "list_item"
)

// BlockState is the cursor-plus-accumulator a [Parser] drives while
// partitioning one document (or one container's de-indented slice of text)
// into [Token]s. Match, GetText, FindLineEnd, AppendToken, PrependToken,
// AddToken, AppendParagraph, AddParagraph, LastToken, and Depth form the
// contract between the driver and rule handlers.
type BlockState struct {
	Src       string
	cursor    int
	cursorMax int

	tokens []*Token
	env    *Env

	// line is a running count of source lines consumed so far, used to
	// stamp StartLine/EndLine on list items.
	line int
	// lineRoot offsets line for a child state so StartLine/EndLine remain
	// relative to the document root rather than the container's slice.
	lineRoot int

	depth     int
	inBlock   inBlock
	listTight bool
}

// newRootState creates the state for a full document.
func newRootState(source string, env *Env) *BlockState {
	return &BlockState{
		Src:       source,
		cursorMax: len(source),
		env:       env,
		line:      1,
		inBlock:   inDocument,
		listTight: true,
	}
}

// child creates a new state for a container's de-indented text fragment,
// sharing env with s: the link reference table is one table for the whole
// document, no matter how deeply a definition is nested.
func (s *BlockState) child(source string, kind inBlock) *BlockState {
	return &BlockState{
		Src:       source,
		cursorMax: len(source),
		env:       s.env,
		line:      1,
		lineRoot:  s.line + s.lineRoot - 1,
		depth:     s.depth + 1,
		inBlock:   kind,
		listTight: true,
	}
}

// Depth returns the container nesting depth of s: 0 for the document root,
// incrementing by one per block quote or list item ancestor.
func (s *BlockState) Depth() int {
	return s.depth
}

// Match attempts re, anchored at the current cursor, and returns the
// submatch index pairs (as in [regexp.Regexp.FindStringSubmatchIndex],
// but with offsets into Src rather than into the remaining suffix), or
// nil if re does not match starting exactly at the cursor.
func (s *BlockState) Match(re *regexp.Regexp) []int {
	idx := re.FindStringSubmatchIndex(s.Src[s.cursor:])
	if idx == nil || idx[0] != 0 {
		return nil
	}
	out := make([]int, len(idx))
	for i, v := range idx {
		if v < 0 {
			out[i] = -1
		} else {
			out[i] = v + s.cursor
		}
	}
	return out
}

// GetText returns the source text between the current cursor and end.
func (s *BlockState) GetText(end int) string {
	if end < s.cursor || end > s.cursorMax {
		return ""
	}
	return s.Src[s.cursor:end]
}

// FindLineEnd returns the offset just past the next line ending at or
// after the cursor (or cursorMax if there is none).
func (s *BlockState) FindLineEnd() int {
	i := indexByteFrom(s.Src, s.cursor, '\n')
	if i < 0 {
		return s.cursorMax
	}
	return i + 1
}

func indexByteFrom(s string, from int, c byte) int {
	for i := from; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}

// LastToken returns the most recently appended top-level token in s, or
// nil if none has been emitted yet.
func (s *BlockState) LastToken() *Token {
	if len(s.tokens) == 0 {
		return nil
	}
	return s.tokens[len(s.tokens)-1]
}

// AppendToken appends tok to the end of s's token stream.
func (s *BlockState) AppendToken(tok *Token) {
	s.tokens = append(s.tokens, tok)
}

// PrependToken inserts tok immediately before the most recently appended
// token. It exists for the block-quote rule: when a break rule terminates
// an open quote by running its own handler against the outer state first,
// that handler's token lands via AppendToken, and PrependToken slots the
// quote's token in just before it so source order is preserved.
func (s *BlockState) PrependToken(tok *Token) {
	if len(s.tokens) == 0 {
		s.tokens = []*Token{tok}
		return
	}
	last := len(s.tokens) - 1
	s.tokens = append(s.tokens, s.tokens[last])
	s.tokens[last] = tok
}

// AddToken appends tok and advances s's line counter by lineDelta.
func (s *BlockState) AddToken(tok *Token, lineDelta int) {
	s.AppendToken(tok)
	s.line += lineDelta
}

// AppendParagraph reports whether the last emitted token is a paragraph;
// if so, it appends the current logical line to that paragraph's Text and
// returns the offset just past the line for the caller to resume at. It
// returns (0, false) if there is no open paragraph to extend. Rule
// handlers for constructs that cannot interrupt a paragraph (indented
// code, link reference definitions, HTML block condition 7) call this
// first and return its result directly on success.
func (s *BlockState) AppendParagraph() (int, bool) {
	last := s.LastToken()
	if last == nil || last.Kind != ParagraphKind {
		return 0, false
	}
	end := s.FindLineEnd()
	last.Text += s.GetText(end)
	s.line++
	return end, true
}

// AddParagraph starts a new paragraph token with text, or extends the
// current open paragraph if the last emitted token already is one. A
// whitespace-only text never starts a new paragraph: no paragraph token
// is ever emitted empty.
func (s *BlockState) AddParagraph(text string) {
	if last := s.LastToken(); last != nil && last.Kind == ParagraphKind {
		last.Text += text
		return
	}
	if isBlankLine(text) {
		return
	}
	s.tokens = append(s.tokens, &Token{Kind: ParagraphKind, Text: text})
}
