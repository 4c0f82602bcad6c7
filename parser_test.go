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

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseDocument(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []*Token
	}{
		{
			name: "Empty",
			src:  "",
			want: nil,
		},
		{
			name: "Paragraph",
			src:  "aaa\nbbb\n",
			want: []*Token{
				{Kind: ParagraphKind, Text: "aaa\nbbb\n"},
			},
		},
		{
			name: "TwoParagraphs",
			src:  "aaa\n\nbbb\n",
			want: []*Token{
				{Kind: ParagraphKind, Text: "aaa\n"},
				{Kind: BlankLineKind},
				{Kind: ParagraphKind, Text: "bbb\n"},
			},
		},
		{
			name: "BlankLineRun",
			src:  "aaa\n\n\n\nbbb\n",
			want: []*Token{
				{Kind: ParagraphKind, Text: "aaa\n"},
				{Kind: BlankLineKind},
				{Kind: ParagraphKind, Text: "bbb\n"},
			},
		},
		{
			name: "ATXHeading",
			src:  "## foo ##\n",
			want: []*Token{
				{Kind: HeadingKind, Text: "foo", Attrs: map[string]any{"level": 2}},
			},
		},
		{
			name: "SetextRewritesParagraph",
			src:  "foo\n===\n",
			want: []*Token{
				{Kind: HeadingKind, Text: "foo", Attrs: map[string]any{"level": 1}},
			},
		},
		{
			name: "SetextLevelTwo",
			src:  "foo\nbar\n---\n",
			want: []*Token{
				{Kind: HeadingKind, Text: "foo\nbar", Attrs: map[string]any{"level": 2}},
			},
		},
		{
			name: "SetextSingleDash",
			src:  "foo\n-\n",
			want: []*Token{
				{Kind: HeadingKind, Text: "foo", Attrs: map[string]any{"level": 2}},
			},
		},
		{
			name: "SetextUnderlineAloneIsParagraph",
			src:  "===\n",
			want: []*Token{
				{Kind: ParagraphKind, Text: "===\n"},
			},
		},
		{
			name: "DashesAloneAreThematicBreak",
			src:  "---\n",
			want: []*Token{
				{Kind: ThematicBreakKind},
			},
		},
		{
			name: "ThematicBreakSpaced",
			src:  "- - -\n",
			want: []*Token{
				{Kind: ThematicBreakKind},
			},
		},
		{
			name: "IndentedCode",
			src:  "    a simple\n      indented code block\n",
			want: []*Token{
				{Kind: BlockCodeKind, Raw: "a simple\n  indented code block"},
			},
		},
		{
			name: "IndentedCodeCannotInterruptParagraph",
			src:  "para\n    code\n",
			want: []*Token{
				{Kind: ParagraphKind, Text: "para\n    code\n"},
			},
		},
		{
			name: "IndentedCodeEscapes",
			src:  "    a & b\n",
			want: []*Token{
				{Kind: BlockCodeKind, Raw: "a &amp; b"},
			},
		},
		{
			name: "FencedCode",
			src:  "```py\nx\n```\n",
			want: []*Token{
				{Kind: BlockCodeKind, Raw: "x\n", Fenced: true, Attrs: map[string]any{"info": "py"}},
			},
		},
		{
			name: "FencedCodeLongerClose",
			src:  "```py\nx\n````\n",
			want: []*Token{
				{Kind: BlockCodeKind, Raw: "x\n", Fenced: true, Attrs: map[string]any{"info": "py"}},
			},
		},
		{
			name: "FencedCodeShortCloseIsContent",
			src:  "````\naaa\n```\n``````\n",
			want: []*Token{
				{Kind: BlockCodeKind, Raw: "aaa\n```\n", Fenced: true},
			},
		},
		{
			name: "FencedCodeUnterminated",
			src:  "```\nx\n",
			want: []*Token{
				{Kind: BlockCodeKind, Raw: "x\n", Fenced: true},
			},
		},
		{
			name: "FencedCodeIndentTrim",
			src:  "  ```\n    x\n y\n  ```\n",
			want: []*Token{
				{Kind: BlockCodeKind, Raw: "  x\ny\n", Fenced: true},
			},
		},
		{
			name: "BacktickInfoStringRejected",
			src:  "``` a`b\ntext\n",
			want: []*Token{
				{Kind: ParagraphKind, Text: "``` a`b\ntext\n"},
			},
		},
		{
			name: "LazyBlockQuote",
			src:  "> foo\nbar\n",
			want: []*Token{
				{Kind: BlockQuoteKind, Children: []*Token{
					{Kind: ParagraphKind, Text: "foo\nbar\n"},
				}},
			},
		},
		{
			name: "StrictBlockQuoteAroundCode",
			src:  ">     code\n    code2\n",
			want: []*Token{
				{Kind: BlockQuoteKind, Children: []*Token{
					{Kind: BlockCodeKind, Raw: "code"},
				}},
				{Kind: BlockCodeKind, Raw: "code2"},
			},
		},
		{
			name: "BlockQuoteBlankLineStopsLaziness",
			src:  "> foo\n>\nbar\n",
			want: []*Token{
				{Kind: BlockQuoteKind, Children: []*Token{
					{Kind: ParagraphKind, Text: "foo\n"},
					{Kind: BlankLineKind},
				}},
				{Kind: ParagraphKind, Text: "bar\n"},
			},
		},
		{
			name: "ThematicBreakTerminatesQuote",
			src:  "> aaa\n***\n> bbb\n",
			want: []*Token{
				{Kind: BlockQuoteKind, Children: []*Token{
					{Kind: ParagraphKind, Text: "aaa\n"},
				}},
				{Kind: ThematicBreakKind},
				{Kind: BlockQuoteKind, Children: []*Token{
					{Kind: ParagraphKind, Text: "bbb\n"},
				}},
			},
		},
		{
			name: "BlankLineSeparatesQuotes",
			src:  "> foo\n\n> bar\n",
			want: []*Token{
				{Kind: BlockQuoteKind, Children: []*Token{
					{Kind: ParagraphKind, Text: "foo\n"},
				}},
				{Kind: BlankLineKind},
				{Kind: BlockQuoteKind, Children: []*Token{
					{Kind: ParagraphKind, Text: "bar\n"},
				}},
			},
		},
		{
			name: "OrderedListInterruptsParagraphOnlyFromOne",
			src:  "foo\n2. bar\n",
			want: []*Token{
				{Kind: ParagraphKind, Text: "foo\n2. bar\n"},
			},
		},
		{
			name: "HTMLBlockKnownTag",
			src:  "<div>\nfoo\n\nbar\n",
			want: []*Token{
				{Kind: BlockHTMLKind, Raw: "<div>\nfoo\n"},
				{Kind: BlankLineKind},
				{Kind: ParagraphKind, Text: "bar\n"},
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, _ := NewParser(nil).ParseDocument(test.src)
			if diff := cmp.Diff(test.want, got, ignoreLines()); diff != "" {
				t.Errorf("ParseDocument(%q) (-want +got):\n%s", test.src, diff)
			}
		})
	}
}

// ignoreLines drops StartLine/EndLine from comparisons that are not about
// them.
func ignoreLines() cmp.Option {
	return cmp.FilterPath(func(p cmp.Path) bool {
		f, ok := p.Last().(cmp.StructField)
		return ok && (f.Name() == "StartLine" || f.Name() == "EndLine")
	}, cmp.Ignore())
}

func TestOrderedListInterruptsParagraphFromOne(t *testing.T) {
	got, _ := NewParser(nil).ParseDocument("foo\n1. bar\n")
	if len(got) != 2 || got[0].Kind != ParagraphKind || got[1].Kind != ListKind {
		t.Fatalf("ParseDocument(%q) = %v; want [paragraph, list]", "foo\n1. bar\n", kinds(got))
	}
	if got[0].Text != "foo\n" {
		t.Errorf("paragraph text = %q; want %q", got[0].Text, "foo\n")
	}
}

func TestEmptyListItemDoesNotInterruptParagraph(t *testing.T) {
	got, _ := NewParser(nil).ParseDocument("foo\n*\n")
	want := []*Token{{Kind: ParagraphKind, Text: "foo\n*\n"}}
	if diff := cmp.Diff(want, got, ignoreLines()); diff != "" {
		t.Errorf("ParseDocument (-want +got):\n%s", diff)
	}
}

func TestLeadingBlankLinesDoNotChangeStructure(t *testing.T) {
	srcs := []string{"# foo\n\ntext\n", "- a\n- b\n", "> q\n"}
	for _, src := range srcs {
		base, _ := NewParser(nil).ParseDocument(src)
		shifted, _ := NewParser(nil).ParseDocument("\n\n\n" + src)
		if len(shifted) == 0 || shifted[0].Kind != BlankLineKind {
			t.Errorf("parse(blanks+%q): first token = %v; want blank_line", src, kinds(shifted))
			continue
		}
		if diff := cmp.Diff(base, shifted[1:], ignoreLines()); diff != "" {
			t.Errorf("parse(blanks+%q) differs beyond the leading blank_line (-want +got):\n%s", src, diff)
		}
	}
}

func TestRefLinkDefinitions(t *testing.T) {
	t.Run("Basic", func(t *testing.T) {
		tokens, env := NewParser(nil).ParseDocument("[Foo]: /u \"t\"\n\n[foo]\n")
		want := []*Token{
			{Kind: BlankLineKind},
			{Kind: ParagraphKind, Text: "[foo]\n"},
		}
		if diff := cmp.Diff(want, tokens, ignoreLines()); diff != "" {
			t.Errorf("tokens (-want +got):\n%s", diff)
		}
		def, ok := env.RefLinks["foo"]
		if !ok {
			t.Fatalf("RefLinks = %v; want entry for %q", env.RefLinks, "foo")
		}
		if def.URL != "/u" || def.Title != "t" || !def.TitlePresent {
			t.Errorf("RefLinks[foo] = %+v; want URL=/u Title=t", def)
		}
	})
	t.Run("TitleOnNextLine", func(t *testing.T) {
		_, env := NewParser(nil).ParseDocument("[foo]: /url\n'title'\n\n[foo]\n")
		def := env.RefLinks["foo"]
		if def.URL != "/url" || def.Title != "title" {
			t.Errorf("RefLinks[foo] = %+v; want URL=/url Title=title", def)
		}
	})
	t.Run("FirstDefinitionWins", func(t *testing.T) {
		_, env := NewParser(nil).ParseDocument("[a]: /1\n\n[a]: /2\n")
		if got := env.RefLinks["a"].URL; got != "/1" {
			t.Errorf("RefLinks[a].URL = %q; want %q", got, "/1")
		}
	})
	t.Run("CannotInterruptParagraph", func(t *testing.T) {
		tokens, env := NewParser(nil).ParseDocument("text\n[a]: /u\n")
		want := []*Token{{Kind: ParagraphKind, Text: "text\n[a]: /u\n"}}
		if diff := cmp.Diff(want, tokens, ignoreLines()); diff != "" {
			t.Errorf("tokens (-want +got):\n%s", diff)
		}
		if len(env.RefLinks) != 0 {
			t.Errorf("RefLinks = %v; want empty", env.RefLinks)
		}
	})
	t.Run("MalformedIsParagraph", func(t *testing.T) {
		tokens, _ := NewParser(nil).ParseDocument("[foo]: <bar\n")
		want := []*Token{{Kind: ParagraphKind, Text: "[foo]: <bar\n"}}
		if diff := cmp.Diff(want, tokens, ignoreLines()); diff != "" {
			t.Errorf("tokens (-want +got):\n%s", diff)
		}
	})
}

func TestMaxNestedLevel(t *testing.T) {
	ps := NewParser(&Options{MaxNestedLevel: 2})
	tokens, _ := ps.ParseDocument("> > > x\n")
	want := []*Token{
		{Kind: BlockQuoteKind, Children: []*Token{
			{Kind: BlockQuoteKind, Children: []*Token{
				{Kind: ParagraphKind, Text: "> x\n"},
			}},
		}},
	}
	if diff := cmp.Diff(want, tokens, ignoreLines()); diff != "" {
		t.Errorf("ParseDocument (-want +got):\n%s", diff)
	}
}

func TestDepthBound(t *testing.T) {
	src := strings.Repeat("> ", 10) + "x\n"
	tokens, _ := NewParser(nil).ParseDocument(src)
	depth := 0
	for tok := tokens[0]; tok.Kind == BlockQuoteKind; {
		depth++
		if len(tok.Children) == 0 {
			break
		}
		tok = tok.Children[0]
	}
	if depth > defaultMaxNestedLevel {
		t.Errorf("quote nesting depth = %d; want <= %d", depth, defaultMaxNestedLevel)
	}
}

func TestNoEmptyParagraphs(t *testing.T) {
	srcs := []string{
		"", "\n", "   \n", "\t\n\n", "a\n\n   \n\nb\n", "> \n", "-  \n", "   \n===\n",
	}
	for _, src := range srcs {
		tokens, _ := NewParser(nil).ParseDocument(src)
		walkTokens(tokens, func(tok *Token) {
			if tok.Kind == ParagraphKind && strings.TrimSpace(tok.Text) == "" {
				t.Errorf("parse(%q): empty paragraph token", src)
			}
		})
	}
}

func TestCRLFNormalization(t *testing.T) {
	unix, _ := NewParser(nil).ParseDocument("# a\r\n\r\nb\r\n")
	want, _ := NewParser(nil).ParseDocument("# a\n\nb\n")
	if diff := cmp.Diff(want, unix, ignoreLines()); diff != "" {
		t.Errorf("CRLF parse differs from LF parse (-want +got):\n%s", diff)
	}
}

func TestParseReader(t *testing.T) {
	tokens, env, err := NewParser(nil).ParseReader(strings.NewReader("# hi\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 1 || tokens[0].Kind != HeadingKind {
		t.Errorf("tokens = %v; want [heading]", kinds(tokens))
	}
	if env == nil {
		t.Error("env = nil")
	}

	_, _, err = NewParser(nil).ParseReader(strings.NewReader(strings.Repeat("a", maxDocumentSize+1)))
	if !errors.Is(err, errBlockTooLarge) {
		t.Errorf("ParseReader(too large) error = %v; want errBlockTooLarge", err)
	}
}

func kinds(tokens []*Token) []TokenKind {
	ks := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		ks[i] = tok.Kind
	}
	return ks
}

func walkTokens(tokens []*Token, f func(*Token)) {
	for _, tok := range tokens {
		f(tok)
		walkTokens(tok.Children, f)
	}
}
