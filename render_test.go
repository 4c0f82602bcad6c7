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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRenderDemotesTightListParagraphs(t *testing.T) {
	ps := NewParser(nil)
	tokens, env := ps.ParseDocument("- a\n- b\n")
	if _, err := Render(tokens, env, nil, nil); err != nil {
		t.Fatal(err)
	}
	for _, item := range tokens[0].Children {
		if got := item.Children[0].Kind; got != BlockTextKind {
			t.Errorf("tight item child kind = %v; want BlockTextKind", got)
		}
		if got := item.Children[0].Text; got != "a" && got != "b" {
			t.Errorf("tight item child text = %q; want trimmed single letter", got)
		}
	}
}

func TestRenderKeepsLooseListParagraphs(t *testing.T) {
	ps := NewParser(nil)
	tokens, env := ps.ParseDocument("- a\n\n- b\n")
	if _, err := Render(tokens, env, nil, nil); err != nil {
		t.Fatal(err)
	}
	for _, item := range tokens[0].Children {
		if got := item.Children[0].Kind; got != ParagraphKind {
			t.Errorf("loose item child kind = %v; want ParagraphKind", got)
		}
	}
}

func TestRenderInvokesInlineParser(t *testing.T) {
	ps := NewParser(nil)
	tokens, env := ps.ParseDocument("# title\n\nbody text\n")
	var inlineCalls []string
	inline := func(text string, env *Env) []*Token {
		inlineCalls = append(inlineCalls, text)
		return []*Token{{Kind: ParagraphKind, Text: text}}
	}
	if _, err := Render(tokens, env, inline, nil); err != nil {
		t.Fatal(err)
	}
	want := []string{"title", "body text"}
	if diff := cmp.Diff(want, inlineCalls); diff != "" {
		t.Errorf("inline calls (-want +got):\n%s", diff)
	}
	if tokens[0].Text != "" || len(tokens[0].Children) != 1 {
		t.Errorf("heading not rewritten: text=%q children=%d", tokens[0].Text, len(tokens[0].Children))
	}
}

type countingRenderer struct {
	tokens []*Token
}

func (r *countingRenderer) Render(tokens []*Token) error {
	r.tokens = tokens
	return nil
}

func TestRenderHandsTokensToRenderer(t *testing.T) {
	ps := NewParser(nil)
	tokens, env := ps.ParseDocument("a\n\nb\n")
	r := new(countingRenderer)
	got, err := Render(tokens, env, nil, r)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.tokens) != 3 {
		t.Errorf("renderer received %d tokens; want 3", len(r.tokens))
	}
	if diff := cmp.Diff(tokens, got, ignoreLines()); diff != "" {
		t.Errorf("Render return differs from input slice (-want +got):\n%s", diff)
	}
}

func TestRenderBridgeCustomPostprocess(t *testing.T) {
	ps := NewParser(nil)
	tokens, env := ps.ParseDocument("- a\n")
	var parents []TokenKind
	bridge := &RenderBridge{
		PostprocessParagraph: func(tok, parent *Token) {
			parents = append(parents, parent.Kind)
		},
	}
	if _, err := bridge.Render(tokens, env); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]TokenKind{ListItemKind}, parents); diff != "" {
		t.Errorf("postprocess parents (-want +got):\n%s", diff)
	}
	// The custom hook replaced the default demotion entirely.
	if got := tokens[0].Children[0].Children[0].Kind; got != ParagraphKind {
		t.Errorf("paragraph kind = %v; want ParagraphKind (no demotion)", got)
	}
}
