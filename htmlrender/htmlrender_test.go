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

package htmlrender

import (
	"strings"
	"testing"

	block "github.com/go-blockmd/blockmd"
	"github.com/go-blockmd/blockmd/internal/normhtml"
	"github.com/google/go-cmp/cmp"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "Paragraph",
			src:  "hello *world*\n",
			want: "<p>hello *world*</p>",
		},
		{
			name: "ATXHeading",
			src:  "## Title\n",
			want: "<h2>Title</h2>",
		},
		{
			name: "ThematicBreak",
			src:  "---\n",
			want: "<hr>",
		},
		{
			name: "TightList",
			src:  "- a\n- b\n",
			want: "<ul><li>a</li><li>b</li></ul>",
		},
		{
			name: "LooseList",
			src:  "- a\n\n- b\n",
			want: "<ul><li><p>a</p></li><li><p>b</p></li></ul>",
		},
		{
			name: "FencedCode",
			src:  "```go\nx := 1\n```\n",
			want: "<pre><code class=\"language-go\">x := 1\n</code></pre>",
		},
		{
			name: "BlockQuote",
			src:  "> hi\n",
			want: "<blockquote><p>hi</p></blockquote>",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ps := block.NewParser(nil)
			tokens, env := ps.ParseDocument(test.src)
			if _, err := block.Render(tokens, env, nil, nil); err != nil {
				t.Fatal(err)
			}
			out := new(strings.Builder)
			if err := New(out).Render(tokens); err != nil {
				t.Fatal(err)
			}
			got := normhtml.NormalizeHTML([]byte(out.String()))
			want := normhtml.NormalizeHTML([]byte(test.want))
			if diff := cmp.Diff(string(want), string(got)); diff != "" {
				t.Errorf("render %q (-want +got):\n%s", test.src, diff)
			}
		})
	}
}
