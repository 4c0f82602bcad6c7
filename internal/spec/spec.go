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

// Package spec provides access to the examples from the CommonMark specification.
package spec

import (
	_ "embed"
	"encoding/json"
)

// Example is a single example from the specification.
type Example struct {
	Markdown string
	HTML     string
	Example  int
	Section  string
}

// spec-0.30.json holds the block-construct subset of the CommonMark 0.30
// specification's example suite: the sections this package's parser
// actually covers (thematic breaks, ATX/setext headings, code blocks,
// block quotes, list items, HTML blocks, link reference definitions,
// paragraphs and blank lines). Inline-only sections (emphasis, links,
// autolinks, and so on) are out of scope for a block-only parser and are
// not included.
//
//go:embed spec-0.30.json
var specData []byte

// Load returns the block-construct examples from the CommonMark
// specification.
func Load() ([]Example, error) {
	var testsuite []Example
	if err := json.Unmarshal(specData, &testsuite); err != nil {
		return nil, err
	}
	return testsuite, nil
}
