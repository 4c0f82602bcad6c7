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

// Package block implements the block-structure half of a CommonMark-style
// Markdown processor.
//
// Given a document's source text, [Parser.ParseDocument] partitions it into
// a tree of [Token] values (paragraphs, headings, lists, block quotes, code
// blocks, HTML blocks, thematic breaks) and a shared [Env] holding any link
// reference definitions it discovered along the way. The inline text inside
// a token's Text field is left untouched for a separate inline pass; see
// [Render] for how the two halves are stitched back together.
//
// The block grammar is driven by a small set of named rules (see
// [RuleMatcher]) rather than a hard-coded recursive descent, so callers can
// add their own block-level syntax with [Parser.RegisterRule] without
// forking the parser.
package block
