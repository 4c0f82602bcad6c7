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

// LinkDefinition is the destination and optional title of a link reference
// definition.
type LinkDefinition struct {
	URL          string
	Title        string
	TitlePresent bool
}

// Env is the mutable environment shared by a document's root [BlockState]
// and every child state created while descending into block quotes and
// list items. Env is shared by pointer, never copied, matching the "shared
// mutable link table" design in spec.md: a child state's ref_link
// definitions are visible to its siblings and ancestors and vice versa.
type Env struct {
	// RefLinks maps a normalized link label to the first definition found
	// for it in source order. Entries are never overwritten once set.
	RefLinks map[string]LinkDefinition
}

// NewEnv returns an empty [Env] ready for use by a new document's root state.
func NewEnv() *Env {
	return &Env{RefLinks: make(map[string]LinkDefinition)}
}

// defineLink records label's definition if it is not already present.
// It reports whether the definition was newly added.
func (e *Env) defineLink(normalizedLabel string, def LinkDefinition) bool {
	if _, exists := e.RefLinks[normalizedLabel]; exists || normalizedLabel == "" {
		return false
	}
	e.RefLinks[normalizedLabel] = def
	return true
}
