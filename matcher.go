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
	"regexp"
	"strings"
)

// RuleHandler implements one named block rule. It is invoked with the
// state's cursor already positioned at the start of the rule's match (as
// found by the [RuleMatcher]). It returns the cursor position to resume
// parsing at, and whether the rule actually produced something: a handler
// may still refuse the match (e.g. setex_heading with no open paragraph to
// rewrite, or ref_link with a malformed destination), in which case the
// driver advances by one logical line as paragraph text.
type RuleHandler func(ps *Parser, s *BlockState) (end int, ok bool)

// ruleEntry is one named block rule: a line-anchored pattern used to probe
// for the rule at the block matcher's alternation step, plus the handler
// that does the real work once the rule has won.
type ruleEntry struct {
	name    string
	pattern *regexp.Regexp
	handler RuleHandler
}

// RuleMatcher is a compiled, ordered alternation of named block rules.
// Matching is line-anchored: each pattern is combined with the multiline
// flag so "^" matches at the start of any line, not just the start of the
// search text.
type RuleMatcher struct {
	re    *regexp.Regexp
	names []string
	// groups[i] is the index of the capture group wrapping names[i]'s
	// pattern in re. Rule patterns may contain capture groups of their
	// own, so the wrapping groups are not simply 1..len(names).
	groups []int
}

// compileRuleMatcher builds the alternation for the named rules in order.
// Order is significant: Go's regexp package (like Perl, unlike POSIX)
// prefers the earliest alternative when several match at the same
// position, which is how higher-priority rules (e.g. setex_heading before
// thematic_break) win ties.
func compileRuleMatcher(entries []*ruleEntry) *RuleMatcher {
	names := make([]string, 0, len(entries))
	groups := make([]int, 0, len(entries))
	parts := make([]string, 0, len(entries))
	next := 1
	for _, e := range entries {
		names = append(names, e.name)
		groups = append(groups, next)
		parts = append(parts, "("+e.pattern.String()+")")
		next += 1 + e.pattern.NumSubexp()
	}
	re := regexp.MustCompile("(?m:" + strings.Join(parts, "|") + ")")
	return &RuleMatcher{re: re, names: names, groups: groups}
}

// find returns the name of the first rule matching at or after s's cursor,
// and the absolute offset it starts at. ok is false if no rule in the set
// matches anywhere in the remainder of the source.
func (rm *RuleMatcher) find(s *BlockState) (name string, start int, ok bool) {
	suffix := s.Src[s.cursor:]
	loc := rm.re.FindStringSubmatchIndex(suffix)
	if loc == nil {
		return "", 0, false
	}
	for i, n := range rm.names {
		g := 2 * rm.groups[i]
		if g < len(loc) && loc[g] >= 0 {
			return n, s.cursor + loc[g], true
		}
	}
	return "", 0, false
}

// ruleSetKey is the stable cache key for an ordered rule-name list: the
// names joined in their active order. Order (not just membership) must be
// part of the key because alternation priority is order-dependent; see
// [compileRuleMatcher].
func ruleSetKey(names []string) string {
	return strings.Join(names, "|")
}
