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

// defaultMaxNestedLevel is the default bound on block quote and list
// nesting depth.
const defaultMaxNestedLevel = 6

// Options configures a [Parser]. A zero Options (or a nil *Options passed
// to [NewParser]) selects every default: the standard rule order at all
// three scopes and a max nested level of 6.
type Options struct {
	// Rules is the ordered set of rule names active at the top level of a
	// document. Nil selects the default order.
	Rules []string
	// BlockQuoteRules is the ordered rule set active while parsing inside a
	// block quote. Nil defaults to the same order as the default Rules.
	BlockQuoteRules []string
	// ListRules is the ordered rule set active while parsing inside a list
	// item. Nil defaults to the same order as the default Rules.
	ListRules []string
	// MaxNestedLevel bounds block quote and list nesting depth. Beyond it,
	// further container markers are left in place as paragraph text. Zero
	// selects the default of 6.
	MaxNestedLevel int
}

// Parser drives the named block rules against a [BlockState] to produce a
// document's token tree. A *Parser holds no per-document state beyond its
// compiled-matcher cache, so one instance may be reused to parse many
// documents sequentially; it is not safe for concurrent use by multiple
// goroutines without external synchronization, since RegisterRule and the
// matcher cache both mutate Parser state.
type Parser struct {
	registry map[string]*ruleEntry

	rules           []string
	blockQuoteRules []string
	listRules       []string

	maxNestedLevel int

	matchers map[string]*RuleMatcher
}

// defaultRuleOrder is the default top-level alternation order. "list" is
// deliberately absent: list recognition is not part of the compiled
// alternation and is instead probed opportunistically whenever the driver
// is about to flush plain text as paragraph material; see [Parser.tryList].
func defaultRuleOrder() []string {
	return []string{
		"blank_line", "fenced_code", "indent_code", "axt_heading",
		"setex_heading", "thematic_break", "block_quote", "ref_link",
		"raw_html",
	}
}

var (
	refLinkProbeRE = regexp.MustCompile(`^ {0,3}\[`)
	rawHTMLProbeRE = regexp.MustCompile(`^ {0,3}<(?:!|\?|/?[a-zA-Z])`)
)

// NewParser returns a [Parser] configured by opts (or the defaults, if
// opts is nil).
func NewParser(opts *Options) *Parser {
	ps := &Parser{
		registry:       make(map[string]*ruleEntry),
		matchers:       make(map[string]*RuleMatcher),
		maxNestedLevel: defaultMaxNestedLevel,
	}
	ps.registerDefaultRules()

	rules := defaultRuleOrder()
	blockQuoteRules := defaultRuleOrder()
	listRules := defaultRuleOrder()
	if opts != nil {
		if opts.Rules != nil {
			rules = append([]string(nil), opts.Rules...)
		}
		if opts.BlockQuoteRules != nil {
			blockQuoteRules = append([]string(nil), opts.BlockQuoteRules...)
		}
		if opts.ListRules != nil {
			listRules = append([]string(nil), opts.ListRules...)
		}
		if opts.MaxNestedLevel != 0 {
			ps.maxNestedLevel = opts.MaxNestedLevel
		}
	}
	ps.rules = rules
	ps.blockQuoteRules = blockQuoteRules
	ps.listRules = listRules
	return ps
}

func (ps *Parser) registerDefaultRules() {
	ps.registry["blank_line"] = &ruleEntry{name: "blank_line", pattern: blankLineRE, handler: blankLineRule}
	ps.registry["fenced_code"] = &ruleEntry{name: "fenced_code", pattern: fencedCodeOpenRE, handler: fencedCodeRule}
	ps.registry["indent_code"] = &ruleEntry{name: "indent_code", pattern: indentCodeStartRE, handler: indentCodeRule}
	ps.registry["axt_heading"] = &ruleEntry{name: "axt_heading", pattern: atxHeadingRE, handler: atxHeadingRule}
	ps.registry["setex_heading"] = &ruleEntry{name: "setex_heading", pattern: setextHeadingRE, handler: setextHeadingRule}
	ps.registry["thematic_break"] = &ruleEntry{name: "thematic_break", pattern: thematicBreakRE, handler: thematicBreakRule}
	ps.registry["block_quote"] = &ruleEntry{name: "block_quote", pattern: blockQuoteStartRE, handler: blockQuoteRule}
	ps.registry["ref_link"] = &ruleEntry{name: "ref_link", pattern: refLinkProbeRE, handler: refLinkRule}
	ps.registry["raw_html"] = &ruleEntry{name: "raw_html", pattern: rawHTMLProbeRE, handler: htmlBlockRule}
	ps.registry["list"] = &ruleEntry{name: "list", handler: listRule}
}

// RegisterRule installs name (overwriting any existing rule of that name)
// with pattern identifying candidate match starts and handler doing the
// real work, then inserts name into all three active rule sets. If before
// names a rule already present in a given set, name is inserted
// immediately ahead of it in that set; otherwise name is appended. The
// matcher cache is invalidated so the new rule takes effect on the next
// parse.
func (ps *Parser) RegisterRule(name string, pattern *regexp.Regexp, handler RuleHandler, before string) {
	ps.registry[name] = &ruleEntry{name: name, pattern: pattern, handler: handler}
	ps.rules = insertRuleName(ps.rules, name, before)
	ps.blockQuoteRules = insertRuleName(ps.blockQuoteRules, name, before)
	ps.listRules = insertRuleName(ps.listRules, name, before)
	ps.matchers = make(map[string]*RuleMatcher)
}

// insertRuleName returns names with any existing occurrence of name
// removed, then name reinserted immediately before the first occurrence of
// before (if before is present), or appended otherwise.
func insertRuleName(names []string, name, before string) []string {
	out := make([]string, 0, len(names)+1)
	for _, n := range names {
		if n != name {
			out = append(out, n)
		}
	}
	if before != "" {
		for i, n := range out {
			if n == before {
				return append(out[:i:i], append([]string{name}, out[i:]...)...)
			}
		}
	}
	return append(out, name)
}

// matcherFor returns the (cached) [RuleMatcher] compiled from names,
// skipping "list" since it is never part of the compiled alternation (see
// [defaultRuleOrder]).
func (ps *Parser) matcherFor(names []string) *RuleMatcher {
	key := ruleSetKey(names)
	if m, ok := ps.matchers[key]; ok {
		return m
	}
	entries := make([]*ruleEntry, 0, len(names))
	for _, n := range names {
		if n == "list" {
			continue
		}
		if e, ok := ps.registry[n]; ok && e.pattern != nil {
			entries = append(entries, e)
		}
	}
	m := compileRuleMatcher(entries)
	ps.matchers[key] = m
	return m
}

// ruleNamesFor returns the ordered rule-name set active for s, chosen by
// the kind of container s is parsing inside of.
func (ps *Parser) ruleNamesFor(s *BlockState) []string {
	switch s.inBlock {
	case inBlockQuote:
		return ps.blockQuoteRules
	case inListItem:
		return ps.listRules
	default:
		return ps.rules
	}
}

// ParseDocument parses source as a complete document and returns its
// top-level token stream and the [Env] (notably its RefLinks table)
// accumulated while parsing.
func (ps *Parser) ParseDocument(source string) ([]*Token, *Env) {
	source = normalizeNewlines(source)
	env := NewEnv()
	root := newRootState(source, env)
	ps.parseBlocks(root)
	return root.tokens, env
}

// normalizeNewlines rewrites CRLF and lone CR line endings to LF. Full
// source normalization (BOM stripping, tab expansion at the document
// boundary) is the preprocessor's job; this much is done here because
// every block rule pattern in this package is anchored on "\n" and a
// caller handing in CRLF text would otherwise see every rule silently
// fail to match.
func normalizeNewlines(source string) string {
	if !strings.Contains(source, "\r") {
		return source
	}
	source = strings.ReplaceAll(source, "\r\n", "\n")
	return strings.ReplaceAll(source, "\r", "\n")
}

// parseBlocks drives s to completion against the rule set appropriate for
// its container kind: repeatedly asking the matcher for the next rule,
// flushing any intervening or unmatched text as paragraph material, and
// dispatching to the winning rule's handler. Block quote and list item
// handlers call this recursively on a child state over their de-indented
// text.
func (ps *Parser) parseBlocks(s *BlockState) {
	matcher := ps.matcherFor(ps.ruleNamesFor(s))
	for s.cursor < s.cursorMax {
		name, start, found := matcher.find(s)
		if !found {
			start = s.cursorMax
		}
		if start > s.cursor {
			// The text between the cursor and the next rule match is
			// paragraph material, except that a line opening a list item
			// diverts to the list rule instead.
			if !ps.tryList(s) {
				ps.flushParagraphLine(s)
			}
			continue
		}

		pre := s.cursor
		end, ok := ps.registry[name].handler(ps, s)
		if !ok || end <= pre {
			// The handler refused the match (or failed to advance, which
			// would stall the driver): consume one logical line as
			// paragraph text to guarantee progress.
			ps.flushParagraphLine(s)
			continue
		}
		s.cursor = end
	}
}

// tryList probes the list rule at s's cursor unconditionally, independent
// of whichever named rule set is active: list recognition is driven from
// the paragraph-flush step, not the compiled alternation. It reports
// whether the list rule matched and advanced s.
func (ps *Parser) tryList(s *BlockState) bool {
	end, ok := listRule(ps, s)
	if !ok {
		return false
	}
	s.cursor = end
	return true
}

// flushParagraphLine advances s by exactly one logical line, folding it
// into an open paragraph (or starting a new one). This is both the "no
// rule matched here" fallback and the "handler declined the match"
// fallback.
func (ps *Parser) flushParagraphLine(s *BlockState) {
	end := s.FindLineEnd()
	if end <= s.cursor {
		// Cursor is at cursorMax with no trailing newline; nothing left to
		// consume.
		s.cursor = s.cursorMax
		return
	}
	s.AddParagraph(s.GetText(end))
	s.cursor = end
	s.line++
}
