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

// leadingTabRE matches a tab preceded by at most three spaces at the start
// of a line. Both expansion helpers rewrite only this first tab: any
// whitespace beyond it is either expanded by a later pass or is interior
// to the line and therefore not indentation.
var leadingTabRE = regexp.MustCompile(`(?m)^( {0,3})\t`)

// expandLeadingTab expands the first leading tab of each line of text so
// that the line's indentation reaches width columns. Container handlers
// use width 3: a tab directly after a block quote marker or a list marker
// is worth the remainder of a 4-column tab stop once the marker's own
// column is accounted for (CommonMark examples 6 and 7).
func expandLeadingTab(text string, width int) string {
	if !strings.Contains(text, "\t") {
		return text
	}
	return leadingTabRE.ReplaceAllStringFunc(text, func(m string) string {
		spaces := len(m) - 1
		pad := width - spaces
		if pad < 0 {
			pad = 0
		}
		return m[:spaces] + strings.Repeat(" ", pad)
	})
}

// expandTab expands the first leading tab of each line of text to four
// spaces (CommonMark example 5): on continuation lines inside an already
// opened container, a tab is a full tab stop.
func expandTab(text string) string {
	if !strings.Contains(text, "\t") {
		return text
	}
	return leadingTabRE.ReplaceAllString(text, "$1    ")
}

// expandItemIndent rewrites line's leading whitespace run with every tab
// counted as four spaces, leaving the rest of the line untouched. List
// item continuation lines are measured (and stripped) in these expanded
// columns.
func expandItemIndent(line string) string {
	i := 0
	cols := 0
	hasTab := false
	for i < len(line) {
		switch line[i] {
		case ' ':
			cols++
		case '\t':
			cols += 4
			hasTab = true
		default:
			goto done
		}
		i++
	}
done:
	if !hasTab {
		return line
	}
	return strings.Repeat(" ", cols) + line[i:]
}

// leadingSpaceLen returns the number of leading space characters in line.
// Tabs deliberately do not count: callers that need tab-aware widths
// expand first with [expandItemIndent].
func leadingSpaceLen(line string) int {
	for i := 0; i < len(line); i++ {
		if line[i] != ' ' {
			return i
		}
	}
	return len(line)
}

func isASCIIDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isBlankLine(line string) bool {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ', '\t', '\v', '\f', '\n', '\r':
		default:
			return false
		}
	}
	return true
}
