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

package mdtree

import "strings"

// handleMath matches inline LaTeX math: `$...$` for inline display, or
// `$$...$$` for display math, mirroring the backtick code-span scan rule
// (run length on the way in must match the run length on the way out) but
// restricted to runs of exactly one or two dollar signs and refusing to
// match across a blank line.
func handleMath(ip *InlineParser, ps *ParagraphStream, line *Line, doc *Document, prevCh rune) (*inlineNode, bool) {
	n := runLength(line, '$')
	if n != 1 && n != 2 {
		return nil, false
	}
	startLineNo := ps.CurrentLineNumber()
	startCol := line.Col()
	save := ps.Save()
	line.Advance(n)
	// A single '$' may not wrap content starting with whitespace; '$$' has
	// no such restriction, since display math commonly opens with one.
	if n == 1 && (line.Peek() == ' ' || line.Peek() == 0) {
		ps.Restore(save)
		return nil, false
	}

	var content strings.Builder
	for {
		cur := ps.Current()
		if cur == nil {
			ps.Restore(save)
			return nil, false
		}
		if cur.IsBlank() {
			ps.Restore(save)
			return nil, false
		}
		for !cur.AtEnd() {
			if cur.Peek() == '$' {
				m := runLength(cur, '$')
				if m == n {
					if n == 1 && strings.HasSuffix(content.String(), " ") {
						ps.Restore(save)
						return nil, false
					}
					cur.Advance(n)
					endPos := Pos{Line: ps.CurrentLineNumber(), Col: cur.Col()}
					return &inlineNode{item: &Math{
						Code: Code{
							itemHeader: itemHeader{kind: MathItemKind, span: Span{
								Start: Pos{Line: startLineNo, Col: startCol},
								End:   endPos,
							}},
							Text:     stripMathBackticks(content.String()),
							IsInline: true,
						},
						Display: n == 2,
					}}, true
				}
			}
			content.WriteRune(cur.Peek())
			cur.Advance(1)
		}
		if !ps.NextLine() {
			ps.Restore(save)
			return nil, false
		}
		content.WriteByte('\n')
	}
}

// stripMathBackticks removes one leading and one trailing backtick from
// text, mirroring the way a math body written as `` $`code`$ `` escapes
// itself from looking like a code span; it only strips when both ends
// carry a backtick.
func stripMathBackticks(text string) string {
	if len(text) >= 2 && text[0] == '`' && text[len(text)-1] == '`' {
		return text[1 : len(text)-1]
	}
	return text
}
