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

// handleCodeSpan matches an inline code span: a backtick run opens it, and
// the first run of the same length anywhere later closes it (spanning
// lines, with embedded newlines folded to a single space and one leading
// and trailing space stripped if both are present and the content isn't
// all whitespace).
func handleCodeSpan(ip *InlineParser, ps *ParagraphStream, line *Line, doc *Document, prevCh rune) (*inlineNode, bool) {
	startLineNo := ps.CurrentLineNumber()
	startCol := line.Col()
	openLen := runLength(line, '`')
	save := ps.Save()
	line.Advance(openLen)

	var content strings.Builder
	for {
		cur := ps.Current()
		if cur == nil {
			ps.Restore(save)
			return nil, false
		}
		for !cur.AtEnd() {
			if cur.Peek() == '`' {
				n := runLength(cur, '`')
				if n == openLen {
					cur.Advance(n)
					text := normalizeCodeSpanContent(content.String())
					endPos := Pos{Line: ps.CurrentLineNumber(), Col: cur.Col()}
					return &inlineNode{item: &Code{
						itemHeader: itemHeader{kind: CodeItemKind, span: Span{
							Start: Pos{Line: startLineNo, Col: startCol},
							End:   endPos,
						}},
						Text:     text,
						IsInline: true,
					}}, true
				}
				for i := 0; i < n; i++ {
					content.WriteByte('`')
				}
				cur.Advance(n)
				continue
			}
			content.WriteRune(cur.Peek())
			cur.Advance(1)
		}
		if !ps.NextLine() {
			ps.Restore(save)
			return nil, false
		}
		content.WriteByte(' ')
	}
}

// runLength returns how many consecutive copies of ch sit at line's
// cursor, without consuming them.
func runLength(line *Line, ch rune) int {
	n := 0
	for line.PeekAt(n) == ch {
		n++
	}
	return n
}

func normalizeCodeSpanContent(s string) string {
	if s == "" {
		return s
	}
	allSpace := strings.TrimSpace(s) == ""
	if !allSpace && len(s) >= 2 && s[0] == ' ' && s[len(s)-1] == ' ' {
		s = s[1 : len(s)-1]
	}
	return s
}
