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

import "unicode"

// handleDelimRun records a maximal run of '*', '_', or '~' as an unresolved
// delimiter node; the actual opener/closer matching happens once the whole
// paragraph has been scanned, in resolveEmphasis.
func handleDelimRun(ip *InlineParser, ps *ParagraphStream, line *Line, doc *Document, prevCh rune) (*inlineNode, bool) {
	ch := line.Peek()
	if ch != '*' && ch != '_' && ch != '~' {
		return nil, false
	}
	n := runLength(line, ch)
	if ch == '~' && n != 2 {
		// Strikethrough runs are one or two '~'; a longer run is left as
		// ordinary text.
		if n != 1 {
			return nil, false
		}
	}
	startLineNo := ps.CurrentLineNumber()
	startCol := line.Col()
	nextCh := line.PeekAt(n)
	line.Advance(n)
	endPos := Pos{Line: startLineNo, Col: line.Col()}

	leftFlank := !isUnicodeSpace(nextCh) && (!isUnicodePunct(nextCh) || isUnicodeSpace(prevCh) || isUnicodePunct(prevCh))
	rightFlank := !isUnicodeSpace(prevCh) && (!isUnicodePunct(prevCh) || isUnicodeSpace(nextCh) || isUnicodePunct(nextCh))

	var canOpen, canClose bool
	switch byte(ch) {
	case '_':
		canOpen = leftFlank && (!rightFlank || isUnicodePunct(prevCh))
		canClose = rightFlank && (!leftFlank || isUnicodePunct(nextCh))
	default: // '*' and '~'
		canOpen = leftFlank
		canClose = rightFlank
	}

	return &inlineNode{delim: &delimRun{
		char:     byte(ch),
		count:    n,
		rem:      n,
		canOpen:  canOpen,
		canClose: canClose,
		span:     Span{Start: Pos{Line: startLineNo, Col: startCol}, End: endPos},
		active:   true,
	}}, true
}

func isUnicodeSpace(r rune) bool {
	return r == 0 || unicode.IsSpace(r)
}

func isUnicodePunct(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// resolveEmphasis matches delimiter runs against each other following the
// CommonMark algorithm (scan for closers left to right, look back for the
// nearest matching opener, preferring '*'/'_' parity rules and the rule of
// 3), converting every matched span of nodes into emphasis/strikethrough by
// toggling the relevant [StyleOpt] bit on the [Text] nodes it covers and
// recording the consumed delimiter characters as [StyleDelim] markers on
// the text immediately inside the span's edges.
func resolveEmphasis(nodes []*inlineNode) {
	type opener struct {
		idx  int
		ch   byte
		rem  int // delimiter count still available to match
	}
	var openers []opener

	for i := 0; i < len(nodes); i++ {
		d := nodes[i].delim
		if d == nil || !d.active {
			continue
		}
		if !d.canClose {
			if d.canOpen {
				openers = append(openers, opener{idx: i, ch: d.char, rem: d.count})
			}
			continue
		}
		matched := false
		for oi := len(openers) - 1; oi >= 0; oi-- {
			o := openers[oi]
			if o.ch != d.char {
				continue
			}
			od := nodes[o.idx].delim
			if !od.active || od.rem == 0 {
				continue
			}
			// The "rule of 3": a run that can both open and close of
			// length not a multiple of 3 cannot close an opener (also
			// able to open/close) when the sum would be a multiple of 3,
			// unless both lengths are themselves multiples of 3.
			if (od.canClose || d.canOpen) && (od.rem+d.rem)%3 == 0 && od.rem%3 != 0 && d.rem%3 != 0 {
				continue
			}
			use := 2
			style := styleForChar(d.char, false)
			if od.rem < 2 || d.rem < 2 {
				use = 1
				style = styleForChar(d.char, true)
			}
			applyStyleSpan(nodes, o.idx, i, style, d.char, use)
			od.rem -= use
			d.rem -= use
			if od.rem == 0 {
				od.active = false
				openers = openers[:oi]
			} else {
				openers = openers[:oi+1]
			}
			if d.rem == 0 {
				d.active = false
			} else {
				i--
			}
			matched = true
			break
		}
		if !matched && d.canOpen {
			openers = append(openers, opener{idx: i, ch: d.char, rem: d.count})
		}
	}
}

// styleForChar returns the StyleOpt bit a delimiter character contributes;
// single '_'/'*' delimiters are italic, doubled ones are bold, and '~' is
// always strikethrough regardless of count.
func styleForChar(ch byte, single bool) StyleOpt {
	if ch == '~' {
		return Strikethrough
	}
	if single {
		return Italic
	}
	return Bold
}

// applyStyleSpan turns on style for every Text node strictly between the
// opener and closer delimiter nodes (inclusive of immediately-adjacent
// runs, which also receive the literal StyleDelim marker), and neutralizes
// `use` characters from both delimiter runs so leftover counts can still
// render as literal text.
func applyStyleSpan(nodes []*inlineNode, openIdx, closeIdx int, style StyleOpt, ch byte, use int) {
	openDelim := StyleDelim{Span: nodes[openIdx].delim.span, Char: ch, Count: use, Style: style}
	closeDelim := StyleDelim{Span: nodes[closeIdx].delim.span, Char: ch, Count: use, Style: style}
	first := true
	for i := openIdx + 1; i < closeIdx; i++ {
		t := nodes[i].text
		if t == nil {
			continue
		}
		t.opts |= style
		if first {
			t.openStyles = append(t.openStyles, openDelim)
			first = false
		}
	}
	for i := closeIdx - 1; i > openIdx; i-- {
		t := nodes[i].text
		if t == nil {
			continue
		}
		t.closeStyles = append(t.closeStyles, closeDelim)
		break
	}
}
