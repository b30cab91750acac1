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

// gfmAutolinkPrefixes are the bare-text prefixes GFM recognizes as
// starting an extended autolink, independent of any `<...>` brackets. A
// token matching none of these is still tried as a bare email address
// (handleBareAutolink falls back to isEmailAddress).
var gfmAutolinkPrefixes = []string{"http://", "https://", "ftp://", "www.", "mailto:", "xmpp:"}

// handleBareAutolink matches a GFM "extended autolink": "http://",
// "https://", "ftp://", or "www." text, a "mailto:" or "xmpp:" address, or a bare
// email address with no scheme at all, none of which are already inside a
// bracketed autolink or link destination (the block/link parsers consume
// those forms first, so by the time the inline scanner reaches plain text
// any match here is a genuine bare autolink). Dispatched on every
// ASCII letter and digit, since a bare email can start with any of them.
func handleBareAutolink(ip *InlineParser, ps *ParagraphStream, line *Line, doc *Document, prevCh rune) (*inlineNode, bool) {
	switch prevCh {
	case ' ', '\n', '(', '*', '_', '~', 0:
	default:
		return nil, false
	}
	runes := line.Runes()
	i := line.Pos()
	rest := string(runes[i:])
	var prefix string
	for _, p := range gfmAutolinkPrefixes {
		if strings.HasPrefix(strings.ToLower(rest), p) {
			prefix = rest[:len(p)]
			break
		}
	}
	j := i
	for j < len(runes) && !isControlOrSpace(runes[j]) && runes[j] != '<' {
		j++
	}
	end := j
	for end > i+len(prefix) && isGFMAutolinkTrailingPunct(runes, i, end) {
		end--
	}
	if end <= i+len(prefix) {
		return nil, false
	}
	raw := string(runes[i:end])

	var url string
	switch {
	case prefix == "":
		if !isEmailAddress(raw) {
			return nil, false
		}
		url = "mailto:" + raw
	case strings.EqualFold(prefix, "mailto:") || strings.EqualFold(prefix, "xmpp:"):
		if !isEmailAddress(raw[len(prefix):]) {
			return nil, false
		}
		url = raw
	case strings.EqualFold(prefix, "www."):
		url = "http://" + raw
	default:
		url = raw
	}

	startLineNo := ps.CurrentLineNumber()
	startCol := line.Col()
	line.Advance(end - i)
	endPos := Pos{Line: startLineNo, Col: line.Col()}
	link := &Link{
		itemHeader: itemHeader{kind: LinkItemKind, span: Span{Start: Pos{Line: startLineNo, Col: startCol}, End: endPos}},
		LinkBase:   LinkBase{URL: url, RawText: raw},
	}
	link.Description = NewParagraph(link.span)
	link.Description.AppendInline(&Text{itemHeader: itemHeader{kind: TextItemKind, span: link.span}, Value: raw})
	return &inlineNode{item: link}, true
}

// isEmailAddress reports whether s is a plausible bare email address: a
// non-empty local part of allowed/additional characters, an '@', and a
// dotted domain whose every label is 1-63 characters of letters, digits,
// and interior '-' (never leading or trailing).
func isEmailAddress(s string) bool {
	at := strings.IndexByte(s, '@')
	if at <= 0 {
		return false
	}
	for _, r := range s[:at] {
		if !isEmailLocalRune(r) {
			return false
		}
	}
	labels := strings.Split(s[at+1:], ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if len(label) < 1 || len(label) > 63 {
			return false
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for _, r := range label {
			if !isAsciiAlnumRune(r) && r != '-' {
				return false
			}
		}
	}
	return true
}

// emailLocalPunct is the extra punctuation GFM allows in an email address's
// local part, beyond letters and digits.
const emailLocalPunct = "!#$%&'*+-./=?^_`{|}~"

func isEmailLocalRune(r rune) bool {
	return isAsciiAlnumRune(r) || strings.ContainsRune(emailLocalPunct, r)
}

func isAsciiAlnumRune(r rune) bool {
	return r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

// isGFMAutolinkTrailingPunct reports whether the rune immediately before
// end is one of the trailing characters GFM strips from an autolink match
// (closing punctuation that more likely belongs to the surrounding prose
// than the URL, plus an unbalanced trailing ')').
func isGFMAutolinkTrailingPunct(runes []rune, start, end int) bool {
	r := runes[end-1]
	switch r {
	case '?', '!', '.', ',', ':', '*', '_', '~':
		return true
	case ';':
		return true
	case ')':
		open, close := 0, 0
		for i := start; i < end; i++ {
			switch runes[i] {
			case '(':
				open++
			case ')':
				close++
			}
		}
		return close > open
	}
	return false
}
