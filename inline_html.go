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

// handleAngleBracket matches everything CommonMark recognizes starting
// with '<': an absolute-URI or email autolink, or a verbatim inline HTML
// tag/comment/processing-instruction/declaration/CDATA section.
func handleAngleBracket(ip *InlineParser, ps *ParagraphStream, line *Line, doc *Document, prevCh rune) (*inlineNode, bool) {
	if node, ok := tryAutolink(ps, line); ok {
		return node, true
	}
	if node, ok := tryInlineHTML(ps, line); ok {
		return node, true
	}
	return nil, false
}

// tryAutolink recognizes both the email form (user@domain, no scheme, a
// "mailto:" is synthesized for the URL) and any scheme:rest URI form. An
// xmpp: URI's optional "/resource" suffix after the user@host part is just
// more scheme-specific path content, so it already falls out of the
// generic scheme grammar below without needing special-casing the way
// mailto does.
func tryAutolink(ps *ParagraphStream, line *Line) (*inlineNode, bool) {
	save := line.Save()
	startLineNo := ps.CurrentLineNumber()
	startCol := line.Col()
	if line.Peek() != '<' {
		return nil, false
	}
	line.Advance(1)

	start := line.Pos()
	runes := line.Runes()
	i := start
	for i < len(runes) && runes[i] != '>' && runes[i] != '<' && !isControlOrSpace(runes[i]) {
		i++
	}
	if i >= len(runes) || runes[i] != '>' {
		line.Restore(save)
		return nil, false
	}
	raw := string(runes[start:i])

	if isURIAutolink(raw) || isEmailAutolink(raw) {
		line.Advance(i - start + 1)
		endPos := Pos{Line: startLineNo, Col: line.Col()}
		url := raw
		if !strings.Contains(raw, ":") {
			url = "mailto:" + raw
		}
		link := &Link{
			itemHeader: itemHeader{kind: LinkItemKind, span: Span{Start: Pos{Line: startLineNo, Col: startCol}, End: endPos}},
			LinkBase: LinkBase{
				URL:     url,
				RawText: raw,
			},
		}
		link.Description = NewParagraph(link.span)
		link.Description.AppendInline(&Text{itemHeader: itemHeader{kind: TextItemKind, span: link.span}, Value: raw})
		return &inlineNode{item: link}, true
	}
	line.Restore(save)
	return nil, false
}

func isControlOrSpace(r rune) bool {
	return r <= ' ' || r == 0x7f
}

func isURIAutolink(s string) bool {
	colon := strings.IndexByte(s, ':')
	if colon < 2 || colon > 32 {
		return false
	}
	scheme := s[:colon]
	if !isLetter(rune(scheme[0])) {
		return false
	}
	for _, r := range scheme[1:] {
		if !isLetter(r) && !isDigitRune(r) && r != '+' && r != '-' && r != '.' {
			return false
		}
	}
	return true
}

func isDigitRune(r rune) bool { return r >= '0' && r <= '9' }
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// isEmailAutolink implements CommonMark's simplified email-autolink
// grammar: local@domain(.domain)*, where local is alnum and
// ".!#$%&'*+/=?^_`{|}~-", and each domain label is alnum/hyphen not
// starting/ending with a hyphen.
func isEmailAutolink(s string) bool {
	at := strings.IndexByte(s, '@')
	if at <= 0 {
		return false
	}
	local, domain := s[:at], s[at+1:]
	for _, r := range local {
		if !isLetter(r) && !isDigitRune(r) && !strings.ContainsRune(".!#$%&'*+/=?^_`{|}~-", r) {
			return false
		}
	}
	labels := strings.Split(domain, ".")
	if len(labels) < 1 {
		return false
	}
	for _, lab := range labels {
		if lab == "" || len(lab) > 63 {
			return false
		}
		if lab[0] == '-' || lab[len(lab)-1] == '-' {
			return false
		}
		for _, r := range lab {
			if !isLetter(r) && !isDigitRune(r) && r != '-' {
				return false
			}
		}
	}
	return true
}

func tryInlineHTML(ps *ParagraphStream, line *Line) (*inlineNode, bool) {
	save := line.Save()
	startLineNo := ps.CurrentLineNumber()
	startCol := line.Col()
	if line.Peek() != '<' {
		return nil, false
	}
	runes := line.Runes()
	i := line.Pos()

	switch {
	case hasPrefixAt(runes, i, "<!--"):
		if end, ok := findClose(runes, i+4, "-->"); ok {
			return finishRawHTML(line, ps, startLineNo, startCol, runes, i, end)
		}
	case hasPrefixAt(runes, i, "<?"):
		if end, ok := findClose(runes, i+2, "?>"); ok {
			return finishRawHTML(line, ps, startLineNo, startCol, runes, i, end)
		}
	case hasPrefixAt(runes, i, "<![CDATA["):
		if end, ok := findClose(runes, i+9, "]]>"); ok {
			return finishRawHTML(line, ps, startLineNo, startCol, runes, i, end)
		}
	case hasPrefixAt(runes, i, "<!"):
		if end, ok := findClose(runes, i+2, ">"); ok {
			return finishRawHTML(line, ps, startLineNo, startCol, runes, i, end)
		}
	default:
		if end, ok := scanHTMLTag(runes, i); ok {
			return finishRawHTML(line, ps, startLineNo, startCol, runes, i, end)
		}
	}
	line.Restore(save)
	return nil, false
}

func hasPrefixAt(runes []rune, i int, prefix string) bool {
	if i+len(prefix) > len(runes) {
		return false
	}
	return string(runes[i:i+len(prefix)]) == prefix
}

func findClose(runes []rune, from int, closer string) (int, bool) {
	s := string(runes[from:])
	idx := strings.Index(s, closer)
	if idx < 0 {
		return 0, false
	}
	return from + idx + len(closer), true
}

// scanHTMLTag recognizes an open or close tag: `<` or `</`, a tag name of
// letters and digits ended by whitespace, `/`, or `>`, then everything up
// to the next `>`. The text between the name and `>` is not checked
// against the attribute grammar; it only may not contain `<`.
func scanHTMLTag(runes []rune, i int) (int, bool) {
	j := i + 1
	if j < len(runes) && runes[j] == '/' {
		j++
	}
	nameStart := j
	for j < len(runes) && (isLetter(runes[j]) || isDigitRune(runes[j])) {
		j++
	}
	if j == nameStart {
		return 0, false
	}
	if j < len(runes) && runes[j] != '>' && runes[j] != '/' && !isUnicodeSpace(runes[j]) {
		return 0, false
	}
	for j < len(runes) && runes[j] != '>' {
		if runes[j] == '<' {
			return 0, false
		}
		j++
	}
	if j >= len(runes) {
		return 0, false
	}
	return j + 1, true
}

func finishRawHTML(line *Line, ps *ParagraphStream, startLineNo, startCol int, runes []rune, start, end int) (*inlineNode, bool) {
	raw := string(runes[start:end])
	line.Advance(end - line.Pos())
	endPos := Pos{Line: startLineNo, Col: line.Col()}
	return &inlineNode{item: &RawHtml{
		itemHeader: itemHeader{kind: RawHTMLItemKind, span: Span{Start: Pos{Line: startLineNo, Col: startCol}, End: endPos}},
		Raw:        raw,
	}}, true
}
