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

// handleLinkOpen records a '[' as a potential link opener, or, if
// immediately followed by '^', as a footnote reference opener.
func handleLinkOpen(ip *InlineParser, ps *ParagraphStream, line *Line, doc *Document, prevCh rune) (*inlineNode, bool) {
	return openBracket(ip, ps, line, false)
}

// handleImageOpen records "![" as a potential image opener; if the
// characters don't actually form "![", '!' is left as ordinary text.
func handleImageOpen(ip *InlineParser, ps *ParagraphStream, line *Line, doc *Document, prevCh rune) (*inlineNode, bool) {
	if line.PeekAt(1) != '[' {
		return nil, false
	}
	line.Advance(1)
	return openBracket(ip, ps, line, true)
}

func openBracket(ip *InlineParser, ps *ParagraphStream, line *Line, isImage bool) (*inlineNode, bool) {
	startLineNo := ps.CurrentLineNumber()
	startCol := line.Col()
	line.Advance(1) // consume '['
	isFootnote := !isImage && line.Peek() == '^'
	marker := &bracketMarker{
		active:  true,
		isImage: isImage,
		span:    Span{Start: Pos{Line: startLineNo, Col: startCol}, End: Pos{Line: startLineNo, Col: line.Col()}},
	}
	if isFootnote {
		line.Advance(1)
		marker.isFootnote = true
	}
	ip.brackets = append(ip.brackets, marker)
	return &inlineNode{bracket: marker}, true
}

// handleLinkClose matches ']' against the innermost open bracket marker,
// attempting (in order) a footnote reference, an inline destination, a
// full/collapsed reference definition lookup, and finally a shortcut
// reference lookup; a bracket with no viable match is left as literal text.
func handleLinkClose(ip *InlineParser, ps *ParagraphStream, line *Line, doc *Document, prevCh rune) (*inlineNode, bool) {
	idx := -1
	for i := len(ip.brackets) - 1; i >= 0; i-- {
		if ip.brackets[i].active {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}
	opener := ip.brackets[idx]
	closeLineNo := ps.CurrentLineNumber()
	line.Advance(1) // consume ']'
	closeCol := line.Col()

	nodes := *ip.scanNodes
	openerNodeIdx := -1
	for i, n := range nodes {
		if n.bracket == opener {
			openerNodeIdx = i
			break
		}
	}
	if openerNodeIdx < 0 {
		return nil, false
	}

	if opener.disabled {
		ip.brackets = append(ip.brackets[:idx], ip.brackets[idx+1:]...)
		return &inlineNode{text: &Text{itemHeader: itemHeader{kind: TextItemKind}, Value: "]"}}, true
	}

	if opener.isFootnote {
		id := collapsePlainText(nodes[openerNodeIdx+1:])
		*ip.scanNodes = append(nodes[:openerNodeIdx], &inlineNode{item: &FootnoteRef{
			itemHeader: itemHeader{kind: FootnoteRefItemKind, span: Span{Start: opener.span.Start, End: Pos{Line: closeLineNo, Col: closeCol}}},
			ID:         id,
		}})
		ip.brackets = ip.brackets[:idx]
		return nil, true
	}

	descNodes := append([]*inlineNode(nil), nodes[openerNodeIdx+1:]...)
	resolveEmphasis(descNodes)

	var url, title string
	var haveDest bool
	if line.Peek() == '(' {
		save := line.Save()
		if u, t, ok := parseLinkDestinationTitle(line); ok {
			url, title, haveDest = u, t, true
		} else {
			line.Restore(save)
		}
	}
	if !haveDest {
		label := ""
		explicitLabel := false
		if line.Peek() == '[' {
			save := line.Save()
			if lbl, ok := parseBracketedLabel(line); ok {
				label = lbl
				explicitLabel = true
			} else {
				line.Restore(save)
			}
		}
		if !explicitLabel {
			label = collapsePlainText(descNodes)
		}
		if def, ok := doc.LabeledLinks[NormalizeLabel(label, "")]; ok {
			url, title, haveDest = def.URL, def.Title, true
		}
	}

	if !haveDest {
		ip.brackets = append(ip.brackets[:idx], ip.brackets[idx+1:]...)
		return &inlineNode{text: &Text{itemHeader: itemHeader{kind: TextItemKind}, Value: "]"}}, true
	}

	span := Span{Start: opener.span.Start, End: Pos{Line: ps.CurrentLineNumber(), Col: line.Col()}}
	desc := NewParagraph(span)
	for _, it := range collapseNodes(descNodes) {
		desc.AppendInline(it)
	}
	base := LinkBase{URL: url, Title: title, Description: desc}

	var resolved Item
	if opener.isImage {
		resolved = &Image{itemHeader: itemHeader{kind: ImageItemKind, span: span}, LinkBase: base}
	} else {
		resolved = &Link{itemHeader: itemHeader{kind: LinkItemKind, span: span}, LinkBase: base}
	}
	*ip.scanNodes = append(nodes[:openerNodeIdx], &inlineNode{item: resolved})
	ip.brackets = ip.brackets[:idx]
	if !opener.isImage {
		for _, b := range ip.brackets {
			b.disabled = true
		}
	}
	return nil, true
}

// collapseNodes flattens a slice of already-emphasis-resolved inline nodes
// down to the Item sequence a Paragraph stores.
func collapseNodes(nodes []*inlineNode) []Item {
	var out []Item
	for _, n := range nodes {
		switch {
		case n.item != nil:
			out = append(out, n.item)
		case n.text != nil:
			if n.text.Value != "" {
				out = append(out, n.text)
			}
		case n.delim != nil && n.delim.active:
			out = append(out, &Text{itemHeader: itemHeader{kind: TextItemKind, span: n.delim.span}, Value: strings.Repeat(string(n.delim.char), n.delim.count)})
		case n.bracket != nil && n.bracket.active:
			lit := "["
			if n.bracket.isImage {
				lit = "!["
			}
			out = append(out, &Text{itemHeader: itemHeader{kind: TextItemKind, span: n.bracket.span}, Value: lit})
		}
	}
	return out
}

// collapsePlainText renders nodes down to plain text, ignoring styling,
// used to compute a shortcut/collapsed reference label.
func collapsePlainText(nodes []*inlineNode) string {
	var sb strings.Builder
	for _, n := range nodes {
		switch {
		case n.text != nil:
			sb.WriteString(n.text.Value)
		case n.delim != nil && n.delim.active:
			sb.WriteString(strings.Repeat(string(n.delim.char), n.delim.count))
		case n.item != nil:
			if c, ok := n.item.(*Code); ok {
				sb.WriteString(c.Text)
			}
		}
	}
	return sb.String()
}

// parseLinkDestinationTitle parses the "(" destination [ title ] ")" form
// of an inline link/image. line's cursor must be on the opening '('.
func parseLinkDestinationTitle(line *Line) (url, title string, ok bool) {
	line.Advance(1)
	skipInlineSpace(line)
	if line.Peek() == '<' {
		line.Advance(1)
		var sb strings.Builder
		for {
			r := line.Peek()
			switch r {
			case 0, '<', '\n':
				return "", "", false
			case '>':
				line.Advance(1)
				url = sb.String()
				goto afterDest
			case '\\':
				if isEscapableAt(line, 1) {
					sb.WriteRune(line.PeekAt(1))
					line.Advance(2)
					continue
				}
			}
			sb.WriteRune(r)
			line.Advance(1)
		}
	} else {
		var sb strings.Builder
		depth := 0
		for {
			r := line.Peek()
			if r == 0 || isUnicodeSpace(r) {
				break
			}
			switch r {
			case '(':
				depth++
			case ')':
				if depth == 0 {
					goto afterDestPlain
				}
				depth--
			case '\\':
				if isEscapableAt(line, 1) {
					sb.WriteRune(line.PeekAt(1))
					line.Advance(2)
					continue
				}
			}
			sb.WriteRune(r)
			line.Advance(1)
		}
	afterDestPlain:
		url = sb.String()
	}
afterDest:
	skipInlineSpace(line)
	if line.Peek() == '"' || line.Peek() == '\'' || line.Peek() == '(' {
		closer := map[rune]rune{'"': '"', '\'': '\'', '(': ')'}[line.Peek()]
		line.Advance(1)
		var sb strings.Builder
		for {
			r := line.Peek()
			if r == 0 {
				return "", "", false
			}
			if r == closer {
				line.Advance(1)
				break
			}
			if r == '\\' && isEscapableAt(line, 1) {
				sb.WriteRune(line.PeekAt(1))
				line.Advance(2)
				continue
			}
			sb.WriteRune(r)
			line.Advance(1)
		}
		title = sb.String()
		skipInlineSpace(line)
	}
	if line.Peek() != ')' {
		return "", "", false
	}
	line.Advance(1)
	return url, title, true
}

func isEscapableAt(line *Line, n int) bool {
	return strings.ContainsRune(escapable, line.PeekAt(n))
}

func skipInlineSpace(line *Line) {
	for line.Peek() == ' ' || line.Peek() == '\t' || line.Peek() == '\n' {
		line.Advance(1)
	}
}

// parseBracketedLabel parses a "[label]" reference form, line's cursor
// must be on the opening '['. An empty label (collapsed reference, "[]")
// parses successfully with ok=true and label="".
func parseBracketedLabel(line *Line) (string, bool) {
	line.Advance(1)
	var sb strings.Builder
	for {
		r := line.Peek()
		switch r {
		case 0, '\n':
			return "", false
		case '[':
			return "", false
		case ']':
			line.Advance(1)
			return sb.String(), true
		case '\\':
			if isEscapableAt(line, 1) {
				sb.WriteRune(line.PeekAt(1))
				line.Advance(2)
				continue
			}
		}
		sb.WriteRune(r)
		line.Advance(1)
	}
}
