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

// headingParser recognizes ATX headings: 1-6 '#' characters at indent < 4,
// followed by a space, tab, or end of line. Setext headings (a paragraph
// followed by a line of '=' or '-') are recognized by the paragraph parser
// instead, since they promote an already-open paragraph rather than
// opening a new block of their own.
type headingParser struct{}

func atxLevel(line *Line) int {
	n := 0
	for n < 6 && line.PeekAt(n) == '#' {
		n++
	}
	if n == 0 || n > 6 {
		return 0
	}
	after := line.PeekAt(n)
	if after != 0 && after != ' ' && after != '\t' {
		return 0
	}
	return n
}

func (p *headingParser) Check(line *Line, stream *TextStream, doc *Document, ctx *Context) BlockState {
	indent := line.Indent()
	if indent >= codeBlockIndentLimit {
		return StateNone
	}
	save := line.Save()
	line.SkipSpaces(indent)
	lvl := atxLevel(line)
	line.Restore(save)
	if lvl == 0 {
		return StateNone
	}
	return StateStop
}

func (p *headingParser) ContinueCheck(line *Line, stream *TextStream, doc *Document, ctx *Context) BlockState {
	return StateStop
}

// stripATXClose removes a trailing run of '#' characters that closes an ATX
// heading (must be preceded by a space or be the whole remaining content).
func stripATXClose(s string) string {
	trimmed := strings.TrimRight(s, " \t")
	i := len(trimmed)
	for i > 0 && trimmed[i-1] == '#' {
		i--
	}
	if i == len(trimmed) {
		return trimmed
	}
	if i == 0 || trimmed[i-1] == ' ' || trimmed[i-1] == '\t' {
		return strings.TrimRight(trimmed[:i], " \t")
	}
	return trimmed
}

// stripHeadingLabel removes a trailing "{#label}" suffix, if present, and
// returns the remaining text along with the label (without braces/hash).
func stripHeadingLabel(s string) (text, label string) {
	trimmed := strings.TrimRight(s, " \t")
	if !strings.HasSuffix(trimmed, "}") {
		return s, ""
	}
	open := strings.LastIndex(trimmed, "{#")
	if open < 0 {
		return s, ""
	}
	inner := trimmed[open+2 : len(trimmed)-1]
	if inner == "" || strings.ContainsAny(inner, " \t") {
		return s, ""
	}
	before := trimmed[:open]
	return strings.TrimRight(before, " \t"), inner
}

func (p *headingParser) Process(line *Line, stream *TextStream, doc *Document, ctx *Context) {
	indent := line.Indent()
	line.SkipSpaces(indent)
	lineNo := ctx.FirstLineNumber()
	lvl := atxLevel(line)
	for i := 0; i < lvl; i++ {
		line.Advance(1)
	}
	line.SkipSpaces(line.Indent())
	contentStartCol := line.Col()
	raw := line.RawRest()
	line.Advance(line.Len())

	content := stripATXClose(raw)
	text, label := stripHeadingLabel(content)

	h := &Heading{
		itemHeader: itemHeader{kind: HeadingItemKind, span: Span{Start: Pos{Line: lineNo, Col: 0}, End: Pos{Line: lineNo + 1, Col: 0}}},
		Level:      lvl,
		Label:      label,
	}
	if label != "" {
		h.Label = "#" + label
		labelEnd := contentStartCol + len(content)
		labelStart := labelEnd - len(label) - 1
		h.LabelPos = Span{Start: Pos{Line: lineNo, Col: labelStart}, End: Pos{Line: lineNo, Col: labelEnd}}
	}

	para := NewParagraph(Span{Start: Pos{Line: lineNo, Col: contentStartCol}, End: Pos{Line: lineNo, Col: contentStartCol + len(text)}})
	if strings.TrimSpace(text) != "" {
		src := NewLine(text)
		lines := map[int]*Line{lineNo: src}
		ps := NewParagraphStream(lines, lineNo, lineNo)
		NewInlineParser().Parse(para, ps, doc)
	}
	h.Text = para

	ctx.SetItem(h)
}

func (p *headingParser) Finish(doc *Document, ctx *Context) {
	h, ok := ctx.Item().(*Heading)
	if !ok {
		return
	}
	appendToParent(ctx, doc, h)
}

func (p *headingParser) MayInterruptParagraph() bool { return true }
func (p *headingParser) CanBeLazyContinuation() bool { return false }
