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

import (
	"html"
	"strings"
)

// fencedCodeParser recognizes fenced code blocks opened by a run of 3 or
// more '`' or '~' characters at indent < 4. An info string whose syntax is
// "math" (case-insensitive) lowers the block to a [Math] node wrapped in a
// synthetic [Paragraph], per the data model's Math-is-a-Code invariant.
type fencedCodeParser struct{}

type fenceState struct {
	char       byte
	count      int
	openIndent int
	startDelim Span
	syntax     string
	syntaxPos  Span
	lines      []string
}

// unescapeFenceInfo resolves backslash escapes of ASCII punctuation in a
// fence info string (CommonMark allows backslash-escaping punctuation
// anywhere, including there).
func unescapeFenceInfo(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && isASCIIPunct(s[i+1]) {
			sb.WriteByte(s[i+1])
			i++
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

func isASCIIPunct(b byte) bool {
	return strings.IndexByte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", b) >= 0
}

func countFenceRun(line *Line, ch byte) int {
	n := 0
	for line.PeekAt(n) == rune(ch) {
		n++
	}
	return n
}

func (p *fencedCodeParser) Check(line *Line, stream *TextStream, doc *Document, ctx *Context) BlockState {
	indent := line.Indent()
	if indent >= codeBlockIndentLimit {
		return StateNone
	}
	save := line.Save()
	line.SkipSpaces(indent)
	r := line.Peek()
	if r != '`' && r != '~' {
		line.Restore(save)
		return StateNone
	}
	n := countFenceRun(line, byte(r))
	if n < 3 {
		line.Restore(save)
		return StateNone
	}
	if r == '`' {
		save2 := line.Save()
		line.Advance(n)
		if strings.ContainsRune(line.RawRest(), '`') {
			line.Restore(save)
			return StateNone
		}
		line.Restore(save2)
	}
	line.Restore(save)
	return StateContinue
}

func (p *fencedCodeParser) ContinueCheck(line *Line, stream *TextStream, doc *Document, ctx *Context) BlockState {
	fs, _ := ctx.Data().(*fenceState)
	if fs == nil {
		return StateContinue
	}
	indent := line.Indent()
	if indent < codeBlockIndentLimit {
		save := line.Save()
		line.SkipSpaces(indent)
		r := line.Peek()
		if r == rune(fs.char) {
			n := countFenceRun(line, fs.char)
			line.Advance(n)
			rest := line.RawRest()
			line.Restore(save)
			if n >= fs.count && strings.TrimSpace(rest) == "" {
				return StateContinueWithoutAppendingChildCtx
			}
		} else {
			line.Restore(save)
		}
	}
	return StateContinueWithoutAppendingChildCtx
}

func (p *fencedCodeParser) Process(line *Line, stream *TextStream, doc *Document, ctx *Context) {
	fs, _ := ctx.Data().(*fenceState)
	lineNo := ctx.LastLineNumber()
	if fs == nil {
		indent := line.Indent()
		line.SkipSpaces(indent)
		startCol := line.Col()
		r := byte(line.Peek())
		n := countFenceRun(line, r)
		line.Advance(n)
		line.SkipSpaces(line.Indent())
		infoStart := line.Col()
		info := strings.TrimSpace(line.RawRest())
		line.Advance(line.Len())
		fs = &fenceState{
			char:       r,
			count:      n,
			openIndent: indent,
			startDelim: Span{Start: Pos{Line: lineNo, Col: startCol}, End: Pos{Line: lineNo, Col: startCol + n}},
			syntax:     html.UnescapeString(unescapeFenceInfo(info)),
		}
		if info != "" {
			fs.syntaxPos = Span{Start: Pos{Line: lineNo, Col: infoStart}, End: Pos{Line: lineNo, Col: infoStart + len(info)}}
		}
		ctx.SetData(fs)
		return
	}

	indent := line.Indent()
	if indent < codeBlockIndentLimit {
		save := line.Save()
		line.SkipSpaces(indent)
		r := line.Peek()
		if r == rune(fs.char) {
			n := countFenceRun(line, fs.char)
			probe := line.Save()
			line.Advance(n)
			rest := line.RawRest()
			line.Restore(probe)
			if n >= fs.count && strings.TrimSpace(rest) == "" {
				startCol := line.Col()
				line.Advance(line.Len())
				endSpan := Span{Start: Pos{Line: lineNo, Col: startCol}, End: Pos{Line: lineNo, Col: line.Col()}}
				ctx.SetData(fs)
				ctx.SetItem(&closingFenceMarker{itemHeader: itemHeader{span: endSpan}})
				ctx.SetClosed(true)
				return
			}
		}
		line.Restore(save)
	}

	strip := fs.openIndent
	if indent < strip {
		strip = indent
	}
	line.SkipSpaces(strip)
	fs.lines = append(fs.lines, line.RawRest())
	line.Advance(line.Len())
}

// closingFenceMarker is a throwaway Item used only to pass the closing
// delimiter's span from Process to Finish via Context.Item.
type closingFenceMarker struct {
	itemHeader
	leaf
}

func (p *fencedCodeParser) Finish(doc *Document, ctx *Context) {
	fs, ok := ctx.Data().(*fenceState)
	if !ok {
		return
	}
	var endDelim Span
	if m, ok := ctx.Item().(*closingFenceMarker); ok {
		endDelim = m.Span()
	}

	text := strings.Join(fs.lines, "\n")
	if len(fs.lines) > 0 {
		text += "\n"
	}
	code := Code{
		itemHeader: itemHeader{kind: CodeItemKind, span: Span{Start: fs.startDelim.Start, End: Pos{Line: ctx.LastLineNumber() + 1, Col: 0}}},
		Text:       text,
		IsFenced:   true,
		Syntax:     fs.syntax,
		SyntaxPos:  fs.syntaxPos,
		StartDelim: fs.startDelim,
		EndDelim:   endDelim,
	}

	if strings.EqualFold(fs.syntax, "math") {
		code.itemHeader.kind = MathItemKind
		m := &Math{Code: code, Display: true}
		para := NewParagraph(code.Span())
		para.AppendInline(m)
		appendToParent(ctx, doc, para)
		return
	}

	appendToParent(ctx, doc, &code)
}

func (p *fencedCodeParser) MayInterruptParagraph() bool { return true }
func (p *fencedCodeParser) CanBeLazyContinuation() bool { return false }
