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

// indentedCodeParser recognizes a block indented at least 4 columns beyond
// its container. It never interrupts a paragraph and absorbs interior
// blank lines, trimming trailing blank lines back off at Finish.
type indentedCodeParser struct{}

type indentedCodeState struct {
	lines     []string
	firstLine int
}

func (p *indentedCodeParser) Check(line *Line, stream *TextStream, doc *Document, ctx *Context) BlockState {
	if line.IsBlank() {
		return StateNone
	}
	if line.Indent() < codeBlockIndentLimit {
		return StateNone
	}
	return StateContinue
}

func (p *indentedCodeParser) ContinueCheck(line *Line, stream *TextStream, doc *Document, ctx *Context) BlockState {
	if line.IsBlank() {
		return StateContinue
	}
	if line.Indent() >= codeBlockIndentLimit {
		line.SkipSpaces(codeBlockIndentLimit)
		return StateContinue
	}
	return StateStop
}

func (p *indentedCodeParser) Process(line *Line, stream *TextStream, doc *Document, ctx *Context) {
	st, _ := ctx.Data().(*indentedCodeState)
	if st == nil {
		st = &indentedCodeState{firstLine: ctx.FirstLineNumber()}
		ctx.SetData(st)
		line.SkipSpaces(codeBlockIndentLimit)
	}
	if line.IsBlank() {
		st.lines = append(st.lines, "")
		line.Advance(line.Len())
		return
	}
	st.lines = append(st.lines, line.RawRest())
	line.Advance(line.Len())
}

func (p *indentedCodeParser) Finish(doc *Document, ctx *Context) {
	st, ok := ctx.Data().(*indentedCodeState)
	if !ok {
		return
	}
	lines := st.lines
	end := len(lines)
	for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	lines = lines[:end]
	c := &Code{
		itemHeader: itemHeader{kind: CodeItemKind, span: Span{Start: Pos{Line: st.firstLine, Col: codeBlockIndentLimit}, End: Pos{Line: ctx.LastLineNumber() + 1, Col: 0}}},
		Text:       strings.Join(lines, "\n"),
		IsFenced:   false,
	}
	appendToParent(ctx, doc, c)
}

func (p *indentedCodeParser) MayInterruptParagraph() bool { return false }
func (p *indentedCodeParser) CanBeLazyContinuation() bool { return false }
