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

// blockquoteParser recognizes `>`-prefixed container blocks. A line matches
// if, after at most 3 leading spaces, the first non-space is '>'; a single
// trailing space after '>' is consumed as part of the marker.
type blockquoteParser struct{}

func (p *blockquoteParser) isContainerBlockParser() {}

func (p *blockquoteParser) Check(line *Line, stream *TextStream, doc *Document, ctx *Context) BlockState {
	indent := line.Indent()
	if indent >= codeBlockIndentLimit {
		return StateNone
	}
	save := line.Save()
	line.SkipSpaces(indent)
	ok := line.Peek() == '>'
	line.Restore(save)
	if !ok {
		return StateNone
	}
	return StateContinue
}

func (p *blockquoteParser) ContinueCheck(line *Line, stream *TextStream, doc *Document, ctx *Context) BlockState {
	indent := line.Indent()
	if indent < codeBlockIndentLimit {
		save := line.Save()
		line.SkipSpaces(indent)
		found := line.Peek() == '>'
		line.Restore(save)
		if found {
			return StateContinue
		}
	}
	if line.IsBlank() {
		return StateStop
	}
	deepest := ctx.MostNestedChild()
	if deepest != ctx && deepest.Block() != nil && deepest.Block().CanBeLazyContinuation() {
		ctx.AppendLazyInfo(ctx.LastLineNumber() + 1)
		return StateContinue
	}
	return StateStop
}

func (p *blockquoteParser) Process(line *Line, stream *TextStream, doc *Document, ctx *Context) {
	bq, _ := ctx.Item().(*Blockquote)
	if bq == nil {
		bq = &Blockquote{itemHeader: itemHeader{kind: BlockquoteItemKind, span: Span{Start: Pos{Line: ctx.FirstLineNumber(), Col: 0}}}}
		ctx.SetItem(bq)
	}
	indent := line.Indent()
	if indent < codeBlockIndentLimit {
		save := line.Save()
		line.SkipSpaces(indent)
		if line.Peek() == '>' {
			startPos := Pos{Line: ctx.LastLineNumber(), Col: line.Col()}
			line.Advance(1)
			if line.Peek() == ' ' || line.Peek() == '\t' {
				line.Advance(1)
			}
			endPos := Pos{Line: ctx.LastLineNumber(), Col: line.Col()}
			bq.DelimPositions = append(bq.DelimPositions, Span{Start: startPos, End: endPos})
			return
		}
		line.Restore(save)
	}
	// Lazy continuation: nothing of ours to consume.
}

func (p *blockquoteParser) Finish(doc *Document, ctx *Context) {
	bq, ok := ctx.Item().(*Blockquote)
	if !ok {
		return
	}
	bq.span.End = Pos{Line: ctx.LastLineNumber() + 1, Col: 0}
	appendToParent(ctx, doc, bq)
}

func (p *blockquoteParser) MayInterruptParagraph() bool { return true }
func (p *blockquoteParser) CanBeLazyContinuation() bool { return false }
