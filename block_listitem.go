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

// listItemParser recognizes the bullet/ordered-list marker that starts a
// ListItem. The sibling [List] grouping a contiguous run of same-marker
// items lives on the parent Context (Context.OpenList) rather than owning a
// Context of its own: once attached to its own parent, later ListItems
// mutate the same *List value in place, so no separate close step is
// needed for the grouping node itself.
type listItemParser struct{}

func (p *listItemParser) isContainerBlockParser() {}

type rawListMarker struct {
	ordered bool
	delim   byte
	num     int
	runes   int // number of runes the marker itself occupies
}

// matchListMarker reports whether line (already positioned past any
// leading indent) begins with a list marker, without consuming anything.
func matchListMarker(line *Line) (rawListMarker, bool) {
	r := line.Peek()
	switch {
	case r == '-' || r == '+' || r == '*':
		next := line.PeekAt(1)
		if next != 0 && next != ' ' && next != '\t' {
			return rawListMarker{}, false
		}
		return rawListMarker{delim: byte(r), runes: 1}, true
	case r >= '0' && r <= '9':
		n := 0
		i := 0
		for i < 9 {
			c := line.PeekAt(i)
			if c < '0' || c > '9' {
				break
			}
			n = n*10 + int(c-'0')
			i++
		}
		if i == 0 || i > 9 {
			return rawListMarker{}, false
		}
		c := line.PeekAt(i)
		if c != '.' && c != ')' {
			return rawListMarker{}, false
		}
		after := line.PeekAt(i + 1)
		if after != 0 && after != ' ' && after != '\t' {
			return rawListMarker{}, false
		}
		return rawListMarker{ordered: true, delim: byte(c), num: n, runes: i + 1}, true
	}
	return rawListMarker{}, false
}

type listItemState struct {
	contentIndent int
}

func (p *listItemParser) Check(line *Line, stream *TextStream, doc *Document, ctx *Context) BlockState {
	indent := line.Indent()
	if indent >= codeBlockIndentLimit {
		return StateNone
	}
	save := line.Save()
	line.SkipSpaces(indent)
	_, ok := matchListMarker(line)
	line.Restore(save)
	if !ok {
		return StateNone
	}
	return StateContinue
}

func (p *listItemParser) ContinueCheck(line *Line, stream *TextStream, doc *Document, ctx *Context) BlockState {
	st, _ := ctx.Data().(*listItemState)
	if st == nil {
		return StateContinue
	}
	if line.IsBlank() {
		return StateContinue
	}
	if line.Indent() >= st.contentIndent {
		line.SkipSpaces(st.contentIndent)
		return StateContinue
	}
	return StateStop
}

func (p *listItemParser) Process(line *Line, stream *TextStream, doc *Document, ctx *Context) {
	if st, ok := ctx.Data().(*listItemState); ok {
		_ = st
		if line.IsBlank() {
			line.Advance(line.Len())
		}
		return
	}

	indent := line.Indent()
	line.SkipSpaces(indent)
	markerStartCol := line.Col()
	m, _ := matchListMarker(line)
	for i := 0; i < m.runes; i++ {
		line.Advance(1)
	}
	markerEndCol := line.Col()

	lineNo := ctx.FirstLineNumber()
	li := &ListItem{
		itemHeader: itemHeader{kind: ListItemKind, span: Span{Start: Pos{Line: lineNo, Col: 0}}},
		MarkerPos:  Span{Start: Pos{Line: lineNo, Col: markerStartCol}, End: Pos{Line: lineNo, Col: markerEndCol}},
	}
	if m.ordered {
		li.ListType = Ordered
		li.StartNumber = m.num
	} else {
		li.ListType = Unordered
	}

	beforeTask := line.Save()
	line.SkipSpaces(1)
	if line.Peek() == '[' &&
		(line.PeekAt(1) == ' ' || line.PeekAt(1) == 'x' || line.PeekAt(1) == 'X') &&
		line.PeekAt(2) == ']' &&
		(line.PeekAt(3) == 0 || line.PeekAt(3) == ' ' || line.PeekAt(3) == '\t') {
		taskStartCol := line.Col()
		checked := line.PeekAt(1) != ' '
		line.Advance(3)
		li.IsTaskList = true
		li.IsChecked = checked
		li.TaskMarkerPos = Span{Start: Pos{Line: lineNo, Col: taskStartCol}, End: Pos{Line: lineNo, Col: line.Col()}}
	} else {
		line.Restore(beforeTask)
	}

	parentCtx := ctx.Parent()
	lst := parentCtx.OpenList()
	sameGroup := lst != nil && parentCtx.ListDelim(markerStartCol) == m.delim
	if !sameGroup {
		lst = &List{itemHeader: itemHeader{kind: ListItemKindItem, span: Span{Start: Pos{Line: lineNo, Col: 0}}}}
		parentCtx.SetOpenList(lst)
		parentCtx.ClearChildIndents(markerStartCol, false)
	}

	st := &listItemState{}
	if line.IsBlank() {
		st.contentIndent = markerEndCol + 1
		line.Advance(line.Len())
		if lst.ChildCount() == 0 {
			li.OrderedPreState = OrderedStart
		} else {
			li.OrderedPreState = OrderedContinue
		}
		lst.AppendItem(li)
		ctx.SetItem(li)
		ctx.SetData(st)
		ctx.SetIndentColumn(st.contentIndent)
		parentCtx.AppendChildIndent(markerStartCol, m.delim)
		if !sameGroup {
			attachItem(parentCtx, doc, lst)
		}
		return
	}

	padding := line.Indent()
	switch {
	case padding < 1:
		padding = 1
	case padding > 4:
		padding = 1
		line.SkipSpaces(1)
	default:
		line.SkipSpaces(padding)
	}
	st.contentIndent = markerEndCol + padding

	if lst.ChildCount() == 0 {
		li.OrderedPreState = OrderedStart
	} else {
		li.OrderedPreState = OrderedContinue
	}
	lst.AppendItem(li)
	ctx.SetItem(li)
	ctx.SetData(st)
	ctx.SetIndentColumn(st.contentIndent)
	parentCtx.AppendChildIndent(markerStartCol, m.delim)
	if !sameGroup {
		attachItem(parentCtx, doc, lst)
	}
}

func (p *listItemParser) Finish(doc *Document, ctx *Context) {
	li, ok := ctx.Item().(*ListItem)
	if !ok {
		return
	}
	li.span.End = Pos{Line: ctx.LastLineNumber() + 1, Col: 0}
	// li is already linked into its List's items slice (done in Process),
	// so no further attach step is needed here.
}

func (p *listItemParser) MayInterruptParagraph() bool { return true }
func (p *listItemParser) CanBeLazyContinuation() bool { return false }
