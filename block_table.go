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

// tableParser recognizes a GFM table: a header line containing at least
// one unescaped '|', immediately followed by a delimiter line of the form
// `|? ( *:?-+:? *)|? ...|?` with the same column count. Since a table
// cannot be recognized from its header line alone, Check peeks at the next
// raw source line via stream rather than opening speculatively and
// discarding.
type tableParser struct{}

// splitTableCells splits a row's raw text on unescaped, unquoted '|'
// characters, trimming surrounding whitespace from each cell and stripping
// a leading/trailing empty cell produced by outer pipes.
func splitTableCells(s string) []string {
	var cells []string
	var cur strings.Builder
	escaped := false
	backticks := 0
	for _, r := range s {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			cur.WriteRune(r)
			escaped = true
		case r == '`':
			backticks++
			cur.WriteRune(r)
		case r == '|' && backticks%2 == 0:
			cells = append(cells, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	cells = append(cells, cur.String())

	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	if len(cells) > 1 && cells[0] == "" {
		cells = cells[1:]
	}
	if len(cells) > 1 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}

// parseDelimiterRow reports the per-column alignment if s is a valid GFM
// table delimiter row, and false otherwise.
func parseDelimiterRow(s string) ([]Alignment, bool) {
	cells := splitTableCells(s)
	if len(cells) == 0 {
		return nil, false
	}
	aligns := make([]Alignment, len(cells))
	for i, c := range cells {
		left := strings.HasPrefix(c, ":")
		right := strings.HasSuffix(c, ":")
		core := strings.TrimSuffix(strings.TrimPrefix(c, ":"), ":")
		if core == "" || strings.Trim(core, "-") != "" {
			return nil, false
		}
		switch {
		case left && right:
			aligns[i] = AlignCenter
		case right:
			aligns[i] = AlignRight
		default:
			aligns[i] = AlignLeft
		}
	}
	return aligns, true
}

func (p *tableParser) Check(line *Line, stream *TextStream, doc *Document, ctx *Context) BlockState {
	indent := line.Indent()
	if indent >= codeBlockIndentLimit {
		return StateNone
	}
	if !strings.ContainsRune(line.RawRest(), '|') {
		return StateNone
	}
	nextNo := ctx.LastLineNumber() + 1
	if nextNo >= stream.LineCount() {
		return StateNone
	}
	next := stream.LineAt(nextNo)
	if next.IsBlank() {
		return StateNone
	}
	headerCells := splitTableCells(line.RawRest())
	aligns, ok := parseDelimiterRow(next.RawRest())
	if !ok || len(aligns) != len(headerCells) {
		return StateNone
	}
	return StateContinue
}

type tableState struct {
	columns int
	seenRow int
}

func (p *tableParser) ContinueCheck(line *Line, stream *TextStream, doc *Document, ctx *Context) BlockState {
	st, _ := ctx.Data().(*tableState)
	if st == nil {
		return StateContinue
	}
	if line.IsBlank() {
		return StateStop
	}
	if !strings.ContainsRune(line.RawRest(), '|') && st.seenRow >= 2 {
		return StateStop
	}
	return StateContinueWithoutAppendingChildCtx
}

func (p *tableParser) Process(line *Line, stream *TextStream, doc *Document, ctx *Context) {
	tbl, _ := ctx.Item().(*Table)
	st, _ := ctx.Data().(*tableState)
	if tbl == nil {
		aligns, _ := parseDelimiterRow(stream.LineAt(ctx.FirstLineNumber() + 1).RawRest())
		tbl = &Table{
			itemHeader: itemHeader{kind: TableItemKind, span: Span{Start: Pos{Line: ctx.FirstLineNumber(), Col: 0}}},
			Alignments: aligns,
		}
		ctx.SetItem(tbl)
		st = &tableState{columns: len(aligns)}
		ctx.SetData(st)
		appendTableRow(tbl, line, doc, st.columns, ctx.LastLineNumber())
		line.Advance(line.Len())
		return
	}

	st.seenRow++
	if st.seenRow == 1 {
		// The delimiter row itself: already consumed for alignments.
		line.Advance(line.Len())
		return
	}
	appendTableRow(tbl, line, doc, st.columns, ctx.LastLineNumber())
	line.Advance(line.Len())
}

func appendTableRow(tbl *Table, line *Line, doc *Document, columns int, lineNo int) {
	cells := splitTableCells(line.RawRest())
	row := &TableRow{itemHeader: itemHeader{kind: TableRowItemKind, span: Span{Start: Pos{Line: lineNo, Col: 0}, End: Pos{Line: lineNo + 1, Col: 0}}}}
	for i := 0; i < columns; i++ {
		cell := &TableCell{itemHeader: itemHeader{kind: TableCellItemKind}}
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		if strings.TrimSpace(text) != "" {
			src := NewLine(text)
			lines := map[int]*Line{0: src}
			ps := NewParagraphStream(lines, 0, 0)
			para := NewParagraph(Span{})
			NewInlineParser().Parse(para, ps, doc)
			for _, inl := range para.Inlines() {
				cell.Append(inl)
			}
		}
		row.AppendCell(cell)
	}
	tbl.AppendRow(row)
}

func (p *tableParser) Finish(doc *Document, ctx *Context) {
	tbl, ok := ctx.Item().(*Table)
	if !ok {
		return
	}
	tbl.span.End = Pos{Line: ctx.LastLineNumber() + 1, Col: 0}
	appendToParent(ctx, doc, tbl)
}

func (p *tableParser) MayInterruptParagraph() bool { return true }
func (p *tableParser) CanBeLazyContinuation() bool  { return false }
