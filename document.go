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

// Package mdtree parses CommonMark, GitHub-Flavored Markdown, and a handful
// of further extensions (LaTeX math, ATX heading IDs, footnotes, YAML
// front matter, and recursive multi-file documents) into a byte-precise
// document tree.
package mdtree

// Item is implemented by every node in a document tree: [Document] itself,
// every block, and every inline. A single tagged interface (rather than
// separate block/inline hierarchies) keeps containers like [ListItem] and
// [Blockquote] able to hold any block as a child without a second type
// system to bridge.
type Item interface {
	// Kind reports the concrete type of the item.
	Kind() ItemKind
	// Span reports the item's byte-precise source position.
	Span() Span
	// ChildCount reports the number of children the item has.
	ChildCount() int
	// Child returns the i'th child.
	Child(i int) Item
}

// itemHeader is embedded by every concrete item type and supplies the
// common Kind/Span bookkeeping every item needs.
type itemHeader struct {
	kind ItemKind
	span Span
}

func (h *itemHeader) Kind() ItemKind { return h.kind }
func (h *itemHeader) Span() Span     { return h.span }

// leaf is embedded by item types with no children.
type leaf struct{}

func (leaf) ChildCount() int    { return 0 }
func (leaf) Child(i int) Item   { panic("mdtree: Child index out of range on leaf item") }

// StyleDelim marks one opener or closer run of an emphasis/strikethrough
// delimiter. Char is the delimiter character ('*', '_', or '~'); Count is
// the number of characters consumed from the run at this position.
type StyleDelim struct {
	Span  Span
	Char  byte
	Count int
	Style StyleOpt
}

// styleHeader is embedded by every inline item that can carry emphasis:
// [Text], [LineBreak], [RawHtml], [FootnoteRef].
type styleHeader struct {
	openStyles  []StyleDelim
	closeStyles []StyleDelim
	opts        StyleOpt
}

func (h *styleHeader) OpenStyles() []StyleDelim  { return h.openStyles }
func (h *styleHeader) CloseStyles() []StyleDelim { return h.closeStyles }
func (h *styleHeader) Opts() StyleOpt            { return h.opts }

// itemList is embedded by container items whose children are a plain,
// homogeneously-typed Item slice; it supplies ChildCount/Child in terms of
// that slice so each container type need only declare its typed field.
type itemList struct {
	children []Item
}

func (l *itemList) ChildCount() int  { return len(l.children) }
func (l *itemList) Child(i int) Item { return l.children[i] }

// Append adds it as the next child in source order.
func (l *itemList) Append(it Item) { l.children = append(l.children, it) }

// Document is the root of a parsed tree. For a single file it holds an
// [Anchor] followed by that file's blocks; for a recursively-parsed multi-file tree it holds an
// [Anchor], that file's blocks, a [PageBreak], the next file's [Anchor],
// and so on in the order the files were visited.
type Document struct {
	itemHeader
	itemList

	// LabeledHeadings maps a heading label (an explicit "#id" as written,
	// otherwise the [HeadingLabel] of its text), made unique, to the
	// heading it names.
	LabeledHeadings map[string]*Heading
	// LabeledLinks maps a normalized reference-link label (see
	// [NormalizeLabel]) to its definition.
	LabeledLinks map[string]*LinkReferenceDefinition
	// Footnotes maps a normalized footnote label to its definition.
	Footnotes map[string]*Footnote
	// AuxLabels holds any additional label bindings produced during
	// parsing, reserved for renderer-assigned ids.
	AuxLabels map[string]string

	posIndex map[posKey]Item
}

// NewDocument returns an empty document ready to be built by [*Parser].
func NewDocument() *Document {
	return &Document{
		itemHeader:      itemHeader{kind: DocumentItemKind, span: NullSpan()},
		LabeledHeadings: make(map[string]*Heading),
		LabeledLinks:    make(map[string]*LinkReferenceDefinition),
		Footnotes:       make(map[string]*Footnote),
		AuxLabels:       make(map[string]string),
	}
}

// Append adds a top-level item (block, [Anchor], or [PageBreak]) to the
// document in source order.
func (d *Document) Append(it Item) {
	d.children = append(d.children, it)
	d.posIndex = nil
	if d.span.Start.Line < 0 {
		d.span.Start = it.Span().Start
	}
	d.span.End = it.Span().End
}

type posKey struct {
	line, col int
}

// ItemAt returns the innermost item covering (line, col), or nil if no item
// covers that position. The index is built lazily on first call and
// invalidated by Append or Clone.
func (d *Document) ItemAt(line, col int) Item {
	if d.posIndex == nil {
		d.posIndex = make(map[posKey]Item)
		d.indexItem(d)
	}
	return d.posIndex[posKey{line, col}]
}

func (d *Document) indexItem(it Item) {
	sp := it.Span()
	if sp.IsValid() {
		for ln := sp.Start.Line; ln <= sp.End.Line; ln++ {
			startCol, endCol := 0, 1<<30
			if ln == sp.Start.Line {
				startCol = sp.Start.Col
			}
			if ln == sp.End.Line {
				endCol = sp.End.Col
			}
			for c := startCol; c < endCol && c <= sp.Start.Col+4096; c++ {
				if existing, ok := d.posIndex[posKey{ln, c}]; !ok || spanContains(existing.Span(), it.Span()) {
					d.posIndex[posKey{ln, c}] = it
				}
			}
		}
	}
	for i := 0; i < it.ChildCount(); i++ {
		d.indexItem(it.Child(i))
	}
}

func spanContains(outer, inner Span) bool {
	return outer.Start.LessEqual(inner.Start) && inner.End.LessEqual(outer.End)
}

// Clone returns a deep copy of the document. Cross-reference maps
// (LabeledHeadings, LabeledLinks, Footnotes) are rebuilt against the copied
// tree using a remap table rather than pointing back at the original.
func (d *Document) Clone() *Document {
	clone := NewDocument()
	clone.itemHeader = d.itemHeader
	remap := make(map[Item]Item)
	for _, c := range d.children {
		cc := cloneItem(c, remap)
		clone.children = append(clone.children, cc)
	}
	for label, h := range d.LabeledHeadings {
		if r, ok := remap[h].(*Heading); ok {
			clone.LabeledHeadings[label] = r
		}
	}
	for label, def := range d.LabeledLinks {
		// Definitions are not part of the tree, so most have no copy yet.
		r, ok := remap[def].(*LinkReferenceDefinition)
		if !ok {
			c := *def
			r = &c
			remap[def] = r
		}
		clone.LabeledLinks[label] = r
	}
	for label, f := range d.Footnotes {
		if r, ok := remap[f].(*Footnote); ok {
			clone.Footnotes[label] = r
		}
	}
	for k, v := range d.AuxLabels {
		clone.AuxLabels[k] = v
	}
	return clone
}

// Anchor marks the start of one file's region within a recursively-parsed,
// multi-file document; Label is the file's absolute path.
type Anchor struct {
	itemHeader
	leaf
	Label string
}

// PageBreak separates two files' regions in a recursively-parsed document.
type PageBreak struct {
	itemHeader
	leaf
}

// Paragraph is an ordered run of inline items. It is also reused verbatim
// as a link/image description and as heading text.
type Paragraph struct {
	itemHeader
	itemList
}

// NewParagraph returns an empty paragraph spanning span.
func NewParagraph(span Span) *Paragraph {
	return &Paragraph{itemHeader: itemHeader{kind: ParagraphItemKind, span: span}}
}

// Inlines returns the paragraph's ordered inline children.
func (p *Paragraph) Inlines() []Item { return p.children }

// AppendInline appends an inline item (any [Item] produced by the inline
// pipeline) to the paragraph.
func (p *Paragraph) AppendInline(it Item) { p.children = append(p.children, it) }

// Heading is an ATX or Setext heading.
type Heading struct {
	itemHeader
	leaf
	Level          int
	Text           *Paragraph
	Label          string
	LabelPos       Span
	DelimPositions []Span
	LabelVariants  []string
}

func (h *Heading) ChildCount() int {
	if h.Text == nil {
		return 0
	}
	return 1
}

func (h *Heading) Child(i int) Item {
	if i != 0 || h.Text == nil {
		panic("mdtree: Heading child index out of range")
	}
	return h.Text
}

// Blockquote is a `>`-prefixed container block.
type Blockquote struct {
	itemHeader
	itemList
	DelimPositions []Span
}

// List holds a contiguous run of [ListItem] siblings sharing one bullet
// group and indent level.
type List struct {
	itemHeader
	items []*ListItem
}

func (l *List) ChildCount() int  { return len(l.items) }
func (l *List) Child(i int) Item { return l.items[i] }
func (l *List) Items() []*ListItem { return l.items }
func (l *List) AppendItem(it *ListItem) { l.items = append(l.items, it) }

// ListItem is one entry of an ordered or unordered [List].
type ListItem struct {
	itemHeader
	itemList
	ListType        ListType
	StartNumber     int
	OrderedPreState OrderedItemState
	IsTaskList      bool
	IsChecked       bool
	MarkerPos       Span
	TaskMarkerPos   Span
}

// Code holds fenced, indented, or inline code content.
type Code struct {
	itemHeader
	leaf
	Text       string
	IsInline   bool
	IsFenced   bool
	Syntax     string
	SyntaxPos  Span
	StartDelim Span
	EndDelim   Span
}

// Math is a Code block whose fence info string (or `$`/`$$` delimiters)
// marks it as LaTeX math rather than source code.
type Math struct {
	Code
	Display bool
}

// LinkBase holds the fields shared by [Link] and [Image].
type LinkBase struct {
	URL         string
	Title       string
	RawText     string
	Description *Paragraph
	TextPos     Span
	URLPos      Span
}

// Link is an inline hyperlink, produced from any of the shortcut, collapsed,
// full-reference, or inline forms.
type Link struct {
	itemHeader
	LinkBase
	Img *Image
}

func (l *Link) ChildCount() int {
	if l.Description == nil {
		return 0
	}
	return 1
}

func (l *Link) Child(i int) Item {
	if i != 0 || l.Description == nil {
		panic("mdtree: Link child index out of range")
	}
	return l.Description
}

// Image is an inline image reference.
type Image struct {
	itemHeader
	LinkBase
}

func (im *Image) ChildCount() int {
	if im.Description == nil {
		return 0
	}
	return 1
}

func (im *Image) Child(i int) Item {
	if i != 0 || im.Description == nil {
		panic("mdtree: Image child index out of range")
	}
	return im.Description
}

// FootnoteRef is an inline reference to a [Footnote] by id.
type FootnoteRef struct {
	itemHeader
	styleHeader
	leaf
	ID string
}

// Footnote is a footnote definition, addressed by [FootnoteRef.ID].
type Footnote struct {
	itemHeader
	itemList
	ID    string
	IDPos Span
}

// Table is a GFM table: a header row followed by zero or more data rows,
// with one [Alignment] per column.
type Table struct {
	itemHeader
	rows       []*TableRow
	Alignments []Alignment
}

func (t *Table) ChildCount() int    { return len(t.rows) }
func (t *Table) Child(i int) Item   { return t.rows[i] }
func (t *Table) Rows() []*TableRow  { return t.rows }
func (t *Table) AppendRow(r *TableRow) { t.rows = append(t.rows, r) }

// TableRow is one row of a [Table]; the first row of a [Table] is always
// the header row.
type TableRow struct {
	itemHeader
	cells []*TableCell
}

func (r *TableRow) ChildCount() int      { return len(r.cells) }
func (r *TableRow) Child(i int) Item     { return r.cells[i] }
func (r *TableRow) Cells() []*TableCell  { return r.cells }
func (r *TableRow) AppendCell(c *TableCell) { r.cells = append(r.cells, c) }

// TableCell is a block of inline content within one table row/column.
type TableCell struct {
	itemHeader
	itemList
}

// Text is a run of plain inline text, optionally bearing emphasis/strike
// delimiters via the embedded styleHeader.
type Text struct {
	itemHeader
	styleHeader
	leaf
	Value string
}

// LineBreak is a hard line break (two trailing spaces or a trailing
// backslash at end-of-line).
type LineBreak struct {
	itemHeader
	styleHeader
	leaf
}

// RawHtml is a verbatim inline HTML substring.
type RawHtml struct {
	itemHeader
	styleHeader
	leaf
	Raw string
}

// HorizontalLine is a thematic break (`***`, `---`, `___`, ...).
type HorizontalLine struct {
	itemHeader
	leaf
}

// YAMLHeader is a `---`/`...`-delimited YAML front-matter block. It is only
// ever produced as the first content block of a file.
type YAMLHeader struct {
	itemHeader
	leaf
	Yaml       string
	StartDelim Span
	EndDelim   Span
}

// LinkReferenceDefinition is a `[label]: url "title"` definition recorded
// into [Document.LabeledLinks] rather than emitted as paragraph content.
type LinkReferenceDefinition struct {
	itemHeader
	leaf
	Label        string
	URL          string
	Title        string
	TitlePresent bool
}
