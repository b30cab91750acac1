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

// Package htmlrender converts a parsed [mdtree.Document] into HTML. It is
// the external collaborator spec.md describes: it walks the document's
// children in source order and, for each block/inline kind, emits the
// corresponding tag, consulting a caller-supplied id map for headings,
// code fences, list items, and blockquotes.
package htmlrender

import (
	"fmt"
	"html"
	"io"
	"strconv"

	"golang.org/x/net/html/atom"

	"github.com/cairnmark/mdtree"
)

// Renderer converts a document tree to HTML.
//
// # Security considerations
//
// CommonMark permits raw HTML, which can introduce XSS vulnerabilities when
// used with untrusted input. Set IgnoreRaw to omit it entirely, or supply
// FilterTag to escape specific tag names while still showing their source
// text; for untrusted input, combine either with an HTML sanitizer run
// over the result.
type Renderer struct {
	// IDs maps a heading, fenced/indented code block, list item, or
	// blockquote to the id attribute it should be rendered with. A nil map
	// or a missing entry omits the attribute.
	IDs map[mdtree.Item]string
	// IgnoreRaw, if true, skips raw HTML blocks and inline raw HTML
	// entirely instead of passing them through.
	IgnoreRaw bool
	// FilterTag, if non-nil, is consulted with a raw HTML substring's tag
	// name (lowercased, no angle brackets); if it reports true, the
	// leading '<' of that raw HTML is escaped instead of passed through.
	FilterTag func(tag string) bool
}

// Render writes doc's HTML to w.
func (r *Renderer) Render(w io.Writer, doc *mdtree.Document) error {
	var dst []byte
	for i := 0; i < doc.ChildCount(); i++ {
		dst = r.appendItem(dst, doc.Child(i))
	}
	if _, err := w.Write(dst); err != nil {
		return fmt.Errorf("htmlrender: render: %w", err)
	}
	return nil
}

// RenderString returns doc's rendered HTML as a string.
func (r *Renderer) RenderString(doc *mdtree.Document) string {
	var dst []byte
	for i := 0; i < doc.ChildCount(); i++ {
		dst = r.appendItem(dst, doc.Child(i))
	}
	return string(dst)
}

func (r *Renderer) id(it mdtree.Item) string {
	if r.IDs == nil {
		return ""
	}
	return r.IDs[it]
}

func (r *Renderer) openTag(dst []byte, name atom.Atom, it mdtree.Item) []byte {
	dst = append(dst, '<')
	dst = append(dst, name.String()...)
	if id := r.id(it); id != "" {
		dst = append(dst, ` id="`...)
		dst = append(dst, html.EscapeString(id)...)
		dst = append(dst, '"')
	}
	dst = append(dst, '>')
	return dst
}

func closeTag(dst []byte, name atom.Atom) []byte {
	dst = append(dst, "</"...)
	dst = append(dst, name.String()...)
	dst = append(dst, '>')
	return dst
}

var styleTags = map[mdtree.StyleOpt]string{
	mdtree.Bold:          "strong",
	mdtree.Italic:        "em",
	mdtree.Strikethrough: "del",
}

func (r *Renderer) appendItem(dst []byte, it mdtree.Item) []byte {
	switch v := it.(type) {
	case *mdtree.Anchor, *mdtree.PageBreak, *mdtree.LinkReferenceDefinition:
		return dst
	case *mdtree.YAMLHeader:
		return dst // front matter carries no visible HTML representation
	case *mdtree.Paragraph:
		// A fenced math block arrives as a paragraph holding only its Math.
		if v.ChildCount() == 1 {
			if m, ok := v.Child(0).(*mdtree.Math); ok && m.Display && !m.IsInline {
				return r.appendMath(dst, m)
			}
		}
		dst = r.openTag(dst, atom.P, it)
		dst = r.appendInlines(dst, v)
		return closeTag(dst, atom.P)
	case *mdtree.Heading:
		tag := headingAtom(v.Level)
		dst = r.openTag(dst, tag, it)
		if v.Text != nil {
			dst = r.appendInlines(dst, v.Text)
		}
		return closeTag(dst, tag)
	case *mdtree.Blockquote:
		dst = r.openTag(dst, atom.Blockquote, it)
		for i := 0; i < v.ChildCount(); i++ {
			dst = r.appendItem(dst, v.Child(i))
		}
		return closeTag(dst, atom.Blockquote)
	case *mdtree.List:
		tag := atom.Ul
		items := v.Items()
		if len(items) > 0 && items[0].ListType == mdtree.Ordered {
			tag = atom.Ol
		}
		dst = append(dst, '<')
		dst = append(dst, tag.String()...)
		if tag == atom.Ol && len(items) > 0 && items[0].StartNumber != 1 {
			dst = append(dst, ` start="`...)
			dst = strconv.AppendInt(dst, int64(items[0].StartNumber), 10)
			dst = append(dst, '"')
		}
		dst = append(dst, '>')
		for _, li := range items {
			dst = r.appendListItem(dst, li)
		}
		return closeTag(dst, tag)
	case *mdtree.Code:
		return r.appendCode(dst, v, it)
	case *mdtree.Math:
		return r.appendMath(dst, v)
	case *mdtree.Table:
		return r.appendTable(dst, v)
	case *mdtree.Footnote:
		dst = append(dst, `<section class="footnote">`...)
		for i := 0; i < v.ChildCount(); i++ {
			dst = r.appendItem(dst, v.Child(i))
		}
		return append(dst, "</section>"...)
	case *mdtree.RawHtml:
		return r.appendRawHTML(dst, v.Raw)
	case *mdtree.HorizontalLine:
		return append(dst, "<hr />"...)
	case *mdtree.Text:
		// Spans opened here are nested innermost-last; spans closed here
		// are listed innermost-first.
		opens := v.OpenStyles()
		for i := len(opens) - 1; i >= 0; i-- {
			dst = append(dst, "<"+styleTags[opens[i].Style]+">"...)
		}
		dst = append(dst, html.EscapeString(v.Value)...)
		for _, c := range v.CloseStyles() {
			dst = append(dst, "</"+styleTags[c.Style]+">"...)
		}
		return dst
	case *mdtree.LineBreak:
		return append(dst, "<br />\n"...)
	default:
		// Inline items reached at block level (Link, Image, FootnoteRef)
		// only occur inside a Paragraph/Heading/TableCell, handled by
		// appendInlines; anything else unrecognized renders as nothing.
		return dst
	}
}

func headingAtom(level int) atom.Atom {
	switch level {
	case 1:
		return atom.H1
	case 2:
		return atom.H2
	case 3:
		return atom.H3
	case 4:
		return atom.H4
	case 5:
		return atom.H5
	default:
		return atom.H6
	}
}

func (r *Renderer) appendListItem(dst []byte, li *mdtree.ListItem) []byte {
	dst = r.openTag(dst, atom.Li, li)
	if li.IsTaskList {
		dst = append(dst, `<input type="checkbox" disabled=""`...)
		if li.IsChecked {
			dst = append(dst, ` checked=""`...)
		}
		dst = append(dst, " />"...)
	}
	for i := 0; i < li.ChildCount(); i++ {
		dst = r.appendItem(dst, li.Child(i))
	}
	return closeTag(dst, atom.Li)
}

func (r *Renderer) appendCode(dst []byte, c *mdtree.Code, it mdtree.Item) []byte {
	if c.IsInline {
		dst = append(dst, "<code>"...)
		dst = append(dst, html.EscapeString(c.Text)...)
		return append(dst, "</code>"...)
	}
	dst = r.openTag(dst, atom.Pre, it)
	dst = append(dst, "<code"...)
	if c.Syntax != "" {
		dst = append(dst, ` class="language-`...)
		dst = append(dst, html.EscapeString(c.Syntax)...)
		dst = append(dst, '"')
	}
	dst = append(dst, '>')
	dst = append(dst, html.EscapeString(c.Text)...)
	dst = append(dst, "</code>"...)
	return closeTag(dst, atom.Pre)
}

func (r *Renderer) appendMath(dst []byte, m *mdtree.Math) []byte {
	class := "math-inline"
	tag := "span"
	if m.Display {
		class = "math-display"
		tag = "div"
	}
	dst = append(dst, '<')
	dst = append(dst, tag...)
	dst = append(dst, ` class="`...)
	dst = append(dst, class...)
	dst = append(dst, `">`...)
	dst = append(dst, html.EscapeString(m.Text)...)
	dst = append(dst, "</"...)
	dst = append(dst, tag...)
	return append(dst, '>')
}

func (r *Renderer) appendTable(dst []byte, t *mdtree.Table) []byte {
	dst = append(dst, "<table>"...)
	rows := t.Rows()
	if len(rows) > 0 {
		dst = append(dst, "<thead>"...)
		dst = r.appendTableRow(dst, rows[0], t.Alignments, true)
		dst = append(dst, "</thead>"...)
	}
	if len(rows) > 1 {
		dst = append(dst, "<tbody>"...)
		for _, row := range rows[1:] {
			dst = r.appendTableRow(dst, row, t.Alignments, false)
		}
		dst = append(dst, "</tbody>"...)
	}
	return append(dst, "</table>"...)
}

func (r *Renderer) appendTableRow(dst []byte, row *mdtree.TableRow, aligns []mdtree.Alignment, header bool) []byte {
	dst = append(dst, "<tr>"...)
	cellTag := "td"
	if header {
		cellTag = "th"
	}
	for i, cell := range row.Cells() {
		dst = append(dst, '<')
		dst = append(dst, cellTag...)
		if i < len(aligns) {
			switch aligns[i] {
			case mdtree.AlignLeft:
				dst = append(dst, ` style="text-align:left"`...)
			case mdtree.AlignCenter:
				dst = append(dst, ` style="text-align:center"`...)
			case mdtree.AlignRight:
				dst = append(dst, ` style="text-align:right"`...)
			}
		}
		dst = append(dst, '>')
		for j := 0; j < cell.ChildCount(); j++ {
			dst = r.appendItem(dst, cell.Child(j))
		}
		dst = append(dst, "</"...)
		dst = append(dst, cellTag...)
		dst = append(dst, '>')
	}
	return append(dst, "</tr>"...)
}

// appendInlines renders para's children, which may be Text, LineBreak,
// RawHtml, Link, Image, FootnoteRef, Math, or Code (inline code spans).
func (r *Renderer) appendInlines(dst []byte, para *mdtree.Paragraph) []byte {
	for i := 0; i < para.ChildCount(); i++ {
		dst = r.appendInline(dst, para.Child(i))
	}
	return dst
}

func (r *Renderer) appendInline(dst []byte, it mdtree.Item) []byte {
	switch v := it.(type) {
	case *mdtree.Link:
		dst = append(dst, `<a href="`...)
		dst = append(dst, html.EscapeString(v.URL)...)
		dst = append(dst, '"')
		if v.Title != "" {
			dst = append(dst, ` title="`...)
			dst = append(dst, html.EscapeString(v.Title)...)
			dst = append(dst, '"')
		}
		dst = append(dst, '>')
		if v.Description != nil {
			dst = r.appendInlines(dst, v.Description)
		}
		return append(dst, "</a>"...)
	case *mdtree.Image:
		dst = append(dst, `<img src="`...)
		dst = append(dst, html.EscapeString(v.URL)...)
		dst = append(dst, `" alt="`...)
		dst = append(dst, html.EscapeString(plainText(v.Description))...)
		dst = append(dst, '"')
		if v.Title != "" {
			dst = append(dst, ` title="`...)
			dst = append(dst, html.EscapeString(v.Title)...)
			dst = append(dst, '"')
		}
		return append(dst, " />"...)
	case *mdtree.FootnoteRef:
		dst = append(dst, `<sup><a href="#fn-`...)
		dst = append(dst, html.EscapeString(v.ID)...)
		dst = append(dst, `">`...)
		dst = append(dst, html.EscapeString(v.ID)...)
		return append(dst, "</a></sup>"...)
	case *mdtree.Code:
		return r.appendCode(dst, v, it)
	case *mdtree.Math:
		return r.appendMath(dst, v)
	case *mdtree.RawHtml:
		return r.appendRawHTML(dst, v.Raw)
	default:
		return r.appendItem(dst, it)
	}
}

func (r *Renderer) appendRawHTML(dst []byte, raw string) []byte {
	if r.IgnoreRaw {
		return dst
	}
	if r.FilterTag != nil && len(raw) > 0 && raw[0] == '<' {
		if tag, ok := tagName(raw); ok && r.FilterTag(tag) {
			dst = append(dst, "&lt;"...)
			return append(dst, raw[1:]...)
		}
	}
	return append(dst, raw...)
}

// tagName extracts the lowercased tag name from a raw HTML substring
// starting with '<' or "</".
func tagName(raw string) (string, bool) {
	i := 1
	if i < len(raw) && raw[i] == '/' {
		i++
	}
	start := i
	for i < len(raw) && isTagNameByte(raw[i]) {
		i++
	}
	if i == start {
		return "", false
	}
	name := raw[start:i]
	out := make([]byte, len(name))
	for j := 0; j < len(name); j++ {
		c := name[j]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[j] = c
	}
	return string(out), true
}

func isTagNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-'
}

// plainText collapses para's Text children into a flat string, used for
// an image's alt attribute, which cannot carry nested markup.
func plainText(para *mdtree.Paragraph) string {
	if para == nil {
		return ""
	}
	var s []byte
	for i := 0; i < para.ChildCount(); i++ {
		if t, ok := para.Child(i).(*mdtree.Text); ok {
			s = append(s, t.Value...)
		}
	}
	return string(s)
}
