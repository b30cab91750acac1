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

// cloneItem deep-copies a single item and everything beneath it, recording
// original->copy associations in remap so [*Document.Clone] can rebuild its
// label maps against the copied tree.
func cloneItem(it Item, remap map[Item]Item) Item {
	if it == nil {
		return nil
	}
	var out Item
	switch v := it.(type) {
	case *Anchor:
		c := *v
		out = &c
	case *PageBreak:
		c := *v
		out = &c
	case *Paragraph:
		c := &Paragraph{itemHeader: v.itemHeader}
		c.children = cloneItems(v.children, remap)
		out = c
	case *Heading:
		c := *v
		if v.Text != nil {
			c.Text = cloneItem(v.Text, remap).(*Paragraph)
		}
		c.LabelVariants = append([]string(nil), v.LabelVariants...)
		c.DelimPositions = append([]Span(nil), v.DelimPositions...)
		out = &c
	case *Blockquote:
		c := &Blockquote{itemHeader: v.itemHeader, DelimPositions: append([]Span(nil), v.DelimPositions...)}
		c.children = cloneItems(v.children, remap)
		out = c
	case *List:
		c := &List{itemHeader: v.itemHeader}
		for _, li := range v.items {
			c.items = append(c.items, cloneItem(li, remap).(*ListItem))
		}
		out = c
	case *ListItem:
		c := &ListItem{itemHeader: v.itemHeader,
			ListType: v.ListType, StartNumber: v.StartNumber, OrderedPreState: v.OrderedPreState,
			IsTaskList: v.IsTaskList, IsChecked: v.IsChecked, MarkerPos: v.MarkerPos, TaskMarkerPos: v.TaskMarkerPos}
		c.children = cloneItems(v.children, remap)
		out = c
	case *Code:
		c := *v
		out = &c
	case *Math:
		c := *v
		out = &c
	case *Link:
		c := *v
		if v.Description != nil {
			c.Description = cloneItem(v.Description, remap).(*Paragraph)
		}
		if v.Img != nil {
			c.Img = cloneItem(v.Img, remap).(*Image)
		}
		out = &c
	case *Image:
		c := *v
		if v.Description != nil {
			c.Description = cloneItem(v.Description, remap).(*Paragraph)
		}
		out = &c
	case *FootnoteRef:
		c := *v
		out = &c
	case *Footnote:
		c := &Footnote{itemHeader: v.itemHeader, ID: v.ID, IDPos: v.IDPos}
		c.children = cloneItems(v.children, remap)
		out = c
	case *Table:
		c := &Table{itemHeader: v.itemHeader, Alignments: append([]Alignment(nil), v.Alignments...)}
		for _, r := range v.rows {
			c.rows = append(c.rows, cloneItem(r, remap).(*TableRow))
		}
		out = c
	case *TableRow:
		c := &TableRow{itemHeader: v.itemHeader}
		for _, cell := range v.cells {
			c.cells = append(c.cells, cloneItem(cell, remap).(*TableCell))
		}
		out = c
	case *TableCell:
		c := &TableCell{itemHeader: v.itemHeader}
		c.children = cloneItems(v.children, remap)
		out = c
	case *Text:
		c := *v
		out = &c
	case *LineBreak:
		c := *v
		out = &c
	case *RawHtml:
		c := *v
		out = &c
	case *HorizontalLine:
		c := *v
		out = &c
	case *YAMLHeader:
		c := *v
		out = &c
	case *LinkReferenceDefinition:
		c := *v
		out = &c
	default:
		panic("mdtree: clone of unknown item type")
	}
	remap[it] = out
	return out
}

func cloneItems(items []Item, remap map[Item]Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = cloneItem(it, remap)
	}
	return out
}
