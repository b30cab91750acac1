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

// ItemKind is an enumeration of every concrete item type in the document
// tree.
type ItemKind uint16

const (
	_ ItemKind = iota

	DocumentItemKind
	AnchorItemKind
	PageBreakItemKind
	ParagraphItemKind
	HeadingItemKind
	BlockquoteItemKind
	ListItemKindItem // avoid colliding with the ListItem type name
	ListItemKind
	CodeItemKind
	MathItemKind
	LinkItemKind
	ImageItemKind
	FootnoteRefItemKind
	FootnoteItemKind
	TableItemKind
	TableRowItemKind
	TableCellItemKind
	TextItemKind
	LineBreakItemKind
	RawHTMLItemKind
	HorizontalLineItemKind
	YAMLHeaderItemKind
	LinkReferenceDefinitionItemKind
)

//go:generate stringer -type=ItemKind -output=kind_string.go

var itemKindNames = map[ItemKind]string{
	DocumentItemKind:        "Document",
	AnchorItemKind:          "Anchor",
	PageBreakItemKind:       "PageBreak",
	ParagraphItemKind:       "Paragraph",
	HeadingItemKind:         "Heading",
	BlockquoteItemKind:      "Blockquote",
	ListItemKindItem:        "List",
	ListItemKind:            "ListItem",
	CodeItemKind:            "Code",
	MathItemKind:            "Math",
	LinkItemKind:            "Link",
	ImageItemKind:           "Image",
	FootnoteRefItemKind:     "FootnoteRef",
	FootnoteItemKind:        "Footnote",
	TableItemKind:           "Table",
	TableRowItemKind:        "TableRow",
	TableCellItemKind:       "TableCell",
	TextItemKind:            "Text",
	LineBreakItemKind:       "LineBreak",
	RawHTMLItemKind:         "RawHtml",
	HorizontalLineItemKind:  "HorizontalLine",
	YAMLHeaderItemKind:      "YAMLHeader",
	LinkReferenceDefinitionItemKind: "LinkReferenceDefinition",
}

// String implements fmt.Stringer in the style kind_string.go would generate
// via `go:generate stringer`.
func (k ItemKind) String() string {
	if s, ok := itemKindNames[k]; ok {
		return s
	}
	return "ItemKind(?)"
}

// StyleOpt is a bitmask over the inline emphasis styles an item's text can
// carry.
type StyleOpt uint8

const (
	Bold StyleOpt = 1 << iota
	Italic
	Strikethrough
)

// ListType distinguishes ordered from unordered list items.
type ListType uint8

const (
	Unordered ListType = iota
	Ordered
)

// OrderedItemState records whether an ordered list item is the first of its
// list (Start) or continues numbering from a prior item (Continue).
type OrderedItemState uint8

const (
	OrderedStart OrderedItemState = iota
	OrderedContinue
)

// Alignment is a GFM table column alignment.
type Alignment uint8

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)
