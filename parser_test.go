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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// content returns doc's children with the leading per-file Anchor dropped,
// for tests that only care about the parsed content.
func content(doc *Document) []Item {
	if doc.ChildCount() == 0 {
		return nil
	}
	return doc.children[1:]
}

func TestParseStringEmitsLeadingAnchor(t *testing.T) {
	doc := NewParser().ParseString("hello\n", ParseOptions{Path: "/tmp/x.md"})
	require.Greater(t, doc.ChildCount(), 0)
	anchor, ok := doc.Child(0).(*Anchor)
	require.True(t, ok, "first child should be an Anchor, got %T", doc.Child(0))
	assert.Equal(t, "/tmp/x.md", anchor.Label)
}

func TestATXHeadingWithLabel(t *testing.T) {
	doc := NewParser().ParseString("## headig {#heading} ##\n", ParseOptions{})
	items := content(doc)
	require.Len(t, items, 1)
	h, ok := items[0].(*Heading)
	require.True(t, ok)
	assert.Equal(t, 2, h.Level)
	assert.True(t, strings.HasPrefix(h.Label, "#heading"), "label = %q", h.Label)
}

func TestGFMAutolinkRecognition(t *testing.T) {
	doc := NewParser().ParseString("www.google.com\n", ParseOptions{})
	items := content(doc)
	require.Len(t, items, 1)
	p, ok := items[0].(*Paragraph)
	require.True(t, ok)
	require.Equal(t, 1, p.ChildCount())
	link, ok := p.Child(0).(*Link)
	require.True(t, ok, "child should be a Link, got %T", p.Child(0))
	assert.Equal(t, "http://www.google.com", link.URL)
}

func TestNestedItalicInBold(t *testing.T) {
	doc := NewParser().ParseString("**Some* text**\n", ParseOptions{})
	items := content(doc)
	require.Len(t, items, 1)
	p := items[0].(*Paragraph)
	require.GreaterOrEqual(t, p.ChildCount(), 2)
	first, ok := p.Child(0).(*Text)
	require.True(t, ok)
	assert.Equal(t, "Some", first.Value)
	assert.Equal(t, Italic, first.Opts())
}

func TestTrickyEmphasis257(t *testing.T) {
	// Case 257 from the CommonMark spec test suite.
	doc := NewParser().ParseString("**_some_* text*\n", ParseOptions{})
	items := content(doc)
	require.Len(t, items, 1)
	p := items[0].(*Paragraph)
	require.GreaterOrEqual(t, p.ChildCount(), 2)
	first, ok := p.Child(0).(*Text)
	require.True(t, ok)
	assert.Equal(t, "some", first.Value)
	assert.Equal(t, Italic, first.Opts())
	assert.Len(t, first.OpenStyles(), 3)
}

func TestStrikethroughRun(t *testing.T) {
	doc := NewParser().ParseString("~~text~~text~~\n", ParseOptions{})
	items := content(doc)
	require.Len(t, items, 1)
	p := items[0].(*Paragraph)
	require.GreaterOrEqual(t, p.ChildCount(), 2)
	strike, ok := p.Child(0).(*Text)
	require.True(t, ok)
	assert.Equal(t, "text", strike.Value)
	assert.Equal(t, Strikethrough, strike.Opts())
}

func TestTaskListItem(t *testing.T) {
	doc := NewParser().ParseString("- [x] done\n", ParseOptions{})
	items := content(doc)
	require.Len(t, items, 1)
	list, ok := items[0].(*List)
	require.True(t, ok)
	require.Len(t, list.Items(), 1)
	li := list.Items()[0]
	assert.True(t, li.IsTaskList)
	assert.True(t, li.IsChecked)
	require.Greater(t, li.ChildCount(), 0)
	p, ok := li.Child(0).(*Paragraph)
	require.True(t, ok)
	require.Equal(t, 1, p.ChildCount())
	text, ok := p.Child(0).(*Text)
	require.True(t, ok)
	assert.Equal(t, "done", text.Value)
}

func TestReferenceLinkCollapseFailureReverts(t *testing.T) {
	input := "[*[*[*[*[foo]*]*]*]*]: bar\n[*[*[*[foo]*]*]*]: bar\n"
	doc := NewParser().ParseString(input, ParseOptions{})
	assert.Empty(t, doc.LabeledLinks)
	items := content(doc)
	require.Len(t, items, 1)
	_, ok := items[0].(*Paragraph)
	assert.True(t, ok, "expected a single paragraph, got %T", items[0])
}

func TestYAMLFrontMatter(t *testing.T) {
	doc := NewParser().ParseString("---\nid: 1\n...\ntext\n", ParseOptions{})
	items := content(doc)
	require.Len(t, items, 2)
	yh, ok := items[0].(*YAMLHeader)
	require.True(t, ok, "expected YAMLHeader, got %T", items[0])
	assert.Equal(t, "id: 1", yh.Yaml)
	assert.Equal(t, 0, yh.StartDelim.Start.Line)
	assert.Equal(t, 2, yh.EndDelim.Start.Line)
	_, ok = items[1].(*Paragraph)
	assert.True(t, ok, "expected Paragraph, got %T", items[1])
}

func TestYAMLFrontMatterMalformedIsReprobed(t *testing.T) {
	// An unbalanced flow-mapping body doesn't parse as YAML, so the block is
	// discarded and its lines are reread without the YAML parser: the
	// opening "---" becomes a thematic break and the rest a paragraph.
	doc := NewParser().ParseString("---\n[a: b\n...\n", ParseOptions{})
	items := content(doc)
	require.Len(t, items, 2)
	_, ok := items[0].(*HorizontalLine)
	assert.True(t, ok, "expected HorizontalLine, got %T", items[0])
	_, ok = items[1].(*Paragraph)
	assert.True(t, ok, "expected malformed front matter body to be read as a Paragraph, got %T", items[1])
}

func TestFenceWithoutCloseSurvivesToEOF(t *testing.T) {
	doc := NewParser().ParseString("~~~\nline one\nline two\n", ParseOptions{})
	items := content(doc)
	require.Len(t, items, 1)
	code, ok := items[0].(*Code)
	require.True(t, ok)
	assert.True(t, code.IsFenced)
	assert.Equal(t, "line one\nline two\n", code.Text)
}

func TestValidTableParses(t *testing.T) {
	doc := NewParser().ParseString("| a | b |\n|:--|--:|\n| 1 | 2 |\n", ParseOptions{})
	items := content(doc)
	require.Len(t, items, 1)
	table, ok := items[0].(*Table)
	require.True(t, ok, "expected Table, got %T", items[0])
	require.Equal(t, []Alignment{AlignLeft, AlignRight}, table.Alignments)
	rows := table.Rows()
	require.Len(t, rows, 2)

	cellText := func(row *TableRow, i int) string {
		p, ok := row.Cells()[i].Child(0).(*Text)
		require.True(t, ok)
		return p.Value
	}
	assert.Equal(t, "a", cellText(rows[0], 0))
	assert.Equal(t, "b", cellText(rows[0], 1))
	assert.Equal(t, "1", cellText(rows[1], 0))
	assert.Equal(t, "2", cellText(rows[1], 1))
}

func TestTableHeaderWithBadDelimiterRevertsToParagraph(t *testing.T) {
	doc := NewParser().ParseString("| a | b |\nnot a delimiter row\n", ParseOptions{})
	items := content(doc)
	require.Len(t, items, 1)
	_, ok := items[0].(*Paragraph)
	assert.True(t, ok, "expected Paragraph, got %T", items[0])
}

func TestFootnoteDefinitionAndReference(t *testing.T) {
	doc := NewParser().ParseString("See note[^1].\n\n[^1]: Explanation.\n", ParseOptions{})
	require.Contains(t, doc.Footnotes, NormalizeLabel("1", ""))
	fn := doc.Footnotes[NormalizeLabel("1", "")]
	assert.Equal(t, "1", fn.ID)
}

func TestMathFencedBlock(t *testing.T) {
	doc := NewParser().ParseString("```math\nx^2\n```\n", ParseOptions{})
	items := content(doc)
	require.Len(t, items, 1)
	p, ok := items[0].(*Paragraph)
	require.True(t, ok, "expected Paragraph wrapping the Math, got %T", items[0])
	require.Equal(t, 1, p.ChildCount())
	m, ok := p.Child(0).(*Math)
	require.True(t, ok, "expected Math, got %T", p.Child(0))
	assert.True(t, m.Display)
	assert.Equal(t, "x^2\n", m.Text)
}

func TestInlineMath(t *testing.T) {
	doc := NewParser().ParseString("price is $x+y$ dollars\n", ParseOptions{})
	items := content(doc)
	require.Len(t, items, 1)
	p := items[0].(*Paragraph)
	var found bool
	for i := 0; i < p.ChildCount(); i++ {
		if m, ok := p.Child(i).(*Math); ok {
			found = true
			assert.False(t, m.Display)
			assert.Equal(t, "x+y", m.Text)
		}
	}
	assert.True(t, found, "expected an inline Math item")
}

func TestCommonMarkOnlyOptionsDisableExtensions(t *testing.T) {
	opts := ParseOptions{
		BlockParsers:     CommonMarkBlockParsers(),
		InlineParsers:    CommonMarkInlineParsers,
		InlineParsersSet: true,
	}
	doc := NewParserWithOptions(opts).ParseString("| a | b |\n|---|---|\n| 1 | 2 |\n", opts)
	items := content(doc)
	require.Len(t, items, 1)
	_, ok := items[0].(*Table)
	assert.False(t, ok, "table extension should be disabled under CommonMarkBlockParsers")
}

func TestXMPPAutolink(t *testing.T) {
	doc := NewParser().ParseString("<xmpp:foo@example.com>\n", ParseOptions{})
	items := content(doc)
	require.Len(t, items, 1)
	p := items[0].(*Paragraph)
	require.Equal(t, 1, p.ChildCount())
	link, ok := p.Child(0).(*Link)
	require.True(t, ok, "expected a Link, got %T", p.Child(0))
	assert.Equal(t, "xmpp:foo@example.com", link.URL)
}
