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

package htmlrender_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cairnmark/mdtree"
	"github.com/cairnmark/mdtree/htmlrender"
	"github.com/cairnmark/mdtree/internal/normhtml"
)

func render(t *testing.T, r *htmlrender.Renderer, input string) string {
	t.Helper()
	doc := mdtree.NewParser().ParseString(input, mdtree.ParseOptions{})
	return r.RenderString(doc)
}

func TestRenderParagraphAndEmphasis(t *testing.T) {
	got := render(t, new(htmlrender.Renderer), "Hello **world**!\n")
	want := "<p>Hello <strong>world</strong>!</p>"
	if diff := cmp.Diff(normhtml.NormalizeHTML([]byte(want)), normhtml.NormalizeHTML([]byte(got))); diff != "" {
		t.Errorf("RenderString(...) (-want +got):\n%s", diff)
	}
}

func TestRenderHeadingWithID(t *testing.T) {
	doc := mdtree.NewParser().ParseString("## Title {#custom}\n", mdtree.ParseOptions{})
	var h *mdtree.Heading
	for i := 0; i < doc.ChildCount(); i++ {
		if hh, ok := doc.Child(i).(*mdtree.Heading); ok {
			h = hh
			break
		}
	}
	if h == nil {
		t.Fatal("no Heading found in parsed document")
	}
	r := &htmlrender.Renderer{IDs: map[mdtree.Item]string{h: h.Label}}
	got := r.RenderString(doc)
	want := "<h2 id=\"" + h.Label + "\">Title</h2>"
	if diff := cmp.Diff(normhtml.NormalizeHTML([]byte(want)), normhtml.NormalizeHTML([]byte(got))); diff != "" {
		t.Errorf("RenderString(...) (-want +got):\n%s", diff)
	}
}

func TestRenderFencedCodeWithSyntax(t *testing.T) {
	got := render(t, new(htmlrender.Renderer), "```go\nfmt.Println(1)\n```\n")
	want := `<pre><code class="language-go">fmt.Println(1)
</code></pre>`
	if diff := cmp.Diff(normhtml.NormalizeHTML([]byte(want)), normhtml.NormalizeHTML([]byte(got))); diff != "" {
		t.Errorf("RenderString(...) (-want +got):\n%s", diff)
	}
}

func TestRenderMathFencedBlock(t *testing.T) {
	got := render(t, new(htmlrender.Renderer), "```math\nx^2\n```\n")
	want := `<div class="math-display">x^2
</div>`
	if diff := cmp.Diff(normhtml.NormalizeHTML([]byte(want)), normhtml.NormalizeHTML([]byte(got))); diff != "" {
		t.Errorf("RenderString(...) (-want +got):\n%s", diff)
	}
}

func TestRenderTaskListItem(t *testing.T) {
	got := render(t, new(htmlrender.Renderer), "- [x] done\n- [ ] pending\n")
	want := `<ul>` +
		`<li><input type="checkbox" disabled="" checked="" />done</li>` +
		`<li><input type="checkbox" disabled="" />pending</li>` +
		`</ul>`
	if diff := cmp.Diff(normhtml.NormalizeHTML([]byte(want)), normhtml.NormalizeHTML([]byte(got))); diff != "" {
		t.Errorf("RenderString(...) (-want +got):\n%s", diff)
	}
}

func TestRenderTableWithAlignment(t *testing.T) {
	got := render(t, new(htmlrender.Renderer), "| a | b |\n|:--|--:|\n| 1 | 2 |\n")
	want := `<table><thead><tr>` +
		`<th style="text-align:left">a</th>` +
		`<th style="text-align:right">b</th>` +
		`</tr></thead><tbody><tr>` +
		`<td style="text-align:left">1</td>` +
		`<td style="text-align:right">2</td>` +
		`</tr></tbody></table>`
	if diff := cmp.Diff(normhtml.NormalizeHTML([]byte(want)), normhtml.NormalizeHTML([]byte(got))); diff != "" {
		t.Errorf("RenderString(...) (-want +got):\n%s", diff)
	}
}

func TestRenderRawHTMLFilterTag(t *testing.T) {
	r := &htmlrender.Renderer{
		FilterTag: func(tag string) bool { return tag == "script" },
	}
	got := render(t, r, "<script>alert(1)</script>\n\ntext\n")
	if got == "" {
		t.Fatal("expected non-empty rendered output")
	}
	if want, got := false, containsUnescapedScriptTag(got); want != got {
		t.Errorf("containsUnescapedScriptTag(%q) = %v, want %v", got, got, want)
	}
}

func containsUnescapedScriptTag(s string) bool {
	for i := 0; i+len("<script") <= len(s); i++ {
		if s[i:i+len("<script")] == "<script" {
			return true
		}
	}
	return false
}

func TestRenderIgnoreRaw(t *testing.T) {
	r := &htmlrender.Renderer{IgnoreRaw: true}
	got := render(t, r, "before <span>raw</span> after\n")
	want := "<p>before raw after</p>"
	if diff := cmp.Diff(normhtml.NormalizeHTML([]byte(want)), normhtml.NormalizeHTML([]byte(got))); diff != "" {
		t.Errorf("RenderString(...) (-want +got):\n%s", diff)
	}
}

func TestRenderFootnoteReferenceAndDefinition(t *testing.T) {
	got := render(t, new(htmlrender.Renderer), "See note[^1].\n\n[^1]: Explanation.\n")
	want := `<p>See note<sup><a href="#fn-1">1</a></sup>.</p>` +
		`<section class="footnote"><p>Explanation.</p></section>`
	if diff := cmp.Diff(normhtml.NormalizeHTML([]byte(want)), normhtml.NormalizeHTML([]byte(got))); diff != "" {
		t.Errorf("RenderString(...) (-want +got):\n%s", diff)
	}
}

func TestRenderImageAltTextFlattensMarkup(t *testing.T) {
	got := render(t, new(htmlrender.Renderer), "![**bold** alt](/x.png \"title\")\n")
	want := `<p><img src="/x.png" alt="bold alt" title="title" /></p>`
	if diff := cmp.Diff(normhtml.NormalizeHTML([]byte(want)), normhtml.NormalizeHTML([]byte(got))); diff != "" {
		t.Errorf("RenderString(...) (-want +got):\n%s", diff)
	}
}

func TestRenderAnchorAndYAMLHeaderAreInvisible(t *testing.T) {
	got := render(t, new(htmlrender.Renderer), "---\nid: 1\n...\ntext\n")
	want := "<p>text</p>"
	if diff := cmp.Diff(normhtml.NormalizeHTML([]byte(want)), normhtml.NormalizeHTML([]byte(got))); diff != "" {
		t.Errorf("RenderString(...) (-want +got):\n%s", diff)
	}
}
