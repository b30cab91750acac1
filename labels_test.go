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

import "testing"

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		path string
		want string
	}{
		{name: "plain", raw: "Foo", path: "", want: "#FOO"},
		{name: "brackets stripped", raw: "[Foo]", path: "", want: "#FOO"},
		{name: "collapses whitespace", raw: "Foo   Bar\tBaz", path: "", want: "#FOO BAR BAZ"},
		{name: "trims ends", raw: "  Foo  ", path: "", want: "#FOO"},
		{name: "per file suffix", raw: "Foo", path: "/a/b.md", want: "#FOO/a/b.md"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := NormalizeLabel(test.raw, test.path); got != test.want {
				t.Errorf("NormalizeLabel(%q, %q) = %q, want %q", test.raw, test.path, got, test.want)
			}
		})
	}
}

func TestNormalizeLabelCaseInsensitiveMatch(t *testing.T) {
	a := NormalizeLabel("Foo Bar", "")
	b := NormalizeLabel("foo   bar", "")
	if a != b {
		t.Errorf("NormalizeLabel(%q) = %q, NormalizeLabel(%q) = %q, want equal", "Foo Bar", a, "foo   bar", b)
	}
}

func TestHeadingSlug(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "simple", text: "Hello World", want: "hello-world"},
		{name: "punctuation dropped", text: "Hello, World!", want: "hello-world"},
		{name: "keeps dash and underscore", text: "a-b_c", want: "a-b_c"},
		{name: "trailing space trimmed", text: "Trailing ", want: "trailing"},
		{name: "mixed case", text: "CamelCase", want: "camelcase"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := HeadingSlug(test.text); got != test.want {
				t.Errorf("HeadingSlug(%q) = %q, want %q", test.text, got, test.want)
			}
		})
	}
}

func TestHeadingLabelPrefersExplicitAttr(t *testing.T) {
	got := HeadingLabel("Some Title", "custom-id", "")
	want := NormalizeLabel("custom-id", "")
	if got != want {
		t.Errorf("HeadingLabel(...) = %q, want %q", got, want)
	}
}

func TestHeadingLabelFallsBackToSlug(t *testing.T) {
	got := HeadingLabel("Some Title", "", "")
	want := NormalizeLabel("some-title", "")
	if got != want {
		t.Errorf("HeadingLabel(...) = %q, want %q", got, want)
	}
}

func TestUniqueHeadingLabel(t *testing.T) {
	used := map[string]bool{"#dup": true, "#dup-1": true}
	got := uniqueHeadingLabel("#dup", used)
	if want := "#dup-2"; got != want {
		t.Errorf("uniqueHeadingLabel(%q, ...) = %q, want %q", "#dup", got, want)
	}
}

func TestAssignHeadingLabelsDisambiguatesRepeats(t *testing.T) {
	doc := NewParser().ParseString("# Same\n\n# Same\n", ParseOptions{})
	var labels []string
	Walk(doc, &WalkOptions{
		Pre: func(c *Cursor) bool {
			if h, ok := c.Item().(*Heading); ok {
				labels = append(labels, h.Label)
			}
			return true
		},
	})
	if len(labels) != 2 {
		t.Fatalf("found %d headings, want 2", len(labels))
	}
	if labels[0] == labels[1] {
		t.Errorf("expected distinct labels for repeated heading text, both got %q", labels[0])
	}
	if _, ok := doc.LabeledHeadings[labels[0]]; !ok {
		t.Errorf("LabeledHeadings missing entry for %q", labels[0])
	}
	if _, ok := doc.LabeledHeadings[labels[1]]; !ok {
		t.Errorf("LabeledHeadings missing entry for %q", labels[1])
	}
}
