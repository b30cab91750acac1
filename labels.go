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
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/width"
)

var (
	labelFolder = cases.Fold()
	labelCaser  = cases.Upper(language.Und)
)

// NormalizeLabel implements the CommonMark reference-link label matching
// algorithm, extended with a per-file suffix so labels defined in different
// files of a recursively-parsed tree don't collide: strip the surrounding
// brackets (if present), collapse runs of Unicode whitespace to a single
// space, trim the ends, fold full-width/half-width forms, apply Unicode
// case folding by uppercasing, and prepend "#". When path is non-empty the
// normalized form gets "/path/file" appended so the same visible label in
// two files never aliases the same definition.
func NormalizeLabel(raw, path string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	s = width.Fold.String(s)
	var sb strings.Builder
	lastSpace := true
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastSpace {
				sb.WriteByte(' ')
			}
			lastSpace = true
			continue
		}
		sb.WriteRune(r)
		lastSpace = false
	}
	folded := strings.TrimSpace(sb.String())
	folded = labelCaser.String(labelFolder.String(folded))
	label := "#" + folded
	if path != "" {
		label += "/" + strings.TrimPrefix(path, "/")
	}
	return label
}

// HeadingSlug computes a URL-fragment identifier from heading text the way
// GitHub does: letters, digits, '-', and '_' are kept (lowercased), runs of
// whitespace become a single '-', and every other rune is dropped.
func HeadingSlug(text string) string {
	var sb strings.Builder
	lastDash := false
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			if sb.Len() > 0 && !lastDash {
				sb.WriteByte('-')
				lastDash = true
			}
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_':
			sb.WriteRune(unicode.ToLower(r))
			lastDash = false
		default:
			// dropped
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}

// HeadingLabel returns the normalized label for a heading: either its
// explicit `{#label}` attribute (if attr is non-empty) or the slug
// computed from its rendered text, both passed through [NormalizeLabel] so
// explicit and implicit labels share one lookup table.
func HeadingLabel(text, attr, path string) string {
	if attr != "" {
		return NormalizeLabel(attr, path)
	}
	return NormalizeLabel(HeadingSlug(text), path)
}

// uniqueHeadingLabel appends "-1", "-2", ... to base until it no longer
// collides with an existing entry in used, the way GitHub disambiguates
// repeated heading text.
func uniqueHeadingLabel(base string, used map[string]bool) string {
	if !used[base] {
		return base
	}
	for i := 1; ; i++ {
		candidate := base + "-" + itoa(i)
		if !used[candidate] {
			return candidate
		}
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var b [20]byte
	i := len(b)
	neg := n < 0
	if neg {
		n = -n
	}
	for n > 0 {
		i--
		b[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		b[i] = '-'
	}
	return string(b[i:])
}

// assignHeadingLabels walks the document assigning Heading.Label for every
// heading that doesn't already carry one (the block parser sets Label
// directly to "#" followed by the id as written for `{#explicit}` ids;
// those are not passed through [NormalizeLabel]) and records it into
// [Document.LabeledHeadings], disambiguating collisions.
func assignHeadingLabels(doc *Document) {
	used := make(map[string]bool)
	for k := range doc.LabeledHeadings {
		used[k] = true
	}
	Walk(doc, &WalkOptions{
		Pre: func(c *Cursor) bool {
			h, ok := c.Item().(*Heading)
			if !ok {
				return true
			}
			if h.Label == "" {
				var text string
				if h.Text != nil {
					text = renderPlainText(h.Text)
				}
				h.Label = HeadingLabel(text, "", "")
			}
			h.Label = uniqueHeadingLabel(h.Label, used)
			used[h.Label] = true
			doc.LabeledHeadings[h.Label] = h
			return true
		},
	})
}

// renderPlainText flattens a Paragraph's inline items to plain text, used
// to compute a heading's implicit slug.
func renderPlainText(p *Paragraph) string {
	var sb strings.Builder
	var visit func(Item)
	visit = func(it Item) {
		switch v := it.(type) {
		case *Text:
			sb.WriteString(v.Value)
		case *Code:
			sb.WriteString(v.Text)
		default:
			for i := 0; i < it.ChildCount(); i++ {
				visit(it.Child(i))
			}
		}
	}
	for _, inl := range p.children {
		visit(inl)
	}
	return sb.String()
}
