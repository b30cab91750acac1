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
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
)

// ParseFile parses the file at path on fs, following relative markdown
// links into further files when opts.Recursive is set. The returned
// document's top-level children are one [Anchor]/content/[PageBreak] group
// per file visited, in the order they were first linked to, starting with
// path itself.
//
// Cross-file label collisions cannot occur: each file's LabeledLinks and
// Footnotes entries are re-keyed into the merged document using
// [NormalizeLabel] with that file's absolute path, even though within a
// single file's own parse pass resolution used an empty path (see
// DESIGN.md).
func ParseFile(fs afero.Fs, path string, opts ParseOptions) (*Document, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("mdtree: parse %s: %w", path, err)
	}

	merged := NewDocument()
	visited := map[string]bool{}
	queue := []string{absPath}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur] {
			continue
		}
		visited[cur] = true

		text, err := readFile(fs, cur)
		if err != nil {
			return nil, fmt.Errorf("mdtree: parse %s: %w", cur, err)
		}

		fileOpts := opts
		fileOpts.Path = cur
		p := NewParserWithOptions(opts)
		doc := p.ParseString(text, fileOpts)

		appendAnchored(merged, doc, cur)

		if !opts.Recursive {
			continue
		}
		dir := filepath.Dir(cur)
		for _, link := range collectLinkURLs(doc) {
			target, ok := resolveRecursiveLink(fs, dir, link, opts)
			if !ok || visited[target] {
				continue
			}
			queue = append(queue, target)
		}
	}

	return merged, nil
}

func readFile(fs afero.Fs, path string) (string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// appendAnchored appends one file's already-parsed document (whose first
// child is already the [Anchor] [*Parser.ParseString] produces for it) to
// merged, separated from any prior file by a [PageBreak], and re-keys its
// label maps by path so they cannot collide with another file's.
func appendAnchored(merged, doc *Document, path string) {
	if len(merged.children) > 0 {
		merged.Append(&PageBreak{itemHeader: itemHeader{kind: PageBreakItemKind, span: NullSpan()}})
	}
	for i := 0; i < doc.ChildCount(); i++ {
		merged.Append(doc.Child(i))
	}
	for _, def := range doc.LabeledLinks {
		merged.LabeledLinks[NormalizeLabel(def.Label, path)] = def
	}
	for _, fn := range doc.Footnotes {
		merged.Footnotes[NormalizeLabel(fn.ID, path)] = fn
	}
	for label, h := range doc.LabeledHeadings {
		merged.LabeledHeadings[NormalizeLabel(label, path)] = h
	}
}

// collectLinkURLs returns the URL of every Link reachable in doc.
func collectLinkURLs(doc *Document) []string {
	var urls []string
	Walk(doc, &WalkOptions{
		Pre: func(c *Cursor) bool {
			if l, ok := c.Item().(*Link); ok {
				urls = append(urls, l.URL)
			}
			return true
		},
	})
	return urls
}

// resolveRecursiveLink reports the absolute path a relative link URL
// resolves to, and whether it names an existing, allowed-extension file
// relative to dir.
func resolveRecursiveLink(fs afero.Fs, dir, url string, opts ParseOptions) (string, bool) {
	if url == "" || isAbsoluteURL(url) {
		return "", false
	}
	candidate := filepath.Join(dir, url)
	if !opts.allowsExtension(filepath.Ext(candidate)) {
		return "", false
	}
	info, err := fs.Stat(candidate)
	if err != nil || info.IsDir() {
		return "", false
	}
	abs, err := filepath.Abs(candidate)
	if err != nil {
		return "", false
	}
	return abs, true
}

// isAbsoluteURL reports whether url carries a scheme (http:, mailto:, ...)
// or is a filesystem-absolute path, either of which rules it out as a
// same-tree relative markdown link.
func isAbsoluteURL(url string) bool {
	if filepath.IsAbs(url) {
		return true
	}
	for i, r := range url {
		switch {
		case r == ':':
			return i > 0
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.':
			continue
		default:
			return false
		}
	}
	return false
}
