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
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func TestParseFileSingle(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/root/a.md", "hello\n")

	doc, err := ParseFile(fs, "/root/a.md", ParseOptions{})
	require.NoError(t, err)
	require.Equal(t, 2, doc.ChildCount())
	anchor, ok := doc.Child(0).(*Anchor)
	require.True(t, ok)
	assert.Equal(t, "/root/a.md", anchor.Label)
}

func TestParseFileRecursiveFollowsLinks(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/root/a.md", "see [b](b.md)\n")
	writeFile(t, fs, "/root/b.md", "content of b\n")

	doc, err := ParseFile(fs, "/root/a.md", ParseOptions{Recursive: true})
	require.NoError(t, err)

	var anchors []string
	var pageBreaks int
	for i := 0; i < doc.ChildCount(); i++ {
		switch v := doc.Child(i).(type) {
		case *Anchor:
			anchors = append(anchors, v.Label)
		case *PageBreak:
			pageBreaks++
		}
	}
	assert.Equal(t, []string{"/root/a.md", "/root/b.md"}, anchors)
	assert.Equal(t, 1, pageBreaks)
}

func TestParseFileRecursiveDedupsRevisitedFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/root/a.md", "see [b](b.md) and [c](c.md)\n")
	writeFile(t, fs, "/root/b.md", "see [c](c.md)\n")
	writeFile(t, fs, "/root/c.md", "leaf\n")

	doc, err := ParseFile(fs, "/root/a.md", ParseOptions{Recursive: true})
	require.NoError(t, err)

	var anchors []string
	for i := 0; i < doc.ChildCount(); i++ {
		if a, ok := doc.Child(i).(*Anchor); ok {
			anchors = append(anchors, a.Label)
		}
	}
	assert.Equal(t, []string{"/root/a.md", "/root/b.md", "/root/c.md"}, anchors)
}

func TestParseFileRecursiveRespectsAllowedExtensions(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/root/a.md", "see [b](b.txt)\n")
	writeFile(t, fs, "/root/b.txt", "should not be followed\n")

	doc, err := ParseFile(fs, "/root/a.md", ParseOptions{Recursive: true})
	require.NoError(t, err)

	var anchors []string
	for i := 0; i < doc.ChildCount(); i++ {
		if a, ok := doc.Child(i).(*Anchor); ok {
			anchors = append(anchors, a.Label)
		}
	}
	assert.Equal(t, []string{"/root/a.md"}, anchors)
}

func TestParseFileRecursiveIgnoresAbsoluteLinks(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/root/a.md", "see [ext](https://example.com/x.md)\n")

	doc, err := ParseFile(fs, "/root/a.md", ParseOptions{Recursive: true})
	require.NoError(t, err)

	var anchors []string
	for i := 0; i < doc.ChildCount(); i++ {
		if a, ok := doc.Child(i).(*Anchor); ok {
			anchors = append(anchors, a.Label)
		}
	}
	assert.Equal(t, []string{"/root/a.md"}, anchors)
}

func TestParseFileRecursiveRekeysFootnotesByPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/root/a.md", "a[^1]\n\n[^1]: from a\n\nsee [b](b.md)\n")
	writeFile(t, fs, "/root/b.md", "b[^1]\n\n[^1]: from b\n")

	doc, err := ParseFile(fs, "/root/a.md", ParseOptions{Recursive: true})
	require.NoError(t, err)

	require.Len(t, doc.Footnotes, 2)
	fromA, ok := doc.Footnotes[NormalizeLabel("1", "/root/a.md")]
	require.True(t, ok)
	fromB, ok := doc.Footnotes[NormalizeLabel("1", "/root/b.md")]
	require.True(t, ok)
	assert.NotEqual(t, fromA, fromB)
}
