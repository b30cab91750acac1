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

package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/cairnmark/mdtree"
	"github.com/cairnmark/mdtree/htmlrender"
)

// RenderCmd renders a markdown file as HTML. Its flags map 1:1 onto
// [mdtree.ParseOptions].
type RenderCmd struct {
	Path string `arg:"" help:"Path to the markdown file to render."`

	Recursive         bool     `help:"Follow relative markdown links into their own pages." name:"recursive"`
	AllowedExtensions []string `help:"File extensions (with leading dot) recursion may follow; defaults to .md, .markdown." name:"ext" sep:","`
	CommonMarkOnly    bool     `help:"Disable the YAML/footnote/table block extensions and parse plain CommonMark blocks; inline math and GFM autolinks stay enabled." name:"commonmark-only"`

	IgnoreRaw bool `help:"Omit raw HTML blocks and inline raw HTML from the output." name:"ignore-raw"`
}

// Run executes the render command.
func (c *RenderCmd) Run() error {
	opts := mdtree.ParseOptions{
		Path:              c.Path,
		Recursive:         c.Recursive,
		AllowedExtensions: c.AllowedExtensions,
	}
	if c.CommonMarkOnly {
		opts.BlockParsers = mdtree.CommonMarkBlockParsers()
		opts.InlineParsers = mdtree.CommonMarkInlineParsers
		opts.InlineParsersSet = true
	}

	doc, err := mdtree.ParseFile(afero.NewOsFs(), c.Path, opts)
	if err != nil {
		return fmt.Errorf("mdtree render: %w", err)
	}

	r := &htmlrender.Renderer{
		IDs:       headingIDs(doc),
		IgnoreRaw: c.IgnoreRaw,
	}
	return r.Render(os.Stdout, doc)
}

// headingIDs builds the caller-supplied Item->id map the renderer uses for
// heading anchors, from the labels the parser already assigned.
func headingIDs(doc *mdtree.Document) map[mdtree.Item]string {
	ids := make(map[mdtree.Item]string, len(doc.LabeledHeadings))
	for label, h := range doc.LabeledHeadings {
		ids[h] = label
	}
	return ids
}
