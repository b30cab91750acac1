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

	"gopkg.in/yaml.v3"
)

// yamlParser recognizes a `---`/`...`-delimited front-matter block. It is
// only ever tried as the very first block of a file: Check refuses unless
// no block has been opened at the top level yet (the file's leading
// [Anchor] does not count).
type yamlParser struct{}

type yamlBlockState struct {
	lines       []string
	startDelim  Span
	endDelim    Span
	closingLine bool
}

func (p *yamlParser) Check(line *Line, stream *TextStream, doc *Document, ctx *Context) BlockState {
	if ctx.Parent() != nil || len(ctx.Children()) != 0 {
		return StateNone
	}
	if strings.TrimSpace(line.RawRest()) != "---" {
		return StateNone
	}
	return StateContinue
}

func (p *yamlParser) ContinueCheck(line *Line, stream *TextStream, doc *Document, ctx *Context) BlockState {
	d, _ := ctx.Data().(*yamlBlockState)
	if d == nil {
		// Shouldn't happen (Process always runs before a second
		// ContinueCheck), but guard defensively.
		return StateStop
	}
	trimmed := strings.TrimSpace(line.RawRest())
	d.closingLine = trimmed == "---" || trimmed == "..."
	if d.closingLine && !wellFormedYAML(strings.Join(d.lines, "\n")) {
		// Not actually YAML: the block is discarded and its lines are
		// reread from the opening "---" with this parser excluded.
		return StateDiscard
	}
	return StateContinueWithoutAppendingChildCtx
}

func (p *yamlParser) Process(line *Line, stream *TextStream, doc *Document, ctx *Context) {
	d, _ := ctx.Data().(*yamlBlockState)
	lineNo := ctx.LastLineNumber()
	if d == nil {
		startCol := line.Col()
		line.Advance(line.Len())
		d = &yamlBlockState{
			startDelim: Span{Start: Pos{Line: lineNo, Col: startCol}, End: Pos{Line: lineNo, Col: line.Col()}},
		}
		ctx.SetData(d)
		return
	}
	if d.closingLine {
		startCol := line.Col()
		line.Advance(line.Len())
		d.endDelim = Span{Start: Pos{Line: lineNo, Col: startCol}, End: Pos{Line: lineNo, Col: line.Col()}}
		ctx.SetClosed(true)
		return
	}
	d.lines = append(d.lines, line.RawRest())
	line.Advance(line.Len())
}

// wellFormedYAML reports whether body parses as YAML at all; an empty body
// (bare `---`/`---` pair) counts as well-formed.
func wellFormedYAML(body string) bool {
	if strings.TrimSpace(body) == "" {
		return true
	}
	var node yaml.Node
	return yaml.Unmarshal([]byte(body), &node) == nil
}

func (p *yamlParser) Finish(doc *Document, ctx *Context) {
	d, ok := ctx.Data().(*yamlBlockState)
	if !ok {
		return
	}
	yh := &YAMLHeader{
		itemHeader: itemHeader{kind: YAMLHeaderItemKind, span: Span{Start: d.startDelim.Start, End: d.endDelim.End}},
		Yaml:       strings.Join(d.lines, "\n"),
		StartDelim: d.startDelim,
		EndDelim:   d.endDelim,
	}
	appendToParent(ctx, doc, yh)
}

func (p *yamlParser) MayInterruptParagraph() bool { return false }
func (p *yamlParser) CanBeLazyContinuation() bool { return false }
