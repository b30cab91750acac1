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
)

// Parser drives the block engine across a single file's lines, probing a
// fixed-priority list of [BlockParser] implementations to grow a [Document]
// tree, then hands each paragraph-shaped span of raw lines to the inline
// pipeline once the block structure settles.
type Parser struct {
	openers []BlockParser
	inline  *InlineParser
}

// NewParser returns a parser with the standard block and inline parsers
// registered in priority order, equivalent to
// NewParserWithOptions(ParseOptions{}).
func NewParser() *Parser {
	return NewParserWithOptions(ParseOptions{})
}

// NewParserWithOptions returns a parser configured per opts. Its
// BlockParsers field selects the block parser set; InlineParsers only
// configures the parser's own inline parser, which the block parsers do not
// use (see [ParseOptions.InlineParsers]). Path, Recursive, and
// AllowedExtensions are consulted by
// [*Parser.ParseString] and the recursive multi-file entry points
// respectively.
func NewParserWithOptions(opts ParseOptions) *Parser {
	return &Parser{
		openers: opts.blockParsers(),
		inline:  newInlineParserWithExtensions(opts.inlineExtensions()),
	}
}

// ParseString parses a single in-memory document. The returned document's
// first child is always an [Anchor] labeled with opts.Path, per the
// document builder's "one Anchor per parsed file" contract; recursive
// multi-file parsing (see recursive.go) relies on each file's document
// already starting this way rather than synthesizing its own.
func (p *Parser) ParseString(text string, opts ParseOptions) *Document {
	doc := NewDocument()
	doc.Append(&Anchor{itemHeader: itemHeader{kind: AnchorItemKind, span: NullSpan()}, Label: opts.Path})
	stream := NewTextStream(text)
	root := NewContext(nil)
	p.run(stream, doc, root, opts.Path)
	p.resolveReferences(doc)
	return doc
}

// engineState carries the per-parse bookkeeping that doesn't belong on
// Context itself: which (context, parser) pairs have just been excluded for
// one reprobe after a discard, and the file path for diagnostics.
type engineState struct {
	stream *TextStream
	doc    *Document
	path   string
	// excludeOnce holds block parsers that are skipped whenever openBlockAt
	// is tried at the given context for the rest of the parse, because that
	// parser discarded an attempt opened there.
	excludeOnce map[*Context]map[BlockParser]bool
}

func (p *Parser) run(stream *TextStream, doc *Document, root *Context, path string) {
	st := &engineState{stream: stream, doc: doc, path: path, excludeOnce: make(map[*Context]map[BlockParser]bool)}
	lineNo := 0
	for lineNo < stream.LineCount() {
		lineNo = p.stepLine(st, root, lineNo)
	}
	closeChain(doc, root, collectOpenChain(root))
	p.emitTopLevel(doc, root)
}

// stepLine feeds one source line through the still-open chain beneath
// root, closing and reopening blocks as needed, and returns the next line
// number the caller should resume at (normally lineNo+1, but can jump
// backward when a block forces a discard-and-reprobe).
func (p *Parser) stepLine(st *engineState, root *Context, lineNo int) int {
	line := st.stream.LineAt(lineNo)
	chain := collectOpenChain(root)
	// Check implementations read the current line number off the context
	// they probe from, which may be root itself.
	root.SetLastLineNumber(lineNo)

	// Descend through the already-open chain. Each context's ContinueCheck
	// both decides whether the line belongs to it and consumes its own
	// prefix/marker; Process is then called uniformly so containers can do
	// bookkeeping and leaves can append content, using the line exactly as
	// ContinueCheck left it positioned.
	cur := root
	absorbed := false
	for i, ctx := range chain {
		state := ctx.Block().ContinueCheck(line, st.stream, st.doc, ctx)
		switch state {
		case StateContinue, StateContinueWithoutAppendingChildCtx:
			ctx.SetLastLineNumber(lineNo)
			ctx.Block().Process(line, st.stream, st.doc, ctx)
			cur = ctx
			if ctx.IsClosed() {
				ctx.Block().Finish(st.doc, ctx)
				absorbed = true
				goto descendDone
			}
			if state == StateContinueWithoutAppendingChildCtx {
				absorbed = true
			}
		case StateDiscard:
			rewindTo := ctx.FirstLineNumber()
			parent := ctx.Parent()
			removeChildContext(parent, ctx)
			if st.excludeOnce[parent] == nil {
				st.excludeOnce[parent] = make(map[BlockParser]bool)
			}
			st.excludeOnce[parent][ctx.Block()] = true
			return rewindTo
		default: // StateStop or StateNone
			closeChain(st.doc, ctx, chain[i:])
			cur = ctx.Parent()
			absorbed = false
			goto descendDone
		}
		if absorbed {
			goto descendDone
		}
	}
descendDone:
	if absorbed {
		return lineNo + 1
	}

	if line.IsBlank() && cur.Block() == nil {
		return lineNo + 1
	}

	p.openBlockAt(st, cur, line, lineNo)
	return lineNo + 1
}

// collectOpenChain walks from root to the deepest still-open descendant,
// returning the contexts in root-to-leaf order (excluding root itself).
func collectOpenChain(root *Context) []*Context {
	var chain []*Context
	cur := root
	for len(cur.children) > 0 {
		last := cur.children[len(cur.children)-1]
		if last.Block() == nil || last.IsClosed() {
			break
		}
		chain = append(chain, last)
		cur = last
	}
	return chain
}

func removeChildContext(parent *Context, child *Context) {
	for i, c := range parent.children {
		if c == child {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			return
		}
	}
}

func closeChain(doc *Document, from *Context, chain []*Context) {
	for i := len(chain) - 1; i >= 0; i-- {
		ctx := chain[i]
		if ctx.Block() != nil {
			ctx.Block().Finish(doc, ctx)
		}
		ctx.SetClosed(true)
	}
}

// openBlockAt tries each registered opener, in priority order, against the
// remaining (unconsumed) portion of line, starting a new nested context
// under cur for the first one that matches. Container blocks recurse to
// try opening further nested content on the same line.
func (p *Parser) openBlockAt(st *engineState, cur *Context, line *Line, lineNo int) {
	excluded := st.excludeOnce[cur]
	for _, bp := range p.openers {
		if excluded != nil && excluded[bp] {
			continue
		}
		saved := line.Save()
		state := bp.Check(line, st.stream, st.doc, cur)
		if state == StateNone {
			line.Restore(saved)
			continue
		}
		child := NewContext(cur)
		child.SetBlock(bp)
		child.SetFirstLineNumber(lineNo)
		child.SetLastLineNumber(lineNo)
		cur.AppendChild(child)
		bp.Process(line, st.stream, st.doc, child)
		if state == StateStop {
			bp.Finish(st.doc, child)
			child.SetClosed(true)
			return
		}
		if _, ok := bp.(containerBlockParser); ok {
			if !line.AtEnd() && !line.IsBlank() {
				p.openBlockAt(st, child, line, lineNo)
			}
		}
		return
	}
}

// containerBlockParser is implemented by block parsers that can hold
// further nested blocks opened on the same source line they themselves
// opened on (blockquote, list item).
type containerBlockParser interface {
	isContainerBlockParser()
}

// emitTopLevel walks the finished context tree and appends every top-level
// item (in order) to doc, since block parsers build their Context trees
// but individual Finish implementations are responsible for constructing
// and attaching the actual Item. This pass is a no-op placeholder: items
// are attached directly to doc or their parent Item by each parser's
// Process/Finish, so nothing further is required here beyond giving a
// single hook future block kinds can use for deferred top-level wiring.
func (p *Parser) emitTopLevel(doc *Document, root *Context) {}

// resolveReferences runs after block parsing completes: it assigns heading
// labels/slugs and leaves link/footnote maps as already populated by their
// defining block parsers.
func (p *Parser) resolveReferences(doc *Document) {
	assignHeadingLabels(doc)
}

// runParagraphInline parses raw source lines into inline items with the
// parser's configured inline parser and appends them to dst. No block
// parser calls it: paragraph, heading, and table-cell text is parsed with
// [NewInlineParser] instead.
func (p *Parser) runParagraphInline(dst *Paragraph, ps *ParagraphStream, doc *Document) {
	p.inline.Parse(dst, ps, doc)
}

// joinRawLines stitches a paragraph's raw source lines back into a single
// string for constructs (like reference-definition probing) that want to
// treat the block as flat text.
func joinRawLines(lines []string) string {
	return strings.Join(lines, "\n")
}
