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

// ChildIndent records one level of indentation contributed by an open list
// item beneath a [Context], along with the bullet/number-delimiter
// character that produced it.
type ChildIndent struct {
	Column int
	Marker byte
}

// LineStart records the (column, rune position) a [Context] reached when it
// started covering a particular line, keyed by line number.
type LineStart struct {
	Column int
	Pos    int
}

// Context represents one level of block nesting in the parse tree being
// built. It owns the active [BlockParser] (if any), the queue of child
// contexts, the indent thresholds contributed by open lists, the set of
// lazy-continuation line numbers, and a per-line start-state map.
type Context struct {
	parentCtx *Context
	block     BlockParser
	children  []*Context

	childIndents []ChildIndent

	lazyLines map[int]bool
	lineInfo  map[int]LineStart

	firstLine int
	lastLine  int

	notFinished   bool
	discardForced bool
	closed        bool

	// item is the Item this context's block parser is building (a
	// *Blockquote, *ListItem, *Table, ...), so a nested leaf block's
	// Finish can attach its result to the right parent container.
	item Item

	// data is private scratch state for whichever BlockParser owns this
	// context (fence char/count, collected raw lines, table alignments,
	// ...). Block parsers are stateless strategy objects shared across
	// every context of their kind, so this is the only place their
	// per-instance state can live.
	data any

	// openList is the List block currently being built at this context's
	// level, if any (nil otherwise). It lets a ListItem block parser find
	// its enclosing List to append itself to, and lets the engine detect a
	// bullet-marker change that must force a new list.
	openList *List

	// dontConsiderIndents makes IndentColumn report 0 regardless of indent.
	// No block parser in this package sets it.
	dontConsiderIndents bool

	indent int
}

// NewContext creates a context nested under parent (nil for the document's
// top-level context).
func NewContext(parent *Context) *Context {
	return &Context{
		parentCtx: parent,
		lazyLines: make(map[int]bool),
		lineInfo:  make(map[int]LineStart),
		firstLine: -1,
		lastLine:  -1,
	}
}

// Parent returns the enclosing context, or nil at the top level.
func (c *Context) Parent() *Context { return c.parentCtx }

// Children returns the queue of child contexts opened beneath this one, in
// the order they were opened.
func (c *Context) Children() []*Context { return c.children }

// AppendChild appends a newly-opened context as a child of c.
func (c *Context) AppendChild(child *Context) {
	child.parentCtx = c
	c.children = append(c.children, child)
}

// Block returns the active block parser owning this context, or nil.
func (c *Context) Block() BlockParser { return c.block }

// SetBlock assigns the active block parser for this context.
func (c *Context) SetBlock(b BlockParser) { c.block = b }

// IndentColumn returns the column a child line must reach to belong to this
// block (0 at top level), unless indent-tracking has been suppressed for a
// speculative re-probe.
func (c *Context) IndentColumn() int {
	if c.dontConsiderIndents {
		return 0
	}
	return c.indent
}

// SetIndentColumn sets the column a child line must reach.
func (c *Context) SetIndentColumn(i int) { c.indent = i }

// SuppressIndents makes IndentColumn report 0 until restored. No block
// parser in this package calls it.
func (c *Context) SuppressIndents(v bool) { c.dontConsiderIndents = v }

// HasChildIndents reports whether any list has opened beneath this context.
func (c *Context) HasChildIndents() bool { return len(c.childIndents) > 0 }

// ChildIndents returns the ordered list of (column, marker) pairs
// contributed by open lists beneath this context.
func (c *Context) ChildIndents() []ChildIndent { return c.childIndents }

// AppendChildIndent records a new list-item indent threshold, called when a
// list opens beneath this context.
func (c *Context) AppendChildIndent(col int, marker byte) {
	c.childIndents = append(c.childIndents, ChildIndent{Column: col, Marker: marker})
}

// ClearChildIndents closes all list nesting deeper than the given column,
// called on dedent. If removeAdditional is true, every indent is dropped
// regardless of column (used when a non-bullet, non-indented line appears).
func (c *Context) ClearChildIndents(spaces int, removeAdditional bool) {
	if removeAdditional {
		c.childIndents = nil
		return
	}
	kept := c.childIndents[:0]
	for _, ci := range c.childIndents {
		if ci.Column <= spaces {
			kept = append(kept, ci)
		}
	}
	c.childIndents = kept
}

// FirstChildIndent returns the indent column required to continue the
// outermost open list beneath this context.
func (c *Context) FirstChildIndent() int {
	if !c.HasChildIndents() {
		return c.IndentColumn()
	}
	return c.childIndents[0].Column
}

// LastChildIndent returns the indent column required to continue the
// innermost (most deeply nested) open list beneath this context.
func (c *Context) LastChildIndent() int {
	if !c.HasChildIndents() {
		return c.IndentColumn()
	}
	return c.childIndents[len(c.childIndents)-1].Column
}

// MaxAvailableIndent returns the greatest indent column a line could reach
// and still belong to some list nested in this context or one of its
// ancestors.
func (c *Context) MaxAvailableIndent() int {
	max := c.LastChildIndent()
	if c.parentCtx != nil {
		if p := c.parentCtx.LastChildIndent(); p > max {
			max = p
		}
	}
	return max
}

// IsInIndent reports whether a block-opening line at the given column
// belongs to this context: it must be within 4 columns of the parent
// indent, or, if the context has child indents, within the first child
// indent.
func (c *Context) IsInIndent(column int) bool {
	if column-c.IndentColumn() < codeBlockIndentLimit {
		return true
	}
	if c.HasChildIndents() {
		return column <= c.FirstChildIndent()
	}
	return false
}

// IsLazyLine reports whether line n has been recorded as a lazy
// continuation of this block (e.g. a paragraph line under a blockquote
// without its `>` marker).
func (c *Context) IsLazyLine(n int) bool { return c.lazyLines[n] }

// AppendLazyInfo records line n as a lazy continuation line.
func (c *Context) AppendLazyInfo(n int) { c.lazyLines[n] = true }

// SetLineInfo records the (column, pos) this context's block reached at the
// start of its content on line n.
func (c *Context) SetLineInfo(n, col, pos int) {
	c.lineInfo[n] = LineStart{Column: col, Pos: pos}
}

// LineInfo returns the recorded (column, pos) for line n, if any.
func (c *Context) LineInfo(n int) (LineStart, bool) {
	ls, ok := c.lineInfo[n]
	return ls, ok
}

// FirstLineNumber returns the first source line this context's block
// covers, or -1 if unset.
func (c *Context) FirstLineNumber() int { return c.firstLine }

// LastLineNumber returns the last source line this context's block covers
// so far.
func (c *Context) LastLineNumber() int { return c.lastLine }

// SetFirstLineNumber records the first line, only if not already set.
func (c *Context) SetFirstLineNumber(n int) {
	if c.firstLine < 0 {
		c.firstLine = n
	}
}

// SetLastLineNumber records the most recent line this context covered.
func (c *Context) SetLastLineNumber(n int) { c.lastLine = n }

// ListDelim returns the bullet/ordered-list delimiter character recorded
// for the given indent column, or 0 if no list is open at that indent.
func (c *Context) ListDelim(indent int) byte {
	for _, ci := range c.childIndents {
		if ci.Column == indent {
			return ci.Marker
		}
	}
	return 0
}

// Item returns the Item this context's block parser is building.
func (c *Context) Item() Item { return c.item }

// SetItem records the Item this context's block parser is building.
func (c *Context) SetItem(it Item) { c.item = it }

// Data returns the owning block parser's private scratch state.
func (c *Context) Data() any { return c.data }

// SetData records the owning block parser's private scratch state.
func (c *Context) SetData(v any) { c.data = v }

// OpenList returns the List currently being built at this context's level.
func (c *Context) OpenList() *List { return c.openList }

// SetOpenList records the List currently being built at this context's
// level.
func (c *Context) SetOpenList(l *List) { c.openList = l }

// IsNotFinished reports whether the active block parser asked the engine to
// keep feeding it lines even though it would otherwise look complete. No
// block parser in this package sets it, and the engine does not read it.
func (c *Context) IsNotFinished() bool { return c.notFinished }

// SetNotFinished sets the not-finished flag.
func (c *Context) SetNotFinished(v bool) { c.notFinished = v }

// IsDiscardForced reports whether the engine should rewind to this
// context's first line and reprobe, skipping the parser that opened it.
func (c *Context) IsDiscardForced() bool { return c.discardForced }

// SetDiscardForced sets the discard-forced flag.
func (c *Context) SetDiscardForced(v bool) { c.discardForced = v }

// IsClosed reports whether this context's block parser has already
// recognized its own terminating line (a YAML "---" closer, a fenced
// code block's closing fence, a setext underline, ...) while processing
// the most recent line, meaning Finish should run immediately rather than
// waiting for a following line to fail to continue. The engine also sets
// it on every context it has finished.
func (c *Context) IsClosed() bool { return c.closed }

// SetClosed marks this context as self-terminated; see [Context.IsClosed].
func (c *Context) SetClosed(v bool) { c.closed = v }

// MostNestedChild returns the deepest still-open descendant context, or c
// itself if it has no open children.
func (c *Context) MostNestedChild() *Context {
	cur := c
	for len(cur.children) > 0 {
		last := cur.children[len(cur.children)-1]
		if last.IsClosed() {
			break
		}
		cur = last
	}
	return cur
}

// TopContext walks up to the root context.
func (c *Context) TopContext() *Context {
	cur := c
	for cur.parentCtx != nil {
		cur = cur.parentCtx
	}
	return cur
}
