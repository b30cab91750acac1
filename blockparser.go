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

// codeBlockIndentLimit is the number of columns a line must be indented
// past its container to count as an indented code block rather than
// belonging to the container.
const codeBlockIndentLimit = 4

// BlockState reports the outcome of offering a line to a [BlockParser].
type BlockState int

const (
	// StateNone means the parser does not recognize the line at all.
	StateNone BlockState = iota
	// StateContinue means the line belongs to this block and parsing
	// should keep descending into any open child context.
	StateContinue
	// StateStop means the line does not belong to this block; the block
	// should be closed (Finish called) before the line is reprobed at a
	// shallower level. Returned from Check, it instead means the line opens
	// a block that is complete on that line (ATX heading, thematic break):
	// the engine runs Process and then Finish at once.
	StateStop
	// StateContinueWithoutAppendingChildCtx means the line belongs to this
	// block, but the engine should not try to open any new child context
	// beneath it for this line (used by paragraph continuation).
	StateContinueWithoutAppendingChildCtx
	// StateDiscard means the block parser has realized, partway through,
	// that it never should have opened: the engine should rewind the
	// stream to the context's first line and reprobe there with this
	// parser excluded.
	StateDiscard
)

// BlockParser implements one kind of block-level construct (blockquote,
// list item, heading, code fence, table, paragraph, ...). The engine drives
// instances through Check (can this line open a new instance of this
// block?), ContinueCheck (does this line continue an already-open
// instance?), Process (consume the line's content into the context), and
// Finish (the block has no more lines; do any end-of-block bookkeeping like
// running the inline parser).
type BlockParser interface {
	// Check reports whether line can open a new instance of this block
	// inside ctx. It must not mutate doc or ctx when it returns StateNone.
	Check(line *Line, stream *TextStream, doc *Document, ctx *Context) BlockState

	// ContinueCheck reports whether line continues the block instance
	// already open in ctx.
	ContinueCheck(line *Line, stream *TextStream, doc *Document, ctx *Context) BlockState

	// Process consumes line's content into ctx once Check or
	// ContinueCheck has approved it.
	Process(line *Line, stream *TextStream, doc *Document, ctx *Context)

	// Finish is called once when the block can accept no more lines.
	Finish(doc *Document, ctx *Context)

	// MayInterruptParagraph reports whether this block is allowed to
	// interrupt an open paragraph without a blank line, per the
	// CommonMark paragraph-interrupt rules.
	MayInterruptParagraph() bool

	// CanBeLazyContinuation reports whether a line lacking this block's
	// container markers (e.g. a blockquote's `>`) may still continue it
	// as a lazy continuation line, the way a paragraph can.
	CanBeLazyContinuation() bool
}

// NotFinishedDiscardable describes a block parser whose Context can be
// asked, mid-parse, whether an open-but-not-yet-committed instance should
// instead be discarded and reprobed as something else. No block parser in
// this package implements it, and the engine never checks for it.
type NotFinishedDiscardable interface {
	// ReprobeNotFinished receives a context whose IsNotFinished flag is
	// still true at the point the engine closes it, and decides whether
	// this really is the end of the block.
	ReprobeNotFinished(doc *Document, ctx *Context) BlockState
}
