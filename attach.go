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

// attachItem appends it as the next child of whatever block containerCtx is
// building (its Context.Item(), set via SetItem as that container was
// opened), or to the document itself if containerCtx is nil or building
// nothing (the top level).
func attachItem(containerCtx *Context, doc *Document, it Item) {
	if containerCtx == nil {
		doc.Append(it)
		return
	}
	switch p := containerCtx.Item().(type) {
	case nil:
		doc.Append(it)
	case *Blockquote:
		p.Append(it)
	case *Footnote:
		p.Append(it)
	case *TableCell:
		p.Append(it)
	case *ListItem:
		p.Append(it)
	case *List:
		li, ok := it.(*ListItem)
		if !ok {
			panic("mdtree: non-ListItem appended to List")
		}
		p.AppendItem(li)
	default:
		doc.Append(it)
	}
}

// appendToParent attaches a just-finished block it to wherever it belongs:
// the container that ctx was opened inside of. Every leaf and container
// block parser's Finish calls this instead of deciding for itself how its
// parent is shaped.
func appendToParent(ctx *Context, doc *Document, it Item) {
	attachItem(ctx.Parent(), doc, it)
}
