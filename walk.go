// Copyright 2024 Ross Light
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

// A Cursor describes an [Item] encountered during [Walk].
type Cursor struct {
	item   Item
	parent Item
	index  int
}

// Item returns the current item.
func (c *Cursor) Item() Item { return c.item }

// Parent returns the parent of the current item, or nil at the root.
func (c *Cursor) Parent() Item { return c.parent }

// Index returns the index of the current item within its parent's
// children, or a value < 0 if the current item has no parent.
func (c *Cursor) Index() int { return c.index }

// WalkOptions configures [Walk].
type WalkOptions struct {
	// Pre is called for each item before its children are traversed. If Pre
	// returns false, the item's children are skipped and Post is not called
	// for it.
	Pre func(c *Cursor) bool
	// Post is called for each item after its children are traversed. If
	// Post returns false, the walk stops immediately.
	Post func(c *Cursor) bool
}

// Walk traverses an item tree rooted at root in document order, calling
// [WalkOptions.Pre] and [WalkOptions.Post] as it goes.
func Walk(root Item, opts *WalkOptions) {
	type frame struct {
		Cursor
		post bool
	}
	stack := []frame{{Cursor: Cursor{item: root, index: -1}}}
	cursor := new(Cursor)
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if curr.post {
			if opts.Post != nil {
				*cursor = curr.Cursor
				if !opts.Post(cursor) {
					break
				}
			}
			continue
		}
		if opts.Pre != nil {
			*cursor = curr.Cursor
			if !opts.Pre(cursor) {
				continue
			}
		}
		curr.post = true
		stack = append(stack, curr)
		for i := curr.item.ChildCount() - 1; i >= 0; i-- {
			stack = append(stack, frame{Cursor: Cursor{
				parent: curr.item,
				item:   curr.item.Child(i),
				index:  i,
			}})
		}
	}
}
