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

import "fmt"

// Pos is a byte-precise source position: a 0-based line and a 0-based
// column within that line. The zero value is the first line, first column;
// an unset position uses Line == -1.
type Pos struct {
	Line int
	Col  int
}

// NullPos returns an unset position.
func NullPos() Pos {
	return Pos{Line: -1, Col: -1}
}

// IsValid reports whether p has been set.
func (p Pos) IsValid() bool {
	return p.Line >= 0 && p.Col >= 0
}

// Less reports whether p sorts strictly before q in (line, col) lexicographic order.
func (p Pos) Less(q Pos) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Col < q.Col
}

// LessEqual reports whether p sorts at or before q.
func (p Pos) LessEqual(q Pos) bool {
	return p == q || p.Less(q)
}

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Span is a byte-precise source range: [Start, End) in (line, column) space.
// Every item in the document tree carries a Span; -1 fields mark an unset
// endpoint.
type Span struct {
	Start Pos
	End   Pos
}

// NullSpan returns a span whose endpoints are both unset.
func NullSpan() Span {
	return Span{Start: NullPos(), End: NullPos()}
}

// IsValid reports whether both endpoints of the span have been set and are
// correctly ordered.
func (s Span) IsValid() bool {
	return s.Start.IsValid() && s.End.IsValid() && s.Start.LessEqual(s.End)
}

func (s Span) String() string {
	return fmt.Sprintf("[%v,%v)", s.Start, s.End)
}

// spanOf builds a Span out of four raw components, used throughout the
// block and inline parsers where start/end line and column are tracked as
// plain ints.
func spanOf(startLine, startCol, endLine, endCol int) Span {
	return Span{
		Start: Pos{Line: startLine, Col: startCol},
		End:   Pos{Line: endLine, Col: endCol},
	}
}
