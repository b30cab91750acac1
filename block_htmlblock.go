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

	"golang.org/x/net/html/atom"
)

// htmlBlockParser recognizes the 7 CommonMark HTML block start conditions.
// Rule 7 (a line that is a complete, otherwise-bare open or closing tag) is
// the only one that may not interrupt an open paragraph.
type htmlBlockParser struct{}

var htmlBlockStarters1 = []string{"<pre", "<script", "<style", "<textarea"}
var htmlBlockEnders1 = []string{"</pre>", "</script>", "</style>", "</textarea>"}

var htmlBlockStarters6 = []string{
	atom.Address.String(), atom.Article.String(), atom.Aside.String(), atom.Base.String(),
	atom.Basefont.String(), atom.Blockquote.String(), atom.Body.String(), atom.Caption.String(),
	atom.Center.String(), atom.Col.String(), atom.Colgroup.String(), atom.Dd.String(),
	atom.Details.String(), atom.Dialog.String(), atom.Dir.String(), atom.Div.String(),
	atom.Dl.String(), atom.Dt.String(), atom.Fieldset.String(), atom.Figcaption.String(),
	atom.Figure.String(), atom.Footer.String(), atom.Form.String(), atom.Frame.String(),
	atom.Frameset.String(), atom.H1.String(), atom.H2.String(), atom.H3.String(),
	atom.H4.String(), atom.H5.String(), atom.H6.String(), atom.Head.String(),
	atom.Header.String(), atom.Hr.String(), atom.Html.String(), atom.Iframe.String(),
	atom.Legend.String(), atom.Li.String(), atom.Link.String(), atom.Main.String(),
	atom.Menu.String(), atom.Menuitem.String(), atom.Nav.String(), atom.Noframes.String(),
	atom.Ol.String(), atom.Optgroup.String(), atom.Option.String(), atom.P.String(),
	atom.Param.String(), atom.Section.String(), atom.Source.String(), atom.Summary.String(),
	atom.Table.String(), atom.Tbody.String(), atom.Td.String(), atom.Tfoot.String(),
	atom.Th.String(), atom.Thead.String(), atom.Title.String(), atom.Tr.String(),
	atom.Track.String(), atom.Ul.String(),
}

func hasCaseInsensitivePrefix(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	return strings.EqualFold(s[:len(prefix)], prefix)
}

func caseInsensitiveContains(s, search string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(search))
}

type htmlBlockCondition struct {
	start       func(s string) bool
	end         func(s string) bool
	canInterrupt bool
}

var htmlBlockConditions = []htmlBlockCondition{
	{ // rule 1
		start: func(s string) bool {
			for _, starter := range htmlBlockStarters1 {
				if hasCaseInsensitivePrefix(s, starter) {
					rest := s[len(starter):]
					if rest == "" || rest[0] == ' ' || rest[0] == '\t' || rest[0] == '>' {
						return true
					}
				}
			}
			return false
		},
		end: func(s string) bool {
			for _, ender := range htmlBlockEnders1 {
				if caseInsensitiveContains(s, ender) {
					return true
				}
			}
			return false
		},
		canInterrupt: true,
	},
	{ // rule 2
		start:        func(s string) bool { return strings.HasPrefix(s, "<!--") },
		end:          func(s string) bool { return strings.Contains(s, "-->") },
		canInterrupt: true,
	},
	{ // rule 3
		start:        func(s string) bool { return strings.HasPrefix(s, "<?") },
		end:          func(s string) bool { return strings.Contains(s, "?>") },
		canInterrupt: true,
	},
	{ // rule 4
		start: func(s string) bool {
			return strings.HasPrefix(s, "<!") && len(s) >= 3 && isASCIILetterByte(s[2])
		},
		end:          func(s string) bool { return strings.Contains(s, ">") },
		canInterrupt: true,
	},
	{ // rule 5
		start:        func(s string) bool { return strings.HasPrefix(s, "<![CDATA[") },
		end:          func(s string) bool { return strings.Contains(s, "]]>") },
		canInterrupt: true,
	},
	{ // rule 6
		start: func(s string) bool {
			var rest string
			switch {
			case strings.HasPrefix(s, "</"):
				rest = s[2:]
			case strings.HasPrefix(s, "<"):
				rest = s[1:]
			default:
				return false
			}
			for _, starter := range htmlBlockStarters6 {
				if hasCaseInsensitivePrefix(rest, starter) {
					tail := rest[len(starter):]
					if tail == "" || tail[0] == ' ' || tail[0] == '\t' || tail[0] == '>' || strings.HasPrefix(tail, "/>") {
						return true
					}
				}
			}
			return false
		},
		end:          func(s string) bool { return strings.TrimSpace(s) == "" },
		canInterrupt: true,
	},
	{ // rule 7: a bare, complete open or closing tag and nothing else on the
		// line besides trailing whitespace.
		start: func(s string) bool {
			if !strings.HasPrefix(s, "<") {
				return false
			}
			return matchesBareTag(s)
		},
		end:          func(s string) bool { return strings.TrimSpace(s) == "" },
		canInterrupt: false,
	},
}

func isASCIILetterByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// matchesBareTag reports whether s (from '<' onward) is a complete HTML
// open or closing tag followed by only whitespace, reusing the inline tag
// grammar's recognizer.
func matchesBareTag(s string) bool {
	runes := []rune(s)
	end, ok := scanHTMLTag(runes, 0)
	if !ok {
		return false
	}
	return strings.TrimSpace(string(runes[end:])) == ""
}

func matchHTMLBlockRule(s string) (rule int, canInterrupt bool, ok bool) {
	for i, c := range htmlBlockConditions {
		if c.start(s) {
			return i, c.canInterrupt, true
		}
	}
	return 0, false, false
}

type htmlBlockState struct {
	rule  int
	lines []string
}

func (p *htmlBlockParser) Check(line *Line, stream *TextStream, doc *Document, ctx *Context) BlockState {
	indent := line.Indent()
	if indent >= codeBlockIndentLimit {
		return StateNone
	}
	save := line.Save()
	line.SkipSpaces(indent)
	_, _, ok := matchHTMLBlockRule(line.RawRest())
	line.Restore(save)
	if !ok {
		return StateNone
	}
	return StateContinue
}

func (p *htmlBlockParser) ContinueCheck(line *Line, stream *TextStream, doc *Document, ctx *Context) BlockState {
	st, _ := ctx.Data().(*htmlBlockState)
	if st == nil {
		return StateContinue
	}
	return StateContinueWithoutAppendingChildCtx
}

func (p *htmlBlockParser) Process(line *Line, stream *TextStream, doc *Document, ctx *Context) {
	st, _ := ctx.Data().(*htmlBlockState)
	if st == nil {
		indent := line.Indent()
		line.SkipSpaces(indent)
		rule, _, _ := matchHTMLBlockRule(line.RawRest())
		st = &htmlBlockState{rule: rule}
		ctx.SetData(st)
	}
	raw := line.RawRest()
	st.lines = append(st.lines, raw)
	line.Advance(line.Len())
	if htmlBlockConditions[st.rule].end(raw) {
		ctx.SetClosed(true)
	}
}

func (p *htmlBlockParser) Finish(doc *Document, ctx *Context) {
	st, ok := ctx.Data().(*htmlBlockState)
	if !ok {
		return
	}
	raw := &RawHtml{
		itemHeader: itemHeader{kind: RawHTMLItemKind, span: Span{Start: Pos{Line: ctx.FirstLineNumber(), Col: 0}, End: Pos{Line: ctx.LastLineNumber() + 1, Col: 0}}},
		Raw:        strings.Join(st.lines, "\n"),
	}
	appendToParent(ctx, doc, raw)
}

func (p *htmlBlockParser) MayInterruptParagraph() bool {
	// Per-rule distinction (rule 7 cannot interrupt) is applied by the
	// paragraph parser's interrupt probe, which checks the matched rule
	// directly; this conservative default only governs generic callers.
	return true
}
func (p *htmlBlockParser) CanBeLazyContinuation() bool { return false }
