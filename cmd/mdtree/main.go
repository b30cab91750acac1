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

// Command mdtree parses and renders CommonMark/GFM-with-extensions
// documents from the command line.
package main

import (
	"github.com/alecthomas/kong"
)

// CLI is the root command set, parsed by Kong.
type CLI struct {
	Render RenderCmd `cmd:"" help:"Render a markdown file (and, with --recursive, the files it links to) as HTML."`
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("mdtree"),
		kong.Description("Parse and render CommonMark/GFM markdown with math, footnote, and front-matter extensions."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
