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

// blockmd reads Markdown from standard input (or the named files) and
// prints the block structure as HTML, as normalized Markdown, or as a
// JSON token tree.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	block "github.com/go-blockmd/blockmd"
	"github.com/go-blockmd/blockmd/format"
	"github.com/go-blockmd/blockmd/htmlrender"
)

func main() {
	output := flag.String("o", "html", "output `format`: html, md, or json")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: blockmd [-o html|md|json] [FILE [...]]")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(*output, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "blockmd:", err)
		os.Exit(1)
	}
}

func run(output string, args []string) error {
	source, err := readInput(args)
	if err != nil {
		return err
	}

	ps := block.NewParser(nil)
	tokens, env := ps.ParseDocument(source)

	switch output {
	case "html":
		if _, err := block.Render(tokens, env, nil, htmlrender.New(os.Stdout)); err != nil {
			return err
		}
	case "md":
		if err := format.Format(os.Stdout, tokens); err != nil {
			return err
		}
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(tokens); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
	return nil
}

func readInput(args []string) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	var buf []byte
	for _, name := range args {
		data, err := os.ReadFile(name)
		if err != nil {
			return "", err
		}
		buf = append(buf, data...)
	}
	return string(buf), nil
}
