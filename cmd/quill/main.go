// Copyright 2024-2025 The Quill Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// The quill command is a developer tool around the quill front end: it
// parses files and prints their trees and diagnostics. The library itself
// does no I/O; everything file-shaped lives here.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/quill-lang/quill"
	"github.com/quill-lang/quill/report"
	"github.com/quill-lang/quill/syntax"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: false,
})

var (
	styleError = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	styleSpan  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

func main() {
	root := &cobra.Command{
		Use:           "quill",
		Short:         "Inspect quill parse trees and diagnostics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(parseCmd(), checkCmd())

	if err := root.Execute(); err != nil {
		logger.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func parseCmd() *cobra.Command {
	var shape bool
	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Parse a file and dump its tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := parseFile(cmd, args[0])
			if err != nil {
				return err
			}

			if shape {
				fmt.Print(syntax.DumpShape(tree.Root()))
			} else {
				fmt.Print(syntax.Dump(tree.Root()))
			}
			printDiagnostics(tree.Diagnostics())
			return nil
		},
	}
	cmd.Flags().BoolVar(&shape, "shape", false, "omit spans and token text")
	return cmd
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE",
		Short: "Parse a file and report its diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := parseFile(cmd, args[0])
			if err != nil {
				return err
			}

			diags := tree.Diagnostics()
			printDiagnostics(diags)
			if len(diags) > 0 {
				return fmt.Errorf("%d problem(s) in %s", len(diags), args[0])
			}
			logger.Info("no problems found", "file", args[0])
			return nil
		},
	}
}

func parseFile(cmd *cobra.Command, path string) (*quill.Tree, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	tree := quill.Parse(cmd.Context(), string(text))
	if tree.Cancelled() {
		logger.Warn("parse was cancelled; tree is partial", "file", path)
	}
	return tree, nil
}

func printDiagnostics(diags []report.Diagnostic) {
	for _, d := range diags {
		level := styleError.Render("error")
		if d.Level == report.Warning {
			level = styleWarn.Render("warning")
		}
		fmt.Printf("%s %s %s\n", styleSpan.Render(d.Span.String()), level, d.Message)
	}
}
