// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

// yamlscan reads YAML from a file or stdin and prints its token stream,
// one token per line, for inspecting how the scanner breaks a document
// apart without building a full document tree.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	goyaml "github.com/yamlcraft/goyaml"
)

var verbose bool

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "yamlscan [file]",
		Short:   "Print the YAML token stream for a document",
		Version: "0.1.0",
		Args:    cobra.MaximumNArgs(1),
		RunE:    runScan,
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log each token's position to stderr")
	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: levelFor(verbose),
	}))

	input, err := readInput(args)
	if err != nil {
		return fmt.Errorf("yamlscan: %w", err)
	}

	scanner := goyaml.NewScanner(input)
	out := cmd.OutOrStdout()
	for {
		tok, err := scanner.ConsumeCurrent()
		if err != nil {
			return fmt.Errorf("yamlscan: %w", err)
		}
		logger.Debug("token", "type", tok.Type, "line", tok.StartMark.Line, "column", tok.StartMark.Column+1)
		if len(tok.Value) > 0 {
			fmt.Fprintf(out, "%-28s %q\n", tok.Type, tok.Value)
		} else {
			fmt.Fprintln(out, tok.Type)
		}
		if tok.Type == goyaml.StreamEndToken {
			break
		}
	}
	return nil
}

func levelFor(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 0 {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(args[0])
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
