//
// Tencent is pleased to support the open source community by making trpc-jsonfix-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-jsonfix-go is licensed under the Apache License Version 2.0.
//
//

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"trpc.group/trpc-go/trpc-jsonfix-go/log"
	"trpc.group/trpc-go/trpc-jsonfix-go/parser"
	"trpc.group/trpc-go/trpc-jsonfix-go/source"
)

const stdinName = "<stdin>"

var errWriteStdin = errors.New("--write requires a file argument")

// readInput reads the named file, or stdin when no file or "-" is given.
func readInput(cmd *cobra.Command, args []string) (name, text string, err error) {
	var raw []byte
	if len(args) == 0 || args[0] == "-" {
		name = stdinName
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		name = args[0]
		raw, err = os.ReadFile(name)
	}
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", name, err)
	}
	text, err = source.Decode(raw)
	if err != nil {
		return "", "", fmt.Errorf("decode %s: %w", name, err)
	}
	return name, text, nil
}

// writeOutput prints text, or replaces the file contents when write is set.
func writeOutput(cmd *cobra.Command, name, text string, write bool) error {
	if !write || name == stdinName {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), text)
		return err
	}
	info, err := os.Stat(name)
	if err != nil {
		return fmt.Errorf("stat %s: %w", name, err)
	}
	if err := os.WriteFile(name, []byte(text+"\n"), info.Mode().Perm()); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	log.Infof("jsonfix: wrote %s", name)
	return nil
}

// reportSyntaxError prints err in file:line:col form.
func reportSyntaxError(w io.Writer, name string, err error) {
	var syntaxErr *parser.SyntaxError
	if errors.As(err, &syntaxErr) && syntaxErr.Position != nil {
		fmt.Fprintf(w, "%s:%d:%d: %s\n", name, syntaxErr.Line(), syntaxErr.Column(), syntaxErr.Description())
		return
	}
	fmt.Fprintf(w, "%s: %v\n", name, err)
}
