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
	"fmt"

	"github.com/spf13/cobra"

	"trpc.group/trpc-go/trpc-jsonfix-go/validator"
)

const defaultIndent = 2

func newFormatCmd() *cobra.Command {
	var (
		indent int
		write  bool
	)
	cmd := &cobra.Command{
		Use:   "format [file]",
		Short: "Validate a JSON document and print it formatted",
		Long: "Validate a JSON document strictly and print its canonical formatting.\n" +
			"Reads stdin when no file is given. Errors are reported as file:line:col: message.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if write && len(args) == 0 {
				return errWriteStdin
			}
			name, text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			v, err := validator.New(validator.WithIndent(indent), validator.WithPoolSize(0))
			if err != nil {
				return fmt.Errorf("create validator: %w", err)
			}
			defer v.Close()

			formatted, err := v.Format(cmd.Context(), text)
			if err != nil {
				reportSyntaxError(cmd.ErrOrStderr(), name, err)
				return errReported
			}
			return writeOutput(cmd, name, formatted, write)
		},
	}
	cmd.Flags().IntVar(&indent, "indent", defaultIndent, "spaces per nesting level, 0 for compact output")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "overwrite the file with the formatted document")
	return cmd
}
