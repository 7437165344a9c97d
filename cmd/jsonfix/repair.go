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

	"trpc.group/trpc-go/trpc-jsonfix-go/log"
	"trpc.group/trpc-go/trpc-jsonfix-go/validator"
)

func newRepairCmd() *cobra.Command {
	var (
		indent  int
		write   bool
		explain bool
	)
	cmd := &cobra.Command{
		Use:   "repair [file]",
		Short: "Repair a malformed JSON document",
		Long: "Repair common mistakes such as comments, single quotes, unquoted keys,\n" +
			"trailing commas and missing brackets, then print the formatted document.",
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

			res, err := v.Repair(cmd.Context(), text)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", name, err)
				return errReported
			}
			if explain {
				stderr := cmd.ErrOrStderr()
				if len(res.Actions) == 0 {
					fmt.Fprintf(stderr, "%s: already valid\n", name)
				}
				for _, a := range res.Actions {
					fmt.Fprintf(stderr, "%s: %s\n", name, a)
				}
			}
			log.Debugf("jsonfix: %s repaired with %d actions", name, len(res.Actions))
			return writeOutput(cmd, name, res.Text, write)
		},
	}
	cmd.Flags().IntVar(&indent, "indent", defaultIndent, "spaces per nesting level, 0 for compact output")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "overwrite the file with the repaired document")
	cmd.Flags().BoolVar(&explain, "explain", false, "list the applied repairs on stderr")
	return cmd
}
