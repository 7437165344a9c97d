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
	"os"

	"github.com/spf13/cobra"

	"trpc.group/trpc-go/trpc-jsonfix-go/log"
)

// errReported marks a failure whose details were already written to stderr;
// main only has to set the exit status.
var errReported = errors.New("jsonfix: failure already reported")

func newRootCmd() *cobra.Command {
	var level, format string
	rootCmd := &cobra.Command{
		Use:           "jsonfix",
		Short:         "Validate, format and repair JSON documents",
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Disable usage printing on errors
			cmd.SilenceUsage = true
			l, err := log.ParseLevel(level)
			if err != nil {
				return err
			}
			if format != log.FormatConsole {
				log.Setup(cmd.ErrOrStderr(), format)
			}
			log.SetLevel(l)
			log.SetTraceEnabled(l == log.LevelDebug)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&level, "log-level", defaultLevel(),
		"log level: debug, info, warn or error (env "+log.EnvLevel+")")
	rootCmd.PersistentFlags().StringVar(&format, "log-format", log.FormatConsole, "log format: console or json")

	cobra.EnableCommandSorting = false

	rootCmd.AddCommand(
		newFormatCmd(),
		newRepairCmd(),
		newCheckCmd(),
		newServeCmd(),
	)
	return rootCmd
}

func defaultLevel() string {
	if level := os.Getenv(log.EnvLevel); level != "" {
		return level
	}
	return log.LevelInfo
}
