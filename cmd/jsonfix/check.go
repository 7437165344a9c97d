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
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"trpc.group/trpc-go/trpc-jsonfix-go/log"
	"trpc.group/trpc-go/trpc-jsonfix-go/source"
	"trpc.group/trpc-go/trpc-jsonfix-go/validator"
)

// Check statuses.
const (
	statusValid      = "valid"
	statusRepairable = "repairable"
	statusInvalid    = "invalid"
	statusUnreadable = "unreadable"
)

func newCheckCmd() *cobra.Command {
	var (
		root     string
		poolSize int
	)
	cmd := &cobra.Command{
		Use:   "check <pattern>...",
		Short: "Check every file matching the glob patterns",
		Long: "Check every file matching the glob patterns concurrently and print a summary table.\n" +
			"Patterns are relative to --root and support ** for any number of directories.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys := os.DirFS(root)
			files, err := expandPatterns(fsys, args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no files match %s", strings.Join(args, " "))
			}
			log.Debugf("jsonfix: checking %d files under %s", len(files), root)

			v, err := validator.New(validator.WithPoolSize(poolSize))
			if err != nil {
				return fmt.Errorf("create validator: %w", err)
			}
			defer v.Close()

			reports, err := checkFiles(cmd, v, fsys, root, files)
			if err != nil {
				return err
			}
			if failed := renderReports(cmd.OutOrStdout(), reports); failed > 0 {
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&root, "root", ".", "directory the patterns are matched against")
	cmd.Flags().IntVar(&poolSize, "pool-size", 4, "number of concurrent checks, 0 to check serially")
	return cmd
}

// expandPatterns returns the sorted, de-duplicated regular files matching patterns.
func expandPatterns(fsys fs.FS, patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	for _, pattern := range patterns {
		pattern = path.Clean(filepath.ToSlash(pattern))
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			info, err := fs.Stat(fsys, m)
			if err != nil || info.IsDir() {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

// checkFiles reads every file and checks the readable ones in one batch.
// Unreadable files keep their slot with the read error as message.
func checkFiles(cmd *cobra.Command, v *validator.Validator, fsys fs.FS, root string, files []string) ([]validator.Report, error) {
	reports := make([]validator.Report, len(files))
	docs := make([]validator.Document, 0, len(files))
	slots := make([]int, 0, len(files))
	for i, f := range files {
		name := filepath.Join(root, filepath.FromSlash(f))
		reports[i].Name = name
		raw, err := fs.ReadFile(fsys, f)
		if err == nil {
			var text string
			if text, err = source.Decode(raw); err == nil {
				docs = append(docs, validator.Document{Name: name, Text: text})
				slots = append(slots, i)
				continue
			}
		}
		log.Warnf("jsonfix: skipping %s: %v", name, err)
		reports[i].Message = err.Error()
	}
	checked, err := v.CheckBatch(cmd.Context(), docs)
	if err != nil {
		return nil, fmt.Errorf("check batch: %w", err)
	}
	for i, r := range checked {
		reports[slots[i]] = r
	}
	return reports, nil
}

func status(r *validator.Report) string {
	switch {
	case r.Valid:
		return statusValid
	case r.Repairable():
		return statusRepairable
	case r.Line == 0 && r.Kind == "" && r.Message != "":
		return statusUnreadable
	default:
		return statusInvalid
	}
}

// renderReports prints one table row per report and returns the number of
// documents that are not valid.
func renderReports(w io.Writer, reports []validator.Report) int {
	var (
		data   [][]string
		failed int
	)
	for i := range reports {
		r := &reports[i]
		pos := "-"
		if r.Line > 0 {
			pos = strconv.Itoa(r.Line) + ":" + strconv.Itoa(r.Column)
		}
		if !r.Valid {
			failed++
		}
		data = append(data, []string{r.Name, status(r), pos, r.Message})
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"FILE", "STATUS", "POSITION", "MESSAGE"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	fmt.Fprintf(w, "%d of %d files valid\n", len(reports)-failed, len(reports))
	return failed
}
