package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bashrs/internal/rules"
)

var checkNoCache bool

func init() {
	checkCmd.Flags().BoolVar(&checkNoCache, "no-cache", false, "skip the on-disk lint cache")
}

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Dry-run analysis report (lint with result caching)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var cache *rules.Cache
		if !checkNoCache {
			opened, err := rules.OpenCache("bashrs")
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "bashrs: lint cache unavailable: %v\n", err)
			} else {
				cache = opened
			}
		}
		result, fset, err := runAnalysis(cmd, args, cache)
		if err != nil {
			return err
		}
		if err := renderDiagnostics(cmd, cmd.OutOrStdout(), result.Diagnostics, fset, result.Counts); err != nil {
			return err
		}
		if len(result.Diagnostics) > 0 {
			return exitErr(1, "")
		}
		return nil
	},
}
