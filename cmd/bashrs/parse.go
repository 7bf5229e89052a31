package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"bashrs/internal/diagfmt"
)

var parseFormat string

func init() {
	parseCmd.Flags().StringVar(&parseFormat, "format", "json", "AST serialization format (json|yaml)")
}

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a script and serialize its AST",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fset, file, err := loadInput(args)
		if err != nil {
			return err
		}
		script, err := parseShell(cmd, fset, file)
		if err != nil {
			return err
		}
		dump := diagfmt.Dump(script, fset)
		switch parseFormat {
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(dump); err != nil {
				return exitErr(3, "encode AST: %v", err)
			}
		case "yaml":
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(dump); err != nil {
				return exitErr(3, "encode AST: %v", err)
			}
			if err := enc.Close(); err != nil {
				return exitErr(3, "encode AST: %v", err)
			}
		default:
			return exitErr(3, "unknown AST format %q (must be json or yaml)", parseFormat)
		}
		return nil
	},
}
