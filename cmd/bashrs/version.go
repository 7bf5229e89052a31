package main

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"bashrs/internal/version"
)

var versionFormat string

var (
	commitColor  = color.New(color.FgRed, color.Bold)
	dateColor    = color.New(color.FgCyan, color.Bold)
	unknownColor = color.New(color.FgMagenta)
)

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show bashrs build fingerprints",
	RunE: func(cmd *cobra.Command, args []string) error {
		switch versionFormat {
		case "json":
			payload := versionPayload{
				Tool:      "bashrs",
				Version:   version.Version,
				GitCommit: version.GitCommit,
				BuildDate: version.BuildDate,
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(payload)
		case "pretty":
			fmt.Fprintf(cmd.OutOrStdout(), "bashrs %s\n", version.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "commit: %s\n", valueOrUnknown(version.GitCommit, commitColor))
			fmt.Fprintf(cmd.OutOrStdout(), "built:  %s\n", valueOrUnknown(version.BuildDate, dateColor))
			return nil
		}
		return exitErr(3, "unsupported format %q (must be pretty or json)", versionFormat)
	},
}

func valueOrUnknown(s string, col *color.Color) string {
	if s == "" {
		return unknownColor.Sprint("unknown")
	}
	return col.Sprint(s)
}
