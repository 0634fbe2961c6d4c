// Package pipeline provides CLI commands for running pipeline workflows.
package pipeline

import "github.com/spf13/cobra"

// NewCommand returns the pipeline subcommand group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Run multi-step prospecting workflows defined in YAML",
		Long:  "Execute automated pipelines that chain together extract, enrich, and workbook operations.",
	}

	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newValidateCommand())

	return cmd
}
