// Package cmd contains all CLI commands for the prospect binary.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/prospectkit/cmd/analyze"
	"github.com/klytics/prospectkit/cmd/bios"
	"github.com/klytics/prospectkit/cmd/company"
	"github.com/klytics/prospectkit/cmd/completion"
	cmdconfig "github.com/klytics/prospectkit/cmd/config"
	"github.com/klytics/prospectkit/cmd/doctor"
	"github.com/klytics/prospectkit/cmd/enrich"
	"github.com/klytics/prospectkit/cmd/extract"
	"github.com/klytics/prospectkit/cmd/pipeline"
	cmdshell "github.com/klytics/prospectkit/cmd/shell"
	"github.com/klytics/prospectkit/cmd/version"
	cmdwatch "github.com/klytics/prospectkit/cmd/watch"
	"github.com/klytics/prospectkit/cmd/workbook"
	shellpkg "github.com/klytics/prospectkit/internal/shell"
)

var (
	jsonOutput bool
	verbose    bool
	modelName  string
	provider   string
	noColor    bool
)

// NewRootCommand creates and returns the root cobra command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "prospect",
		Short: "AI-assisted investor prospecting from your terminal",
		Long: `ProspectKit — investor prospecting without the spreadsheet grind.

Parse investor directory exports into workbooks, research investment
profiles, fetch LinkedIn bios and company facts, and chain it all into
automated pipelines.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}

	// Global persistent flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as machine-readable JSON")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable detailed per-row output")
	rootCmd.PersistentFlags().StringVar(&modelName, "model", defaultModel(), "AI model name override")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", defaultProvider(), "AI provider: openai | anthropic | ollama")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable ANSI color output")

	// Register subcommands
	rootCmd.AddCommand(workbook.NewCommand())
	rootCmd.AddCommand(extract.NewCommand())
	rootCmd.AddCommand(enrich.NewCommand())
	rootCmd.AddCommand(company.NewCommand())
	rootCmd.AddCommand(analyze.NewCommand())
	rootCmd.AddCommand(bios.NewCommand())
	rootCmd.AddCommand(pipeline.NewCommand())
	rootCmd.AddCommand(cmdconfig.NewCommand())
	rootCmd.AddCommand(doctor.NewCommand())
	rootCmd.AddCommand(cmdwatch.NewCommand())
	rootCmd.AddCommand(cmdshell.NewCommand())
	rootCmd.AddCommand(completion.NewCommand(rootCmd))
	rootCmd.AddCommand(version.NewCommand())

	return rootCmd
}

// Execute runs the root command and handles any returned errors.
func Execute() {
	shellpkg.DefaultRunner = runCommand

	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// runCommand executes one command line against a fresh command tree. The
// interactive shell uses it so each REPL line behaves like an invocation
// of the binary.
func runCommand(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(ctx)
}

func defaultModel() string {
	if m := os.Getenv("PROSPECT_MODEL"); m != "" {
		return m
	}
	return "gpt-4o"
}

func defaultProvider() string {
	if p := os.Getenv("PROSPECT_PROVIDER"); p != "" {
		return p
	}
	return "openai"
}
