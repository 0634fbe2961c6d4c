// Package bios provides the command that fetches LinkedIn bios for the
// profile URLs in a workbook, with optional AI lookups per profile.
package bios

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/prospectkit/internal/ai"
	"github.com/klytics/prospectkit/internal/config"
	enrichpkg "github.com/klytics/prospectkit/internal/enrich"
	"github.com/klytics/prospectkit/internal/formats/xlsx"
	"github.com/klytics/prospectkit/internal/linkedin"
	"github.com/klytics/prospectkit/internal/output"
	"github.com/klytics/prospectkit/internal/progress"
	"github.com/klytics/prospectkit/internal/workdir"
)

type biosJSONOutput struct {
	Input     string `json:"input"`
	Output    string `json:"output"`
	Processed int    `json:"processed"`
	Skipped   int    `json:"skipped"`
}

// NewCommand creates the "bios" command.
func NewCommand() *cobra.Command {
	var (
		outputPath      string
		delay           float64
		backgroundCheck bool
		companyLookup   bool
	)

	cmd := &cobra.Command{
		Use:   "bios <file.xlsx>",
		Short: "Fetch LinkedIn bios for profile URLs in a workbook",
		Long: `Reads the "LinkedIn Page" column of the workbook, fetches each
profile's public bio, and appends it as a Bio column. With --bg an AI
background check is added per profile; with --company an AI company
lookup. The result workbook is written to the Results directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")
			verbose, _ := cmd.Flags().GetBool("verbose")
			providerName, _ := cmd.Flags().GetString("provider")
			modelName, _ := cmd.Flags().GetString("model")

			input := args[0]
			rows, err := xlsx.Read(input)
			if err != nil {
				return err
			}

			var provider ai.Provider
			if backgroundCheck || companyLookup {
				provider, err = ai.NewProvider(providerName, modelName)
				if err != nil {
					return err
				}
			}

			bar := progress.New("Fetching bios", len(rows)-1)
			skipped := 0

			opts := enrichpkg.BiosOptions{
				BackgroundCheck: backgroundCheck,
				CompanyLookup:   companyLookup,
				BatchOptions: enrichpkg.BatchOptions{
					Delay: time.Duration(delay * float64(time.Second)),
					OnRow: func(rowNum int, url string, values []string) {
						bar.Increment(url)
						if verbose {
							fmt.Print(biosBlock(rowNum, url, values, backgroundCheck, companyLookup))
						}
					},
					OnSkip: func(rowNum int, reason string) {
						skipped++
						bar.Increment(fmt.Sprintf("row %d skipped", rowNum))
					},
				},
			}

			runner := &enrichpkg.BiosRunner{Fetcher: linkedin.NewFetcher(), Provider: provider}
			rows, processed, err := runner.Run(cmd.Context(), rows, opts)
			if err != nil {
				return err
			}

			dest := outputPath
			if dest == "" {
				cfg, cfgErr := config.Load()
				if cfgErr != nil {
					return cfgErr
				}
				dest = workdir.BiosPath(cfg.ResultsDir, workdir.Timestamp())
			}
			if err := workdir.EnsureDir(filepath.Dir(dest)); err != nil {
				return err
			}
			if err := xlsx.Write(dest, rows); err != nil {
				return err
			}
			bar.Finish(fmt.Sprintf("%d fetched, %d skipped", processed, skipped))

			if jsonFlag {
				return output.PrintJSON("bios", biosJSONOutput{
					Input:     input,
					Output:    dest,
					Processed: processed,
					Skipped:   skipped,
				})
			}

			color.New(color.FgGreen).Printf("Fetched %d bios (%d skipped)\n", processed, skipped)
			fmt.Printf("Wrote %s\n", dest)
			return nil
		},
	}

	cmd.Flags().StringVar(&outputPath, "output", "", "Output .xlsx path (default Results/LinkedIn_Bios_<timestamp>.xlsx)")
	cmd.Flags().Float64Var(&delay, "delay", 2.0, "Seconds to wait between profiles")
	cmd.Flags().BoolVar(&backgroundCheck, "bg", false, "Run an AI background check per profile")
	cmd.Flags().BoolVar(&companyLookup, "company", false, "Run an AI company lookup per profile")

	return cmd
}

func biosBlock(rowNum int, url string, values []string, bg, company bool) string {
	context := []output.Field{
		{Label: "Profile", Value: url},
	}
	labels := []string{"Bio"}
	if bg {
		labels = append(labels, "Background Check")
	}
	if company {
		labels = append(labels, "Company Info")
	}
	var fields []output.Field
	for i, label := range labels {
		if i < len(values) {
			fields = append(fields, output.Field{Label: label, Value: values[i]})
		}
	}
	return output.FormatResultBlock(
		fmt.Sprintf("ROW %d PROFILE FETCH", rowNum),
		"FETCHED PROFILE",
		context, fields,
	)
}
