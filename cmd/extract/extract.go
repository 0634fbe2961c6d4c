// Package extract provides the command that parses raw investor-directory
// text exports into workbooks.
package extract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/prospectkit/internal/config"
	extractpkg "github.com/klytics/prospectkit/internal/extract"
	"github.com/klytics/prospectkit/internal/formats/xlsx"
	"github.com/klytics/prospectkit/internal/output"
	"github.com/klytics/prospectkit/internal/workdir"
)

type extractJSONOutput struct {
	Files   []string            `json:"files"`
	Records []extractpkg.Record `json:"records"`
	Output  string              `json:"output"`
}

// NewCommand creates the "extract" command.
func NewCommand() *cobra.Command {
	var (
		all       bool
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "extract [file.txt]",
		Short: "Parse investor text exports into a workbook",
		Long: `Parses raw text dumps pasted from investor directory pages into
structured records and writes them to a timestamped .xlsx workbook.

Pass a single .txt file, or use --all to process every .txt file in the
configured input directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")
			verbose, _ := cmd.Flags().GetBool("verbose")

			var files []string
			switch {
			case all:
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				inputs, err := workdir.ListInputs(cfg.InputDir)
				if err != nil {
					return err
				}
				if len(inputs) == 0 {
					return fmt.Errorf("no .txt files found in %s — drop exports there or pass a file path", cfg.InputDir)
				}
				for _, in := range inputs {
					files = append(files, in.Path)
				}
			case len(args) == 1:
				files = []string{args[0]}
			default:
				return fmt.Errorf("pass a .txt file or use --all to process the input directory")
			}

			var records []extractpkg.Record
			for _, file := range files {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("could not read %s: %w", file, err)
				}
				found := extractpkg.Records(string(data), filepath.Base(file))
				if verbose && !jsonFlag {
					fmt.Printf("%s: %d records\n", file, len(found))
				}
				records = append(records, found...)
			}

			if len(records) == 0 {
				return fmt.Errorf("no investor records found in %d file(s)", len(files))
			}

			dir := outputDir
			if dir == "" {
				dir = "."
			}
			outputPath := workdir.ExportPath(dir, workdir.Timestamp())
			if err := xlsx.Write(outputPath, extractpkg.Table(records)); err != nil {
				return err
			}

			if jsonFlag {
				return output.PrintJSON("extract", extractJSONOutput{
					Files:   files,
					Records: records,
					Output:  outputPath,
				})
			}

			green := color.New(color.FgGreen)
			green.Printf("Extracted %d records from %d file(s)\n", len(records), len(files))
			fmt.Printf("Wrote %s\n", outputPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Process every .txt file in the input directory")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for the export workbook (default current directory)")

	return cmd
}
