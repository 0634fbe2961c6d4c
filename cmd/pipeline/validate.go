package pipeline

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/prospectkit/internal/output"
	pipelinepkg "github.com/klytics/prospectkit/internal/pipeline"
)

type validateJSONOutput struct {
	File    string `json:"file"`
	Name    string `json:"name"`
	Version string `json:"version"`
	Steps   int    `json:"steps"`
	AISteps int    `json:"aiSteps"`
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <workflow.yaml>",
		Short: "Check a pipeline file without running it",
		Long:  "Parses and validates a pipeline YAML file: step IDs, action names, and structure. Nothing is executed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			p, err := pipelinepkg.LoadPipeline(args[0])
			if err != nil {
				return err
			}

			aiSteps := 0
			for _, step := range p.Steps {
				if pipelinepkg.IsAIStep(step) {
					aiSteps++
				}
			}

			if jsonFlag {
				return output.PrintJSON("pipeline validate", validateJSONOutput{
					File:    args[0],
					Name:    p.Name,
					Version: p.Version,
					Steps:   len(p.Steps),
					AISteps: aiSteps,
				})
			}

			color.New(color.FgGreen).Printf("✓ %s is valid\n", args[0])
			fmt.Printf("  Pipeline: %s (v%s)\n", p.Name, p.Version)
			fmt.Printf("  Steps: %d (%d AI)\n", len(p.Steps), aiSteps)
			return nil
		},
	}
}
