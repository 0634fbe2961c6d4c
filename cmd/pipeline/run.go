package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/klytics/prospectkit/internal/ai"
	pipelinepkg "github.com/klytics/prospectkit/internal/pipeline"
	"github.com/klytics/prospectkit/internal/pipeline/actions"
)

func newRunCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run <workflow.yaml>",
		Short: "Execute a pipeline workflow from a YAML file",
		Long: `Runs a multi-step pipeline defined in a YAML file.

Steps are executed sequentially with variable interpolation between steps.
Use --dry-run to execute non-AI steps and preview what AI steps would do.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")
			verbose, _ := cmd.Flags().GetBool("verbose")
			providerName, _ := cmd.Flags().GetString("provider")
			modelName, _ := cmd.Flags().GetString("model")

			p, err := pipelinepkg.LoadPipeline(args[0])
			if err != nil {
				return err
			}

			// An inference provider is only required when a live run has
			// AI steps; a dry run or a plain data pipeline works without.
			provider, provErr := ai.NewProvider(providerName, modelName)
			if provErr != nil {
				provider = nil
				if !dryRun && hasAISteps(p) {
					return provErr
				}
			}

			executor := pipelinepkg.NewExecutor(verbose)
			executor.SetDryRun(dryRun)
			actions.RegisterAll(executor, provider)

			results, execErr := executor.Run(cmd.Context(), p)

			if jsonFlag {
				// Build JSON-safe output (errors don't serialize well)
				type jsonResult struct {
					StepID string `json:"stepId"`
					Output string `json:"output,omitempty"`
					Error  string `json:"error,omitempty"`
				}
				out := make([]jsonResult, len(results))
				for i, r := range results {
					out[i] = jsonResult{StepID: r.StepID, Output: r.Output}
					if r.Error != nil {
						out[i].Error = r.Error.Error()
					}
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				_ = enc.Encode(out)
			} else {
				for _, r := range results {
					if r.Error != nil {
						fmt.Fprintf(os.Stderr, "Step %s: FAILED — %s\n", r.StepID, r.Error)
					} else {
						fmt.Printf("Step %s: OK\n", r.StepID)
						if verbose && r.Output != "" {
							fmt.Printf("  Output: %s\n", truncate(r.Output, 200))
						}
					}
				}
			}

			return execErr
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview pipeline execution without calling AI APIs")

	return cmd
}

func hasAISteps(p *pipelinepkg.Pipeline) bool {
	for _, step := range p.Steps {
		if pipelinepkg.IsAIStep(step) {
			return true
		}
	}
	return false
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
