// Package shell provides the "prospect shell" interactive REPL command.
package shell

import (
	"fmt"

	"github.com/spf13/cobra"

	shellpkg "github.com/klytics/prospectkit/internal/shell"
)

// NewCommand creates the "shell" command.
func NewCommand() *cobra.Command {
	var (
		evalCmd  string
		inputDir string
	)

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive ProspectKit shell",
		Long: `Start an interactive REPL with persistent state and tab completion.

Commands run without re-paying startup cost. Session defaults like the
input directory persist across commands. Tab completion works for all
commands and flags.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := shellpkg.NewSession()
			if err != nil {
				return err
			}
			if inputDir != "" {
				session.DefaultInput = inputDir
			}
			if evalCmd != "" {
				output, err := session.Eval(cmd.Context(), evalCmd)
				if err != nil {
					return err
				}
				fmt.Print(output)
				return nil
			}
			return session.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&evalCmd, "eval", "", "Run a single command and exit")
	cmd.Flags().StringVar(&inputDir, "input", "", "Default input directory for the session")
	return cmd
}
