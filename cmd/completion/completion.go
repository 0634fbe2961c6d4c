// Package completion provides shell completion generation commands.
package completion

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewCommand returns the completion command.
func NewCommand(rootCmd *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completions",
		Long: `Generate shell completion scripts for ProspectKit.

Install instructions:
  Bash:       prospect completion bash > /etc/bash_completion.d/prospect
              echo 'source <(prospect completion bash)' >> ~/.bashrc
  Zsh:        prospect completion zsh > ~/.zsh/completions/_prospect
  Fish:       prospect completion fish > ~/.config/fish/completions/prospect.fish
  PowerShell: prospect completion powershell >> $PROFILE`,
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				fmt.Fprintln(os.Stdout, "# ProspectKit bash completion")
				fmt.Fprintln(os.Stdout, "# Install: prospect completion bash > /etc/bash_completion.d/prospect")
				fmt.Fprintln(os.Stdout, "# Or:      echo 'source <(prospect completion bash)' >> ~/.bashrc")
				fmt.Fprintln(os.Stdout)
				return rootCmd.GenBashCompletion(os.Stdout)
			case "zsh":
				fmt.Fprintln(os.Stdout, "# ProspectKit zsh completion")
				fmt.Fprintln(os.Stdout, "# Install: prospect completion zsh > ~/.zsh/completions/_prospect")
				fmt.Fprintln(os.Stdout)
				return rootCmd.GenZshCompletion(os.Stdout)
			case "fish":
				fmt.Fprintln(os.Stdout, "# ProspectKit fish completion")
				fmt.Fprintln(os.Stdout, "# Install: prospect completion fish > ~/.config/fish/completions/prospect.fish")
				fmt.Fprintln(os.Stdout)
				return rootCmd.GenFishCompletion(os.Stdout, true)
			case "powershell":
				fmt.Fprintln(os.Stdout, "# ProspectKit PowerShell completion")
				fmt.Fprintln(os.Stdout, "# Install: prospect completion powershell >> $PROFILE")
				fmt.Fprintln(os.Stdout)
				return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				return fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish, powershell)", args[0])
			}
		},
	}
	return cmd
}
