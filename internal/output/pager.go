package output

import (
	"os"
	"os/exec"
	"strings"
)

// ShouldPage returns true if rendered table output should go through a
// pager: stdout is a terminal, paging is not disabled, and the content
// exceeds the terminal height.
func ShouldPage(content string, termHeight int) bool {
	if os.Getenv("PROSPECT_NO_PAGER") != "" {
		return false
	}
	if !isTerminal() {
		return false
	}
	return strings.Count(content, "\n") > termHeight
}

// Page pipes content through the user's preferred pager (PAGER env, or "less").
func Page(content string) error {
	pager := os.Getenv("PAGER")
	if pager == "" {
		pager = "less"
	}

	cmd := exec.Command(pager)
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
