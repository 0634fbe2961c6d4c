package shell

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"
)

func mockRunner(version string) CommandRunner {
	return func(ctx context.Context, args []string, stdout, stderr io.Writer) error {
		if len(args) == 0 {
			return fmt.Errorf("no command")
		}
		switch args[0] {
		case "version":
			fmt.Fprintf(stdout, "prospect %s\n", version)
			return nil
		case "workbook":
			if len(args) > 1 && args[1] == "read" {
				fmt.Fprintf(stdout, "Row data\n")
				return nil
			}
			if len(args) > 1 && args[1] == "write" {
				fmt.Fprintf(stdout, "Written\n")
				return nil
			}
			return nil
		case "unknown-command":
			return fmt.Errorf("unknown command: %s", args[0])
		}
		fmt.Fprintf(stdout, "OK\n")
		return nil
	}
}

func TestNewSession(t *testing.T) {
	s, err := NewSession()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.CommandHistory) != 0 {
		t.Errorf("expected empty history, got %d entries", len(s.CommandHistory))
	}
	if s.HistoryFile == "" {
		t.Error("expected history file path to be set")
	}
	if len(s.KnownCommands) == 0 {
		t.Error("expected known commands to be populated")
	}
}

func TestEvalVersion(t *testing.T) {
	DefaultRunner = mockRunner("v1.2.0-test")
	defer func() { DefaultRunner = nil }()

	s, _ := NewSession()
	output, err := s.Eval(context.Background(), "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, "v1.2.0-test") {
		t.Errorf("expected version output, got: %q", output)
	}
}

func TestEvalWorkbookRead(t *testing.T) {
	DefaultRunner = mockRunner("v1.2.0")
	defer func() { DefaultRunner = nil }()

	s, _ := NewSession()
	output, err := s.Eval(context.Background(), "workbook read test.xlsx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, "Row data") {
		t.Errorf("expected row data, got: %q", output)
	}
}

func TestEvalWorkbookWrite(t *testing.T) {
	DefaultRunner = mockRunner("v1.2.0")
	defer func() { DefaultRunner = nil }()

	s, _ := NewSession()
	output, err := s.Eval(context.Background(), "workbook write --output test.xlsx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, "Written") {
		t.Errorf("expected written confirmation, got: %q", output)
	}
}

func TestEvalUnknownCommand(t *testing.T) {
	DefaultRunner = mockRunner("v1.2.0")
	defer func() { DefaultRunner = nil }()

	s, _ := NewSession()
	_, err := s.Eval(context.Background(), "unknown-command")
	if err == nil {
		t.Error("expected error for unknown command")
	}
}

func TestEvalEmpty(t *testing.T) {
	DefaultRunner = mockRunner("v1.2.0")
	defer func() { DefaultRunner = nil }()

	s, _ := NewSession()
	output, err := s.Eval(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != "" {
		t.Errorf("expected empty output, got: %q", output)
	}
}

func TestEvalNoRunner(t *testing.T) {
	DefaultRunner = nil
	s, _ := NewSession()
	_, err := s.Eval(context.Background(), "version")
	if err == nil {
		t.Error("expected error when runner is nil")
	}
}

func TestCompleteTopLevel(t *testing.T) {
	s, _ := NewSession()
	matches := s.Complete("wo")
	if len(matches) != 1 || matches[0] != "workbook" {
		t.Errorf("expected [workbook], got %v", matches)
	}
}

func TestCompleteMultipleMatches(t *testing.T) {
	s, _ := NewSession()
	matches := s.Complete("co")
	// Should match: company, config, completion
	found := make(map[string]bool)
	for _, m := range matches {
		found[m] = true
	}
	for _, expected := range []string{"company", "config", "completion"} {
		if !found[expected] {
			t.Errorf("expected %q in completions, got %v", expected, matches)
		}
	}
}

func TestCompleteSubcommand(t *testing.T) {
	s, _ := NewSession()
	matches := s.Complete("workbook re")
	if len(matches) != 1 || matches[0] != "read" {
		t.Errorf("expected [read], got %v", matches)
	}
}

func TestCompleteEmpty(t *testing.T) {
	s, _ := NewSession()
	matches := s.Complete("")
	if len(matches) == 0 {
		t.Error("expected all commands for empty input")
	}
}

func TestCompleteUnknownCommand(t *testing.T) {
	s, _ := NewSession()
	matches := s.Complete("zzz ")
	// No subcommands for unknown command
	if len(matches) != 0 {
		t.Errorf("expected no matches, got %v", matches)
	}
}

func TestLastOutputUpdated(t *testing.T) {
	DefaultRunner = mockRunner("v1.2.0")
	defer func() { DefaultRunner = nil }()

	s, _ := NewSession()

	s.Eval(context.Background(), "version")
	if !strings.Contains(s.LastOutput, "1.2.0") {
		t.Errorf("expected LastOutput to contain version, got: %q", s.LastOutput)
	}

	s.Eval(context.Background(), "workbook read test.xlsx")
	if !strings.Contains(s.LastOutput, "Row data") {
		t.Errorf("expected LastOutput to be updated, got: %q", s.LastOutput)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input    time.Duration
		expected string
	}{
		{30 * time.Second, "30s"},
		{90 * time.Second, "1m 30s"},
		{5 * time.Minute, "5m 0s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.input); got != tt.expected {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
