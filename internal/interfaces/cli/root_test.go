package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

func TestNewRootCommand_Structure(t *testing.T) {
	cmd := NewRootCommand()
	if cmd == nil {
		t.Fatal("NewRootCommand should return a command")
	}
	if cmd.Use != "invasim" {
		t.Errorf("expected Use='invasim', got %q", cmd.Use)
	}
	if cmd.Short == "" {
		t.Error("Short should not be empty")
	}
	if cmd.Long == "" {
		t.Error("Long should not be empty")
	}
}

func TestNewRootCommand_SubcommandRegistration(t *testing.T) {
	cmd := NewRootCommand()

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, name := range []string{"simulate", "suitability", "inspect", "version"} {
		if !names[name] {
			t.Errorf("expected subcommand %q not found", name)
		}
	}
}

func TestNewRootCommand_GlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"config", "log-level", "output", "verbose", "timeout"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("persistent flag %q should exist", name)
		}
	}
	if f := cmd.PersistentFlags().Lookup("output"); f != nil && f.DefValue != "text" {
		t.Errorf("expected output default 'text', got %q", f.DefValue)
	}
	if f := cmd.PersistentFlags().ShorthandLookup("c"); f == nil || f.Name != "config" {
		t.Error("expected -c to be the config shorthand")
	}
}

func TestNewRootCommand_RequiredFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, tc := range []struct {
		sub   string
		flags []string
	}{
		{"simulate", []string{"region", "species"}},
		{"suitability", []string{"region", "species", "out"}},
	} {
		sub, _, err := cmd.Find([]string{tc.sub})
		if err != nil {
			t.Fatalf("find %s: %v", tc.sub, err)
		}
		for _, name := range tc.flags {
			f := sub.Flags().Lookup(name)
			if f == nil {
				t.Errorf("%s: flag %q should exist", tc.sub, name)
				continue
			}
			if _, ok := f.Annotations[cobra.BashCompOneRequiredFlag]; !ok {
				t.Errorf("%s: flag %q should be required", tc.sub, name)
			}
		}
	}
}

func TestRootCmd_HasVersion(t *testing.T) {
	cmd := NewRootCommand()
	if !strings.Contains(cmd.Version, Version) {
		t.Errorf("expected version string to contain %q, got %q", Version, cmd.Version)
	}
}

func TestExecute_UnknownSubcommand(t *testing.T) {
	err := Execute(context.Background(), []string{"nonexistent-command"})
	if err == nil {
		t.Fatal("expected error for unknown subcommand")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", context.Canceled, 1},
		{"invalid input", errors.InvalidInput("bad"), 2},
		{"not found", errors.NotFound("missing"), 3},
		{"missing layer", errors.MissingLayer("bio1"), 4},
		{"alignment", errors.Alignment("off grid"), 5},
		{"deadline", errors.Wrap(context.DeadlineExceeded, errors.CodeUnknown, "run"), 6},
		{"wrapped", errors.Wrap(errors.MissingLayer("bio5"), errors.CodeUnknown, "step"), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFormatTable(t *testing.T) {
	out := FormatTable([]string{"NAME", "N"}, [][]string{{"bio1", "25"}, {"landcover"}})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), out)
	}
	if lines[0] != "NAME       N " {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[1] != "---------  --" {
		t.Errorf("unexpected separator %q", lines[1])
	}
	if lines[2] != "bio1       25" {
		t.Errorf("unexpected row %q", lines[2])
	}
	if lines[3] != "landcover    " {
		t.Errorf("unexpected short row %q", lines[3])
	}
}

func TestFormatTable_NoHeaders(t *testing.T) {
	if out := FormatTable(nil, [][]string{{"x"}}); out != "" {
		t.Errorf("expected empty output, got %q", out)
	}
}

func TestPrintResult_WithoutContextUsesJSON(t *testing.T) {
	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetContext(context.Background())

	if err := PrintResult(cmd, map[string]int{"steps": 3}); err != nil {
		t.Fatalf("PrintResult: %v", err)
	}
	if !strings.Contains(buf.String(), `"steps": 3`) {
		t.Errorf("expected JSON output, got %q", buf.String())
	}
}

func TestGetCLIContext_Missing(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	if _, err := GetCLIContext(cmd); err == nil {
		t.Error("expected error when CLIContext is absent")
	}
}

//Personal.AI order the ending
