package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestCommands_EndToEnd(t *testing.T) {
	t.Setenv("FLIGHTLOG_HOME", t.TempDir())
	t.Setenv("FLIGHTLOG_STORAGE", "json")

	if _, err := execute(t, "next"); err == nil || !strings.Contains(err.Error(), "not set up") {
		t.Fatalf("next before init: got %v", err)
	}

	out, err := execute(t, "init", "--registration", "d-eabc", "--base", "1234.30")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, "D-EABC") {
		t.Errorf("init output = %q", out)
	}

	out, err = execute(t, "add", "--pilot", "Robin", "--date", "2026-10-19", "--end", "1235.10", "--end", "1236.00")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if strings.Count(out, "Logged") != 2 {
		t.Errorf("add output = %q", out)
	}

	out, err = execute(t, "next")
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if strings.TrimSpace(out) != "1236.00" {
		t.Errorf("next = %q, want 1236.00", out)
	}

	out, err = execute(t, "check")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out, "continuous") {
		t.Errorf("check output = %q", out)
	}

	out, err = execute(t, "export", "--format", "csv")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 || !strings.Contains(lines[1], "1234.30,1235.10,0.40,40") {
		t.Errorf("export =\n%s", out)
	}
}
