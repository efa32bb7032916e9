package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestCsvEscape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"with space", "with space"},
		{"with,comma", `"with,comma"`},
		{`with"quote`, `"with""quote"`},
		{"with\nnewline", "\"with\nnewline\""},
		{"with\rreturn", "\"with\rreturn\""},
		{"", ""},
	}
	for _, tt := range tests {
		got := csvEscape(tt.input)
		if got != tt.want {
			t.Errorf("csvEscape(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestPrintCSV(t *testing.T) {
	var buf bytes.Buffer
	printCSV(&buf, sampleFlights())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "id,date,pilot,start,end,total_time,duration_minutes,comments" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "aaaaaaaa-1111,2026-09-30,Robin,100.00,101.00,1.00,60," {
		t.Errorf("row 1 = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], `bbbbbbbb-2222,2026-10-02,Kim,101.00,101.45,0.45,45,"Pattern work,`) {
		t.Errorf("row 2 = %q", lines[2])
	}
}
