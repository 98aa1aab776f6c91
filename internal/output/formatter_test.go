package output

import "testing"

func TestNewReportWriter(t *testing.T) {
	tests := []struct {
		name   string
		format OutputFormat
		check  func(ReportWriter) bool
	}{
		{name: "Console", format: FormatConsole, check: func(w ReportWriter) bool { _, ok := w.(*ConsoleWriter); return ok }},
		{name: "JSON", format: FormatJSON, check: func(w ReportWriter) bool { _, ok := w.(*JSONWriter); return ok }},
		{name: "CSV", format: FormatCSV, check: func(w ReportWriter) bool { _, ok := w.(*CSVWriter); return ok }},
		{name: "Markdown", format: FormatMarkdown, check: func(w ReportWriter) bool { _, ok := w.(*MarkdownWriter); return ok }},
		{name: "NDJSON", format: FormatNDJSON, check: func(w ReportWriter) bool { _, ok := w.(*NDJSONWriter); return ok }},
		{name: "Unknown defaults to Console", format: "unknown", check: func(w ReportWriter) bool { _, ok := w.(*ConsoleWriter); return ok }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := NewReportWriter(tt.format)
			if writer == nil {
				t.Fatal("NewReportWriter returned nil")
			}
			if !tt.check(writer) {
				t.Errorf("unexpected writer type %T for format %q", writer, tt.format)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected OutputFormat
		wantErr  bool
	}{
		{input: "", expected: FormatConsole},
		{input: "console", expected: FormatConsole},
		{input: "JSON", expected: FormatJSON},
		{input: "csv", expected: FormatCSV},
		{input: "md", expected: FormatMarkdown},
		{input: "markdown", expected: FormatMarkdown},
		{input: "jsonl", expected: FormatNDJSON},
		{input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseFormat(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormat(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseFormat(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}
