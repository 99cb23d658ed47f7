package pdf

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"financial-document-analyzer/internal/domain"
	"financial-document-analyzer/internal/infra/logging"
	"financial-document-analyzer/internal/testutil"
)

func TestExtract_MissingFileReturnsSentinel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "report.pdf")
	got, err := NewExtractor(logging.Nop()).Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "File not found at path: " + path; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got != domain.NotFoundText(path) {
		t.Fatal("sentinel does not match domain.NotFoundText")
	}
}

func TestExtract_ReadsPagesWithoutBlankLines(t *testing.T) {
	path := testutil.WritePDF(t, "Revenue: $100,000", "Net income: $20,000")
	got, err := NewExtractor(logging.Nop()).Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !strings.Contains(got, "Revenue: $100,000") {
		t.Errorf("missing page 1 text in %q", got)
	}
	if !strings.Contains(got, "Net income: $20,000") {
		t.Errorf("missing page 2 text in %q", got)
	}
	if strings.Contains(got, "\n\n") {
		t.Errorf("output contains a blank line: %q", got)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Errorf("output should end with a line break: %q", got)
	}
}

func TestExtract_EmptyPagesAndTrailingBreaks(t *testing.T) {
	path := testutil.WritePDF(t, "", "Assets: $1,000,000\nLiabilities: $400,000\n", "", "Equity: $600,000\n\n")
	got, err := NewExtractor(logging.Nop()).Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if strings.Contains(got, "\n\n") {
		t.Fatalf("output contains a blank line: %q", got)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Fatalf("output should end with a line break: %q", got)
	}
	last := -1
	for _, want := range []string{"Assets: $1,000,000", "Liabilities: $400,000", "Equity: $600,000"} {
		i := strings.Index(got, want)
		if i < 0 {
			t.Fatalf("missing %q in %q", want, got)
		}
		if i < last {
			t.Fatalf("%q out of page order in %q", want, got)
		}
		last = i
	}
}

func TestExtract_AllPagesEmpty(t *testing.T) {
	path := testutil.WritePDF(t, "", "")
	got, err := NewExtractor(logging.Nop()).Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "\n" {
		t.Fatalf("got %q, want a single line break", got)
	}
}

func TestExtract_CorruptFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pdf")
	if err := os.WriteFile(path, []byte("not a pdf at all"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewExtractor(logging.Nop()).Extract(context.Background(), path); err == nil {
		t.Fatal("expected error for corrupt file")
	}
}

func TestCollapseNewlines(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"a\nb", "a\nb"},
		{"a\n\nb", "a\nb"},
		{"a\n\n\n\n\nb\n\n", "a\nb\n"},
		{"\n\n\n", "\n"},
	}
	for _, tc := range cases {
		got := collapseNewlines(tc.in)
		if got != tc.want {
			t.Errorf("collapseNewlines(%q) = %q, want %q", tc.in, got, tc.want)
		}
		if strings.Contains(got, "\n\n") {
			t.Errorf("collapseNewlines(%q) kept a blank line", tc.in)
		}
	}
}

func TestInspector_MissingFile(t *testing.T) {
	if _, err := NewInspector().PageCount(context.Background(), filepath.Join(t.TempDir(), "x.pdf")); err == nil {
		t.Fatal("expected error")
	}
}
