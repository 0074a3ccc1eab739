package pdfext

import (
	"strings"
	"testing"
)

func TestFindArxivID(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"arXiv:2301.00001v1 [quant-ph] 1 Jan 2023", "2301.00001v1"},
		{"see 2105.14342 for details", "2105.14342"},
		{"no identifier here", ""},
		{"version 1.2.3 of the software", ""},
	}
	for _, tt := range tests {
		if got := FindArxivID(tt.text); got != tt.want {
			t.Errorf("FindArxivID(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestFindDOI(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"DOI: 10.1103/PhysRevLett.116.061102", "10.1103/PhysRevLett.116.061102"},
		{"(doi 10.1038/nature12373).", "10.1038/nature12373"},
		{"not a doi: 10.5/x", ""},
		{"plain text", ""},
	}
	for _, tt := range tests {
		if got := FindDOI(tt.text); got != tt.want {
			t.Errorf("FindDOI(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestFindTitle(t *testing.T) {
	text := "Journal of Physics, Volume 12 Issue 3\n" +
		"Observation of Gravitational Waves from a Binary Black Hole Merger\n" +
		"B. P. Abbott et al.\n"
	want := "Observation of Gravitational Waves from a Binary Black Hole Merger"
	if got := FindTitle(text); got != want {
		t.Errorf("FindTitle() = %q, want %q", got, want)
	}
}

func TestFindTitleNoCandidate(t *testing.T) {
	if got := FindTitle("short\nlines\nonly\n"); got != "" {
		t.Errorf("FindTitle() = %q, want empty", got)
	}
}

func TestFindAbstract(t *testing.T) {
	text := "Some Title Line That Is Long Enough\n" +
		"Abstract\n" +
		"We report the first direct detection of\ngravitational waves.\n" +
		"1. Introduction\n" +
		"In 1916 Einstein predicted...\n"
	got := FindAbstract(text)
	want := "We report the first direct detection of gravitational waves."
	if got != want {
		t.Errorf("FindAbstract() = %q, want %q", got, want)
	}
}

func TestFindAbstractBounded(t *testing.T) {
	text := "Abstract " + strings.Repeat("word ", 1000)
	got := FindAbstract(text)
	if len([]rune(got)) > maxAbstractRunes {
		t.Errorf("abstract length = %d, want <= %d", len([]rune(got)), maxAbstractRunes)
	}
}

func TestExtractPaperMissingFile(t *testing.T) {
	if _, err := ExtractPaper("/nonexistent/file.pdf"); err == nil {
		t.Fatal("ExtractPaper() = nil error for missing file")
	}
}
