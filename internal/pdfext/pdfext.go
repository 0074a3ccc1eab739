// Package pdfext turns local PDF files into papers for ingestion.
package pdfext

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/matsen/paperscope/internal/paper"
)

// ErrNoText is returned when a PDF yields no extractable text.
var ErrNoText = errors.New("no extractable text in pdf")

// arXiv identifier: YYMM.NNNNN with an optional version suffix.
var arxivIDPattern = regexp.MustCompile(`\b(\d{4}\.\d{4,5}(?:v\d+)?)\b`)

// DOI pattern: 10.XXXX/... where XXXX is 4+ digits.
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// maxAbstractRunes bounds the abstract when no section markers are found.
const maxAbstractRunes = 1500

// ExtractPaper reads a PDF and assembles a paper from its first pages.
// The identifier comes from an arXiv ID or DOI found in the text, falling
// back to the file name.
func ExtractPaper(path string) (paper.Paper, error) {
	text, err := extractText(path, 3)
	if err != nil {
		return paper.Paper{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if strings.TrimSpace(text) == "" {
		return paper.Paper{}, fmt.Errorf("%s: %w", path, ErrNoText)
	}

	id := FindArxivID(text)
	if id == "" {
		id = FindDOI(text)
	}
	if id == "" {
		id = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return paper.Paper{
		ID:       id,
		Title:    FindTitle(text),
		Abstract: FindAbstract(text),
	}, nil
}

func extractText(path string, maxPages int) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if maxPages <= 0 || maxPages > r.NumPage() {
		maxPages = r.NumPage()
	}

	var builder strings.Builder
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

// FindArxivID finds an arXiv identifier in text, or "".
func FindArxivID(text string) string {
	return arxivIDPattern.FindString(text)
}

// FindDOI finds a DOI in text, or "".
func FindDOI(text string) string {
	for _, match := range doiPattern.FindAllString(text, -1) {
		match = strings.TrimRight(match, ".,;:)")
		if isValidDOI(match) {
			return match
		}
	}
	return ""
}

// FindTitle returns the first substantial line, skipping likely headers.
func FindTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 20 && !isHeaderLine(line) {
			return line
		}
	}
	return ""
}

// FindAbstract returns the text between an "Abstract" marker and the next
// section heading. Without markers it falls back to a bounded prefix of the
// document text.
func FindAbstract(text string) string {
	body := text
	lower := strings.ToLower(text)
	if idx := strings.Index(lower, "abstract"); idx != -1 {
		body = text[idx+len("abstract"):]
		lower = lower[idx+len("abstract"):]
	}
	for _, marker := range []string{"introduction", "1. ", "keywords"} {
		if idx := strings.Index(lower, marker); idx > 0 {
			body = body[:idx]
			lower = lower[:idx]
		}
	}

	body = strings.TrimLeft(strings.TrimSpace(body), ".:- \t\n")
	body = strings.Join(strings.Fields(body), " ")
	runes := []rune(body)
	if len(runes) > maxAbstractRunes {
		body = string(runes[:maxAbstractRunes])
	}
	return body
}

func isValidDOI(doi string) bool {
	if len(doi) < 10 {
		return false
	}
	if !strings.HasPrefix(doi, "10.") {
		return false
	}
	slashIdx := strings.Index(doi, "/")
	return slashIdx != -1 && slashIdx < len(doi)-1
}

// isHeaderLine checks if a line is likely a header/footer.
func isHeaderLine(line string) bool {
	lower := strings.ToLower(line)
	if strings.Contains(lower, "journal") {
		return true
	}
	if strings.Contains(lower, "volume") && strings.Contains(lower, "issue") {
		return true
	}
	if strings.Contains(lower, "copyright") {
		return true
	}
	if strings.Contains(lower, "arxiv:") {
		return true
	}
	return false
}
