// Package report renders a stored summary into a downloadable PDF. Every
// call writes a fresh uniquely named file, so concurrent downloads never
// share state; the caller removes the file once it has been sent.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
)

// Generate lays out a heading and the summary body as plain text into an
// A4 PDF. When imagePath names an existing local file the image is added
// below the text. Returns the path of the generated file.
func Generate(summaryMarkdown, imagePath string) (string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 15)
	pdf.MultiCell(0, 8, "AI Generated Summary", "", "L", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range strings.Split(summaryMarkdown, "\n") {
		text := stripMarkdown(line)
		if text == "" {
			pdf.Ln(3)
			continue
		}
		pdf.MultiCell(0, 5, text, "", "L", false)
	}

	if imagePath != "" {
		if _, err := os.Stat(imagePath); err == nil {
			pdf.Ln(6)
			pdf.SetFont("Helvetica", "B", 12)
			pdf.MultiCell(0, 6, "Image", "", "L", false)
			pdf.Ln(2)
			pdf.ImageOptions(imagePath, pdf.GetX(), pdf.GetY(), 120, 0, true,
				gofpdf.ImageOptions{ReadDpi: true}, 0, "")
		}
	}

	path := filepath.Join(os.TempDir(), "summary-"+uuid.NewString()+".pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("writing report %s: %w", path, err)
	}
	return path, nil
}

var (
	headingRe    = regexp.MustCompile(`^#{1,6}\s*`)
	bulletRe     = regexp.MustCompile(`^[-*]\s+`)
	italicRe     = regexp.MustCompile(`(?:^|\s)\*([^*]+)\*(?:\s|$)`)
	inlineCodeRe = regexp.MustCompile("`([^`]+)`")
	linkRe       = regexp.MustCompile(`\[([^\]]*)\]\([^)]+\)`)
)

// stripMarkdown reduces one markdown line to plain text for PDF layout.
func stripMarkdown(line string) string {
	text := strings.TrimSpace(line)
	text = headingRe.ReplaceAllString(text, "")
	if bulletRe.MatchString(text) {
		text = "- " + bulletRe.ReplaceAllString(text, "")
	}
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "__", "")
	text = italicRe.ReplaceAllString(text, " $1 ")
	text = inlineCodeRe.ReplaceAllString(text, "$1")
	text = linkRe.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}
