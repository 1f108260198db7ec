package scanning

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/gen2brain/go-fitz"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fitz implements the Scanner interface using MuPDF
type Fitz struct{}

// NewFitz creates a new Fitz Scanner instance
func NewFitz() *Fitz {
	return &Fitz{}
}

// ScanFile opens the PDF at path and returns its text
func (f *Fitz) ScanFile(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	return documentText(doc)
}

// ScanPDF returns the text of an uploaded PDF
func (f *Fitz) ScanPDF(pdfData []byte) (string, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	return documentText(doc)
}

// Close is a no-op, documents are closed after each scan
func (f *Fitz) Close() error {
	return nil
}

// documentText concatenates every page, each followed by a newline
func documentText(doc *fitz.Document) (string, error) {
	var b strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			return "", fmt.Errorf("extracting text from page %d: %w", i+1, err)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	return NormalizeText(b.String())
}

// NormalizeText composes accented characters so labels such as
// "INSTALAÇÃO" match however the PDF encoded them, and turns non-ASCII
// spacing (NBSP and the like) into plain spaces so `\s` in the field
// patterns still sees it. Text with no visible content is reported as
// ErrNoText.
func NormalizeText(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")

	t := transform.Chain(norm.NFC, runes.Map(asciiSpace))
	normalized, _, err := transform.String(t, text)
	if err != nil {
		return "", fmt.Errorf("normalizing text: %w", err)
	}
	return normalized, nil
}

// asciiSpace maps Unicode spacing outside ASCII to ' '. ASCII whitespace,
// newlines included, is left alone.
func asciiSpace(r rune) rune {
	if r > unicode.MaxASCII && unicode.IsSpace(r) {
		return ' '
	}
	return r
}
