package scanning

import "errors"

// ErrNoText is returned when a PDF opens but yields no extractable text
var ErrNoText = errors.New("no text extracted")

// Scanner defines the interface for invoice text extraction
type Scanner interface {
	// ScanFile extracts the text of every page of the PDF at path
	ScanFile(path string) (string, error)
	// ScanPDF extracts the text of every page of an in-memory PDF
	ScanPDF(pdfData []byte) (string, error)
	// Close releases any resources held by the scanner
	Close() error
}
