package invoice

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/zombor/fatura-reader/internal/scanning"
)

// Result is the outcome of processing one invoice file. Record is nil
// when the file could not be read or its layout was not recognized.
type Result struct {
	Path   string
	Record *Record
	Err    error
}

// Service handles invoice operations
type Service struct {
	scanner scanning.Scanner
	out     io.Writer
}

// NewService creates a new Service writing reports to out
func NewService(scanner scanning.Scanner, out io.Writer) *Service {
	if out == nil {
		out = io.Discard
	}
	return &Service{
		scanner: scanner,
		out:     out,
	}
}

// ProcessFiles extracts and reports every file in order. A file that
// fails is noted and skipped; the batch always runs to the end.
func (s *Service) ProcessFiles(paths []string) []Result {
	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		results = append(results, s.ProcessFile(path))
	}
	return results
}

// ProcessFile extracts one invoice file and writes its report or notice
func (s *Service) ProcessFile(path string) Result {
	res := Result{Path: path}

	text, err := s.scanner.ScanFile(path)
	if err != nil {
		slog.Error("Failed to read invoice", "file", path, "error", err)
		res.Err = fmt.Errorf("reading invoice: %w", err)
		s.write(WriteUnreadable(s.out, path))
		return res
	}

	record, err := Parse(text)
	if err != nil {
		slog.Warn("Unrecognized invoice", "file", path)
		res.Err = err
		s.write(WriteUnrecognized(s.out, path))
		return res
	}

	slog.Debug("Invoice extracted", "file", path, "layout", record.Layout)
	res.Record = &record
	s.write(WriteReport(s.out, path, record))
	return res
}

// ParseText extracts the fields of already extracted invoice text
func (s *Service) ParseText(text string) (Record, error) {
	text, err := scanning.NormalizeText(text)
	if err != nil {
		return Record{}, fmt.Errorf("reading invoice: %w", err)
	}
	return Parse(text)
}

// ParsePDF extracts the fields of an in-memory invoice PDF
func (s *Service) ParsePDF(data []byte) (Record, error) {
	text, err := s.scanner.ScanPDF(data)
	if err != nil {
		return Record{}, fmt.Errorf("reading invoice: %w", err)
	}
	return Parse(text)
}

func (s *Service) write(err error) {
	if err != nil {
		slog.Error("Failed to write output", "error", err)
	}
}
