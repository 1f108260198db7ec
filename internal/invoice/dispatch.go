package invoice

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrUnrecognizedFormat is returned when the text carries no known utility marker
var ErrUnrecognizedFormat = errors.New("unrecognized invoice format")

// ExtractFunc turns invoice text into a record
type ExtractFunc func(text string) Record

// layouts is checked in order, so CEMIG wins when both markers appear
var layouts = []struct {
	layout  Layout
	marker  string
	extract ExtractFunc
}{
	{LayoutCEMIG, "CEMIG", ParseCEMIG},
	{LayoutCPFL, "CPFL", ParseCPFL},
}

// Detect reports which utility issued the invoice text
func Detect(text string) (Layout, error) {
	l, _, err := detect(text)
	return l, err
}

// Parse detects the layout of the invoice text and extracts its fields
func Parse(text string) (Record, error) {
	_, extract, err := detect(text)
	if err != nil {
		return Record{}, err
	}
	return extract(text), nil
}

func detect(text string) (Layout, ExtractFunc, error) {
	// Casers keep state, one per call
	folded := cases.Upper(language.BrazilianPortuguese).String(text)
	for _, l := range layouts {
		if strings.Contains(folded, l.marker) {
			return l.layout, l.extract, nil
		}
	}
	return "", nil, ErrUnrecognizedFormat
}
