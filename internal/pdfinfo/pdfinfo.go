// Package pdfinfo reads page count and text-layer presence from PDF uploads.
package pdfinfo

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNotPDF is returned when the payload does not carry a PDF header.
var ErrNotPDF = errors.New("not a PDF document")

// maxTextPages bounds how many pages are scanned for a text layer.
const maxTextPages = 3

// Info describes a PDF document.
type Info struct {
	Pages int
	// HasText is true when at least one of the first pages carries
	// extractable text (a digital PDF rather than a scan).
	HasText   bool
	TextChars int
}

// IsPDF reports whether data starts with the PDF magic bytes.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF-"))
}

// Inspect parses data as a PDF. The parser panics on some malformed inputs;
// those are returned as errors.
func Inspect(data []byte) (info Info, err error) {
	if !IsPDF(data) {
		return Info{}, ErrNotPDF
	}
	defer func() {
		if r := recover(); r != nil {
			info, err = Info{}, fmt.Errorf("parsing pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Info{}, fmt.Errorf("parsing pdf: %w", err)
	}

	info.Pages = reader.NumPage()
	info.TextChars = textChars(reader)
	info.HasText = info.TextChars > 0
	return info, nil
}

func textChars(reader *pdf.Reader) (n int) {
	defer func() {
		if recover() != nil {
			n = 0
		}
	}()
	for i := 1; i <= reader.NumPage() && i <= maxTextPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		n += len(strings.TrimSpace(text))
	}
	return n
}
