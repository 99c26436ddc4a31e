package codec

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MIMEPDF is the only document type accepted for letters.
const MIMEPDF = "application/pdf"

// DetectMIME returns the media type of data without parameters,
// e.g. "application/pdf" or "image/png".
func DetectMIME(data []byte) string {
	base, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	return base
}

// IsPDF reports whether data is a PDF document.
func IsPDF(data []byte) bool {
	return mimetype.Detect(data).Is(MIMEPDF)
}
