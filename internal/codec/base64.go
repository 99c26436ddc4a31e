// Package codec encodes letter content for the E-POST wire format and
// identifies the MIME type of uploaded documents.
package codec

import (
	"encoding/base64"
	"strings"
)

// LineLength is the RFC 2045 line width used for embedded content.
const LineLength = 76

const lineEnd = "\r\n"

// ToBase64 encodes bytes to standard base64 with padding.
func ToBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// ToChunkedBase64 encodes bytes to standard base64 split into lines of
// LineLength characters. Every line, including the last, ends in CRLF.
// Empty input yields an empty string.
func ToChunkedBase64(data []byte) string {
	encoded := ToBase64(data)
	if encoded == "" {
		return ""
	}

	lines := (len(encoded) + LineLength - 1) / LineLength

	var b strings.Builder
	b.Grow(len(encoded) + lines*len(lineEnd))
	for start := 0; start < len(encoded); start += LineLength {
		end := start + LineLength
		if end > len(encoded) {
			end = len(encoded)
		}
		b.WriteString(encoded[start:end])
		b.WriteString(lineEnd)
	}
	return b.String()
}

// FromChunkedBase64 decodes base64 that may be split across lines.
// Whitespace of any kind is ignored.
func FromChunkedBase64(s string) ([]byte, error) {
	joined := strings.Map(func(r rune) rune {
		switch r {
		case '\r', '\n', ' ', '\t':
			return -1
		}
		return r
	}, s)
	return base64.StdEncoding.DecodeString(joined)
}
