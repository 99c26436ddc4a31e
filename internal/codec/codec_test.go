package codec

import (
	"bytes"
	"strings"
	"testing"
)

var (
	samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")
	samplePNG = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
)

func TestToChunkedBase64_LineWidth(t *testing.T) {
	data := bytes.Repeat([]byte("E-POST"), 100)

	encoded := ToChunkedBase64(data)
	if !strings.HasSuffix(encoded, "\r\n") {
		t.Fatal("encoded content should end in CRLF")
	}

	lines := strings.Split(strings.TrimSuffix(encoded, "\r\n"), "\r\n")
	for i, line := range lines {
		if i < len(lines)-1 && len(line) != LineLength {
			t.Errorf("line %d has %d characters, want %d", i, len(line), LineLength)
		}
		if len(line) > LineLength {
			t.Errorf("line %d exceeds %d characters", i, LineLength)
		}
	}
	if strings.Join(lines, "") != ToBase64(data) {
		t.Error("joined lines differ from plain base64")
	}
}

func TestToChunkedBase64_ShortInput(t *testing.T) {
	if got := ToChunkedBase64([]byte("hello")); got != "aGVsbG8=\r\n" {
		t.Errorf("ToChunkedBase64() = %q, want %q", got, "aGVsbG8=\r\n")
	}
}

func TestToChunkedBase64_Empty(t *testing.T) {
	if got := ToChunkedBase64(nil); got != "" {
		t.Errorf("ToChunkedBase64(nil) = %q, want empty", got)
	}
}

func TestToChunkedBase64_ExactMultiple(t *testing.T) {
	// 57 bytes encode to exactly 76 characters.
	encoded := ToChunkedBase64(make([]byte, 57))
	if strings.Count(encoded, "\r\n") != 1 {
		t.Errorf("expected a single line, got %q", encoded)
	}
}

func TestChunkedBase64RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"simple", []byte("hello")},
		{"binary", []byte{0x00, 0xff, 0x7f, 0x80}},
		{"pdf", samplePDF},
		{"large", bytes.Repeat([]byte{0xab, 0xcd}, 5000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := FromChunkedBase64(ToChunkedBase64(tt.data))
			if err != nil {
				t.Fatalf("FromChunkedBase64() error = %v", err)
			}
			if !bytes.Equal(decoded, tt.data) {
				t.Error("round trip mismatch")
			}
		})
	}
}

func TestFromChunkedBase64_InvalidInput(t *testing.T) {
	if _, err := FromChunkedBase64("not base64!!"); err == nil {
		t.Error("expected error for invalid input")
	}
}

func TestDetectMIME(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"pdf", samplePDF, "application/pdf"},
		{"png", samplePNG, "image/png"},
		{"plain text", []byte("just some words"), "text/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectMIME(tt.data); got != tt.want {
				t.Errorf("DetectMIME() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsPDF(t *testing.T) {
	if !IsPDF(samplePDF) {
		t.Error("IsPDF(pdf) = false")
	}
	if IsPDF(samplePNG) {
		t.Error("IsPDF(png) = true")
	}
	if IsPDF(nil) {
		t.Error("IsPDF(nil) = true")
	}
}
