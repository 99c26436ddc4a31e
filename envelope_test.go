package epost

import (
	"errors"
	"testing"
)

func TestEnvelope_HybridRejectsNormal(t *testing.T) {
	t.Parallel()
	e := NewEnvelope(LetterTypeHybrid)

	if err := e.AddRecipientNormal(completeRecipient(t)); !errors.Is(err, ErrLetterTypeConflict) {
		t.Errorf("AddRecipientNormal() error = %v, want ErrLetterTypeConflict", err)
	}
	if err := e.AddRecipientPrinted(completeRecipient(t)); err != nil {
		t.Fatalf("AddRecipientPrinted() error = %v", err)
	}
	if err := e.AddRecipientPrinted(completeRecipient(t)); !errors.Is(err, ErrTooManyPrintedRecipients) {
		t.Errorf("second AddRecipientPrinted() error = %v, want ErrTooManyPrintedRecipients", err)
	}
	if e.Len() != 1 {
		t.Errorf("Len() = %d, want 1", e.Len())
	}
}

func TestEnvelope_NormalRejectsPrinted(t *testing.T) {
	t.Parallel()
	e := NewEnvelope(LetterTypeNormal)

	for i := 0; i < 3; i++ {
		if err := e.AddRecipientNormal(completeRecipient(t)); err != nil {
			t.Fatalf("AddRecipientNormal() #%d error = %v", i, err)
		}
	}
	if err := e.AddRecipientPrinted(completeRecipient(t)); !errors.Is(err, ErrLetterTypeConflict) {
		t.Errorf("AddRecipientPrinted() error = %v, want ErrLetterTypeConflict", err)
	}
	if e.Len() != 3 {
		t.Errorf("Len() = %d, want 3", e.Len())
	}
}

func TestEnvelope_UnsetTypeFollowsFirstRecipient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		variant LetterType
		other   LetterType
	}{
		{"normal", LetterTypeNormal, LetterTypeHybrid},
		{"hybrid", LetterTypeHybrid, LetterTypeNormal},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := NewEnvelope(LetterTypeUnset)
			if err := e.AddRecipient(completeRecipient(t), tt.variant); err != nil {
				t.Fatalf("AddRecipient() error = %v", err)
			}
			if e.LetterType() != tt.variant {
				t.Errorf("LetterType() = %q, want %q", e.LetterType(), tt.variant)
			}
			if err := e.AddRecipient(completeRecipient(t), tt.other); !errors.Is(err, ErrLetterTypeConflict) {
				t.Errorf("AddRecipient(%q) error = %v, want ErrLetterTypeConflict", tt.other, err)
			}
		})
	}
}

func TestEnvelope_AddRecipientInvalid(t *testing.T) {
	t.Parallel()
	e := NewEnvelope(LetterTypeUnset)

	if err := e.AddRecipient(nil, LetterTypeNormal); !errors.Is(err, ErrInvalidRecipientData) {
		t.Errorf("AddRecipient(nil) error = %v, want ErrInvalidRecipientData", err)
	}
	if err := e.AddRecipient(completeRecipient(t), "fax"); !errors.Is(err, ErrLetterTypeConflict) {
		t.Errorf("AddRecipient(fax) error = %v, want ErrLetterTypeConflict", err)
	}
	if e.LetterType() != LetterTypeUnset {
		t.Errorf("LetterType() = %q after failed adds, want unset", e.LetterType())
	}
}

func TestEnvelope_Payload(t *testing.T) {
	t.Parallel()
	e := NewEnvelope(LetterTypeNormal)
	if err := e.AddRecipientNormal(completeRecipient(t)); err != nil {
		t.Fatal(err)
	}

	payload, err := e.Payload()
	if err != nil {
		t.Fatalf("Payload() error = %v", err)
	}
	if len(payload) != 3 {
		t.Errorf("payload = %v, want exactly 3 keys", payload)
	}

	e.SetSubject("Invoice 2024-001")
	payload, err = e.Payload()
	if err != nil {
		t.Fatalf("Payload() error = %v", err)
	}
	if payload["subject"] != "Invoice 2024-001" || len(payload) != 4 {
		t.Errorf("payload with subject = %v", payload)
	}
}

func TestEnvelope_Payloads(t *testing.T) {
	t.Parallel()
	e := NewEnvelope(LetterTypeNormal)
	for _, city := range []string{"Berlin", "Bonn"} {
		r := completeRecipient(t)
		_ = r.SetCity(city)
		if err := e.AddRecipientNormal(r); err != nil {
			t.Fatal(err)
		}
	}

	payloads, err := e.Payloads()
	if err != nil {
		t.Fatalf("Payloads() error = %v", err)
	}
	if len(payloads) != 2 {
		t.Fatalf("len(Payloads()) = %d, want 2", len(payloads))
	}
	if payloads[0]["city"] != "Berlin" || payloads[1]["city"] != "Bonn" {
		t.Errorf("payloads out of order: %v", payloads)
	}
}

func TestEnvelope_Validate(t *testing.T) {
	t.Parallel()

	empty := NewEnvelope(LetterTypeNormal)
	err := empty.Validate()
	if !errors.Is(err, ErrMissingRecipient) || !errors.Is(err, ErrMissingPrecondition) {
		t.Errorf("Validate() on empty envelope = %v, want ErrMissingRecipient", err)
	}

	incomplete := NewEnvelope(LetterTypeNormal)
	r := NewRecipient()
	_ = r.SetCity("Berlin")
	if err := incomplete.AddRecipientNormal(r); err != nil {
		t.Fatal(err)
	}
	if _, err := incomplete.Payloads(); !errors.Is(err, ErrInvalidRecipientData) {
		t.Errorf("Payloads() error = %v, want ErrInvalidRecipientData", err)
	}
}

func TestEnvelope_RecipientsCopy(t *testing.T) {
	t.Parallel()
	e := NewEnvelope(LetterTypeNormal)
	_ = e.AddRecipientNormal(completeRecipient(t))

	got := e.Recipients()
	got[0] = nil
	if e.Recipients()[0] == nil {
		t.Error("Recipients() exposes internal slice")
	}
}
