package epost

import "fmt"

// LetterType discriminates electronic from printed letters.
type LetterType string

const (
	// LetterTypeUnset is the type of an envelope without recipients.
	LetterTypeUnset LetterType = ""
	// LetterTypeNormal letters are delivered electronically.
	LetterTypeNormal LetterType = "normal"
	// LetterTypeHybrid letters are printed and posted by the provider.
	LetterTypeHybrid LetterType = "hybrid"
)

const keySubject = "subject"

// Envelope holds the addressing of a letter: its type, an optional subject
// and the recipients. Normal envelopes take any number of recipients, hybrid
// envelopes exactly one.
type Envelope struct {
	letterType LetterType
	subject    string
	recipients []*Recipient
}

// NewEnvelope returns an envelope of the given type. Passing
// LetterTypeUnset lets the first added recipient decide.
func NewEnvelope(letterType LetterType) *Envelope {
	return &Envelope{letterType: letterType}
}

// LetterType returns the envelope's letter type.
func (e *Envelope) LetterType() LetterType { return e.letterType }

// IsHybrid reports whether the envelope describes a printed letter.
func (e *Envelope) IsHybrid() bool { return e.letterType == LetterTypeHybrid }

// SetSubject sets the subject line.
func (e *Envelope) SetSubject(subject string) {
	e.subject = subject
}

// Subject returns the subject line.
func (e *Envelope) Subject() string { return e.subject }

// AddRecipient adds r as a recipient of the given variant.
func (e *Envelope) AddRecipient(r *Recipient, variant LetterType) error {
	if r == nil {
		return fmt.Errorf("%w: recipient is nil", ErrInvalidRecipientData)
	}
	switch variant {
	case LetterTypeNormal, LetterTypeHybrid:
	default:
		return fmt.Errorf("%w: unknown recipient variant %q", ErrLetterTypeConflict, variant)
	}

	if e.letterType != LetterTypeUnset && e.letterType != variant {
		return fmt.Errorf("%w: cannot add %s recipient to %s envelope", ErrLetterTypeConflict, variant, e.letterType)
	}
	if variant == LetterTypeHybrid && len(e.recipients) >= 1 {
		return ErrTooManyPrintedRecipients
	}

	e.letterType = variant
	e.recipients = append(e.recipients, r)
	return nil
}

// AddRecipientNormal adds an electronic recipient.
func (e *Envelope) AddRecipientNormal(r *Recipient) error {
	return e.AddRecipient(r, LetterTypeNormal)
}

// AddRecipientPrinted adds the recipient of a printed letter.
func (e *Envelope) AddRecipientPrinted(r *Recipient) error {
	return e.AddRecipient(r, LetterTypeHybrid)
}

// Recipients returns the recipients in insertion order.
func (e *Envelope) Recipients() []*Recipient {
	out := make([]*Recipient, len(e.recipients))
	copy(out, e.recipients)
	return out
}

// Len returns the number of recipients.
func (e *Envelope) Len() int { return len(e.recipients) }

// Validate checks that the envelope holds at least one complete recipient.
func (e *Envelope) Validate() error {
	if len(e.recipients) == 0 {
		return missing(ErrMissingRecipient, "add a recipient beforehand")
	}
	for i, r := range e.recipients {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("recipient %d: %w", i, err)
		}
	}
	return nil
}

// Payload returns the letter fields of the first recipient.
func (e *Envelope) Payload() (map[string]interface{}, error) {
	payloads, err := e.Payloads()
	if err != nil {
		return nil, err
	}
	return payloads[0], nil
}

// Payloads returns one set of letter fields per recipient; each letter object
// sent to the API carries a single address.
func (e *Envelope) Payloads() ([]map[string]interface{}, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	out := make([]map[string]interface{}, 0, len(e.recipients))
	for _, r := range e.recipients {
		payload, err := r.Payload()
		if err != nil {
			return nil, err
		}
		if e.subject != "" {
			payload[keySubject] = e.subject
		}
		out = append(out, payload)
	}
	return out, nil
}
