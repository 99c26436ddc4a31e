package epost

import (
	"encoding/json"
	"fmt"
)

// Registered is the registered mail class of a printed letter.
type Registered string

// Registered mail classes. The values are the literals the API expects.
const (
	// RegisteredNone sends a standard letter ("Standardbrief").
	RegisteredNone Registered = ""
	// RegisteredStandard ("Einschreiben ohne Optionen"): the recipient or an
	// authorized person, e.g. a spouse, may acknowledge receipt.
	RegisteredStandard Registered = "Einschreiben"
	// RegisteredSubmissionOnly ("Einschreiben Einwurf"): the carrier drops the
	// letter into the recipient's mailbox and confirms it with a signature.
	RegisteredSubmissionOnly Registered = "Einwurf Einschreiben"
	// RegisteredAddresseeOnly ("Einschreiben eigenhändig"): only the recipient
	// may acknowledge receipt.
	RegisteredAddresseeOnly Registered = "Einschreiben eigenhändig"
	// RegisteredWithReturnReceipt ("Einschreiben Rückschein"): the sender gets
	// the signed confirmation of an authorized recipient.
	RegisteredWithReturnReceipt Registered = "Einschreiben Rückschein"
	// RegisteredAddresseeOnlyWithReturnReceipt: the sender gets the signed
	// confirmation of the recipient personally.
	RegisteredAddresseeOnlyWithReturnReceipt Registered = "Einschreiben eigenhändig Rückschein"
)

// RegisteredOptions returns every value accepted by SetRegistered.
func RegisteredOptions() []Registered {
	return []Registered{
		RegisteredStandard,
		RegisteredSubmissionOnly,
		RegisteredAddresseeOnly,
		RegisteredWithReturnReceipt,
		RegisteredAddresseeOnlyWithReturnReceipt,
		RegisteredNone,
	}
}

// Valid reports whether r is one of the six registered mail classes.
func (r Registered) Valid() bool {
	for _, opt := range RegisteredOptions() {
		if r == opt {
			return true
		}
	}
	return false
}

// ParseRegistered converts an API literal into a Registered value.
func ParseRegistered(s string) (Registered, error) {
	r := Registered(s)
	if !r.Valid() {
		return RegisteredNone, fmt.Errorf("%w: %q", ErrInvalidRegisteredOption, s)
	}
	return r, nil
}

// MarshalJSON encodes RegisteredNone as null.
func (r Registered) MarshalJSON() ([]byte, error) {
	if r == RegisteredNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(r))
}

// Delivery option payload keys.
const (
	keyIsColor          = "isColor"
	keyIsDuplex         = "isDuplex"
	keyCoverLetter      = "coverLetter"
	keyRegisteredLetter = "registeredLetter"
)

// DeliveryOptions configures printing and posting of a hybrid letter. Only
// explicitly set options are sent; the API applies its defaults otherwise.
type DeliveryOptions struct {
	color       *bool
	duplex      *bool
	coverLetter *bool
	registered  *Registered
}

// NewDeliveryOptions returns options with nothing set.
func NewDeliveryOptions() *DeliveryOptions {
	return &DeliveryOptions{}
}

// SetColor selects color (true) or black-and-white (false) printing.
func (o *DeliveryOptions) SetColor(enabled bool) *DeliveryOptions {
	o.color = &enabled
	return o
}

// SetColorGrayscale selects black-and-white printing.
func (o *DeliveryOptions) SetColorGrayscale() *DeliveryOptions { return o.SetColor(false) }

// SetColorColored selects color printing.
func (o *DeliveryOptions) SetColorColored() *DeliveryOptions { return o.SetColor(true) }

// Color reports whether color printing is selected. Defaults to false.
func (o *DeliveryOptions) Color() bool {
	return o.color != nil && *o.color
}

// SetDuplex selects double-sided printing. All documents, including a
// generated cover page, are then printed on both sides of a sheet.
func (o *DeliveryOptions) SetDuplex(enabled bool) *DeliveryOptions {
	o.duplex = &enabled
	return o
}

// Duplex reports whether duplex printing is selected. Defaults to false.
func (o *DeliveryOptions) Duplex() bool {
	return o.duplex != nil && *o.duplex
}

// SetCoverLetter selects whether the first page of the attachment is the
// cover letter (true) or the cover letter is generated by the API (false).
func (o *DeliveryOptions) SetCoverLetter(included bool) *DeliveryOptions {
	o.coverLetter = &included
	return o
}

// SetCoverLetterIncluded uses the first page of the attachment as cover letter.
func (o *DeliveryOptions) SetCoverLetterIncluded() *DeliveryOptions { return o.SetCoverLetter(true) }

// SetCoverLetterGenerate lets the API generate the cover letter.
func (o *DeliveryOptions) SetCoverLetterGenerate() *DeliveryOptions { return o.SetCoverLetter(false) }

// CoverLetter reports whether the attachment contains the cover letter.
// Defaults to false.
func (o *DeliveryOptions) CoverLetter() bool {
	return o.coverLetter != nil && *o.coverLetter
}

// SetRegistered selects the registered mail class.
func (o *DeliveryOptions) SetRegistered(r Registered) error {
	if !r.Valid() {
		return fmt.Errorf("%w: property %q is not supported", ErrInvalidRegisteredOption, string(r))
	}
	o.registered = &r
	return nil
}

// SetRegisteredStandard selects RegisteredStandard.
func (o *DeliveryOptions) SetRegisteredStandard() *DeliveryOptions {
	return o.mustRegistered(RegisteredStandard)
}

// SetRegisteredSubmissionOnly selects RegisteredSubmissionOnly.
func (o *DeliveryOptions) SetRegisteredSubmissionOnly() *DeliveryOptions {
	return o.mustRegistered(RegisteredSubmissionOnly)
}

// SetRegisteredAddresseeOnly selects RegisteredAddresseeOnly.
func (o *DeliveryOptions) SetRegisteredAddresseeOnly() *DeliveryOptions {
	return o.mustRegistered(RegisteredAddresseeOnly)
}

// SetRegisteredWithReturnReceipt selects RegisteredWithReturnReceipt.
func (o *DeliveryOptions) SetRegisteredWithReturnReceipt() *DeliveryOptions {
	return o.mustRegistered(RegisteredWithReturnReceipt)
}

// SetRegisteredAddresseeOnlyWithReturnReceipt selects
// RegisteredAddresseeOnlyWithReturnReceipt.
func (o *DeliveryOptions) SetRegisteredAddresseeOnlyWithReturnReceipt() *DeliveryOptions {
	return o.mustRegistered(RegisteredAddresseeOnlyWithReturnReceipt)
}

// SetRegisteredNo selects a standard, unregistered letter.
func (o *DeliveryOptions) SetRegisteredNo() *DeliveryOptions {
	return o.mustRegistered(RegisteredNone)
}

func (o *DeliveryOptions) mustRegistered(r Registered) *DeliveryOptions {
	o.registered = &r
	return o
}

// Registered returns the registered mail class. Defaults to RegisteredNone.
func (o *DeliveryOptions) Registered() Registered {
	if o.registered == nil {
		return RegisteredNone
	}
	return *o.registered
}

// Payload returns the explicitly set options keyed by their API names.
func (o *DeliveryOptions) Payload() map[string]interface{} {
	out := make(map[string]interface{}, 4)
	if o.color != nil {
		out[keyIsColor] = *o.color
	}
	if o.duplex != nil {
		out[keyIsDuplex] = *o.duplex
	}
	if o.coverLetter != nil {
		out[keyCoverLetter] = *o.coverLetter
	}
	if o.registered != nil {
		out[keyRegisteredLetter] = *o.registered
	}
	return out
}
