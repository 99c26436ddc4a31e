package epost

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Field limits of a recipient address, counted in characters.
const (
	AddressLineCount     = 5
	MaxAddressLineLength = 80
	MaxZipCodeLength     = 20
	MaxCityLength        = 80
	MaxCountryLength     = 80
)

// Payload keys of a recipient address.
const (
	keyZipCode = "zipCode"
	keyCity    = "city"
	keyCountry = "country"
)

func addressLineKey(index int) string {
	return "addressLine" + strconv.Itoa(index+1)
}

// Recipient is a postal address. Whether it is an electronic or a printed
// recipient is decided by the Envelope it is added to.
//
// Setters check field lengths immediately; completeness (address line 1,
// city and zip code) is checked by Validate, so a recipient may be built up
// over several calls. An empty value clears the field.
type Recipient struct {
	addressLines [AddressLineCount]string
	zipCode      string
	city         string
	country      string
}

// NewRecipient returns an empty recipient.
func NewRecipient() *Recipient {
	return &Recipient{}
}

// SetAddressLine sets address line index (0..4).
func (r *Recipient) SetAddressLine(index int, value string) error {
	if index < 0 || index >= AddressLineCount {
		return fmt.Errorf("%w: address line number should be in range between 0 and %d, got %d",
			ErrInvalidRecipientData, AddressLineCount-1, index)
	}
	if err := checkLength(addressLineKey(index), value, MaxAddressLineLength); err != nil {
		return err
	}
	r.addressLines[index] = value
	return nil
}

// AddressLine returns address line index (0..4), or "" when unset or out of range.
func (r *Recipient) AddressLine(index int) string {
	if index < 0 || index >= AddressLineCount {
		return ""
	}
	return r.addressLines[index]
}

// SetZipCode sets the postal code, e.g. "53115".
func (r *Recipient) SetZipCode(value string) error {
	if err := checkLength(keyZipCode, value, MaxZipCodeLength); err != nil {
		return err
	}
	r.zipCode = value
	return nil
}

// ZipCode returns the postal code.
func (r *Recipient) ZipCode() string { return r.zipCode }

// SetCity sets the city.
func (r *Recipient) SetCity(value string) error {
	if err := checkLength(keyCity, value, MaxCityLength); err != nil {
		return err
	}
	r.city = value
	return nil
}

// City returns the city.
func (r *Recipient) City() string { return r.city }

// SetCountry sets the destination country for international delivery. The
// API expects the German ISO 3166-1 country name in upper case, e.g.
// "ÖSTERREICH". Domestic letters leave it empty.
func (r *Recipient) SetCountry(value string) error {
	if err := checkLength(keyCountry, value, MaxCountryLength); err != nil {
		return err
	}
	r.country = value
	return nil
}

// Country returns the destination country.
func (r *Recipient) Country() string { return r.country }

// Validate checks that address line 1, city and zip code are set.
func (r *Recipient) Validate() error {
	var absent []string
	if r.addressLines[0] == "" {
		absent = append(absent, addressLineKey(0))
	}
	if r.city == "" {
		absent = append(absent, keyCity)
	}
	if r.zipCode == "" {
		absent = append(absent, keyZipCode)
	}
	if len(absent) > 0 {
		return fmt.Errorf("%w: an address line 1, city and zip code must be set at least (missing %s)",
			ErrInvalidRecipientData, strings.Join(absent, ", "))
	}
	return nil
}

// Payload validates the recipient and returns the set fields keyed by their
// API names.
func (r *Recipient) Payload() (map[string]interface{}, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	out := make(map[string]interface{}, AddressLineCount+3)
	for i, line := range r.addressLines {
		if line != "" {
			out[addressLineKey(i)] = line
		}
	}
	out[keyZipCode] = r.zipCode
	out[keyCity] = r.city
	if r.country != "" {
		out[keyCountry] = r.country
	}
	return out, nil
}

// MarshalJSON implements json.Marshaler.
func (r *Recipient) MarshalJSON() ([]byte, error) {
	payload, err := r.Payload()
	if err != nil {
		return nil, err
	}
	return json.Marshal(payload)
}

// UnmarshalJSON implements json.Unmarshaler. Fields go through the same
// validating setters; unknown keys are rejected.
func (r *Recipient) UnmarshalJSON(data []byte) error {
	var fields map[string]string
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecipientData, err)
	}

	var parsed Recipient
	for key, value := range fields {
		if err := parsed.setField(key, value); err != nil {
			return err
		}
	}
	if err := parsed.Validate(); err != nil {
		return err
	}

	*r = parsed
	return nil
}

func (r *Recipient) setField(key, value string) error {
	switch key {
	case keyZipCode:
		return r.SetZipCode(value)
	case keyCity:
		return r.SetCity(value)
	case keyCountry:
		return r.SetCountry(value)
	}
	for i := 0; i < AddressLineCount; i++ {
		if key == addressLineKey(i) {
			return r.SetAddressLine(i, value)
		}
	}
	return fmt.Errorf("%w: unknown field %q", ErrInvalidRecipientData, key)
}

func checkLength(field, value string, limit int) error {
	if n := utf8.RuneCountInString(value); n > limit {
		return &ValidationError{Field: field, Limit: limit, Length: n}
	}
	return nil
}
