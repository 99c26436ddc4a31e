package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Quosimadu/epost-api/internal/apierrors"
)

// LoginRequest is the POST /api/Login request.
type LoginRequest struct {
	VendorID string `json:"vendorID"`
	EKP      string `json:"ekp"`
	Secret   string `json:"secret"`
	Password string `json:"password"`
}

// LoginResponse is the POST /api/Login response.
type LoginResponse struct {
	Token string `json:"token"`
}

// SMSRequest is the POST /api/Login/smsRequest request.
type SMSRequest struct {
	VendorID string `json:"vendorID"`
	EKP      string `json:"ekp"`
}

// SetPasswordRequest is the POST /api/Login/setPassword request.
type SetPasswordRequest struct {
	VendorID    string `json:"vendorID"`
	EKP         string `json:"ekp"`
	NewPassword string `json:"newPassword"`
	SMSCode     string `json:"smsCode"`
}

// LetterID is a server-assigned letter identifier. The API emits it as a
// JSON number; strings are accepted as well. Numeric ids are encoded back as
// numbers.
type LetterID string

// MarshalJSON implements json.Marshaler.
func (id LetterID) MarshalJSON() ([]byte, error) {
	if isNumeric(string(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *LetterID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = LetterID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("letter id: %w", err)
	}
	*id = LetterID(n.String())
	return nil
}

func isNumeric(s string) bool {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return false
	}
	_, err := strconv.ParseUint(s, 10, 64)
	return err == nil
}

// SubmitResult is one element of the POST /api/Letter response.
type SubmitResult struct {
	LetterID LetterID `json:"letterID"`
}

// StatusRecord is a letter status as returned by the status endpoints.
type StatusRecord struct {
	LetterID  LetterID                `json:"letterID"`
	StatusID  int                     `json:"statusID"`
	ErrorList []apierrors.ErrorRecord `json:"errorList"`
}
