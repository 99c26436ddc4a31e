package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var result LoginResponse
	err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/Login",
		Body:   req,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RequestSMSCode asks the API to send a one-time code for a password reset.
func (c *Client) RequestSMSCode(ctx context.Context, req SMSRequest) error {
	return c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/Login/smsRequest",
		Body:   req,
		Expect: []int{http.StatusOK, http.StatusAccepted},
	}, nil)
}

// SetPassword sets a new password using a code from RequestSMSCode.
func (c *Client) SetPassword(ctx context.Context, req SetPasswordRequest) error {
	return c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/Login/setPassword",
		Body:   req,
	}, nil)
}

// SubmitLetters posts letter objects and returns the assigned ids in order.
func (c *Client) SubmitLetters(ctx context.Context, token string, letters []map[string]interface{}) ([]SubmitResult, error) {
	var result []SubmitResult
	err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/Letter",
		Token:  token,
		Body:   letters,
	}, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetLetterStatus retrieves the status of a single letter.
func (c *Client) GetLetterStatus(ctx context.Context, token string, id LetterID) (*StatusRecord, error) {
	var result StatusRecord
	path := fmt.Sprintf("/api/Letter/%s", url.PathEscape(string(id)))
	err := c.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   path,
		Token:  token,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// QueryLetterStatuses retrieves the statuses of several letters at once.
// With onlyIssues the server leaves out letters without errors.
func (c *Client) QueryLetterStatuses(ctx context.Context, token string, ids []LetterID, onlyIssues bool) ([]StatusRecord, error) {
	if ids == nil {
		ids = []LetterID{}
	}
	var result []StatusRecord
	err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/Letter/StatusQuery",
		Query:  url.Values{"onlyIssues": {strconv.FormatBool(onlyIssues)}},
		Token:  token,
		Body:   ids,
	}, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetLetterStatusByDate retrieves the statuses of letters submitted in the
// given range. from and till are passed through unchanged.
func (c *Client) GetLetterStatusByDate(ctx context.Context, token, from, till string, onlyIssues bool) ([]StatusRecord, error) {
	var raw []byte
	err := c.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   "/api/Letter/Date",
		Query: url.Values{
			"fromDate":   {from},
			"tillDate":   {till},
			"onlyIssues": {strconv.FormatBool(onlyIssues)},
		},
		Token: token,
	}, &raw)
	if err != nil {
		return nil, err
	}
	return decodeStatusRecords(raw)
}

// decodeStatusRecords accepts either a single status object or a list.
func decodeStatusRecords(raw []byte) ([]StatusRecord, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}

	if raw[0] == '[' {
		var list []StatusRecord
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return list, nil
	}

	var single StatusRecord
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return []StatusRecord{single}, nil
}
