package epost

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Quosimadu/epost-api/internal/api"
)

// LetterID is a server-assigned letter identifier.
type LetterID = api.LetterID

// Client talks to the E-POST API. It creates letters, performs the login
// flows and owns the token store shared by its letters.
type Client struct {
	apiClient       *api.Client
	tokens          *TokenStore
	logger          *zap.Logger
	testEnvironment bool
}

// buildAPIClient creates and configures an API client from the given config.
func buildAPIClient(cfg *clientConfig) (*api.Client, error) {
	apiOpts := []api.Option{
		api.WithBaseURL(cfg.baseURL),
		api.WithLogger(cfg.logger.Named("api")),
	}
	// A caller's http.Client keeps its own timeout.
	if cfg.httpClient != nil {
		apiOpts = append(apiOpts, api.WithHTTPClient(cfg.httpClient))
	} else if cfg.timeout > 0 {
		apiOpts = append(apiOpts, api.WithTimeout(cfg.timeout))
	}
	if cfg.retries > 0 {
		apiOpts = append(apiOpts, api.WithRetries(cfg.retries))
	}
	if cfg.retryDelay > 0 {
		apiOpts = append(apiOpts, api.WithRetryDelay(cfg.retryDelay))
	}
	if len(cfg.retryOn) > 0 {
		apiOpts = append(apiOpts, api.WithRetryOn(cfg.retryOn))
	}
	if cfg.rateLimit > 0 {
		burst := cfg.rateBurst
		if burst < 1 {
			burst = 1
		}
		apiOpts = append(apiOpts, api.WithRateLimit(cfg.rateLimit, burst))
	}

	return api.New(apiOpts...)
}

// New creates a client. No network call is made.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		baseURL: DefaultBaseURL,
		timeout: defaultTimeout,
	}

	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	apiClient, err := buildAPIClient(cfg)
	if err != nil {
		return nil, err
	}

	c := &Client{
		apiClient:       apiClient,
		logger:          cfg.logger,
		testEnvironment: cfg.testEnvironment,
	}
	c.tokens = NewTokenStore(c)

	return c, nil
}

// Tokens returns the client's token store.
func (c *Client) Tokens() *TokenStore {
	return c.tokens
}

// AccessToken returns the memoized token for creds, logging in on first use.
func (c *Client) AccessToken(ctx context.Context, creds Credentials) (*AccessToken, error) {
	return c.tokens.Get(ctx, creds)
}

// Login exchanges creds for a new access token. Every call performs an
// exchange; use AccessToken to reuse tokens.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AccessToken, error) {
	if err := creds.validate(); err != nil {
		return nil, err
	}

	resp, err := c.apiClient.Login(ctx, api.LoginRequest{
		VendorID: creds.VendorID,
		EKP:      creds.EKP,
		Secret:   creds.Secret,
		Password: creds.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if resp.Token == "" {
		return nil, errors.New("login: response carries no token")
	}

	c.logger.Info("logged in", zap.String("vendor_id", creds.VendorID), zap.String("ekp", creds.EKP))
	return NewAccessToken(resp.Token), nil
}

// RequestSMSCode asks the API to send a one-time code to the phone number
// registered for the account. The code is needed by SetPassword.
func (c *Client) RequestSMSCode(ctx context.Context, vendorID, ekp string) error {
	if vendorID == "" || ekp == "" {
		return missingCredential("vendor id and ekp")
	}
	if err := c.apiClient.RequestSMSCode(ctx, api.SMSRequest{VendorID: vendorID, EKP: ekp}); err != nil {
		return fmt.Errorf("request sms code: %w", err)
	}
	c.logger.Info("sms code requested", zap.String("vendor_id", vendorID), zap.String("ekp", ekp))
	return nil
}

// SetPassword replaces the account password using an SMS code.
func (c *Client) SetPassword(ctx context.Context, vendorID, ekp, newPassword, smsCode string) error {
	switch {
	case vendorID == "" || ekp == "":
		return missingCredential("vendor id and ekp")
	case newPassword == "":
		return missingCredential("new password")
	case smsCode == "":
		return missingCredential("sms code")
	}

	err := c.apiClient.SetPassword(ctx, api.SetPasswordRequest{
		VendorID:    vendorID,
		EKP:         ekp,
		NewPassword: newPassword,
		SMSCode:     smsCode,
	})
	if err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	c.logger.Info("password changed", zap.String("vendor_id", vendorID), zap.String("ekp", ekp))
	return nil
}

// NewLetter returns an empty letter bound to this client.
func (c *Client) NewLetter() *Letter {
	return &Letter{
		client:          c,
		testEnvironment: c.testEnvironment,
	}
}
