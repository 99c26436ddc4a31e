package epost

import (
	"context"
	"encoding/hex"
	"sync"
	"time"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/singleflight"
)

const loginTimeout = time.Minute

// AccessToken is an authenticated session token. It is shared by pointer
// between letters and never changes after creation.
type AccessToken struct {
	token string
}

// NewAccessToken wraps an existing bearer token, e.g. one restored from an
// external secret store.
func NewAccessToken(token string) *AccessToken {
	return &AccessToken{token: token}
}

// Token returns the bearer string.
func (t *AccessToken) Token() string {
	if t == nil {
		return ""
	}
	return t.token
}

// Credentials identify an E-POST account.
type Credentials struct {
	VendorID string
	// EKP is the partner id ("Einlieferungs- und Kundenpartnernummer").
	EKP      string
	Secret   string
	Password string
}

func (c Credentials) validate() error {
	switch {
	case c.VendorID == "":
		return missingCredential("vendor id")
	case c.EKP == "":
		return missingCredential("ekp")
	case c.Secret == "":
		return missingCredential("secret")
	case c.Password == "":
		return missingCredential("password")
	}
	return nil
}

func missingCredential(field string) error {
	return &PreconditionError{Missing: ErrMissingCredentials, Message: field + " is required"}
}

// cacheKey digests the credential tuple so secrets are not kept as map keys.
func (c Credentials) cacheKey() string {
	h, _ := blake2b.New256(nil)
	for _, part := range []string{c.VendorID, c.EKP, c.Secret, c.Password} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Authenticator performs a credential exchange.
type Authenticator interface {
	Login(ctx context.Context, creds Credentials) (*AccessToken, error)
}

// TokenStore memoizes access tokens per credential set. The exchange for a
// given set happens at most once for the lifetime of the store; concurrent
// callers wait for the same exchange. Failed exchanges are not cached.
type TokenStore struct {
	auth   Authenticator
	mu     sync.RWMutex
	tokens map[string]*AccessToken
	group  singleflight.Group
}

// NewTokenStore returns a store that obtains tokens from auth.
func NewTokenStore(auth Authenticator) *TokenStore {
	return &TokenStore{
		auth:   auth,
		tokens: make(map[string]*AccessToken),
	}
}

// Get returns the token for creds, logging in on first use. Concurrent
// callers share one login that runs detached from any single caller's
// cancellation, bounded by a one minute timeout; a cancelled caller returns
// early without aborting it.
func (s *TokenStore) Get(ctx context.Context, creds Credentials) (*AccessToken, error) {
	if err := creds.validate(); err != nil {
		return nil, err
	}
	key := creds.cacheKey()

	if tok := s.lookup(key); tok != nil {
		return tok, nil
	}

	loginCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		if tok := s.lookup(key); tok != nil {
			return tok, nil
		}
		ctx, cancel := context.WithTimeout(loginCtx, loginTimeout)
		defer cancel()
		tok, err := s.auth.Login(ctx, creds)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.tokens[key] = tok
		s.mu.Unlock()
		return tok, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*AccessToken), nil
	}
}

// Forget drops the cached token for creds, e.g. after the API answered with
// ErrUnauthorized. The next Get logs in again.
func (s *TokenStore) Forget(creds Credentials) {
	key := creds.cacheKey()
	s.mu.Lock()
	delete(s.tokens, key)
	s.mu.Unlock()
}

func (s *TokenStore) lookup(key string) *AccessToken {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens[key]
}
