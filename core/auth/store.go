package auth

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/garderie/core/user"
)

// DefaultTokenTTL is the lifetime of the token cookie.
const DefaultTokenTTL = 7 * 24 * time.Hour

var ErrNoToken = errors.New("login response carries no token")

// Client is the part of the API client the store relies on.
type Client interface {
	Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error)
	Me(ctx context.Context) (*user.User, error)
}

// CookieJar persists the bearer token between requests.
type CookieJar interface {
	Token() string
	SetToken(token string, ttl time.Duration) error
	ClearToken()
}

// Store holds the authentication state of one browser session: user, token, error and loading flag.
type Store struct {
	client Client
	jar    CookieJar
	ttl    time.Duration

	mu      sync.RWMutex
	user    *user.User
	token   string
	err     error
	loading bool
}

func NewStore(client Client, jar CookieJar, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Store{client: client, jar: jar, ttl: ttl}
}

// User returns a copy of the current user, nil when logged out.
func (s *Store) User() *user.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	usr := *s.user
	return &usr
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// Login exchanges credentials for a token, stored in the cookie jar on success.
// On failure the API's error is kept in Err and returned.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.mu.Lock()
	s.loading = true
	s.err = nil
	s.mu.Unlock()

	resp, err := s.client.Login(ctx, user.LoginRequest{Email: email, Password: password})
	if err == nil && resp.Token == "" {
		err = ErrNoToken
	}
	if err == nil {
		err = errors.Wrap(s.jar.SetToken(resp.Token, s.ttl), "storing token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = err
		return err
	}
	usr := resp.User
	s.user = &usr
	s.token = resp.Token
	return nil
}

// Logout clears the cookie and the in-memory state. Calling it while logged out is a no-op.
func (s *Store) Logout() {
	s.jar.ClearToken()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.token = ""
	s.err = nil
	s.loading = false
}

// InitializeAuth loads the token from the cookie jar without asking the API.
// A provisional user is decoded from the token claims when they carry an identity.
func (s *Store) InitializeAuth() {
	token := s.jar.Token()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = nil
	if token == "" {
		return
	}
	if claims, err := ParseUnverified(token); err == nil {
		if usr, err := claims.User(); err == nil {
			s.user = usr
		}
	}
}

// LoadUser replaces the provisional user with the API's view of the token owner.
func (s *Store) LoadUser(ctx context.Context) error {
	if !s.IsAuthenticated() {
		return nil
	}
	usr, err := s.client.Me(ctx)
	if err != nil {
		return errors.Wrap(err, "fetching current user")
	}
	s.mu.Lock()
	s.user = usr
	s.mu.Unlock()
	return nil
}
