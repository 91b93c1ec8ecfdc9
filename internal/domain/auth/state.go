// internal/domain/auth/state.go
package auth

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/sunflower003/cocktail-miami-storefront/internal/infrastructure/backend"
	"github.com/sunflower003/cocktail-miami-storefront/internal/pkg/token"
)

// State holds the current session token and user, and gates every
// mutating storefront operation. An absent token means anonymous. The
// token is minted and verified upstream; this holder only peeks at the
// exp claim so a dead session short-circuits without a network call.
type State struct {
	client *backend.Client
	logger *logrus.Logger

	mu   sync.RWMutex
	tok  string
	user *User
}

// NewState creates an auth state holder. tok may be empty (anonymous)
// or a bearer token restored from the caller's stored session.
func NewState(client *backend.Client, log *logrus.Logger, tok string) *State {
	s := &State{
		client: client,
		logger: log,
	}
	s.Adopt(tok)
	return s
}

// Adopt installs an externally supplied bearer token. Expired tokens are
// discarded immediately so the session reads as anonymous.
func (s *State) Adopt(tok string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tok == "" || token.IsExpired(tok) {
		s.tok = ""
		s.user = nil
		return
	}
	s.tok = tok
}

// Token returns the session token, or false when the session is
// anonymous or the token has expired since adoption.
func (s *State) Token() (string, bool) {
	s.mu.RLock()
	tok := s.tok
	s.mu.RUnlock()

	if tok == "" {
		return "", false
	}
	if token.IsExpired(tok) {
		s.mu.Lock()
		s.tok = ""
		s.user = nil
		s.mu.Unlock()
		return "", false
	}
	return tok, true
}

// IsAuthenticated reports whether the session holds a live token
func (s *State) IsAuthenticated() bool {
	_, ok := s.Token()
	return ok
}

// UserID returns the user id carried by the token claims
func (s *State) UserID() (string, bool) {
	tok, ok := s.Token()
	if !ok {
		return "", false
	}

	claims, err := token.Peek(tok)
	if err != nil || claims.UserID == "" {
		return "", false
	}
	return claims.UserID, true
}

// Login authenticates against the upstream API. On success the returned
// token becomes the session token; the caller is responsible for
// persisting it client-side.
func (s *State) Login(ctx context.Context, creds Credentials) LoginResult {
	var payload struct {
		Token string `json:"token"`
		User  *User  `json:"user"`
	}

	if err := s.client.Post(ctx, "/api/auth/login", "", creds, &payload); err != nil {
		s.logger.WithFields(logrus.Fields{
			"email": creds.Email,
			"error": err.Error(),
		}).Warn("Login failed")
		return LoginResult{Success: false, Message: backend.UserMessage(err)}
	}

	if payload.Token == "" {
		return LoginResult{Success: false, Message: "Login did not return a session token"}
	}

	s.mu.Lock()
	s.tok = payload.Token
	s.user = payload.User
	s.mu.Unlock()

	return LoginResult{Success: true, Token: payload.Token, User: payload.User}
}

// Logout tears the session down. Upstream is notified best-effort; the
// local state is cleared regardless.
func (s *State) Logout(ctx context.Context) {
	tok, ok := s.Token()

	s.mu.Lock()
	s.tok = ""
	s.user = nil
	s.mu.Unlock()

	if !ok {
		return
	}
	if err := s.client.Post(ctx, "/api/auth/logout", tok, nil, nil); err != nil {
		s.logger.WithField("error", err.Error()).Debug("Upstream logout call failed")
	}
}

// CurrentUser returns the session's user profile, fetching it from the
// upstream API on first use.
func (s *State) CurrentUser(ctx context.Context) (*User, error) {
	tok, ok := s.Token()
	if !ok {
		return nil, backend.ErrUnauthenticated
	}

	s.mu.RLock()
	cached := s.user
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	var user User
	if err := s.client.Get(ctx, "/api/auth/me", tok, &user); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()

	return &user, nil
}
