// Package session holds the signed-in user and the bearer token used for
// the remote plans backend.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "moodplan"
	keyringUser    = "session"
)

var (
	// ErrNotLoggedIn is returned when no session is stored.
	ErrNotLoggedIn = errors.New("not logged in, run 'moodplan login' first")
	// ErrKeyringUnavailable is returned when the OS keyring cannot be reached.
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Session identifies the current user. It is passed explicitly to
// whatever talks to the backend.
type Session struct {
	User  string `json:"user"`
	Token string `json:"token"`
}

// Valid returns true if the session carries a token.
func (s *Session) Valid() bool {
	return s != nil && strings.TrimSpace(s.Token) != ""
}

// Authorization returns the value for the Authorization header,
// or "" for an empty session.
func (s *Session) Authorization() string {
	if !s.Valid() {
		return ""
	}
	return "Bearer " + s.Token
}

// Store persists a session between runs.
type Store interface {
	Load() (*Session, error)
	Save(s *Session) error
	Clear() error
}

// KeyringStore keeps the session in the OS keyring.
type KeyringStore struct{}

// Load returns the stored session or ErrNotLoggedIn.
func (KeyringStore) Load() (*Session, error) {
	raw, err := keyring.Get(keyringService, keyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}

	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("decoding stored session: %w", err)
	}
	return &s, nil
}

// Save writes the session to the keyring.
func (KeyringStore) Save(s *Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := keyring.Set(keyringService, keyringUser, string(raw)); err != nil {
		return fmt.Errorf("storing session in keyring: %w", err)
	}
	return nil
}

// Clear removes the stored session. Clearing an empty store is not an error.
func (KeyringStore) Clear() error {
	err := keyring.Delete(keyringService, keyringUser)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("removing session from keyring: %w", err)
	}
	return nil
}

// Login validates and stores a new session.
func Login(store Store, user, token string) (*Session, error) {
	user = strings.TrimSpace(user)
	token = strings.TrimSpace(token)
	if user == "" {
		return nil, errors.New("user cannot be empty")
	}
	if token == "" {
		return nil, errors.New("token cannot be empty")
	}

	s := &Session{User: user, Token: token}
	if err := store.Save(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Logout tears down the stored session.
func Logout(store Store) error {
	return store.Clear()
}
