// Package session implements the session store: authentication state cached
// locally, persisted across sessions, gating protected views.
package session

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/persistence"
	"github.com/example/storefront/internal/state"
)

// StorageKey is the persistence namespace for the session store.
const StorageKey = "auth-storage"

// Authenticator is the slice of the auth contract this store consumes.
type Authenticator interface {
	Login(ctx context.Context, creds auth.Credentials) (*auth.Session, error)
	Register(ctx context.Context, reg auth.Registration) (*auth.Session, error)
	Logout(ctx context.Context) error
}

type persistedState struct {
	User            *auth.User `json:"user"`
	Token           string     `json:"token"`
	IsAuthenticated bool       `json:"is_authenticated"`
}

// Store caches the current user and token. Failures from the auth service
// are kept as error state and re-raised so the caller decides how to react.
type Store struct {
	mu              sync.Mutex
	user            *auth.User
	token           string
	isAuthenticated bool
	isLoading       bool
	errMsg          string
	api             Authenticator
	kv              persistence.KV
	subs            state.Broadcaster
}

// NewStore rehydrates the session from kv. A missing or corrupt payload
// yields a signed-out session.
func NewStore(api Authenticator, kv persistence.KV) *Store {
	s := &Store{api: api, kv: kv}
	s.rehydrate()
	return s
}

func (s *Store) rehydrate() {
	if s.kv == nil {
		return
	}
	payload, ok, err := s.kv.Load(context.Background(), StorageKey)
	if err != nil {
		log.Printf("[Session] Failed to load persisted state: %v", err)
		return
	}
	if !ok {
		return
	}
	var persisted persistedState
	if err := json.Unmarshal(payload, &persisted); err != nil {
		log.Printf("[Session] Discarding corrupt persisted state: %v", err)
		return
	}
	s.user = persisted.User
	s.token = persisted.Token
	s.isAuthenticated = persisted.IsAuthenticated
}

// Subscribe registers a listener invoked after every committed mutation.
func (s *Store) Subscribe(listener func()) (unsubscribe func()) {
	return s.subs.Subscribe(listener)
}

// Login authenticates against the auth service. The failure is stored as
// error state and also returned, so callers can skip navigation without the
// store swallowing it.
func (s *Store) Login(ctx context.Context, creds auth.Credentials) error {
	s.beginCall()

	result, err := s.api.Login(ctx, creds)
	s.settleCall(result, err)
	return err
}

// Register creates an account; on success the session is authenticated
// immediately. Same error contract as Login.
func (s *Store) Register(ctx context.Context, reg auth.Registration) error {
	s.beginCall()

	result, err := s.api.Register(ctx, reg)
	s.settleCall(result, err)
	return err
}

func (s *Store) beginCall() {
	s.mu.Lock()
	s.isLoading = true
	s.errMsg = ""
	s.mu.Unlock()
	s.subs.Notify()
}

// settleCall commits the outcome of an auth call: user, token and
// isAuthenticated change atomically, in both directions.
func (s *Store) settleCall(result *auth.Session, err error) {
	s.mu.Lock()
	if err != nil {
		s.user = nil
		s.token = ""
		s.isAuthenticated = false
		s.errMsg = err.Error()
	} else {
		user := result.User
		s.user = &user
		s.token = result.Token
		s.isAuthenticated = true
		s.errMsg = ""
	}
	s.isLoading = false
	s.persist()
	s.mu.Unlock()
	s.subs.Notify()
}

// Logout clears local state unconditionally and synchronously; the auth
// service call is issued after the fact and its outcome cannot undo the
// local sign-out.
func (s *Store) Logout() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.isAuthenticated = false
	s.isLoading = false
	s.errMsg = ""
	s.persist()
	s.mu.Unlock()
	s.subs.Notify()

	go func() {
		if err := s.api.Logout(context.Background()); err != nil {
			log.Printf("[Session] Logout call failed: %v", err)
		}
	}()
}

// ClearError clears the error state only.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.errMsg = ""
	s.mu.Unlock()
	s.subs.Notify()
}

// CheckAuth is a local check: isAuthenticated becomes token presence. It
// does not re-verify the token against the auth service.
func (s *Store) CheckAuth() {
	s.mu.Lock()
	s.isAuthenticated = s.token != ""
	s.persist()
	s.mu.Unlock()
	s.subs.Notify()
}

// User returns a copy of the current user, or nil when signed out.
func (s *Store) User() *auth.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isAuthenticated
}

func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLoading
}

// Err returns the stored failure message, empty when none.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// persist writes {user, token, isAuthenticated} to kv, best-effort. Callers
// hold s.mu.
func (s *Store) persist() {
	if s.kv == nil {
		return
	}
	payload, err := json.Marshal(persistedState{
		User:            s.user,
		Token:           s.token,
		IsAuthenticated: s.isAuthenticated,
	})
	if err != nil {
		log.Printf("[Session] Failed to serialize state: %v", err)
		return
	}
	if err := s.kv.Save(context.Background(), StorageKey, payload); err != nil {
		log.Printf("[Session] Failed to persist state: %v", err)
	}
}
