package auth

import (
	"context"
	"sync"

	"backend-antisocial/internal/apperr"
)

type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Authenticator resolves login and register actions into an Identity.
// *Service is the production implementation.
type Authenticator interface {
	Login(ctx context.Context, nickName, password string) (Identity, error)
	Register(ctx context.Context, nickName, email string) (Identity, error)
}

// Persister keeps the session identity across process or request boundaries.
type Persister interface {
	Load(ctx context.Context) (Identity, bool, error)
	Save(ctx context.Context, id Identity) error
	Clear(ctx context.Context) error
}

// PersisterFactory returns the persister backing one session id.
type PersisterFactory func(sessionID string) Persister

// SessionStore holds the identity of one calling flow: Anonymous until a
// login or register succeeds, Anonymous again after Logout.
type SessionStore struct {
	mu        sync.RWMutex
	auth      Authenticator
	persister Persister
	identity  *Identity
	// restoreErr is set when Init could not read the persisted session.
	restoreErr error
}

// NewSessionStore returns an Anonymous store. A nil persister keeps the
// session in memory only.
func NewSessionStore(auth Authenticator, persister Persister) *SessionStore {
	return &SessionStore{auth: auth, persister: persister}
}

// Init rehydrates the identity from the persister. On failure the store
// stays Anonymous and remembers the error, see RestoreErr.
func (s *SessionStore) Init(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	id, ok, err := s.persister.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.identity = nil
		s.restoreErr = apperr.Unavailable("session restore", err)
		return s.restoreErr
	}
	s.restoreErr = nil
	if ok {
		s.identity = &id
	} else {
		s.identity = nil
	}
	return nil
}

// Login leaves the store unchanged when the credentials are rejected.
func (s *SessionStore) Login(ctx context.Context, nickName, password string) (Identity, error) {
	if s.auth == nil {
		return Identity{}, apperr.ErrUnavailable
	}
	id, err := s.auth.Login(ctx, nickName, password)
	if err != nil {
		return Identity{}, err
	}
	if err := s.establish(ctx, id); err != nil {
		return Identity{}, err
	}
	return id, nil
}

func (s *SessionStore) Register(ctx context.Context, nickName, email string) (Identity, error) {
	if s.auth == nil {
		return Identity{}, apperr.ErrUnavailable
	}
	id, err := s.auth.Register(ctx, nickName, email)
	if err != nil {
		return Identity{}, err
	}
	if err := s.establish(ctx, id); err != nil {
		return Identity{}, err
	}
	return id, nil
}

// Logout always ends in Anonymous, even when clearing the persisted record fails.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.identity = nil
	s.restoreErr = nil
	s.mu.Unlock()

	if s.persister == nil {
		return nil
	}
	if err := s.persister.Clear(ctx); err != nil {
		return apperr.Unavailable("logout", err)
	}
	return nil
}

func (s *SessionStore) Current() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return Identity{}, false
	}
	return *s.identity, true
}

// RestoreErr returns the Unavailable error of a failed Init, or nil.
func (s *SessionStore) RestoreErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.restoreErr
}

func (s *SessionStore) State() State {
	if _, ok := s.Current(); ok {
		return Authenticated
	}
	return Anonymous
}

func (s *SessionStore) establish(ctx context.Context, id Identity) error {
	if s.persister != nil {
		if err := s.persister.Save(ctx, id); err != nil {
			return apperr.Unavailable("session save", err)
		}
	}
	s.mu.Lock()
	s.identity = &id
	s.restoreErr = nil
	s.mu.Unlock()
	return nil
}
