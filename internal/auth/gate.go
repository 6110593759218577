package auth

import "backend-antisocial/internal/apperr"

// RequireAuthenticated returns the session identity or ErrUnauthenticated.
// A session that exists but could not be restored yields Unavailable.
// Reads never go through here; only post and comment creation do.
func RequireAuthenticated(s *SessionStore) (Identity, error) {
	if s == nil {
		return Identity{}, apperr.ErrUnauthenticated
	}
	if err := s.RestoreErr(); err != nil {
		return Identity{}, err
	}
	id, ok := s.Current()
	if !ok {
		return Identity{}, apperr.ErrUnauthenticated
	}
	return id, nil
}

// Stampable is a write intent that can be stamped with its author.
type Stampable[T any] interface {
	WithAuthor(userID int64) T
}

// AttachAuthor is the only place a write intent receives an author id.
func AttachAuthor[T Stampable[T]](intent T, id Identity) T {
	return intent.WithAuthor(id.UserID)
}
