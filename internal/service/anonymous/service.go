package anonymous

import (
	"context"
	"errors"
	"time"
)

var ErrInvalidSession = errors.New("invalid session")

// Service issues anonymous cart session ids. A session stays valid while it
// is used at least once per idle TTL.
type Service struct {
	sessions *sessionManager
	idleTTL  time.Duration
	now      func() time.Time
}

func New(idleTTL time.Duration) *Service {
	if idleTTL <= 0 {
		idleTTL = 24 * time.Hour
	}
	return &Service{
		sessions: newSessionManager(),
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

func (s *Service) Issue(ctx context.Context) (string, error) {
	return s.sessions.Issue(s.now().Add(s.idleTTL))
}

// Lookup validates id and extends its lifetime.
func (s *Service) Lookup(ctx context.Context, id string) (string, error) {
	if id == "" || !s.sessions.Touch(id, s.now(), s.idleTTL) {
		return "", ErrInvalidSession
	}
	return id, nil
}

// Resolve returns id when it is still valid, otherwise a freshly issued one.
// issued reports whether a new session was created.
func (s *Service) Resolve(ctx context.Context, id string) (session string, issued bool, err error) {
	if got, err := s.Lookup(ctx, id); err == nil {
		return got, false, nil
	}
	session, err = s.Issue(ctx)
	if err != nil {
		return "", false, err
	}
	return session, true, nil
}

// Sweep forgets expired sessions and returns their ids.
func (s *Service) Sweep() []string {
	return s.sessions.Sweep(s.now())
}

func (s *Service) IdleTTLSeconds() int {
	return int(s.idleTTL.Seconds())
}
