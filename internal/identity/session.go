// Package identity tracks the signed-in principal of one client session and
// tells subscribers when it changes.
package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nikolayk812/cartsync/internal/domain"
	"github.com/nikolayk812/cartsync/internal/localstore"
	"github.com/nikolayk812/cartsync/internal/port"
	"github.com/rs/zerolog"
)

// Listener is called after the principal changed; p is nil on sign out.
type Listener func(ctx context.Context, p *domain.Principal)

type storedPrincipal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type Session struct {
	auth  port.Authenticator
	store port.LocalStore
	log   zerolog.Logger

	mu        sync.RWMutex
	principal *domain.Principal
	listeners []Listener
}

var _ port.PrincipalSource = (*Session)(nil)

// NewSession restores a previously persisted principal from store, if any.
func NewSession(ctx context.Context, auth port.Authenticator, store port.LocalStore, log zerolog.Logger) (*Session, error) {
	s := &Session{auth: auth, store: store, log: log}

	var stored storedPrincipal
	found, err := store.Load(ctx, localstore.AuthKey, &stored)
	if err != nil {
		return nil, fmt.Errorf("store.Load: %w", err)
	}
	if found && stored.ID != "" {
		p := domain.NewPrincipal(stored.ID, stored.Email, stored.Name, domain.Role(stored.Role))
		s.principal = &p
	}

	return s, nil
}

func (s *Session) Principal() *domain.Principal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.principal == nil {
		return nil
	}
	p := *s.principal
	return &p
}

func (s *Session) Subscribe(l Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

func (s *Session) SignIn(ctx context.Context, email, password string) (domain.Principal, error) {
	p, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("sign in failed")
		return domain.Principal{}, fmt.Errorf("auth.SignIn: %w", err)
	}

	s.set(ctx, &p)
	return p, nil
}

// SignUp registers an account. When the provider requires email verification
// the session stays signed out and domain.ErrVerificationNeeded is returned.
func (s *Session) SignUp(ctx context.Context, email, password, name string) (domain.Principal, error) {
	p, err := s.auth.SignUp(ctx, email, password, name)
	if errors.Is(err, domain.ErrVerificationNeeded) {
		s.log.Info().Str("email", email).Msg("email verification required")
		return domain.Principal{}, err
	}
	if err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("sign up failed")
		return domain.Principal{}, fmt.Errorf("auth.SignUp: %w", err)
	}

	s.set(ctx, &p)
	return p, nil
}

// SignOut always clears the local principal, even when the provider fails.
func (s *Session) SignOut(ctx context.Context) {
	current := s.Principal()
	if current == nil {
		return
	}

	if err := s.auth.SignOut(ctx, current.ID); err != nil {
		s.log.Warn().Err(err).Str("principal_id", current.ID).Msg("provider sign out failed")
	}

	s.set(ctx, nil)
}

// Refresh re-reads the current principal from the provider, signing out
// locally when the provider no longer knows it.
func (s *Session) Refresh(ctx context.Context) (*domain.Principal, error) {
	current := s.Principal()
	if current == nil {
		return nil, nil
	}

	p, err := s.auth.CurrentPrincipal(ctx, current.ID)
	if errors.Is(err, domain.ErrNotFound) {
		s.set(ctx, nil)
		return nil, nil
	}
	if err != nil {
		return current, fmt.Errorf("auth.CurrentPrincipal: %w", err)
	}

	if p != *current {
		s.set(ctx, &p)
	}
	return &p, nil
}

// SetRole changes the cached principal's role without a round trip.
func (s *Session) SetRole(ctx context.Context, role domain.Role) {
	s.mu.Lock()
	if s.principal == nil || !role.Valid() {
		s.mu.Unlock()
		return
	}
	s.principal.Role = role
	p := *s.principal
	s.mu.Unlock()

	s.persist(ctx, &p)
}

func (s *Session) set(ctx context.Context, p *domain.Principal) {
	s.mu.Lock()
	prev := s.principal
	if p != nil {
		cp := *p
		s.principal = &cp
	} else {
		s.principal = nil
	}
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	s.persist(ctx, p)

	if samePrincipal(prev, p) {
		return
	}
	for _, l := range listeners {
		l(ctx, s.Principal())
	}
}

func (s *Session) persist(ctx context.Context, p *domain.Principal) {
	var err error
	if p == nil {
		err = s.store.Delete(ctx, localstore.AuthKey)
	} else {
		err = s.store.Save(ctx, localstore.AuthKey, storedPrincipal{
			ID:    p.ID,
			Email: p.Email,
			Name:  p.Name,
			Role:  string(p.Role),
		})
	}
	if err != nil {
		s.log.Error().Err(err).Msg("persist principal failed")
	}
}

func samePrincipal(a, b *domain.Principal) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}
