// Package session owns the authenticated session: login, restore from the
// persisted record, and logout. The manager is the sole mutator of the
// session; everyone else reads snapshots through Current.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/xRiceFarmer/bloglist-client/internal/domain"
)

type Manager struct {
	svc   domain.BlogService
	store domain.CredentialStore

	mu      sync.RWMutex
	current *domain.Session
}

func NewManager(svc domain.BlogService, store domain.CredentialStore) *Manager {
	return &Manager{svc: svc, store: store}
}

// Restore installs the persisted session from a previous run, if any.
// A missing or malformed record leaves the manager unauthenticated and is
// never surfaced to the caller; malformed records are dropped so the next
// startup does not trip over them again.
func (m *Manager) Restore() bool {
	session, ok, err := m.store.Load()
	if err != nil {
		slog.Warn("Discarding unusable persisted session", "error", err)
		if clearErr := m.store.Clear(); clearErr != nil {
			slog.Warn("Failed to remove unusable persisted session", "error", clearErr)
		}
		return false
	}
	if !ok {
		return false
	}

	m.install(session)
	slog.Debug("Restored persisted session", "username", session.Username)
	return true
}

// Login authenticates against the remote service. On success the session is
// persisted and the service token configured; a persist failure is logged
// but does not invalidate the in-memory session. On failure the error is
// returned untouched and nothing changes.
func (m *Manager) Login(ctx context.Context, username, password string) (domain.Session, error) {
	session, err := m.svc.Authenticate(ctx, username, password)
	if err != nil {
		return domain.Session{}, err
	}

	if err := m.store.Save(session); err != nil {
		slog.Warn("Failed to persist session", "username", session.Username, "error", err)
	}

	m.install(session)
	slog.Info("Logged in", "username", session.Username)
	return session, nil
}

// Logout drops the in-memory session, removes the persisted record, and
// stops attaching a token to outgoing calls.
func (m *Manager) Logout() error {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	m.svc.SetToken("")

	if err := m.store.Clear(); err != nil {
		return err
	}
	slog.Info("Logged out")
	return nil
}

// Current returns a snapshot of the active session.
func (m *Manager) Current() (domain.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return domain.Session{}, false
	}
	return *m.current, true
}

func (m *Manager) install(session domain.Session) {
	m.mu.Lock()
	m.current = &session
	m.mu.Unlock()

	// Token configured after the session is swapped in, so outgoing calls
	// never carry a token newer than the visible session.
	m.svc.SetToken(session.Token)
}
