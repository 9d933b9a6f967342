// Package app composes the session manager, notification center and blog
// store into the state machine driving the UI.
package app

import (
	"context"
	"log/slog"
	"sync"

	"github.com/xRiceFarmer/bloglist-client/internal/domain"
	"github.com/xRiceFarmer/bloglist-client/internal/platform/correlation"
)

// wrongCredentialsText is the fixed message shown for any login failure;
// the server's own wording is deliberately not forwarded here.
const wrongCredentialsText = "Wrong username or password"

// State is the top-level view state.
type State int

const (
	// StateRestoring: startup, persisted session restore in flight.
	StateRestoring State = iota
	// StateLoggedOut: unauthenticated, login is offered.
	StateLoggedOut
	// StateLoading: authenticated, initial blog fetch in flight.
	StateLoading
	// StateReady: authenticated with a populated list; steady operation.
	StateReady
	// StateFetchFailed: authenticated but the gating fetch failed.
	StateFetchFailed
)

func (s State) String() string {
	switch s {
	case StateRestoring:
		return "restoring"
	case StateLoggedOut:
		return "logged_out"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFetchFailed:
		return "fetch_failed"
	default:
		return "unknown"
	}
}

// SessionManager is the slice of the session layer the orchestrator needs.
type SessionManager interface {
	Restore() bool
	Login(ctx context.Context, username, password string) (domain.Session, error)
	Logout() error
	Current() (domain.Session, bool)
}

// CollectionStore is the slice of the blog store the orchestrator needs.
type CollectionStore interface {
	FetchAll(ctx context.Context) error
	Blogs() []domain.Blog
	Create(ctx context.Context, blog domain.NewBlog) error
	Like(ctx context.Context, id string) error
	Remove(ctx context.Context, id string) error
	AddComment(ctx context.Context, id, text string) error
	Owned(blog domain.Blog) bool
	Invalidate()
	Close()
}

// Notifier is the slice of the notification center the orchestrator needs.
type Notifier interface {
	Notify(text string, kind domain.Kind)
	Current() (domain.Notification, bool)
	Clear()
	Close()
}

// View is the render-ready snapshot consumed by the UI layer.
type View struct {
	State           State
	Session         domain.Session
	Authenticated   bool
	Blogs           []domain.Blog
	Notification    domain.Notification
	HasNotification bool
}

// Orchestrator drives the session/loading/ready state machine. It is the
// only component depending on all three collaborators; no failure in any
// operation escalates beyond a notification or a no-op.
type Orchestrator struct {
	sessions SessionManager
	blogs    CollectionStore
	notifier Notifier

	mu    sync.RWMutex
	state State
}

func NewOrchestrator(sessions SessionManager, blogs CollectionStore, notifier Notifier) *Orchestrator {
	return &Orchestrator{
		sessions: sessions,
		blogs:    blogs,
		notifier: notifier,
		state:    StateRestoring,
	}
}

// Start restores a persisted session if present, then loads the list.
func (o *Orchestrator) Start(ctx context.Context) {
	ctx = correlation.WithID(ctx, correlation.NewID())

	if !o.sessions.Restore() {
		o.setState(StateLoggedOut)
		return
	}
	o.load(ctx)
}

// Login authenticates and, on success, transitions into loading the list.
// Any failure keeps the logged-out state and issues exactly one error
// notification with the fixed text.
func (o *Orchestrator) Login(ctx context.Context, username, password string) error {
	ctx = correlation.WithID(ctx, correlation.NewID())

	_, err := o.sessions.Login(ctx, username, password)
	if err != nil {
		slog.WarnContext(ctx, "Login failed", "username", username, "error", err)
		o.notifier.Notify(wrongCredentialsText, domain.KindError)
		o.setState(StateLoggedOut)
		return err
	}

	o.load(ctx)
	return nil
}

// Logout drops the session and returns to the login screen.
func (o *Orchestrator) Logout(ctx context.Context) {
	ctx = correlation.WithID(ctx, correlation.NewID())

	if err := o.sessions.Logout(); err != nil {
		slog.WarnContext(ctx, "Logout cleanup failed", "error", err)
	}
	o.blogs.Invalidate()
	o.notifier.Clear()
	o.setState(StateLoggedOut)
}

// Retry re-attempts the gating fetch after a failure.
func (o *Orchestrator) Retry(ctx context.Context) {
	if o.State() != StateFetchFailed {
		return
	}
	o.load(correlation.WithID(ctx, correlation.NewID()))
}

// CreateBlog submits a new entry. Operates within Ready; the top-level
// state never changes, failures surface as notifications.
func (o *Orchestrator) CreateBlog(ctx context.Context, blog domain.NewBlog) error {
	if o.State() != StateReady {
		return nil
	}
	return o.blogs.Create(correlation.WithID(ctx, correlation.NewID()), blog)
}

// LikeBlog increments likes on an entry.
func (o *Orchestrator) LikeBlog(ctx context.Context, id string) error {
	if o.State() != StateReady {
		return nil
	}
	return o.blogs.Like(correlation.WithID(ctx, correlation.NewID()), id)
}

// RemoveBlog deletes an entry after confirmation.
func (o *Orchestrator) RemoveBlog(ctx context.Context, id string) error {
	if o.State() != StateReady {
		return nil
	}
	return o.blogs.Remove(correlation.WithID(ctx, correlation.NewID()), id)
}

// CommentBlog appends a comment to an entry. A nil return tells the caller
// to clear the draft text; on error the draft is kept for retry.
func (o *Orchestrator) CommentBlog(ctx context.Context, id, text string) error {
	if o.State() != StateReady {
		return nil
	}
	return o.blogs.AddComment(correlation.WithID(ctx, correlation.NewID()), id, text)
}

// Owned reports whether the current session may remove the given blog.
func (o *Orchestrator) Owned(blog domain.Blog) bool {
	return o.blogs.Owned(blog)
}

// View returns a render-ready snapshot of the whole state layer.
func (o *Orchestrator) View() View {
	v := View{State: o.State()}
	v.Session, v.Authenticated = o.sessions.Current()
	v.Notification, v.HasNotification = o.notifier.Current()
	if v.State == StateReady {
		v.Blogs = o.blogs.Blogs()
	}
	return v
}

// State returns the current top-level state.
func (o *Orchestrator) State() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// Close tears down the store and notification center; in-flight responses
// arriving afterwards are dropped rather than applied.
func (o *Orchestrator) Close() {
	o.blogs.Close()
	o.notifier.Close()
}

func (o *Orchestrator) load(ctx context.Context) {
	o.setState(StateLoading)

	if err := o.blogs.FetchAll(ctx); err != nil {
		slog.ErrorContext(ctx, "Initial blog fetch failed", "error", err)
		o.setState(StateFetchFailed)
		return
	}
	o.setState(StateReady)
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	prev := o.state
	o.state = s
	o.mu.Unlock()

	if prev != s {
		slog.Debug("State transition", "from", prev.String(), "to", s.String())
	}
}
