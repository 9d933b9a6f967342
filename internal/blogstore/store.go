// Package blogstore owns the locally cached blog collection and every
// mutation flow against the remote service.
//
// The store is deliberately pessimistic: after any successful mutation it
// invalidates the whole cache and refetches from the server instead of
// merging the mutation's own response. Server-computed fields (owner
// attribution, like counts, comment ordering) stay authoritative and
// concurrent mutations by other users cannot leave divergent partial state.
package blogstore

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/xRiceFarmer/bloglist-client/internal/domain"
	"github.com/xRiceFarmer/bloglist-client/internal/errors"
)

// SessionSource provides read-only access to the active session. The store
// uses it for ownership checks only; it never mutates the session.
type SessionSource interface {
	Current() (domain.Session, bool)
}

// Notifier surfaces transient user-facing messages.
type Notifier interface {
	Notify(text string, kind domain.Kind)
}

// Store keeps the blog collection keyed by id plus an ordered view sorted by
// likes descending (stable, so equal-like entries keep server order). The
// view is recomputed on every commit; callers never observe stale ordering.
type Store struct {
	svc      domain.BlogService
	sessions SessionSource
	notifier Notifier
	confirm  domain.Confirmer

	refetch singleflight.Group
	// syncGen counts committed mutations. Every refetch records the value it
	// started under, so a snapshot predating a mutation can be recognized
	// and discarded instead of committed.
	syncGen atomic.Uint64

	mu          sync.RWMutex
	appliedGen  uint64
	byID        map[string]domain.Blog
	serverOrder []string
	view        []domain.Blog
	closed      bool
}

func NewStore(svc domain.BlogService, sessions SessionSource, notifier Notifier, confirm domain.Confirmer) *Store {
	return &Store{
		svc:      svc,
		sessions: sessions,
		notifier: notifier,
		confirm:  confirm,
		byID:     make(map[string]domain.Blog),
	}
}

// FetchAll populates the collection from the server. Failure here gates the
// whole list view, so it is returned to the caller instead of notified.
func (s *Store) FetchAll(ctx context.Context) error {
	gen := s.syncGen.Load()
	blogs, err := s.svc.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch blog list: %w", err)
	}
	s.commit(blogs, gen)
	return nil
}

// Blogs returns the ordered view: likes descending, ties in server order.
func (s *Store) Blogs() []domain.Blog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Blog, len(s.view))
	copy(out, s.view)
	return out
}

// Get looks up a single blog by id.
func (s *Store) Get(id string) (domain.Blog, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blog, ok := s.byID[id]
	return blog, ok
}

// Len reports the number of cached blogs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Create submits a new blog. On success the collection is resynced and a
// success notification issued; on failure nothing changes locally and the
// failure detail is surfaced via notification.
func (s *Store) Create(ctx context.Context, blog domain.NewBlog) error {
	created, err := s.svc.Create(ctx, blog)
	if err != nil {
		s.notifier.Notify(errors.UserMessage(err), domain.KindError)
		return err
	}

	s.resync(ctx)
	s.notifier.Notify(fmt.Sprintf("a new blog %s by %s added", created.Title, created.Author), domain.KindSuccess)
	return nil
}

// Like increments the entry's like count by one and submits the full updated
// entry. A missing local entry means the view is stale; the operation is
// aborted with a log line and no notification. Remote failure is low
// severity: logged, not notified, no local change.
func (s *Store) Like(ctx context.Context, id string) error {
	blog, ok := s.Get(id)
	if !ok {
		slog.WarnContext(ctx, "Like aborted: blog not in local view", "blog_id", id)
		return domain.ErrBlogNotFound
	}

	blog.Likes++
	if _, err := s.svc.Update(ctx, id, blog); err != nil {
		slog.WarnContext(ctx, "Failed to update likes", "blog_id", id, "error", err)
		return err
	}

	s.resync(ctx)
	return nil
}

// Remove deletes an entry after user confirmation. Declining is a no-op.
// On remote failure the entry stays visible and an error notification
// carries the failure message.
func (s *Store) Remove(ctx context.Context, id string) error {
	blog, ok := s.Get(id)
	if !ok {
		slog.WarnContext(ctx, "Remove aborted: blog not in local view", "blog_id", id)
		return domain.ErrBlogNotFound
	}

	confirmed, err := s.confirm.Confirm(ctx, fmt.Sprintf("Remove blog %s by %s?", blog.Title, blog.Author))
	if err != nil {
		slog.WarnContext(ctx, "Confirmation prompt failed, treating as declined", "blog_id", id, "error", err)
		return nil
	}
	if !confirmed {
		return nil
	}

	if err := s.svc.Delete(ctx, id); err != nil {
		s.notifier.Notify(errors.UserMessage(err), domain.KindError)
		return err
	}

	s.resync(ctx)
	s.notifier.Notify(fmt.Sprintf("blog %s by %s removed", blog.Title, blog.Author), domain.KindSuccess)
	return nil
}

// AddComment appends a comment to the entry's server-ordered comment list.
// On failure an error notification is issued and the caller keeps the draft
// text for retry.
func (s *Store) AddComment(ctx context.Context, id, text string) error {
	if _, err := s.svc.AddComment(ctx, id, text); err != nil {
		s.notifier.Notify(errors.UserMessage(err), domain.KindError)
		return err
	}

	s.resync(ctx)
	return nil
}

// Owned reports whether the active session created the blog. Username is the
// canonical identifier; display names are neither unique nor stable.
func (s *Store) Owned(blog domain.Blog) bool {
	session, ok := s.sessions.Current()
	if !ok {
		return false
	}
	return blog.User.Username == session.Username
}

// Close stops the store from applying further refetch results. A response
// arriving after teardown is dropped, never applied.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// Invalidate drops the cached collection without contacting the server.
// The next FetchAll repopulates it.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.byID = make(map[string]domain.Blog)
	s.serverOrder = nil
	s.view = nil
}

type refetchResult struct {
	blogs []domain.Blog
	gen   uint64
}

// resync replaces the cache with a fresh full server read after a successful
// mutation. Concurrent resyncs collapse into one flight, but a joined flight
// may have started before this mutation committed server-side; such a result
// carries a pre-mutation snapshot and is fetched again rather than committed.
// A failed resync keeps the previous view and is log-only: the mutation
// itself already succeeded, and the next successful operation repairs the
// cache.
func (s *Store) resync(ctx context.Context) {
	need := s.syncGen.Add(1)
	for {
		v, err, _ := s.refetch.Do("refetch", func() (any, error) {
			gen := s.syncGen.Load()
			blogs, err := s.svc.List(ctx)
			if err != nil {
				return nil, err
			}
			return refetchResult{blogs: blogs, gen: gen}, nil
		})
		if err != nil {
			slog.WarnContext(ctx, "Resync after mutation failed, keeping previous view", "error", err)
			return
		}

		res := v.(refetchResult)
		if res.gen < need {
			continue
		}
		s.commit(res.blogs, res.gen)
		return
	}
}

func (s *Store) commit(blogs []domain.Blog, gen uint64) {
	byID := make(map[string]domain.Blog, len(blogs))
	order := make([]string, 0, len(blogs))
	for _, b := range blogs {
		if _, dup := byID[b.ID]; dup {
			slog.Warn("Server returned duplicate blog id, keeping first", "blog_id", b.ID)
			continue
		}
		byID[b.ID] = b
		order = append(order, b.ID)
	}

	view := make([]domain.Blog, len(order))
	for i, id := range order {
		view[i] = byID[id]
	}
	sort.SliceStable(view, func(i, j int) bool {
		return view[i].Likes > view[j].Likes
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen < s.appliedGen {
		return
	}
	s.appliedGen = gen
	s.byID = byID
	s.serverOrder = order
	s.view = view
}
