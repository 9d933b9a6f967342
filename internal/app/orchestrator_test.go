package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xRiceFarmer/bloglist-client/internal/domain"
	"github.com/xRiceFarmer/bloglist-client/internal/errors"
)

type mockSessions struct {
	restoreOK bool
	loginErr  error
	session   domain.Session
	loggedIn  bool
	logouts   int
}

func (m *mockSessions) Restore() bool {
	m.loggedIn = m.restoreOK
	return m.restoreOK
}

func (m *mockSessions) Login(_ context.Context, _, _ string) (domain.Session, error) {
	if m.loginErr != nil {
		return domain.Session{}, m.loginErr
	}
	m.loggedIn = true
	return m.session, nil
}

func (m *mockSessions) Logout() error {
	m.loggedIn = false
	m.logouts++
	return nil
}

func (m *mockSessions) Current() (domain.Session, bool) {
	if !m.loggedIn {
		return domain.Session{}, false
	}
	return m.session, true
}

type mockStore struct {
	fetchErrs   []error
	fetches     int
	blogs       []domain.Blog
	creates     int
	likes       []string
	removes     []string
	comments    []string
	invalidates int
	closed      bool
}

func (m *mockStore) FetchAll(_ context.Context) error {
	m.fetches++
	if len(m.fetchErrs) > 0 {
		err := m.fetchErrs[0]
		m.fetchErrs = m.fetchErrs[1:]
		return err
	}
	return nil
}

func (m *mockStore) Blogs() []domain.Blog { return m.blogs }

func (m *mockStore) Create(_ context.Context, _ domain.NewBlog) error {
	m.creates++
	return nil
}

func (m *mockStore) Like(_ context.Context, id string) error {
	m.likes = append(m.likes, id)
	return nil
}

func (m *mockStore) Remove(_ context.Context, id string) error {
	m.removes = append(m.removes, id)
	return nil
}

func (m *mockStore) AddComment(_ context.Context, id, text string) error {
	m.comments = append(m.comments, id+":"+text)
	return nil
}

func (m *mockStore) Owned(blog domain.Blog) bool { return blog.User.Username == "root" }
func (m *mockStore) Invalidate()                 { m.invalidates++ }
func (m *mockStore) Close()                      { m.closed = true }

type mockNotifier struct {
	notes   []string
	kinds   []domain.Kind
	current *domain.Notification
	clears  int
	closed  bool
}

func (m *mockNotifier) Notify(text string, kind domain.Kind) {
	m.notes = append(m.notes, text)
	m.kinds = append(m.kinds, kind)
	m.current = &domain.Notification{Text: text, Kind: kind}
}

func (m *mockNotifier) Current() (domain.Notification, bool) {
	if m.current == nil {
		return domain.Notification{}, false
	}
	return *m.current, true
}

func (m *mockNotifier) Clear() { m.clears++; m.current = nil }
func (m *mockNotifier) Close() { m.closed = true }

func newOrchestrator(sessions *mockSessions, store *mockStore) (*Orchestrator, *mockNotifier) {
	notifier := &mockNotifier{}
	return NewOrchestrator(sessions, store, notifier), notifier
}

func TestInitialStateIsRestoring(t *testing.T) {
	o, _ := newOrchestrator(&mockSessions{}, &mockStore{})
	assert.Equal(t, StateRestoring, o.State())
}

func TestStartWithoutPersistedSession(t *testing.T) {
	store := &mockStore{}
	o, _ := newOrchestrator(&mockSessions{restoreOK: false}, store)

	o.Start(context.Background())

	assert.Equal(t, StateLoggedOut, o.State())
	assert.Zero(t, store.fetches, "no fetch before authentication")
}

func TestStartWithPersistedSession(t *testing.T) {
	store := &mockStore{}
	o, _ := newOrchestrator(&mockSessions{restoreOK: true, session: domain.Session{Username: "root"}}, store)

	o.Start(context.Background())

	assert.Equal(t, StateReady, o.State())
	assert.Equal(t, 1, store.fetches)
}

func TestStartWithFailingFetch(t *testing.T) {
	store := &mockStore{fetchErrs: []error{errors.NetworkError("down", nil)}}
	o, notifier := newOrchestrator(&mockSessions{restoreOK: true}, store)

	o.Start(context.Background())

	assert.Equal(t, StateFetchFailed, o.State())
	assert.Empty(t, notifier.notes, "fetch failure is a state, not a notification")
}

func TestLoginSuccessLoadsList(t *testing.T) {
	store := &mockStore{}
	sessions := &mockSessions{session: domain.Session{Username: "root", Name: "Superuser"}}
	o, _ := newOrchestrator(sessions, store)
	o.Start(context.Background())

	err := o.Login(context.Background(), "root", "secret")

	require.NoError(t, err)
	assert.Equal(t, StateReady, o.State())
	assert.Equal(t, 1, store.fetches)
}

func TestLoginFailureNotifiesOnceWithFixedText(t *testing.T) {
	sessions := &mockSessions{loginErr: errors.AuthError("invalid username or password")}
	o, notifier := newOrchestrator(sessions, &mockStore{})
	o.Start(context.Background())

	err := o.Login(context.Background(), "root", "wrong")

	require.Error(t, err)
	assert.Equal(t, StateLoggedOut, o.State())
	require.Len(t, notifier.notes, 1)
	assert.Equal(t, "Wrong username or password", notifier.notes[0])
	assert.Equal(t, domain.KindError, notifier.kinds[0])

	_, authenticated := sessions.Current()
	assert.False(t, authenticated)
}

func TestRetryAfterFetchFailure(t *testing.T) {
	store := &mockStore{fetchErrs: []error{errors.NetworkError("down", nil)}}
	o, _ := newOrchestrator(&mockSessions{restoreOK: true}, store)
	o.Start(context.Background())
	require.Equal(t, StateFetchFailed, o.State())

	o.Retry(context.Background())

	assert.Equal(t, StateReady, o.State())
	assert.Equal(t, 2, store.fetches)
}

func TestRetryIgnoredOutsideFetchFailed(t *testing.T) {
	store := &mockStore{}
	o, _ := newOrchestrator(&mockSessions{restoreOK: true}, store)
	o.Start(context.Background())
	require.Equal(t, StateReady, o.State())

	o.Retry(context.Background())

	assert.Equal(t, 1, store.fetches)
}

func TestLogoutReturnsToLoggedOut(t *testing.T) {
	store := &mockStore{}
	sessions := &mockSessions{restoreOK: true, session: domain.Session{Username: "root"}}
	o, notifier := newOrchestrator(sessions, store)
	o.Start(context.Background())

	o.Logout(context.Background())

	assert.Equal(t, StateLoggedOut, o.State())
	assert.Equal(t, 1, sessions.logouts)
	assert.Equal(t, 1, store.invalidates)
	assert.Equal(t, 1, notifier.clears)
}

func TestMutationsOnlyRunWhenReady(t *testing.T) {
	store := &mockStore{}
	o, _ := newOrchestrator(&mockSessions{}, store)
	o.Start(context.Background()) // logged out

	require.NoError(t, o.CreateBlog(context.Background(), domain.NewBlog{Title: "T"}))
	require.NoError(t, o.LikeBlog(context.Background(), "1"))
	require.NoError(t, o.RemoveBlog(context.Background(), "1"))
	require.NoError(t, o.CommentBlog(context.Background(), "1", "hi"))

	assert.Zero(t, store.creates)
	assert.Empty(t, store.likes)
	assert.Empty(t, store.removes)
	assert.Empty(t, store.comments)
}

func TestMutationsDelegateWhenReady(t *testing.T) {
	store := &mockStore{}
	o, _ := newOrchestrator(&mockSessions{restoreOK: true}, store)
	o.Start(context.Background())
	require.Equal(t, StateReady, o.State())

	require.NoError(t, o.CreateBlog(context.Background(), domain.NewBlog{Title: "T"}))
	require.NoError(t, o.LikeBlog(context.Background(), "b1"))
	require.NoError(t, o.CommentBlog(context.Background(), "b1", "hi"))

	assert.Equal(t, 1, store.creates)
	assert.Equal(t, []string{"b1"}, store.likes)
	assert.Equal(t, []string{"b1:hi"}, store.comments)
	assert.Equal(t, StateReady, o.State(), "mutations never change the top-level state")
}

func TestViewSnapshot(t *testing.T) {
	store := &mockStore{blogs: []domain.Blog{{ID: "b1", Title: "Go"}}}
	sessions := &mockSessions{restoreOK: true, session: domain.Session{Username: "root", Name: "Superuser"}}
	o, notifier := newOrchestrator(sessions, store)
	o.Start(context.Background())
	notifier.Notify("hello", domain.KindSuccess)

	v := o.View()

	assert.Equal(t, StateReady, v.State)
	assert.True(t, v.Authenticated)
	assert.Equal(t, "Superuser", v.Session.Name)
	require.Len(t, v.Blogs, 1)
	assert.True(t, v.HasNotification)
	assert.Equal(t, "hello", v.Notification.Text)
}

func TestViewHidesBlogsOutsideReady(t *testing.T) {
	store := &mockStore{blogs: []domain.Blog{{ID: "b1"}}}
	o, _ := newOrchestrator(&mockSessions{}, store)
	o.Start(context.Background())

	v := o.View()

	assert.Equal(t, StateLoggedOut, v.State)
	assert.Empty(t, v.Blogs)
}

func TestCloseTearsDownCollaborators(t *testing.T) {
	store := &mockStore{}
	o, notifier := newOrchestrator(&mockSessions{}, store)

	o.Close()

	assert.True(t, store.closed)
	assert.True(t, notifier.closed)
}
