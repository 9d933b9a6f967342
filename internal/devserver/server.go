// Package devserver is an in-memory bloglist backend speaking the same REST
// surface the client consumes. It backs demo mode and in-process
// integration tests; nothing here survives a restart.
package devserver

import (
	"net"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/xRiceFarmer/bloglist-client/internal/domain"
)

type user struct {
	id           string
	username     string
	name         string
	passwordHash []byte
}

// Server holds the in-memory state behind an echo router.
type Server struct {
	echo *echo.Echo

	mu     sync.Mutex
	users  map[string]*user // by username
	tokens map[string]*user // by bearer token
	blogs  []domain.Blog    // insertion order, which is what List returns
}

func New() *Server {
	s := &Server{
		users:  make(map[string]*user),
		tokens: make(map[string]*user),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	e.POST("/api/login", s.handleLogin)
	e.GET("/api/blogs", s.handleList)
	e.POST("/api/blogs", s.handleCreate, s.requireAuth)
	e.PUT("/api/blogs/:id", s.handleUpdate, s.requireAuth)
	e.DELETE("/api/blogs/:id", s.handleDelete, s.requireAuth)
	e.POST("/api/blogs/:id/comments", s.handleAddComment, s.requireAuth)

	s.echo = e
	return s
}

// AddUser registers an account with a bcrypt-hashed password.
func (s *Server) AddUser(username, password, name string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = &user{
		id:           uuid.NewString(),
		username:     username,
		name:         name,
		passwordHash: hash,
	}
	return nil
}

// SeedBlog inserts a blog owned by the given user, for demo data.
func (s *Server) SeedBlog(username, title, author, url string, likes int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner := domain.Owner{Username: username}
	if u, ok := s.users[username]; ok {
		owner = domain.Owner{ID: u.id, Username: u.username, Name: u.name}
	}
	s.blogs = append(s.blogs, domain.Blog{
		ID:       uuid.NewString(),
		Title:    title,
		Author:   author,
		URL:      url,
		Likes:    likes,
		User:     owner,
		Comments: []string{},
	})
}

// Handler exposes the router for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Serve accepts connections on l, blocking until shutdown. Binding the
// listener first lets callers hand out the address before the server runs.
func (s *Server) Serve(l net.Listener) error {
	s.echo.Listener = l
	return s.echo.Start(l.Addr().String())
}

// Close stops the server immediately.
func (s *Server) Close() error {
	return s.echo.Close()
}
