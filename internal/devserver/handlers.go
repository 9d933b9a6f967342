package devserver

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/xRiceFarmer/bloglist-client/internal/domain"
)

func errorJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"error": message})
}

func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return errorJSON(c, http.StatusUnauthorized, "token missing or invalid")
		}

		s.mu.Lock()
		u, found := s.tokens[token]
		s.mu.Unlock()
		if !found {
			return errorJSON(c, http.StatusUnauthorized, "token missing or invalid")
		}

		c.Set("user", u)
		return next(c)
	}
}

func (s *Server) handleLogin(c echo.Context) error {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&creds); err != nil {
		return errorJSON(c, http.StatusBadRequest, "malformed login request")
	}

	s.mu.Lock()
	u, ok := s.users[creds.Username]
	s.mu.Unlock()
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "invalid username or password")
	}
	if err := bcrypt.CompareHashAndPassword(u.passwordHash, []byte(creds.Password)); err != nil {
		return errorJSON(c, http.StatusUnauthorized, "invalid username or password")
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = u
	s.mu.Unlock()

	return c.JSON(http.StatusOK, domain.Session{
		Username: u.username,
		Name:     u.name,
		Token:    token,
	})
}

func (s *Server) handleList(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Blog, len(s.blogs))
	copy(out, s.blogs)
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleCreate(c echo.Context) error {
	var blog domain.NewBlog
	if err := c.Bind(&blog); err != nil {
		return errorJSON(c, http.StatusBadRequest, "malformed blog")
	}
	if blog.Title == "" {
		return errorJSON(c, http.StatusBadRequest, "title is required")
	}
	if blog.URL == "" {
		return errorJSON(c, http.StatusBadRequest, "url is required")
	}

	u := c.Get("user").(*user)
	created := domain.Blog{
		ID:       uuid.NewString(),
		Title:    blog.Title,
		Author:   blog.Author,
		URL:      blog.URL,
		Likes:    0,
		User:     domain.Owner{ID: u.id, Username: u.username, Name: u.name},
		Comments: []string{},
	}

	s.mu.Lock()
	s.blogs = append(s.blogs, created)
	s.mu.Unlock()

	return c.JSON(http.StatusCreated, created)
}

func (s *Server) handleUpdate(c echo.Context) error {
	var blog domain.Blog
	if err := c.Bind(&blog); err != nil {
		return errorJSON(c, http.StatusBadRequest, "malformed blog")
	}

	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.blogs {
		if s.blogs[i].ID == id {
			// Only likes are client-mutable; attribution and comments
			// stay server-owned.
			s.blogs[i].Likes = blog.Likes
			return c.JSON(http.StatusOK, s.blogs[i])
		}
	}
	return errorJSON(c, http.StatusNotFound, "blog not found")
}

func (s *Server) handleDelete(c echo.Context) error {
	u := c.Get("user").(*user)

	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.blogs {
		if s.blogs[i].ID != id {
			continue
		}
		if s.blogs[i].User.Username != u.username {
			return errorJSON(c, http.StatusUnauthorized, "only the creator can delete a blog")
		}
		s.blogs = append(s.blogs[:i], s.blogs[i+1:]...)
		return c.NoContent(http.StatusNoContent)
	}
	return errorJSON(c, http.StatusNotFound, "blog not found")
}

func (s *Server) handleAddComment(c echo.Context) error {
	var payload struct {
		Comment string `json:"comment"`
	}
	if err := c.Bind(&payload); err != nil {
		return errorJSON(c, http.StatusBadRequest, "malformed comment")
	}
	if payload.Comment == "" {
		return errorJSON(c, http.StatusBadRequest, "comment is required")
	}

	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.blogs {
		if s.blogs[i].ID == id {
			s.blogs[i].Comments = append(s.blogs[i].Comments, payload.Comment)
			return c.JSON(http.StatusOK, s.blogs[i])
		}
	}
	return errorJSON(c, http.StatusNotFound, "blog not found")
}
