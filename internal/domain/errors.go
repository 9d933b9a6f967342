package domain

import "errors"

var (
	ErrBlogNotFound = errors.New("blog not found")
	ErrNoSession    = errors.New("no active session")
)
