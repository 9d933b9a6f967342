package domain

import "context"

// Blog is a server-owned entry in the shared bloglist. Identity is ID,
// assigned by the server on creation; the client never invents IDs.
type Blog struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	URL      string   `json:"url"`
	Likes    int      `json:"likes"`
	User     Owner    `json:"user"`
	Comments []string `json:"comments"`
}

// Owner identifies the user who created a blog. Username is the stable
// identifier; Name is display-only and must not be used for ownership checks.
type Owner struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// NewBlog is the client-supplied part of a blog. The server fills in ID,
// owner attribution, initial likes and the empty comment list.
type NewBlog struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
}

// BlogService is the remote bloglist API consumed by the state layer.
// Implementations attach the token set via SetToken to every call.
type BlogService interface {
	Authenticate(ctx context.Context, username, password string) (Session, error)
	List(ctx context.Context) ([]Blog, error)
	Create(ctx context.Context, blog NewBlog) (Blog, error)
	Update(ctx context.Context, id string, blog Blog) (Blog, error)
	Delete(ctx context.Context, id string) error
	AddComment(ctx context.Context, id, text string) (Blog, error)
	SetToken(token string)
}

// Confirmer asks the user a yes/no question before a destructive operation.
// Substituted with a deterministic stub in tests.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}
