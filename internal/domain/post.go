package domain

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates that the requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrNotAuthor indicates that the requester does not own the post it is
// trying to change.
var ErrNotAuthor = errors.New("requester is not the post author")

// Post is a published article. AuthorID is set at creation and never changes.
// AuthorName is a read-side join of the author's username; it is never
// written back.
type Post struct {
	ID         int64
	Title      string
	Summary    string
	Content    string
	Cover      string
	AuthorID   int64
	AuthorName string
	CreatedAt  time.Time
}

// PostUpdate carries the mutable fields of a post. An empty Cover means the
// stored cover is kept as-is.
type PostUpdate struct {
	Title   string
	Summary string
	Content string
	Cover   string
}

// PostRepository defines the port for post persistence operations.
type PostRepository interface {
	Create(ctx context.Context, authorID int64, title, summary, content, cover string) (*Post, error)
	// GetByID returns the post joined with its author's username, or
	// ErrNotFound.
	GetByID(ctx context.Context, id int64) (*Post, error)
	// ListRecent returns up to limit posts, newest first, each joined with
	// its author's username.
	ListRecent(ctx context.Context, limit int) ([]Post, error)
	// UpdateOwned applies upd to the post only if authorID matches the stored
	// author. The ownership condition and the write are a single atomic
	// operation. Returns ErrNotFound for an unknown id and ErrNotAuthor when
	// the post exists but belongs to someone else.
	UpdateOwned(ctx context.Context, id, authorID int64, upd PostUpdate) (*Post, error)
}
