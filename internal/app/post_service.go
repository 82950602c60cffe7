package app

import (
	"context"

	"inkwell/internal/domain"
)

// listCap bounds how many posts a single listing returns.
const listCap = 20

// PostService encapsulates post use cases.
type PostService struct {
	posts domain.PostRepository
}

// NewPostService creates a PostService backed by the given repository.
func NewPostService(posts domain.PostRepository) *PostService {
	return &PostService{posts: posts}
}

// Create validates and stores a new post for the given author.
func (s *PostService) Create(ctx context.Context, authorID int64, title, summary, content, cover string) (*domain.Post, error) {
	if title == "" || summary == "" || content == "" {
		return nil, ErrValidation
	}
	return s.posts.Create(ctx, authorID, title, summary, content, cover)
}

// List returns the newest posts, newest first, capped at listCap.
func (s *PostService) List(ctx context.Context) ([]domain.Post, error) {
	return s.posts.ListRecent(ctx, listCap)
}

// Get returns one post joined with its author's username.
func (s *PostService) Get(ctx context.Context, id int64) (*domain.Post, error) {
	return s.posts.GetByID(ctx, id)
}

// Update applies the given fields to a post owned by requesterID. An empty
// upd.Cover keeps the stored cover. The ownership check and the write happen
// as one atomic operation in the repository.
func (s *PostService) Update(ctx context.Context, id, requesterID int64, upd domain.PostUpdate) (*domain.Post, error) {
	if upd.Title == "" || upd.Summary == "" || upd.Content == "" {
		return nil, ErrValidation
	}
	return s.posts.UpdateOwned(ctx, id, requesterID, upd)
}
