// Package memory implements the repositories in memory for development and
// testing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"inkwell/internal/domain"
)

// DB implements in-memory storage for users and posts.
type DB struct {
	mu    sync.Mutex
	users []*domain.User
	posts []*domain.Post

	userIDCounter int64
	postIDCounter int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.PostRepository = (*PostRepo)(nil)

// --- UserRepository ---

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

// Create creates a new user, enforcing username uniqueness.
func (db *DB) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return nil, domain.ErrDuplicateUsername
		}
	}

	db.userIDCounter++
	u := &domain.User{
		ID:           db.userIDCounter,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	return u, nil
}

// --- PostRepository ---

// PostRepo implements post persistence.
type PostRepo struct {
	db *DB
}

// NewPostRepo creates a new post repository.
func (db *DB) NewPostRepo() *PostRepo {
	return &PostRepo{db: db}
}

// Create stores a post for the given author.
func (r *PostRepo) Create(ctx context.Context, authorID int64, title, summary, content, cover string) (*domain.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	author := ""
	for _, u := range r.db.users {
		if u.ID == authorID {
			author = u.Username
		}
	}
	if author == "" {
		return nil, domain.ErrNotFound
	}

	r.db.postIDCounter++
	p := &domain.Post{
		ID:         r.db.postIDCounter,
		Title:      title,
		Summary:    summary,
		Content:    content,
		Cover:      cover,
		AuthorID:   authorID,
		AuthorName: author,
		CreatedAt:  time.Now().UTC(),
	}
	r.db.posts = append(r.db.posts, p)

	cp := *p
	return &cp, nil
}

// GetByID retrieves a post by ID.
func (r *PostRepo) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, p := range r.db.posts {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListRecent lists posts newest first, up to limit.
func (r *PostRepo) ListRecent(ctx context.Context, limit int) ([]domain.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	result := make([]domain.Post, 0, len(r.db.posts))
	for _, p := range r.db.posts {
		result = append(result, *p)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// UpdateOwned applies upd only when authorID owns the post. The whole
// check-and-write runs under the lock, matching the atomicity of the
// postgres conditional update.
func (r *PostRepo) UpdateOwned(ctx context.Context, id, authorID int64, upd domain.PostUpdate) (*domain.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, p := range r.db.posts {
		if p.ID != id {
			continue
		}
		if p.AuthorID != authorID {
			return nil, domain.ErrNotAuthor
		}
		p.Title = upd.Title
		p.Summary = upd.Summary
		p.Content = upd.Content
		if upd.Cover != "" {
			p.Cover = upd.Cover
		}
		cp := *p
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}
