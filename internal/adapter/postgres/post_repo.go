package postgres

import (
	"context"
	"database/sql"
	"time"

	"inkwell/internal/domain"
)

// PostRepo implements post repository operations on DB.
type PostRepo struct {
	db *DB
}

// NewPostRepo wraps a DB as a PostRepository.
func NewPostRepo(db *DB) *PostRepo {
	return &PostRepo{db: db}
}

// Create inserts a post for the given author. The author_id foreign key
// guarantees the author exists at creation time.
func (r *PostRepo) Create(ctx context.Context, authorID int64, title, summary, content, cover string) (*domain.Post, error) {
	var p domain.Post
	err := r.db.sql.QueryRowContext(ctx,
		`INSERT INTO posts (title, summary, content, cover, author_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, title, summary, content, cover, author_id, created_at,
		   (SELECT username FROM users WHERE id = $5)`,
		title, summary, content, cover, authorID, time.Now(),
	).Scan(&p.ID, &p.Title, &p.Summary, &p.Content, &p.Cover, &p.AuthorID, &p.CreatedAt, &p.AuthorName)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID retrieves one post joined with its author's username.
func (r *PostRepo) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	var p domain.Post
	err := r.db.sql.QueryRowContext(ctx,
		`SELECT p.id, p.title, p.summary, p.content, p.cover, p.author_id, p.created_at, u.username
		 FROM posts p JOIN users u ON u.id = p.author_id
		 WHERE p.id = $1`,
		id,
	).Scan(&p.ID, &p.Title, &p.Summary, &p.Content, &p.Cover, &p.AuthorID, &p.CreatedAt, &p.AuthorName)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListRecent lists the newest posts first, up to limit.
func (r *PostRepo) ListRecent(ctx context.Context, limit int) ([]domain.Post, error) {
	rows, err := r.db.sql.QueryContext(ctx,
		`SELECT p.id, p.title, p.summary, p.content, p.cover, p.author_id, p.created_at, u.username
		 FROM posts p JOIN users u ON u.id = p.author_id
		 ORDER BY p.created_at DESC, p.id DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Post, 0, limit)
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Summary, &p.Content, &p.Cover, &p.AuthorID, &p.CreatedAt, &p.AuthorName); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdateOwned updates a post only when authorID matches the stored author.
// The ownership condition sits in the WHERE clause so the check and the
// write are one atomic statement; concurrent updates cannot interleave a
// stale ownership check with the mutation. An empty cover keeps the stored
// one.
func (r *PostRepo) UpdateOwned(ctx context.Context, id, authorID int64, upd domain.PostUpdate) (*domain.Post, error) {
	var p domain.Post
	err := r.db.sql.QueryRowContext(ctx,
		`UPDATE posts
		 SET title = $3, summary = $4, content = $5,
		     cover = CASE WHEN $6 = '' THEN cover ELSE $6 END
		 WHERE id = $1 AND author_id = $2
		 RETURNING id, title, summary, content, cover, author_id, created_at,
		   (SELECT username FROM users WHERE id = author_id)`,
		id, authorID, upd.Title, upd.Summary, upd.Content, upd.Cover,
	).Scan(&p.ID, &p.Title, &p.Summary, &p.Content, &p.Cover, &p.AuthorID, &p.CreatedAt, &p.AuthorName)
	if err == sql.ErrNoRows {
		// Zero rows means either an unknown post or someone else's post.
		var owner int64
		err := r.db.sql.QueryRowContext(ctx, "SELECT author_id FROM posts WHERE id = $1", id).Scan(&owner)
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		return nil, domain.ErrNotAuthor
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
