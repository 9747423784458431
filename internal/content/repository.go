package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrPostNotFound = errors.New("post not found")

// Post is a published blog entry served to the storefront.
type Post struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Body        string    `json:"body"`
	CoverImage  string    `json:"coverImage,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
}

// RepoInterface is what the HTTP layer depends on.
type RepoInterface interface {
	ListPublished(ctx context.Context) ([]*Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	Subscribe(ctx context.Context, email string) error
	Unsubscribe(ctx context.Context, email string) error
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListPublished(ctx context.Context) ([]*Post, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, slug, title, excerpt, body, cover_image, published_at
		FROM blog_posts
		WHERE published_at IS NOT NULL AND published_at <= now()
		ORDER BY published_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []*Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}
	return posts, nil
}

func (r *Repository) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, slug, title, excerpt, body, cover_image, published_at
		FROM blog_posts
		WHERE slug = $1 AND published_at IS NOT NULL AND published_at <= now()`, slug)

	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

// Subscribe adds an email to the newsletter list. Already-subscribed emails
// are accepted silently.
func (r *Repository) Subscribe(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO newsletter_subscribers (id, email, subscribed_at)
		VALUES ($1, $2, now())
		ON CONFLICT (email) DO NOTHING`, uuid.New(), email)
	if err != nil {
		return fmt.Errorf("failed to subscribe %s: %w", email, err)
	}
	return nil
}

func (r *Repository) Unsubscribe(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM newsletter_subscribers WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("failed to unsubscribe %s: %w", email, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*Post, error) {
	var post Post
	var cover sql.NullString
	if err := row.Scan(&post.ID, &post.Slug, &post.Title, &post.Excerpt, &post.Body, &cover, &post.PublishedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan post: %w", err)
	}
	post.CoverImage = cover.String
	return &post, nil
}
