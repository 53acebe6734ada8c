package repository

import (
	"context"
	"fmt"

	"clinic-booking/internal/data/entity"
	"clinic-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	Update(ctx context.Context, post *entity.Post) error
	FindBySlug(ctx context.Context, slug string) (*entity.Post, error)
	FindPublished(ctx context.Context, limit, offset int) ([]*entity.Post, error)
	CountPublished(ctx context.Context) (int64, error)
}

type postRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPostRepository(db database.PgxIface, log *zap.Logger) PostRepository {
	return &postRepository{
		db:  db,
		log: log.With(zap.String("repository", "post")),
	}
}

const postColumns = `id, slug, title, body, author_id, published_at, created_at, updated_at`

func scanPost(row pgx.Row) (*entity.Post, error) {
	var post entity.Post
	err := row.Scan(
		&post.ID,
		&post.Slug,
		&post.Title,
		&post.Body,
		&post.AuthorID,
		&post.PublishedAt,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	query := `
		INSERT INTO posts (id, slug, title, body, author_id, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		post.ID,
		post.Slug,
		post.Title,
		post.Body,
		post.AuthorID,
		post.PublishedAt,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create post",
			zap.Error(err),
			zap.String("slug", post.Slug),
		)
		return fmt.Errorf("create post %s: %w", post.Slug, err)
	}

	return nil
}

func (r *postRepository) Update(ctx context.Context, post *entity.Post) error {
	query := `
		UPDATE posts
		SET slug = $2, title = $3, body = $4, published_at = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		post.ID,
		post.Slug,
		post.Title,
		post.Body,
		post.PublishedAt,
		post.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update post",
			zap.Error(err),
			zap.String("post_id", post.ID.String()),
		)
		return fmt.Errorf("update post %s: %w", post.ID.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("post %s not found", post.ID.String())
	}

	return nil
}

func (r *postRepository) FindBySlug(ctx context.Context, slug string) (*entity.Post, error) {
	post, err := scanPost(r.db.QueryRow(ctx,
		`SELECT `+postColumns+` FROM posts WHERE slug = $1`, slug))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find post by slug",
			zap.Error(err),
			zap.String("slug", slug),
		)
		return nil, fmt.Errorf("find post by slug %s: %w", slug, err)
	}
	return post, nil
}

func (r *postRepository) FindPublished(ctx context.Context, limit, offset int) ([]*entity.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE published_at IS NOT NULL AND published_at <= NOW()
		ORDER BY published_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find published posts", zap.Error(err))
		return nil, fmt.Errorf("find published posts: %w", err)
	}
	defer rows.Close()

	var posts []*entity.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post row: %w", err)
		}
		posts = append(posts, post)
	}

	return posts, rows.Err()
}

func (r *postRepository) CountPublished(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM posts WHERE published_at IS NOT NULL AND published_at <= NOW()`).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count published posts", zap.Error(err))
		return 0, fmt.Errorf("count published posts: %w", err)
	}
	return count, nil
}
