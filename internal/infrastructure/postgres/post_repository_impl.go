package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/mayakatsir/web-development-assignments/internal/domain/entity"
	"github.com/mayakatsir/web-development-assignments/internal/domain/repository"
)

const postColumns = `id::text, title, content, sender, image_url, created_at, updated_at`

type PostRepository struct {
	db DB
}

func NewPostRepository(db DB) *PostRepository {
	return &PostRepository{db: db}
}

func scanPost(row pgx.Row) (*entity.Post, error) {
	p := &entity.Post{}
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Sender, &p.ImageURL,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO posts (id, title, content, sender, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, p.ID, p.Title, p.Content, p.Sender, p.ImageURL)

	return mapErr(row.Scan(&p.CreatedAt, &p.UpdatedAt))
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*entity.Post, error) {
	return scanPost(r.db.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
}

func (r *PostRepository) List(ctx context.Context, f repository.PostFilter) ([]*entity.Post, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if f.Sender != "" {
		rows, err = r.db.Query(ctx, `SELECT `+postColumns+` FROM posts WHERE sender = $1 ORDER BY created_at`, f.Sender)
	} else {
		rows, err = r.db.Query(ctx, `SELECT `+postColumns+` FROM posts ORDER BY created_at`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []*entity.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *PostRepository) Update(ctx context.Context, p *entity.Post) error {
	row := r.db.QueryRow(ctx, `
		UPDATE posts
		SET title = $1, content = $2, sender = $3, image_url = $4, updated_at = now()
		WHERE id = $5
		RETURNING created_at, updated_at
	`, p.Title, p.Content, p.Sender, p.ImageURL, p.ID)

	return mapErr(row.Scan(&p.CreatedAt, &p.UpdatedAt))
}

// Delete relies on ON DELETE CASCADE to drop the post's comments.
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.PostRepository = (*PostRepository)(nil)
