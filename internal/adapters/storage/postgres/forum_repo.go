package postgres

import (
	"context"
	"database/sql"
	"errors"

	"newleash/internal/apperror"
	"newleash/internal/domain/forum"
)

type ForumRepo struct {
	db *sql.DB
}

func NewForumRepo(db *sql.DB) *ForumRepo {
	return &ForumRepo{db: db}
}

const (
	threadColumns  = `id, author_id, title, body, created_at, updated_at`
	commentColumns = `id, thread_id, author_id, body, created_at, updated_at`
)

func scanThread(row scanner) (forum.Thread, error) {
	var t forum.Thread
	err := row.Scan(&t.ID, &t.AuthorID, &t.Title, &t.Body, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func scanComment(row scanner) (forum.Comment, error) {
	var c forum.Comment
	err := row.Scan(&c.ID, &c.ThreadID, &c.AuthorID, &c.Body, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *ForumRepo) CreateThread(ctx context.Context, t forum.Thread) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO threads (`+threadColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, t.ID, t.AuthorID, t.Title, t.Body, t.CreatedAt, t.UpdatedAt)
	return mapErr(err)
}

func (r *ForumRepo) UpdateThread(ctx context.Context, t forum.Thread) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE threads SET title = $2, body = $3, updated_at = $4 WHERE id = $1
	`, t.ID, t.Title, t.Body, t.UpdatedAt)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("thread", t.ID)
	}
	return nil
}

// DeleteThread: los comments caen por ON DELETE CASCADE.
func (r *ForumRepo) DeleteThread(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM threads WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("thread", id)
	}
	return nil
}

func (r *ForumRepo) GetThread(ctx context.Context, id string) (forum.Thread, error) {
	t, err := scanThread(r.db.QueryRowContext(ctx, `SELECT `+threadColumns+` FROM threads WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return forum.Thread{}, apperror.NotFound("thread", id)
		}
		return forum.Thread{}, err
	}
	return t, nil
}

func (r *ForumRepo) ListThreads(ctx context.Context) ([]forum.Thread, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+threadColumns+` FROM threads ORDER BY created_at DESC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]forum.Thread, 0)
	for rows.Next() {
		t, err := scanThread(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *ForumRepo) CreateComment(ctx context.Context, c forum.Comment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO comments (`+commentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, c.ID, c.ThreadID, c.AuthorID, c.Body, c.CreatedAt, c.UpdatedAt)
	return mapErr(err)
}

func (r *ForumRepo) DeleteComment(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("comment", id)
	}
	return nil
}

func (r *ForumRepo) GetComment(ctx context.Context, id string) (forum.Comment, error) {
	c, err := scanComment(r.db.QueryRowContext(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return forum.Comment{}, apperror.NotFound("comment", id)
		}
		return forum.Comment{}, err
	}
	return c, nil
}

func (r *ForumRepo) ListComments(ctx context.Context, threadID string) ([]forum.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+commentColumns+`
		FROM comments
		WHERE thread_id = $1
		ORDER BY created_at ASC, id ASC
	`, threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]forum.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
