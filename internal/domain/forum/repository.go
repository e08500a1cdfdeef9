package forum

import "context"

type Repository interface {
	CreateThread(ctx context.Context, t Thread) error
	UpdateThread(ctx context.Context, t Thread) error
	// DeleteThread borra también sus comments.
	DeleteThread(ctx context.Context, id string) error
	GetThread(ctx context.Context, id string) (Thread, error)
	// ListThreads ordena por CreatedAt descendente.
	ListThreads(ctx context.Context) ([]Thread, error)

	// CreateComment falla con NotFound si el thread no existe.
	CreateComment(ctx context.Context, c Comment) error
	DeleteComment(ctx context.Context, id string) error
	GetComment(ctx context.Context, id string) (Comment, error)
	// ListComments ordena por CreatedAt ascendente.
	ListComments(ctx context.Context, threadID string) ([]Comment, error)
}
