package pets

import "context"

type Filter struct {
	Type    string
	OwnerID string
}

type Repository interface {
	Create(ctx context.Context, p Pet) error
	Update(ctx context.Context, p Pet) error
	// Delete también quita la mascota de las listas de guardados.
	Delete(ctx context.Context, id string) error

	GetByID(ctx context.Context, id string) (Pet, error)
	GetByExternalID(ctx context.Context, source Source, externalID string) (Pet, error)
	GetMany(ctx context.Context, ids []string) ([]Pet, error)
	List(ctx context.Context, f Filter) ([]Pet, error)
}
