package shelters

import "context"

type Repository interface {
	// Upsert por ExternalID; conserva ID y CreatedAt del registro existente.
	Upsert(ctx context.Context, s Shelter) (Shelter, error)
	GetByID(ctx context.Context, id string) (Shelter, error)
	GetByExternalID(ctx context.Context, externalID string) (Shelter, error)
	List(ctx context.Context) ([]Shelter, error)
}
