package profiles

import (
	"context"
	"time"
)

// Repository persiste perfiles. Implementaciones devuelven apperror.NotFound
// y apperror.Conflict (username/email duplicados).
type Repository interface {
	Create(ctx context.Context, p Profile) error
	Update(ctx context.Context, p Profile) error
	// Delete borra el perfil y en cascada sus mascotas locales, threads y comments.
	Delete(ctx context.Context, id string) error

	GetByID(ctx context.Context, id string) (Profile, error)
	GetByUsername(ctx context.Context, username string) (Profile, error)
	GetByEmail(ctx context.Context, email string) (Profile, error)
	List(ctx context.Context) ([]Profile, error)

	// AddSavedPet es idempotente y falla con NotFound si la mascota no existe.
	AddSavedPet(ctx context.Context, profileID, petID string, at time.Time) error
	RemoveSavedPet(ctx context.Context, profileID, petID string) error
}
