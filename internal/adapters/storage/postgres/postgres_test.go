package postgres

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"newleash/internal/apperror"
	"newleash/internal/domain/forum"
	"newleash/internal/domain/pets"
	"newleash/internal/domain/profiles"
	"newleash/internal/domain/shelters"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErr(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"username", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "profiles_username_lower_key"}, apperror.ErrConflict},
		{"pet fk", &pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "saved_pet_fk"}, apperror.ErrNotFound},
		{"owner fk", &pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "pets_owner_fk"}, apperror.ErrNotFound},
		{"check", &pgconn.PgError{Code: pgCheckViolation, ConstraintName: "pets_name_check"}, apperror.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, mapErr(tc.in), tc.want)
		})
	}

	assert.NoError(t, mapErr(nil))
	plain := errors.New("boom")
	assert.Same(t, plain, mapErr(plain))

	var ae *apperror.AppError
	require.ErrorAs(t, mapErr(&pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "comments_thread_fk"}), &ae)
	assert.Equal(t, "thread not found", ae.Message)
}

// openTestDB requiere NEWLEASH_TEST_DSN apuntando a una base descartable.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("NEWLEASH_TEST_DSN")
	if dsn == "" {
		t.Skip("NEWLEASH_TEST_DSN not set")
	}
	db, err := Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, Migrate(ctx, db))
	_, err = db.ExecContext(ctx, `TRUNCATE comments, threads, profile_saved_pets, pets, shelters, profiles`)
	require.NoError(t, err)
	return db
}

func TestPostgres_ProfilesAndPets(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	profilesRepo := NewProfilesRepo(db)
	petsRepo := NewPetsRepo(db)

	owner := profiles.Profile{ID: uuid.NewString(), Username: "Milo", Email: "milo@example.com", PasswordHash: "x", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, profilesRepo.Create(ctx, owner))

	dup := owner
	dup.ID = uuid.NewString()
	dup.Username = "milo"
	dup.Email = "other@example.com"
	assert.ErrorIs(t, profilesRepo.Create(ctx, dup), apperror.ErrConflict)

	got, err := profilesRepo.GetByUsername(ctx, "MILO")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, got.ID)

	local := pets.Pet{
		ID: uuid.NewString(), Source: pets.SourceLocal, OwnerID: owner.ID,
		Name: "Rex", Type: "dog", Status: pets.StatusAdoptable,
		Photos:    []string{"https://img.example.com/rex.jpg"},
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, petsRepo.Create(ctx, local))

	mirrored := pets.Pet{
		ID: uuid.NewString(), Source: pets.SourcePetfinder, ExternalID: "120",
		Name: "Luna", Type: "cat", Status: pets.StatusAdoptable, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, petsRepo.Create(ctx, mirrored))

	again := mirrored
	again.ID = uuid.NewString()
	assert.ErrorIs(t, petsRepo.Create(ctx, again), apperror.ErrConflict)

	fetched, err := petsRepo.GetByID(ctx, local.ID)
	require.NoError(t, err)
	assert.Equal(t, local.Photos, fetched.Photos)
	assert.Equal(t, owner.ID, fetched.OwnerID)

	byExt, err := petsRepo.GetByExternalID(ctx, pets.SourcePetfinder, "120")
	require.NoError(t, err)
	assert.Equal(t, mirrored.ID, byExt.ID)
	assert.Empty(t, byExt.OwnerID)
	assert.Equal(t, []string{}, byExt.Photos)

	owned, err := petsRepo.List(ctx, pets.Filter{OwnerID: owner.ID})
	require.NoError(t, err)
	require.Len(t, owned, 1)

	require.NoError(t, profilesRepo.AddSavedPet(ctx, owner.ID, mirrored.ID, now))
	require.NoError(t, profilesRepo.AddSavedPet(ctx, owner.ID, mirrored.ID, now))
	assert.ErrorIs(t, profilesRepo.AddSavedPet(ctx, owner.ID, uuid.NewString(), now), apperror.ErrNotFound)

	got, err = profilesRepo.GetByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{mirrored.ID}, got.SavedPetIDs)

	require.NoError(t, petsRepo.Delete(ctx, mirrored.ID))
	got, err = profilesRepo.GetByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, got.SavedPetIDs)

	require.NoError(t, profilesRepo.Delete(ctx, owner.ID))
	_, err = petsRepo.GetByID(ctx, local.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestPostgres_SheltersUpsertKeepsIdentity(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewSheltersRepo(db)
	now := time.Now().UTC().Truncate(time.Millisecond)
	lat, lng := 40.73, -74.17

	first, err := repo.Upsert(ctx, shelters.Shelter{
		ID: uuid.NewString(), ExternalID: "NJ333", Name: "Newark Shelter",
		Latitude: &lat, Longitude: &lng, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	second, err := repo.Upsert(ctx, shelters.Shelter{
		ID: uuid.NewString(), ExternalID: "NJ333", Name: "Newark Animal Shelter",
		CreatedAt: now.Add(time.Hour), UpdatedAt: now.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Newark Animal Shelter", second.Name)
	require.True(t, second.HasCoordinates())
	assert.InDelta(t, lat, *second.Latitude, 1e-9)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
}

func TestPostgres_ForumCascade(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	author := profiles.Profile{ID: uuid.NewString(), Username: "otis", Email: "otis@example.com", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, NewProfilesRepo(db).Create(ctx, author))

	repo := NewForumRepo(db)
	th := forum.Thread{ID: uuid.NewString(), AuthorID: author.ID, Title: "Tips", Body: "First week home", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.CreateThread(ctx, th))

	c := forum.Comment{ID: uuid.NewString(), ThreadID: th.ID, AuthorID: author.ID, Body: "Crate train", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.CreateComment(ctx, c))

	orphan := c
	orphan.ID = uuid.NewString()
	orphan.ThreadID = uuid.NewString()
	assert.ErrorIs(t, repo.CreateComment(ctx, orphan), apperror.ErrNotFound)

	require.NoError(t, repo.DeleteThread(ctx, th.ID))
	_, err := repo.GetComment(ctx, c.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
