package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"newleash/internal/apperror"
	"newleash/internal/domain/profiles"
)

type ProfilesRepo struct {
	db *sql.DB
}

func NewProfilesRepo(db *sql.DB) *ProfilesRepo {
	return &ProfilesRepo{db: db}
}

const profileColumns = `
	id, username, email, password_hash,
	display_name, location, avatar_url,
	created_at, updated_at`

func scanProfile(row scanner) (profiles.Profile, error) {
	var p profiles.Profile
	err := row.Scan(
		&p.ID,
		&p.Username,
		&p.Email,
		&p.PasswordHash,
		&p.DisplayName,
		&p.Location,
		&p.AvatarURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func (r *ProfilesRepo) Create(ctx context.Context, p profiles.Profile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (`+profileColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		p.ID,
		p.Username,
		p.Email,
		p.PasswordHash,
		p.DisplayName,
		p.Location,
		p.AvatarURL,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return mapErr(err)
}

func (r *ProfilesRepo) Update(ctx context.Context, p profiles.Profile) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET
			username = $2,
			email = $3,
			password_hash = $4,
			display_name = $5,
			location = $6,
			avatar_url = $7,
			updated_at = $8
		WHERE id = $1
	`,
		p.ID,
		p.Username,
		p.Email,
		p.PasswordHash,
		p.DisplayName,
		p.Location,
		p.AvatarURL,
		p.UpdatedAt,
	)
	if err != nil {
		return mapErr(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperror.NotFound("profile", p.ID)
	}
	return nil
}

// Delete: las FK ON DELETE CASCADE se llevan mascotas, threads, comments y guardados.
func (r *ProfilesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperror.NotFound("profile", id)
	}
	return nil
}

func (r *ProfilesRepo) getOne(ctx context.Context, where, arg, label string) (profiles.Profile, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return profiles.Profile{}, apperror.NotFound("profile", label)
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE `+where, arg)
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return profiles.Profile{}, apperror.NotFound("profile", arg)
		}
		return profiles.Profile{}, err
	}

	saved, err := r.savedPets(ctx, []string{p.ID})
	if err != nil {
		return profiles.Profile{}, err
	}
	p.SavedPetIDs = saved[p.ID]
	if p.SavedPetIDs == nil {
		p.SavedPetIDs = []string{}
	}
	return p, nil
}

func (r *ProfilesRepo) GetByID(ctx context.Context, id string) (profiles.Profile, error) {
	return r.getOne(ctx, `id = $1`, id, "id")
}

func (r *ProfilesRepo) GetByUsername(ctx context.Context, username string) (profiles.Profile, error) {
	return r.getOne(ctx, `lower(username) = lower($1)`, username, "username")
}

func (r *ProfilesRepo) GetByEmail(ctx context.Context, email string) (profiles.Profile, error) {
	return r.getOne(ctx, `email = lower($1)`, email, "email")
}

func (r *ProfilesRepo) List(ctx context.Context) ([]profiles.Profile, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY lower(username) ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]profiles.Profile, 0)
	ids := make([]string, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	saved, err := r.savedPets(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].SavedPetIDs = saved[out[i].ID]
		if out[i].SavedPetIDs == nil {
			out[i].SavedPetIDs = []string{}
		}
	}
	return out, nil
}

func (r *ProfilesRepo) savedPets(ctx context.Context, profileIDs []string) (map[string][]string, error) {
	out := make(map[string][]string, len(profileIDs))
	if len(profileIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT profile_id, pet_id
		FROM profile_saved_pets
		WHERE profile_id = ANY($1)
		ORDER BY saved_at ASC, pet_id ASC
	`, profileIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var profileID, petID string
		if err := rows.Scan(&profileID, &petID); err != nil {
			return nil, err
		}
		out[profileID] = append(out[profileID], petID)
	}
	return out, rows.Err()
}

func (r *ProfilesRepo) AddSavedPet(ctx context.Context, profileID, petID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profile_saved_pets (profile_id, pet_id, saved_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (profile_id, pet_id) DO NOTHING
	`, profileID, petID, at)
	return mapErr(err)
}

func (r *ProfilesRepo) RemoveSavedPet(ctx context.Context, profileID, petID string) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM profiles WHERE id = $1)`, profileID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return apperror.NotFound("profile", profileID)
	}

	_, err := r.db.ExecContext(ctx, `
		DELETE FROM profile_saved_pets WHERE profile_id = $1 AND pet_id = $2
	`, profileID, petID)
	return err
}
