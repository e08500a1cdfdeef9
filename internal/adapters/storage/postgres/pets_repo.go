package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"newleash/internal/apperror"
	"newleash/internal/domain/pets"

	"github.com/jackc/pgx/v5/pgtype"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const petColumns = `
	id, source, external_id, owner_id,
	name, type, breed, age, gender, size,
	description, photos, status,
	contact_email, contact_phone, url, location, shelter_id,
	created_at, updated_at`

// scanPet usa pgtype.Map para leer photos (TEXT[]) a través de database/sql.
func scanPet(m *pgtype.Map, row scanner) (pets.Pet, error) {
	var (
		p          pets.Pet
		externalID sql.NullString
		ownerID    sql.NullString
	)
	err := row.Scan(
		&p.ID,
		&p.Source,
		&externalID,
		&ownerID,
		&p.Name,
		&p.Type,
		&p.Breed,
		&p.Age,
		&p.Gender,
		&p.Size,
		&p.Description,
		m.SQLScanner(&p.Photos),
		&p.Status,
		&p.ContactEmail,
		&p.ContactPhone,
		&p.URL,
		&p.Location,
		&p.ShelterID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return pets.Pet{}, err
	}
	p.ExternalID = externalID.String
	p.OwnerID = ownerID.String
	if p.Photos == nil {
		p.Photos = []string{}
	}
	return p, nil
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
	`,
		p.ID,
		string(p.Source),
		nullString(p.ExternalID),
		nullString(p.OwnerID),
		p.Name,
		p.Type,
		p.Breed,
		string(p.Age),
		string(p.Gender),
		string(p.Size),
		p.Description,
		photos(p.Photos),
		string(p.Status),
		p.ContactEmail,
		p.ContactPhone,
		p.URL,
		p.Location,
		p.ShelterID,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return mapErr(err)
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET
			name = $2,
			type = $3,
			breed = $4,
			age = $5,
			gender = $6,
			size = $7,
			description = $8,
			photos = $9,
			status = $10,
			contact_email = $11,
			contact_phone = $12,
			url = $13,
			location = $14,
			shelter_id = $15,
			updated_at = $16
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		p.Type,
		p.Breed,
		string(p.Age),
		string(p.Gender),
		string(p.Size),
		p.Description,
		photos(p.Photos),
		string(p.Status),
		p.ContactEmail,
		p.ContactPhone,
		p.URL,
		p.Location,
		p.ShelterID,
		p.UpdatedAt,
	)
	if err != nil {
		return mapErr(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperror.NotFound("pet", p.ID)
	}
	return nil
}

// Delete: profile_saved_pets cae por ON DELETE CASCADE.
func (r *PetsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperror.NotFound("pet", id)
	}
	return nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, apperror.NotFound("pet", id)
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id)
	p, err := scanPet(pgtype.NewMap(), row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.Pet{}, apperror.NotFound("pet", id)
		}
		return pets.Pet{}, err
	}
	return p, nil
}

func (r *PetsRepo) GetByExternalID(ctx context.Context, source pets.Source, externalID string) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+petColumns+` FROM pets WHERE source = $1 AND external_id = $2
	`, string(source), externalID)
	p, err := scanPet(pgtype.NewMap(), row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.Pet{}, apperror.NotFound("pet", externalID)
		}
		return pets.Pet{}, err
	}
	return p, nil
}

func (r *PetsRepo) GetMany(ctx context.Context, ids []string) ([]pets.Pet, error) {
	if len(ids) == 0 {
		return []pets.Pet{}, nil
	}
	return r.query(ctx, `SELECT `+petColumns+` FROM pets WHERE id = ANY($1)`, ids)
}

func (r *PetsRepo) List(ctx context.Context, f pets.Filter) ([]pets.Pet, error) {
	return r.query(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE ($1 = '' OR owner_id = $1)
		  AND ($2 = '' OR type = $2)
		ORDER BY created_at DESC, id ASC
	`, f.OwnerID, f.Type)
}

func (r *PetsRepo) query(ctx context.Context, q string, args ...any) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	m := pgtype.NewMap()
	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(m, rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func photos(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
