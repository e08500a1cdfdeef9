package postgres

import (
	"context"
	"database/sql"
	"errors"

	"newleash/internal/apperror"
	"newleash/internal/domain/shelters"
)

type SheltersRepo struct {
	db *sql.DB
}

func NewSheltersRepo(db *sql.DB) *SheltersRepo {
	return &SheltersRepo{db: db}
}

const shelterColumns = `
	id, external_id, name, email, phone, website, url,
	address1, city, state, postcode, country,
	latitude, longitude, created_at, updated_at`

func scanShelter(row scanner) (shelters.Shelter, error) {
	var (
		s        shelters.Shelter
		lat, lng sql.NullFloat64
	)
	err := row.Scan(
		&s.ID,
		&s.ExternalID,
		&s.Name,
		&s.Email,
		&s.Phone,
		&s.Website,
		&s.URL,
		&s.Address.Address1,
		&s.Address.City,
		&s.Address.State,
		&s.Address.Postcode,
		&s.Address.Country,
		&lat,
		&lng,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return shelters.Shelter{}, err
	}
	if lat.Valid && lng.Valid {
		s.Latitude, s.Longitude = &lat.Float64, &lng.Float64
	}
	return s, nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func (r *SheltersRepo) Upsert(ctx context.Context, s shelters.Shelter) (shelters.Shelter, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO shelters (`+shelterColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		ON CONFLICT (external_id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			website = EXCLUDED.website,
			url = EXCLUDED.url,
			address1 = EXCLUDED.address1,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			postcode = EXCLUDED.postcode,
			country = EXCLUDED.country,
			latitude = COALESCE(EXCLUDED.latitude, shelters.latitude),
			longitude = COALESCE(EXCLUDED.longitude, shelters.longitude),
			updated_at = EXCLUDED.updated_at
		RETURNING `+shelterColumns,
		s.ID,
		s.ExternalID,
		s.Name,
		s.Email,
		s.Phone,
		s.Website,
		s.URL,
		s.Address.Address1,
		s.Address.City,
		s.Address.State,
		s.Address.Postcode,
		s.Address.Country,
		nullFloat(s.Latitude),
		nullFloat(s.Longitude),
		s.CreatedAt,
		s.UpdatedAt,
	)
	out, err := scanShelter(row)
	if err != nil {
		return shelters.Shelter{}, mapErr(err)
	}
	return out, nil
}

func (r *SheltersRepo) get(ctx context.Context, where, arg string) (shelters.Shelter, error) {
	s, err := scanShelter(r.db.QueryRowContext(ctx, `SELECT `+shelterColumns+` FROM shelters WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return shelters.Shelter{}, apperror.NotFound("shelter", arg)
		}
		return shelters.Shelter{}, err
	}
	return s, nil
}

func (r *SheltersRepo) GetByID(ctx context.Context, id string) (shelters.Shelter, error) {
	return r.get(ctx, `id = $1`, id)
}

func (r *SheltersRepo) GetByExternalID(ctx context.Context, externalID string) (shelters.Shelter, error) {
	return r.get(ctx, `external_id = $1`, externalID)
}

func (r *SheltersRepo) List(ctx context.Context) ([]shelters.Shelter, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+shelterColumns+` FROM shelters ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]shelters.Shelter, 0)
	for rows.Next() {
		s, err := scanShelter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
