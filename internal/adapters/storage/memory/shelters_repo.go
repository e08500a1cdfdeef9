package memory

import (
	"context"
	"sort"
	"strings"

	"newleash/internal/apperror"
	"newleash/internal/domain/shelters"
)

type shelterRepo struct {
	s *Store
}

func (r *shelterRepo) Upsert(ctx context.Context, sh shelters.Shelter) (shelters.Shelter, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(sh.ExternalID) == "" {
		return shelters.Shelter{}, apperror.Invalid("externalId", "externalId is required")
	}
	sh.Distance = nil

	for id, prev := range r.s.shelters {
		if prev.ExternalID == sh.ExternalID {
			sh.ID = id
			sh.CreatedAt = prev.CreatedAt
			// Igual que el COALESCE de postgres: sin coordenadas nuevas se conservan las previas.
			if sh.Latitude == nil {
				sh.Latitude = prev.Latitude
			}
			if sh.Longitude == nil {
				sh.Longitude = prev.Longitude
			}
			break
		}
	}
	if sh.ID == "" {
		return shelters.Shelter{}, apperror.Invalid("id", "id is required")
	}
	r.s.shelters[sh.ID] = sh
	return sh, nil
}

func (r *shelterRepo) GetByID(ctx context.Context, id string) (shelters.Shelter, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sh, ok := r.s.shelters[id]
	if !ok {
		return shelters.Shelter{}, apperror.NotFound("shelter", id)
	}
	return sh, nil
}

func (r *shelterRepo) GetByExternalID(ctx context.Context, externalID string) (shelters.Shelter, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, sh := range r.s.shelters {
		if sh.ExternalID == externalID {
			return sh, nil
		}
	}
	return shelters.Shelter{}, apperror.NotFound("shelter", externalID)
}

func (r *shelterRepo) List(ctx context.Context) ([]shelters.Shelter, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]shelters.Shelter, 0, len(r.s.shelters))
	for _, sh := range r.s.shelters {
		out = append(out, sh)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
