package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"newleash/internal/apperror"
	"newleash/internal/domain/pets"
)

type petRepo struct {
	s *Store
}

func clonePet(p pets.Pet) pets.Pet {
	p.Photos = cloneStrings(p.Photos)
	return p
}

func (r *petRepo) checkExternalLocked(p pets.Pet) error {
	if p.ExternalID == "" {
		return nil
	}
	for _, other := range r.s.pets {
		if other.ID != p.ID && other.Source == p.Source && other.ExternalID == p.ExternalID {
			return apperror.Conflict("externalId", "pet already mirrored")
		}
	}
	return nil
}

func (r *petRepo) Create(ctx context.Context, p pets.Pet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	if _, exists := r.s.pets[p.ID]; exists {
		return apperror.Conflict("id", "pet already exists")
	}
	if p.OwnerID != "" {
		if _, ok := r.s.profiles[p.OwnerID]; !ok {
			return apperror.NotFound("profile", p.OwnerID)
		}
	}
	if err := r.checkExternalLocked(p); err != nil {
		return err
	}
	r.s.pets[p.ID] = clonePet(p)
	return nil
}

func (r *petRepo) Update(ctx context.Context, p pets.Pet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.pets[p.ID]; !exists {
		return apperror.NotFound("pet", p.ID)
	}
	if err := r.checkExternalLocked(p); err != nil {
		return err
	}
	r.s.pets[p.ID] = clonePet(p)
	return nil
}

func (r *petRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.pets[id]; !exists {
		return apperror.NotFound("pet", id)
	}
	delete(r.s.pets, id)
	r.s.unsavePetLocked(id)
	return nil
}

func (r *petRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.pets[id]
	if !ok {
		return pets.Pet{}, apperror.NotFound("pet", id)
	}
	return clonePet(p), nil
}

func (r *petRepo) GetByExternalID(ctx context.Context, source pets.Source, externalID string) (pets.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.pets {
		if p.Source == source && p.ExternalID == externalID {
			return clonePet(p), nil
		}
	}
	return pets.Pet{}, apperror.NotFound("pet", externalID)
}

func (r *petRepo) GetMany(ctx context.Context, ids []string) ([]pets.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]pets.Pet, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.s.pets[id]; ok {
			out = append(out, clonePet(p))
		}
	}
	return out, nil
}

func (r *petRepo) List(ctx context.Context, f pets.Filter) ([]pets.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.s.pets {
		if f.OwnerID != "" && p.OwnerID != f.OwnerID {
			continue
		}
		if f.Type != "" && p.Type != f.Type {
			continue
		}
		out = append(out, clonePet(p))
	}

	// Orden estable por created_at desc, luego id
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}
