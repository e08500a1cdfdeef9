package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"newleash/internal/apperror"
	"newleash/internal/domain/profiles"
)

type profileRepo struct {
	s *Store
}

func (r *profileRepo) checkUniqueLocked(p profiles.Profile) error {
	for _, other := range r.s.profiles {
		if other.ID == p.ID {
			continue
		}
		if strings.EqualFold(other.Username, p.Username) {
			return apperror.Conflict("username", "username already taken")
		}
		if other.Email == p.Email {
			return apperror.Conflict("email", "email already registered")
		}
	}
	return nil
}

func (r *profileRepo) Create(ctx context.Context, p profiles.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("profile id required")
	}
	if _, exists := r.s.profiles[p.ID]; exists {
		return apperror.Conflict("id", "profile already exists")
	}
	if err := r.checkUniqueLocked(p); err != nil {
		return err
	}
	p.SavedPetIDs = cloneStrings(p.SavedPetIDs)
	r.s.profiles[p.ID] = p
	return nil
}

func (r *profileRepo) Update(ctx context.Context, p profiles.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	prev, exists := r.s.profiles[p.ID]
	if !exists {
		return apperror.NotFound("profile", p.ID)
	}
	if err := r.checkUniqueLocked(p); err != nil {
		return err
	}
	// Los guardados se manejan con AddSavedPet/RemoveSavedPet.
	p.SavedPetIDs = prev.SavedPetIDs
	r.s.profiles[p.ID] = p
	return nil
}

func (r *profileRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.profiles[id]; !exists {
		return apperror.NotFound("profile", id)
	}
	delete(r.s.profiles, id)

	for petID, p := range r.s.pets {
		if p.OwnerID == id {
			delete(r.s.pets, petID)
			r.s.unsavePetLocked(petID)
		}
	}
	for threadID, t := range r.s.threads {
		if t.AuthorID == id {
			r.s.deleteThreadLocked(threadID)
		}
	}
	for commentID, c := range r.s.comments {
		if c.AuthorID == id {
			delete(r.s.comments, commentID)
		}
	}
	return nil
}

func (r *profileRepo) GetByID(ctx context.Context, id string) (profiles.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.profiles[id]
	if !ok {
		return profiles.Profile{}, apperror.NotFound("profile", id)
	}
	p.SavedPetIDs = cloneStrings(p.SavedPetIDs)
	return p, nil
}

func (r *profileRepo) GetByUsername(ctx context.Context, username string) (profiles.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.profiles {
		if strings.EqualFold(p.Username, username) {
			p.SavedPetIDs = cloneStrings(p.SavedPetIDs)
			return p, nil
		}
	}
	return profiles.Profile{}, apperror.NotFound("profile", username)
}

func (r *profileRepo) GetByEmail(ctx context.Context, email string) (profiles.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	email = strings.ToLower(email)
	for _, p := range r.s.profiles {
		if p.Email == email {
			p.SavedPetIDs = cloneStrings(p.SavedPetIDs)
			return p, nil
		}
	}
	return profiles.Profile{}, apperror.NotFound("profile", email)
}

func (r *profileRepo) List(ctx context.Context) ([]profiles.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]profiles.Profile, 0, len(r.s.profiles))
	for _, p := range r.s.profiles {
		p.SavedPetIDs = cloneStrings(p.SavedPetIDs)
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Username) < strings.ToLower(out[j].Username)
	})
	return out, nil
}

func (r *profileRepo) AddSavedPet(ctx context.Context, profileID, petID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.profiles[profileID]
	if !ok {
		return apperror.NotFound("profile", profileID)
	}
	if _, ok := r.s.pets[petID]; !ok {
		return apperror.NotFound("pet", petID)
	}
	if p.HasSaved(petID) {
		return nil
	}
	p.SavedPetIDs = append(cloneStrings(p.SavedPetIDs), petID)
	r.s.profiles[profileID] = p
	return nil
}

func (r *profileRepo) RemoveSavedPet(ctx context.Context, profileID, petID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.profiles[profileID]
	if !ok {
		return apperror.NotFound("profile", profileID)
	}
	kept := make([]string, 0, len(p.SavedPetIDs))
	for _, id := range p.SavedPetIDs {
		if id != petID {
			kept = append(kept, id)
		}
	}
	p.SavedPetIDs = kept
	r.s.profiles[profileID] = p
	return nil
}
