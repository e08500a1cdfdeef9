package memory

import (
	"sync"

	"newleash/internal/domain/forum"
	"newleash/internal/domain/pets"
	"newleash/internal/domain/profiles"
	"newleash/internal/domain/shelters"
)

// Store guarda todas las colecciones bajo un único lock para que los borrados
// en cascada (perfil -> mascotas/threads/comments, mascota -> guardados) sean atómicos.
type Store struct {
	mu sync.RWMutex

	profiles map[string]profiles.Profile
	pets     map[string]pets.Pet
	shelters map[string]shelters.Shelter
	threads  map[string]forum.Thread
	comments map[string]forum.Comment
}

func NewStore() *Store {
	return &Store{
		profiles: make(map[string]profiles.Profile),
		pets:     make(map[string]pets.Pet),
		shelters: make(map[string]shelters.Shelter),
		threads:  make(map[string]forum.Thread),
		comments: make(map[string]forum.Comment),
	}
}

func (s *Store) Profiles() profiles.Repository { return &profileRepo{s: s} }
func (s *Store) Pets() pets.Repository         { return &petRepo{s: s} }
func (s *Store) Shelters() shelters.Repository { return &shelterRepo{s: s} }
func (s *Store) Forum() forum.Repository       { return &forumRepo{s: s} }

// Helpers de cascada; requieren s.mu tomado en escritura.

func (s *Store) unsavePetLocked(petID string) {
	for id, p := range s.profiles {
		if !p.HasSaved(petID) {
			continue
		}
		kept := make([]string, 0, len(p.SavedPetIDs)-1)
		for _, sid := range p.SavedPetIDs {
			if sid != petID {
				kept = append(kept, sid)
			}
		}
		p.SavedPetIDs = kept
		s.profiles[id] = p
	}
}

func (s *Store) deleteThreadLocked(threadID string) {
	delete(s.threads, threadID)
	for id, c := range s.comments {
		if c.ThreadID == threadID {
			delete(s.comments, id)
		}
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
