package profiles

import "time"

// Profile es la cuenta de un usuario registrado.
// Las mascotas propias se derivan (pets.OwnerID == Profile.ID).
type Profile struct {
	ID       string
	Username string
	Email    string // siempre en minúsculas

	PasswordHash string

	DisplayName string
	Location    string
	AvatarURL   string

	// SavedPetIDs en orden de guardado.
	SavedPetIDs []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Profile) HasSaved(petID string) bool {
	for _, id := range p.SavedPetIDs {
		if id == petID {
			return true
		}
	}
	return false
}
