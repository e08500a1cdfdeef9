package pets

import "newleash/internal/apperror"

// authorizeWrite: espejadas son de solo lectura, locales solo las toca su dueño.
func authorizeWrite(p Pet, callerID string) error {
	if p.IsMirrored() {
		return apperror.Forbidden("mirrored listings are read-only")
	}
	if p.OwnerID != callerID {
		return apperror.Forbidden("only the owner can modify this pet")
	}
	return nil
}
