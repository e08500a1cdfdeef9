package profiles

import (
	"context"
	"errors"
	"testing"
	"time"

	"newleash/internal/apperror"

	"golang.org/x/crypto/bcrypt"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID    map[string]Profile
	petsIDs map[string]bool
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Profile{}, petsIDs: map[string]bool{}}
}

func (r *testRepo) conflict(p Profile) error {
	for _, other := range r.byID {
		if other.ID == p.ID {
			continue
		}
		if other.Username == p.Username {
			return apperror.Conflict("username", "username already taken")
		}
		if other.Email == p.Email {
			return apperror.Conflict("email", "email already registered")
		}
	}
	return nil
}

func (r *testRepo) Create(ctx context.Context, p Profile) error {
	if err := r.conflict(p); err != nil {
		return err
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(ctx context.Context, p Profile) error {
	if _, ok := r.byID[p.ID]; !ok {
		return apperror.NotFound("profile", p.ID)
	}
	if err := r.conflict(p); err != nil {
		return err
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Profile, error) {
	p, ok := r.byID[id]
	if !ok {
		return Profile{}, apperror.NotFound("profile", id)
	}
	return p, nil
}

func (r *testRepo) GetByUsername(ctx context.Context, username string) (Profile, error) {
	for _, p := range r.byID {
		if p.Username == username {
			return p, nil
		}
	}
	return Profile{}, apperror.NotFound("profile", username)
}

func (r *testRepo) GetByEmail(ctx context.Context, email string) (Profile, error) {
	for _, p := range r.byID {
		if p.Email == email {
			return p, nil
		}
	}
	return Profile{}, apperror.NotFound("profile", email)
}

func (r *testRepo) List(ctx context.Context) ([]Profile, error) {
	out := make([]Profile, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, nil
}

func (r *testRepo) AddSavedPet(ctx context.Context, profileID, petID string, at time.Time) error {
	p, ok := r.byID[profileID]
	if !ok {
		return apperror.NotFound("profile", profileID)
	}
	if !r.petsIDs[petID] {
		return apperror.NotFound("pet", petID)
	}
	if !p.HasSaved(petID) {
		p.SavedPetIDs = append(p.SavedPetIDs, petID)
	}
	r.byID[profileID] = p
	return nil
}

func (r *testRepo) RemoveSavedPet(ctx context.Context, profileID, petID string) error {
	p, ok := r.byID[profileID]
	if !ok {
		return apperror.NotFound("profile", profileID)
	}
	out := p.SavedPetIDs[:0]
	for _, id := range p.SavedPetIDs {
		if id != petID {
			out = append(out, id)
		}
	}
	p.SavedPetIDs = out
	r.byID[profileID] = p
	return nil
}

func newTestService() (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo)
	svc.cost = bcrypt.MinCost
	svc.now = func() time.Time { return time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC) }
	return svc, repo
}

// -------------------------
// Tests
// -------------------------

func TestRegister_NormalizesAndHashes(t *testing.T) {
	svc, _ := newTestService()

	p, err := svc.Register(context.Background(), RegisterInput{
		Username: " milo_fan ",
		Email:    "Milo@Example.COM",
		Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if p.Username != "milo_fan" || p.Email != "milo@example.com" {
		t.Errorf("got username=%q email=%q", p.Username, p.Email)
	}
	if p.PasswordHash == "supersecret" || p.PasswordHash == "" {
		t.Error("password must be hashed")
	}
	if p.ID == "" || p.CreatedAt.IsZero() {
		t.Error("expected id and timestamps")
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestService()

	tests := []struct {
		name  string
		in    RegisterInput
		field string
	}{
		{"short username", RegisterInput{Username: "ab", Email: "a@b.co", Password: "12345678"}, "username"},
		{"bad chars", RegisterInput{Username: "milo fan", Email: "a@b.co", Password: "12345678"}, "username"},
		{"bad email", RegisterInput{Username: "milo", Email: "not-an-email", Password: "12345678"}, "email"},
		{"email without domain dot", RegisterInput{Username: "milo", Email: "a@localhost", Password: "12345678"}, "email"},
		{"short password", RegisterInput{Username: "milo", Email: "a@b.co", Password: "1234567"}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.in)
			var ae *apperror.AppError
			if !errors.As(err, &ae) || !errors.Is(err, apperror.ErrInvalidInput) {
				t.Fatalf("err = %v, want invalid input", err)
			}
			if ae.Field != tt.field {
				t.Errorf("field = %q, want %q", ae.Field, tt.field)
			}
		})
	}
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Username: "milo", Email: "a@b.co", Password: "12345678"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := svc.Register(ctx, RegisterInput{Username: "otis", Email: "A@B.co", Password: "12345678"})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	reg, _ := svc.Register(ctx, RegisterInput{Username: "milo", Email: "a@b.co", Password: "12345678"})

	p, err := svc.Authenticate(ctx, " A@B.CO ", "12345678")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if p.ID != reg.ID {
		t.Errorf("id = %s, want %s", p.ID, reg.ID)
	}

	for _, tc := range [][2]string{{"a@b.co", "wrong-pass"}, {"nobody@b.co", "12345678"}, {"", ""}} {
		if _, err := svc.Authenticate(ctx, tc[0], tc[1]); !errors.Is(err, apperror.ErrUnauthenticated) {
			t.Errorf("Authenticate(%q) err = %v, want unauthenticated", tc[0], err)
		}
	}
}

func TestUpdate_PatchSemantics(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p, _ := svc.Register(ctx, RegisterInput{Username: "milo", Email: "a@b.co", Password: "12345678"})

	loc := "Newark, NJ"
	newPass := "another-pass"
	updated, err := svc.Update(ctx, p.ID, UpdateInput{Location: &loc, Password: &newPass})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Location != loc || updated.Username != "milo" || updated.Email != "a@b.co" {
		t.Errorf("unexpected profile: %+v", updated)
	}
	if _, err := svc.Authenticate(ctx, "a@b.co", newPass); err != nil {
		t.Errorf("new password should authenticate: %v", err)
	}

	bad := "x"
	if _, err := svc.Update(ctx, p.ID, UpdateInput{Username: &bad}); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Errorf("err = %v, want invalid input", err)
	}
}

func TestSavePet_IdempotentAndChecksPet(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	p, _ := svc.Register(ctx, RegisterInput{Username: "milo", Email: "a@b.co", Password: "12345678"})
	repo.petsIDs["pet-1"] = true

	for i := 0; i < 2; i++ {
		got, err := svc.SavePet(ctx, p.ID, "pet-1")
		if err != nil {
			t.Fatalf("SavePet: %v", err)
		}
		if len(got.SavedPetIDs) != 1 {
			t.Fatalf("saved = %v, want one entry", got.SavedPetIDs)
		}
	}

	if _, err := svc.SavePet(ctx, p.ID, "missing"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("err = %v, want not found", err)
	}

	got, err := svc.RemoveSavedPet(ctx, p.ID, "pet-1")
	if err != nil {
		t.Fatalf("RemoveSavedPet: %v", err)
	}
	if len(got.SavedPetIDs) != 0 {
		t.Errorf("saved = %v, want empty", got.SavedPetIDs)
	}
	if _, err := svc.RemoveSavedPet(ctx, p.ID, "pet-1"); err != nil {
		t.Errorf("second remove should be a no-op: %v", err)
	}
}

func TestDelete_ReturnsPreviousState(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	p, _ := svc.Register(ctx, RegisterInput{Username: "milo", Email: "a@b.co", Password: "12345678"})
	got, err := svc.Delete(ctx, p.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got.ID != p.ID {
		t.Errorf("deleted id = %s", got.ID)
	}
	if _, ok := repo.byID[p.ID]; ok {
		t.Error("profile still present")
	}
	if _, err := svc.Delete(ctx, p.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("err = %v, want not found", err)
	}
}
