package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"newleash/internal/apperror"
	"newleash/internal/domain/forum"
	"newleash/internal/domain/pets"
	"newleash/internal/domain/profiles"
	"newleash/internal/domain/shelters"
)

var t0 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func seedProfile(t *testing.T, s *Store, id, username, email string) {
	t.Helper()
	err := s.Profiles().Create(context.Background(), profiles.Profile{ID: id, Username: username, Email: email, CreatedAt: t0})
	if err != nil {
		t.Fatalf("create profile %s: %v", id, err)
	}
}

func TestProfiles_Uniqueness(t *testing.T) {
	s := NewStore()
	seedProfile(t, s, "p1", "Milo", "milo@example.com")

	err := s.Profiles().Create(context.Background(), profiles.Profile{ID: "p2", Username: "milo", Email: "x@example.com"})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("err = %v, want conflict on username", err)
	}
	err = s.Profiles().Create(context.Background(), profiles.Profile{ID: "p2", Username: "otis", Email: "milo@example.com"})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("err = %v, want conflict on email", err)
	}

	seedProfile(t, s, "p2", "otis", "otis@example.com")
	p2, _ := s.Profiles().GetByID(context.Background(), "p2")
	p2.Email = "milo@example.com"
	if err := s.Profiles().Update(context.Background(), p2); !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("update err = %v, want conflict", err)
	}
}

func TestPetDeletion_RemovesFromSavedLists(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedProfile(t, s, "p1", "milo", "milo@example.com")

	if err := s.Pets().Create(ctx, pets.Pet{ID: "pet1", Source: pets.SourcePetfinder, ExternalID: "120"}); err != nil {
		t.Fatalf("create pet: %v", err)
	}
	if err := s.Pets().Create(ctx, pets.Pet{ID: "pet2", Source: pets.SourcePetfinder, ExternalID: "120"}); !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("err = %v, want conflict on external id", err)
	}

	repo := s.Profiles()
	if err := repo.AddSavedPet(ctx, "p1", "pet1", t0); err != nil {
		t.Fatalf("AddSavedPet: %v", err)
	}
	if err := repo.AddSavedPet(ctx, "p1", "ghost", t0); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}

	if err := s.Pets().Delete(ctx, "pet1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	p, _ := repo.GetByID(ctx, "p1")
	if len(p.SavedPetIDs) != 0 {
		t.Errorf("saved = %v, want empty after pet deletion", p.SavedPetIDs)
	}
}

func TestProfileDeletion_Cascades(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedProfile(t, s, "p1", "milo", "milo@example.com")
	seedProfile(t, s, "p2", "otis", "otis@example.com")

	_ = s.Pets().Create(ctx, pets.Pet{ID: "own", Source: pets.SourceLocal, OwnerID: "p1"})
	_ = s.Pets().Create(ctx, pets.Pet{ID: "other", Source: pets.SourceLocal, OwnerID: "p2"})
	_ = s.Profiles().AddSavedPet(ctx, "p2", "own", t0)
	_ = s.Profiles().AddSavedPet(ctx, "p2", "other", t0)

	f := s.Forum()
	_ = f.CreateThread(ctx, forum.Thread{ID: "t1", AuthorID: "p1", CreatedAt: t0})
	_ = f.CreateThread(ctx, forum.Thread{ID: "t2", AuthorID: "p2", CreatedAt: t0})
	_ = f.CreateComment(ctx, forum.Comment{ID: "c1", ThreadID: "t1", AuthorID: "p2"})
	_ = f.CreateComment(ctx, forum.Comment{ID: "c2", ThreadID: "t2", AuthorID: "p1"})
	_ = f.CreateComment(ctx, forum.Comment{ID: "c3", ThreadID: "t2", AuthorID: "p2"})

	if err := s.Profiles().Delete(ctx, "p1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := s.Pets().GetByID(ctx, "own"); !errors.Is(err, apperror.ErrNotFound) {
		t.Error("owned pet should be deleted")
	}
	if _, err := f.GetThread(ctx, "t1"); !errors.Is(err, apperror.ErrNotFound) {
		t.Error("authored thread should be deleted")
	}
	for _, id := range []string{"c1", "c2"} {
		if _, err := f.GetComment(ctx, id); !errors.Is(err, apperror.ErrNotFound) {
			t.Errorf("comment %s should be deleted", id)
		}
	}
	if _, err := f.GetComment(ctx, "c3"); err != nil {
		t.Errorf("unrelated comment removed: %v", err)
	}

	p2, _ := s.Profiles().GetByID(ctx, "p2")
	if len(p2.SavedPetIDs) != 1 || p2.SavedPetIDs[0] != "other" {
		t.Errorf("p2 saved = %v", p2.SavedPetIDs)
	}
}

func TestForum_CommentRequiresThread(t *testing.T) {
	s := NewStore()
	seedProfile(t, s, "p1", "milo", "milo@example.com")

	err := s.Forum().CreateComment(context.Background(), forum.Comment{ID: "c1", ThreadID: "nope", AuthorID: "p1"})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestShelters_UpsertKeepsIdentity(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repo := s.Shelters()

	first, err := repo.Upsert(ctx, shelters.Shelter{ID: "s1", ExternalID: "NJ1", Name: "Old", CreatedAt: t0})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	second, err := repo.Upsert(ctx, shelters.Shelter{ID: "s-new", ExternalID: "NJ1", Name: "New", CreatedAt: t0.Add(time.Hour)})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if second.ID != first.ID || !second.CreatedAt.Equal(t0) || second.Name != "New" {
		t.Errorf("upsert = %+v", second)
	}
	list, _ := repo.List(ctx)
	if len(list) != 1 {
		t.Errorf("len = %d", len(list))
	}
}

func TestShelters_UpsertWithoutCoordinatesKeepsPrevious(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repo := s.Shelters()

	lat, lng := 40.7, -74.0
	if _, err := repo.Upsert(ctx, shelters.Shelter{ID: "s1", ExternalID: "NJ1", Name: "Old", Latitude: &lat, Longitude: &lng}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, err := repo.Upsert(ctx, shelters.Shelter{ID: "s2", ExternalID: "NJ1", Name: "New"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if got.Latitude == nil || got.Longitude == nil || *got.Latitude != lat || *got.Longitude != lng {
		t.Errorf("coordinates lost: %+v", got)
	}

	lat2 := 41.0
	got, _ = repo.Upsert(ctx, shelters.Shelter{ID: "s3", ExternalID: "NJ1", Name: "New", Latitude: &lat2, Longitude: &lng})
	if *got.Latitude != lat2 {
		t.Errorf("latitude = %v, want %v", *got.Latitude, lat2)
	}
}
