package seed

import (
	"context"
	"strings"
	"testing"

	mem "newleash/internal/adapters/storage/memory"
	"newleash/internal/domain/forum"
	"newleash/internal/domain/pets"
	"newleash/internal/domain/profiles"
	"newleash/internal/domain/shelters"
	"newleash/internal/platform/logger"

	"github.com/google/go-cmp/cmp"
)

func newServices() Services {
	store := mem.NewStore()
	return Services{
		Profiles: profiles.NewService(store.Profiles()),
		Pets:     pets.NewService(store.Pets()),
		Forum:    forum.NewService(store.Forum()),
		Shelters: shelters.NewService(store.Shelters(), nil, nil, logger.Nop()),
	}
}

func TestLoadAndApply(t *testing.T) {
	f, err := Load("testdata/seed.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	ctx := context.Background()
	svc := newServices()

	res, err := Apply(ctx, svc, f, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := Result{Profiles: 2, Pets: 2, Saves: 1, Shelters: 1, Threads: 1, Comments: 1}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}

	milo, err := svc.Profiles.GetByUsername(ctx, "milo")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if milo.DisplayName != "Milo R." || milo.Location != "Newark, NJ" {
		t.Errorf("profile not updated: %+v", milo)
	}

	otis, _ := svc.Profiles.GetByUsername(ctx, "otis")
	saved, _ := svc.Pets.GetMany(ctx, otis.SavedPetIDs)
	if len(saved) != 1 || saved[0].Name != "Rex" || saved[0].OwnerID != milo.ID {
		t.Errorf("unexpected saved pets: %+v", saved)
	}

	list, _ := svc.Shelters.List(ctx)
	if len(list) != 1 || !list[0].HasCoordinates() || list[0].Address.Postcode != "07102" {
		t.Errorf("unexpected shelters: %+v", list)
	}

	// Segunda pasada: perfiles existentes se reutilizan, no se duplican mascotas.
	res, err = Apply(ctx, svc, f, nil)
	if err != nil {
		t.Fatalf("second Apply: %v", err)
	}
	if res.Profiles != 0 || res.Pets != 0 {
		t.Errorf("second run created profiles/pets: %+v", res)
	}
	owned, _ := svc.Pets.ListByOwner(ctx, milo.ID)
	if len(owned) != 2 {
		t.Errorf("owned pets = %d, want 2", len(owned))
	}
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := Parse(strings.NewReader("profiles:\n  - usernme: typo\n"))
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestApply_UnknownThreadAuthor(t *testing.T) {
	f := File{Threads: []Thread{{Author: "ghost", Title: "Hi", Body: "there"}}}
	if _, err := Apply(context.Background(), newServices(), f, nil); err == nil {
		t.Fatal("expected error for unknown author")
	}
}

func TestParse_Empty(t *testing.T) {
	f, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(f.Profiles) != 0 {
		t.Errorf("unexpected profiles: %+v", f.Profiles)
	}
}
