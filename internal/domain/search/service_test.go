package search

import (
	"context"
	"errors"
	"testing"

	"newleash/internal/apperror"
	"newleash/internal/domain/pets"
	"newleash/internal/ports/petlisting"

	"github.com/google/go-cmp/cmp"
)

type fakeClient struct {
	petlisting.Client
	got petlisting.SearchParams
}

func (f *fakeClient) SearchAnimals(ctx context.Context, p petlisting.SearchParams) (petlisting.AnimalsPage, error) {
	f.got = p
	return petlisting.AnimalsPage{
		Animals:    []petlisting.Animal{{ID: "1", Name: "Milo"}},
		Pagination: petlisting.Pagination{CurrentPage: p.Page, PerPage: p.Limit, TotalCount: 1, TotalPages: 1},
	}, nil
}

func TestSearch_DefaultsAndNormalization(t *testing.T) {
	fc := &fakeClient{}
	svc := NewService(fc)

	res, err := svc.Search(context.Background(), Input{Type: " dog ", Age: "Young, ADULT", Location: "07102", Distance: 25})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	want := petlisting.SearchParams{Type: "dog", Age: "young,adult", Location: "07102", Distance: 25, Page: 1, Limit: DefaultLimit}
	if diff := cmp.Diff(want, fc.got); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
	if len(res.Listings) != 1 || res.Pagination.PerPage != DefaultLimit {
		t.Errorf("result = %+v", res)
	}
}

func TestSearch_Validation(t *testing.T) {
	svc := NewService(&fakeClient{})

	tests := []struct {
		name  string
		in    Input
		field string
	}{
		{"limit over max", Input{Limit: 101}, "limit"},
		{"negative page", Input{Page: -1}, "page"},
		{"distance without location", Input{Distance: 10}, "distance"},
		{"distance over max", Input{Location: "07102", Distance: 501}, "distance"},
		{"bad gender", Input{Gender: "robot"}, "gender"},
		{"bad size", Input{Size: "small,huge"}, "size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Search(context.Background(), tt.in)
			var ae *apperror.AppError
			if !errors.As(err, &ae) || ae.Field != tt.field {
				t.Fatalf("err = %v, want invalid %s", err, tt.field)
			}
		})
	}
}

func TestNilClientIsUnavailable(t *testing.T) {
	svc := NewService(nil)
	if _, err := svc.Search(context.Background(), Input{}); !errors.Is(err, apperror.ErrUnavailable) {
		t.Errorf("err = %v", err)
	}
	if _, err := svc.Types(context.Background()); !errors.Is(err, apperror.ErrUnavailable) {
		t.Errorf("err = %v", err)
	}
}

func TestToMirror(t *testing.T) {
	got := ToMirror(Listing{
		ID:      "120",
		Name:    "Milo",
		Type:    "Dog",
		Size:    "Extra Large",
		Photos:  []string{"https://x/1.jpg"},
		Contact: petlisting.Contact{Email: "a@b.org", Address: petlisting.Address{City: "Newark", State: "NJ"}},
	})
	want := pets.MirrorInput{
		Source:       pets.SourcePetfinder,
		ExternalID:   "120",
		Name:         "Milo",
		Type:         "Dog",
		Size:         "Extra Large",
		Photos:       []string{"https://x/1.jpg"},
		ContactEmail: "a@b.org",
		Location:     "Newark, NJ",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ToMirror mismatch (-want +got):\n%s", diff)
	}
}
