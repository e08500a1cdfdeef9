// Package search valida los filtros de búsqueda y delega en el listado externo.
package search

import (
	"context"
	"strings"

	"newleash/internal/apperror"
	"newleash/internal/domain/pets"
	"newleash/internal/ports/petlisting"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
	MaxDistance  = 500
)

var (
	validAges    = []string{"baby", "young", "adult", "senior"}
	validGenders = []string{"male", "female", "unknown"}
	validSizes   = []string{"small", "medium", "large", "xlarge"}
)

type Listing = petlisting.Animal

type Input struct {
	Type     string
	Breed    string
	Age      string
	Gender   string
	Size     string
	Location string
	Distance int
	Page     int
	Limit    int
}

type Result struct {
	Listings   []Listing
	Pagination petlisting.Pagination
}

type Service struct {
	client petlisting.Client
}

func NewService(client petlisting.Client) *Service {
	return &Service{client: client}
}

func (s *Service) Search(ctx context.Context, in Input) (Result, error) {
	params, err := in.params()
	if err != nil {
		return Result{}, err
	}
	if s.client == nil {
		return Result{}, apperror.Unavailable("pet listing")
	}

	page, err := s.client.SearchAnimals(ctx, params)
	if err != nil {
		return Result{}, err
	}
	return Result{Listings: page.Animals, Pagination: page.Pagination}, nil
}

func (s *Service) Listing(ctx context.Context, id string) (Listing, error) {
	if s.client == nil {
		return Listing{}, apperror.Unavailable("pet listing")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Listing{}, apperror.Invalid("id", "id is required")
	}
	return s.client.GetAnimal(ctx, id)
}

func (s *Service) Types(ctx context.Context) ([]string, error) {
	if s.client == nil {
		return nil, apperror.Unavailable("pet listing")
	}
	return s.client.ListTypes(ctx)
}

func (s *Service) Breeds(ctx context.Context, animalType string) ([]string, error) {
	if s.client == nil {
		return nil, apperror.Unavailable("pet listing")
	}
	return s.client.ListBreeds(ctx, animalType)
}

// params normaliza y valida; los campos multi-valor aceptan listas con coma.
func (in Input) params() (petlisting.SearchParams, error) {
	p := petlisting.SearchParams{
		Type:     strings.TrimSpace(in.Type),
		Breed:    strings.TrimSpace(in.Breed),
		Location: strings.TrimSpace(in.Location),
		Distance: in.Distance,
		Page:     in.Page,
		Limit:    in.Limit,
	}

	var err error
	if p.Age, err = enumList("age", in.Age, validAges); err != nil {
		return p, err
	}
	if p.Gender, err = enumList("gender", in.Gender, validGenders); err != nil {
		return p, err
	}
	if p.Size, err = enumList("size", in.Size, validSizes); err != nil {
		return p, err
	}

	if p.Page == 0 {
		p.Page = 1
	}
	if p.Page < 1 {
		return p, apperror.Invalid("page", "page must be >= 1")
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		return p, apperror.Invalid("limit", "limit must be between 1 and 100")
	}
	if p.Distance != 0 {
		if p.Location == "" {
			return p, apperror.Invalid("distance", "distance requires location")
		}
		if p.Distance < 1 || p.Distance > MaxDistance {
			return p, apperror.Invalid("distance", "distance must be between 1 and 500")
		}
	}
	return p, nil
}

func enumList(field, raw string, allowed []string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	parts := strings.Split(strings.ToLower(raw), ",")
	out := make([]string, 0, len(parts))
	for _, v := range parts {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		ok := false
		for _, a := range allowed {
			if v == a {
				ok = true
				break
			}
		}
		if !ok {
			return "", apperror.Invalid(field, field+" must be one of "+strings.Join(allowed, ", "))
		}
		out = append(out, v)
	}
	return strings.Join(out, ","), nil
}

// ToMirror convierte un listado externo al input de pets.Service.Mirror.
func ToMirror(l Listing) pets.MirrorInput {
	location := strings.Join(nonEmpty(l.Contact.Address.City, l.Contact.Address.State), ", ")
	return pets.MirrorInput{
		Source:       pets.SourcePetfinder,
		ExternalID:   l.ID,
		Name:         l.Name,
		Type:         l.Type,
		Breed:        l.Breed,
		Age:          l.Age,
		Gender:       l.Gender,
		Size:         l.Size,
		Description:  l.Description,
		Photos:       l.Photos,
		Status:       l.Status,
		ContactEmail: l.Contact.Email,
		ContactPhone: l.Contact.Phone,
		URL:          l.URL,
		Location:     location,
	}
}

func nonEmpty(vals ...string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
