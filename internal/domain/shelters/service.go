package shelters

import (
	"context"
	"errors"
	"strings"
	"time"

	"newleash/internal/apperror"
	"newleash/internal/platform/logger"
	"newleash/internal/ports/geocoding"
	"newleash/internal/ports/petlisting"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	MaxDistance     = 500
	DefaultLimit    = 20
	geocodeParallel = 4
)

type Service struct {
	repo      Repository
	directory petlisting.Client
	geocoder  geocoding.Geocoder
	log       logger.Logger
	now       func() time.Time
}

// NewService: directory y geocoder pueden ser nil (sin configurar).
func NewService(repo Repository, directory petlisting.Client, geocoder geocoding.Geocoder, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:      repo,
		directory: directory,
		geocoder:  geocoder,
		log:       log,
		now:       time.Now,
	}
}

// Lookup consulta el directorio externo, completa coordenadas faltantes con
// geocoding (los fallos se toleran) y guarda cada refugio.
func (s *Service) Lookup(ctx context.Context, location string, distance int) ([]Shelter, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, apperror.Invalid("location", "location is required")
	}
	if distance < 0 || distance > MaxDistance {
		return nil, apperror.Invalid("distance", "distance must be between 0 and 500")
	}
	if s.directory == nil {
		return nil, apperror.Unavailable("shelter directory")
	}

	page, err := s.directory.SearchOrganizations(ctx, petlisting.SearchParams{
		Location: location,
		Distance: distance,
		Limit:    DefaultLimit,
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]Shelter, len(page.Organizations))
	for i, org := range page.Organizations {
		out[i] = fromOrganization(org)
		out[i].CreatedAt, out[i].UpdatedAt = now, now
		existing, err := s.repo.GetByExternalID(ctx, org.ID)
		switch {
		case err == nil:
			out[i].Latitude, out[i].Longitude = existing.Latitude, existing.Longitude
		case !errors.Is(err, apperror.ErrNotFound):
			return nil, err
		}
	}

	s.fillCoordinates(ctx, out)

	for i := range out {
		distance := out[i].Distance
		saved, err := s.repo.Upsert(ctx, out[i])
		if err != nil {
			return nil, err
		}
		saved.Distance = distance
		out[i] = saved
	}
	return out, nil
}

func (s *Service) fillCoordinates(ctx context.Context, list []Shelter) {
	if s.geocoder == nil {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(geocodeParallel)
	for i := range list {
		if list[i].HasCoordinates() {
			continue
		}
		addr := list[i].Address.String()
		if addr == "" {
			continue
		}
		i := i
		g.Go(func() error {
			p, err := s.geocoder.Geocode(gctx, addr)
			if err != nil {
				s.log.Warn("shelter geocoding failed", map[string]any{
					"shelter_external_id": list[i].ExternalID,
					"error":               err,
				})
				return nil
			}
			lat, lng := p.Latitude, p.Longitude
			list[i].Latitude, list[i].Longitude = &lat, &lng
			return nil
		})
	}
	_ = g.Wait()
}

func (s *Service) Get(ctx context.Context, id string) (Shelter, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) List(ctx context.Context) ([]Shelter, error) {
	return s.repo.List(ctx)
}

// Save registra un refugio conocido (seed). Sin ExternalID se usa uno local.
func (s *Service) Save(ctx context.Context, sh Shelter) (Shelter, error) {
	sh.Name = strings.TrimSpace(sh.Name)
	if sh.Name == "" {
		return Shelter{}, apperror.Invalid("name", "name is required")
	}
	if strings.TrimSpace(sh.ExternalID) == "" {
		sh.ExternalID = "local-" + uuid.NewString()
	}
	if sh.ID == "" {
		sh.ID = uuid.NewString()
	}
	now := s.now()
	sh.CreatedAt, sh.UpdatedAt = now, now
	return s.repo.Upsert(ctx, sh)
}

func (s *Service) Geocode(ctx context.Context, address string) (geocoding.Point, error) {
	if s.geocoder == nil {
		return geocoding.Point{}, apperror.Unavailable("geocoding")
	}
	return s.geocoder.Geocode(ctx, address)
}

func fromOrganization(o petlisting.Organization) Shelter {
	return Shelter{
		ID:         uuid.NewString(),
		ExternalID: o.ID,
		Name:       o.Name,
		Email:      o.Email,
		Phone:      o.Phone,
		Website:    o.Website,
		URL:        o.URL,
		Address: Address{
			Address1: o.Address.Address1,
			City:     o.Address.City,
			State:    o.Address.State,
			Postcode: o.Address.Postcode,
			Country:  o.Address.Country,
		},
		Distance: o.Distance,
	}
}
