package pets

import (
	"context"
	"errors"
	"net/mail"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"newleash/internal/apperror"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name         string
	Type         string
	Breed        string
	Age          string
	Gender       string
	Size         string
	Description  string
	Photos       []string
	ContactEmail string
	ContactPhone string
	Location     string
}

func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Pet, error) {
	if strings.TrimSpace(ownerID) == "" {
		return Pet{}, apperror.Unauthenticated("")
	}

	now := s.now()
	p := Pet{
		ID:           uuid.NewString(),
		Source:       SourceLocal,
		OwnerID:      ownerID,
		Name:         strings.TrimSpace(in.Name),
		Type:         strings.ToLower(strings.TrimSpace(in.Type)),
		Breed:        strings.TrimSpace(in.Breed),
		Age:          Age(strings.ToLower(strings.TrimSpace(in.Age))),
		Gender:       Gender(strings.ToLower(strings.TrimSpace(in.Gender))),
		Size:         Size(strings.ToLower(strings.TrimSpace(in.Size))),
		Description:  strings.TrimSpace(in.Description),
		Photos:       cleanPhotos(in.Photos),
		Status:       StatusAdoptable,
		ContactEmail: strings.ToLower(strings.TrimSpace(in.ContactEmail)),
		ContactPhone: strings.TrimSpace(in.ContactPhone),
		Location:     strings.TrimSpace(in.Location),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := validate(p); err != nil {
		return Pet{}, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

// UpdateInput: nil = no tocar. Photos != nil reemplaza la lista completa.
type UpdateInput struct {
	Name         *string
	Type         *string
	Breed        *string
	Age          *string
	Gender       *string
	Size         *string
	Description  *string
	Photos       []string
	Status       *string
	ContactEmail *string
	ContactPhone *string
	Location     *string
}

func (s *Service) Update(ctx context.Context, id, callerID string, in UpdateInput) (Pet, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	if err := authorizeWrite(p, callerID); err != nil {
		return Pet{}, err
	}

	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Type != nil {
		p.Type = strings.ToLower(strings.TrimSpace(*in.Type))
	}
	if in.Breed != nil {
		p.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Age != nil {
		p.Age = Age(strings.ToLower(strings.TrimSpace(*in.Age)))
	}
	if in.Gender != nil {
		p.Gender = Gender(strings.ToLower(strings.TrimSpace(*in.Gender)))
	}
	if in.Size != nil {
		p.Size = Size(strings.ToLower(strings.TrimSpace(*in.Size)))
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Photos != nil {
		p.Photos = cleanPhotos(in.Photos)
	}
	if in.Status != nil {
		p.Status = Status(strings.ToLower(strings.TrimSpace(*in.Status)))
	}
	if in.ContactEmail != nil {
		p.ContactEmail = strings.ToLower(strings.TrimSpace(*in.ContactEmail))
	}
	if in.ContactPhone != nil {
		p.ContactPhone = strings.TrimSpace(*in.ContactPhone)
	}
	if in.Location != nil {
		p.Location = strings.TrimSpace(*in.Location)
	}

	if err := validate(p); err != nil {
		return Pet{}, err
	}

	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id, callerID string) (Pet, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	if err := authorizeWrite(p, callerID); err != nil {
		return Pet{}, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) List(ctx context.Context, f Filter) ([]Pet, error) {
	f.Type = strings.ToLower(strings.TrimSpace(f.Type))
	f.OwnerID = strings.TrimSpace(f.OwnerID)
	return s.repo.List(ctx, f)
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Pet, error) {
	return s.List(ctx, Filter{OwnerID: ownerID})
}

// GetMany respeta el orden de ids y omite los que ya no existen.
func (s *Service) GetMany(ctx context.Context, ids []string) ([]Pet, error) {
	if len(ids) == 0 {
		return []Pet{}, nil
	}
	found, err := s.repo.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]Pet, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]Pet, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// MirrorInput es un animal del listado externo ya normalizado.
type MirrorInput struct {
	Source       Source
	ExternalID   string
	Name         string
	Type         string
	Breed        string
	Age          string
	Gender       string
	Size         string
	Description  string
	Photos       []string
	Status       string
	ContactEmail string
	ContactPhone string
	URL          string
	Location     string
	ShelterID    string
}

// Mirror hace upsert por (Source, ExternalID). Valores fuera de los enums se
// descartan en vez de fallar: el dato viene de un tercero.
func (s *Service) Mirror(ctx context.Context, in MirrorInput) (Pet, error) {
	if in.Source == "" || in.Source == SourceLocal {
		return Pet{}, apperror.Invalid("source", "mirror requires an external source")
	}
	in.ExternalID = strings.TrimSpace(in.ExternalID)
	if in.ExternalID == "" {
		return Pet{}, apperror.Invalid("externalId", "externalId is required")
	}

	now := s.now()
	p := Pet{
		ID:           uuid.NewString(),
		Source:       in.Source,
		ExternalID:   in.ExternalID,
		Name:         strings.TrimSpace(in.Name),
		Type:         strings.ToLower(strings.TrimSpace(in.Type)),
		Breed:        strings.TrimSpace(in.Breed),
		Age:          Age(normalizeEnum(in.Age)),
		Gender:       Gender(normalizeEnum(in.Gender)),
		Size:         Size(normalizeEnum(in.Size)),
		Description:  strings.TrimSpace(in.Description),
		Photos:       cleanPhotos(in.Photos),
		Status:       Status(normalizeEnum(in.Status)),
		ContactEmail: strings.ToLower(strings.TrimSpace(in.ContactEmail)),
		ContactPhone: strings.TrimSpace(in.ContactPhone),
		URL:          strings.TrimSpace(in.URL),
		Location:     strings.TrimSpace(in.Location),
		ShelterID:    strings.TrimSpace(in.ShelterID),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	p.Name = truncateRunes(p.Name, MaxNameLen)
	p.Description = truncateRunes(p.Description, MaxDescriptionLen)
	if p.Name == "" {
		p.Name = "Unnamed"
	}
	if len(p.Photos) > MaxPhotos {
		p.Photos = p.Photos[:MaxPhotos]
	}
	if !validAges[p.Age] {
		p.Age = ""
	}
	if !validGenders[p.Gender] {
		p.Gender = ""
	}
	if !validSizes[p.Size] {
		p.Size = ""
	}
	if !validStatus[p.Status] {
		p.Status = StatusAdoptable
	}
	if _, err := mail.ParseAddress(p.ContactEmail); err != nil {
		p.ContactEmail = ""
	}

	existing, err := s.repo.GetByExternalID(ctx, p.Source, p.ExternalID)
	switch {
	case err == nil:
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
		if err := s.repo.Update(ctx, p); err != nil {
			return Pet{}, err
		}
		return p, nil
	case errors.Is(err, apperror.ErrNotFound):
		if err := s.repo.Create(ctx, p); err != nil {
			return Pet{}, err
		}
		return p, nil
	default:
		return Pet{}, err
	}
}

func validate(p Pet) error {
	if p.Name == "" || utf8.RuneCountInString(p.Name) > MaxNameLen {
		return apperror.Invalid("name", "name is required (max 80 characters)")
	}
	if p.Type == "" {
		return apperror.Invalid("type", "type is required")
	}
	if p.Age != "" && !validAges[p.Age] {
		return apperror.Invalid("age", "age must be one of baby, young, adult, senior")
	}
	if p.Gender != "" && !validGenders[p.Gender] {
		return apperror.Invalid("gender", "gender must be one of male, female, unknown")
	}
	if p.Size != "" && !validSizes[p.Size] {
		return apperror.Invalid("size", "size must be one of small, medium, large, xlarge")
	}
	if !validStatus[p.Status] {
		return apperror.Invalid("status", "status must be adoptable or adopted")
	}
	if utf8.RuneCountInString(p.Description) > MaxDescriptionLen {
		return apperror.Invalid("description", "description must be at most 5000 characters")
	}
	if len(p.Photos) > MaxPhotos {
		return apperror.Invalid("photos", "at most 6 photos are allowed")
	}
	for _, ph := range p.Photos {
		u, err := url.Parse(ph)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return apperror.Invalid("photos", "photos must be http(s) URLs")
		}
	}
	if p.ContactEmail != "" {
		if _, err := mail.ParseAddress(p.ContactEmail); err != nil {
			return apperror.Invalid("contactEmail", "contactEmail is not a valid address")
		}
	}
	return nil
}

func cleanPhotos(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// normalizeEnum: "Extra Large" -> "xlarge", "Young" -> "young".
func normalizeEnum(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "extra large" {
		return string(SizeXLarge)
	}
	return v
}

// truncateRunes corta s a n runas y quita espacios sobrantes al final.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}
