package profiles

import (
	"context"
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"newleash/internal/apperror"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLen = 8
	// bcrypt ignora lo que pase de 72 bytes.
	MaxPasswordLen = 72
)

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,30}$`)

type Service struct {
	repo Repository
	now  func() time.Time
	cost int
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
		cost: bcrypt.DefaultCost,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Profile, error) {
	username, err := normalizeUsername(in.Username)
	if err != nil {
		return Profile{}, err
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return Profile{}, err
	}
	hash, err := s.hash(in.Password)
	if err != nil {
		return Profile{}, err
	}

	now := s.now()
	p := Profile{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		DisplayName:  username,
		SavedPetIDs:  []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Authenticate no distingue email inexistente de password incorrecto.
func (s *Service) Authenticate(ctx context.Context, email, password string) (Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Profile{}, apperror.Unauthenticated("invalid email or password")
	}

	p, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return Profile{}, apperror.Unauthenticated("invalid email or password")
		}
		return Profile{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		return Profile{}, apperror.Unauthenticated("invalid email or password")
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (Profile, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) GetByUsername(ctx context.Context, username string) (Profile, error) {
	return s.repo.GetByUsername(ctx, strings.TrimSpace(username))
}

func (s *Service) List(ctx context.Context) ([]Profile, error) {
	return s.repo.List(ctx)
}

// UpdateInput: nil = no tocar.
type UpdateInput struct {
	Username    *string
	Email       *string
	Password    *string
	DisplayName *string
	Location    *string
	AvatarURL   *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Profile, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Profile{}, err
	}

	if in.Username != nil {
		if p.Username, err = normalizeUsername(*in.Username); err != nil {
			return Profile{}, err
		}
	}
	if in.Email != nil {
		if p.Email, err = normalizeEmail(*in.Email); err != nil {
			return Profile{}, err
		}
	}
	if in.Password != nil {
		if p.PasswordHash, err = s.hash(*in.Password); err != nil {
			return Profile{}, err
		}
	}
	if in.DisplayName != nil {
		v := strings.TrimSpace(*in.DisplayName)
		if len(v) > 60 {
			return Profile{}, apperror.Invalid("displayName", "displayName must be at most 60 characters")
		}
		p.DisplayName = v
	}
	if in.Location != nil {
		p.Location = strings.TrimSpace(*in.Location)
	}
	if in.AvatarURL != nil {
		p.AvatarURL = strings.TrimSpace(*in.AvatarURL)
	}

	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Delete devuelve el perfil tal como estaba antes de borrarlo.
func (s *Service) Delete(ctx context.Context, id string) (Profile, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (s *Service) SavePet(ctx context.Context, profileID, petID string) (Profile, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return Profile{}, apperror.Invalid("petId", "petId is required")
	}
	if err := s.repo.AddSavedPet(ctx, profileID, petID, s.now()); err != nil {
		return Profile{}, err
	}
	return s.repo.GetByID(ctx, profileID)
}

// RemoveSavedPet es idempotente: quitar algo no guardado no es error.
func (s *Service) RemoveSavedPet(ctx context.Context, profileID, petID string) (Profile, error) {
	if err := s.repo.RemoveSavedPet(ctx, profileID, strings.TrimSpace(petID)); err != nil {
		return Profile{}, err
	}
	return s.repo.GetByID(ctx, profileID)
}

func (s *Service) hash(password string) (string, error) {
	if len(password) < MinPasswordLen {
		return "", apperror.Invalid("password", "password must be at least 8 characters")
	}
	if len(password) > MaxPasswordLen {
		return "", apperror.Invalid("password", "password must be at most 72 bytes")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func normalizeUsername(v string) (string, error) {
	v = strings.TrimSpace(v)
	if !usernameRe.MatchString(v) {
		return "", apperror.Invalid("username", "username must be 3-30 letters, digits or underscores")
	}
	return v, nil
}

func normalizeEmail(v string) (string, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Address != v || !strings.Contains(v[strings.LastIndex(v, "@")+1:], ".") {
		return "", apperror.Invalid("email", "email is not a valid address")
	}
	return v, nil
}
