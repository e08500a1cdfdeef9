// Package seed carga fixtures YAML (perfiles, mascotas, refugios, foro)
// a través de los servicios de dominio, con las mismas validaciones que la API.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"newleash/internal/apperror"
	"newleash/internal/domain/forum"
	"newleash/internal/domain/pets"
	"newleash/internal/domain/profiles"
	"newleash/internal/domain/shelters"
	"newleash/internal/platform/logger"

	"gopkg.in/yaml.v3"
)

type File struct {
	Profiles []Profile `yaml:"profiles"`
	Shelters []Shelter `yaml:"shelters"`
	Threads  []Thread  `yaml:"threads"`
}

type Profile struct {
	Username    string `yaml:"username"`
	Email       string `yaml:"email"`
	Password    string `yaml:"password"`
	DisplayName string `yaml:"displayName"`
	Location    string `yaml:"location"`
	Pets        []Pet  `yaml:"pets"`
	// Saves referencia mascotas de este archivo por nombre.
	Saves []string `yaml:"saves"`
}

type Pet struct {
	Name         string   `yaml:"name"`
	Type         string   `yaml:"type"`
	Breed        string   `yaml:"breed"`
	Age          string   `yaml:"age"`
	Gender       string   `yaml:"gender"`
	Size         string   `yaml:"size"`
	Description  string   `yaml:"description"`
	Photos       []string `yaml:"photos"`
	ContactEmail string   `yaml:"contactEmail"`
	ContactPhone string   `yaml:"contactPhone"`
	Location     string   `yaml:"location"`
}

type Shelter struct {
	ExternalID string   `yaml:"externalId"`
	Name       string   `yaml:"name"`
	Email      string   `yaml:"email"`
	Phone      string   `yaml:"phone"`
	Website    string   `yaml:"website"`
	Address1   string   `yaml:"address1"`
	City       string   `yaml:"city"`
	State      string   `yaml:"state"`
	Postcode   string   `yaml:"postcode"`
	Country    string   `yaml:"country"`
	Latitude   *float64 `yaml:"latitude"`
	Longitude  *float64 `yaml:"longitude"`
}

type Thread struct {
	Author   string    `yaml:"author"`
	Title    string    `yaml:"title"`
	Body     string    `yaml:"body"`
	Comments []Comment `yaml:"comments"`
}

type Comment struct {
	Author string `yaml:"author"`
	Body   string `yaml:"body"`
}

// Parse rechaza claves desconocidas para detectar typos en los fixtures.
func Parse(r io.Reader) (File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return File{}, nil
		}
		return File{}, fmt.Errorf("seed: parse: %w", err)
	}
	return f, nil
}

func Load(path string) (File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("seed: %w", err)
	}
	defer fh.Close()
	return Parse(fh)
}

type Services struct {
	Profiles *profiles.Service
	Pets     *pets.Service
	Forum    *forum.Service
	Shelters *shelters.Service
}

type Result struct {
	Profiles int
	Pets     int
	Saves    int
	Shelters int
	Threads  int
	Comments int
}

// Apply carga el archivo en orden: refugios, perfiles con sus mascotas,
// guardados y foro. Un perfil que ya existe se reutiliza sin volver a crear
// sus mascotas, así correr el seed dos veces no duplica perfiles ni mascotas.
func Apply(ctx context.Context, svc Services, f File, log logger.Logger) (Result, error) {
	if log == nil {
		log = logger.Nop()
	}
	var res Result

	for _, s := range f.Shelters {
		_, err := svc.Shelters.Save(ctx, shelters.Shelter{
			ExternalID: s.ExternalID,
			Name:       s.Name,
			Email:      s.Email,
			Phone:      s.Phone,
			Website:    s.Website,
			Address: shelters.Address{
				Address1: s.Address1,
				City:     s.City,
				State:    s.State,
				Postcode: s.Postcode,
				Country:  s.Country,
			},
			Latitude:  s.Latitude,
			Longitude: s.Longitude,
		})
		if err != nil {
			return res, fmt.Errorf("seed: shelter %q: %w", s.Name, err)
		}
		res.Shelters++
	}

	profileIDs := make(map[string]string, len(f.Profiles))
	petIDs := make(map[string]string)

	for _, p := range f.Profiles {
		created, err := svc.Profiles.Register(ctx, profiles.RegisterInput{
			Username: p.Username,
			Email:    p.Email,
			Password: p.Password,
		})
		if errors.Is(err, apperror.ErrConflict) {
			existing, gerr := svc.Profiles.GetByUsername(ctx, p.Username)
			if gerr != nil {
				return res, fmt.Errorf("seed: profile %q: %w", p.Username, err)
			}
			log.Info("seed profile exists, skipping", map[string]any{"username": p.Username})
			profileIDs[p.Username] = existing.ID
			continue
		}
		if err != nil {
			return res, fmt.Errorf("seed: profile %q: %w", p.Username, err)
		}
		res.Profiles++
		profileIDs[p.Username] = created.ID

		if p.DisplayName != "" || p.Location != "" {
			upd := profiles.UpdateInput{}
			if p.DisplayName != "" {
				upd.DisplayName = &p.DisplayName
			}
			if p.Location != "" {
				upd.Location = &p.Location
			}
			if _, err := svc.Profiles.Update(ctx, created.ID, upd); err != nil {
				return res, fmt.Errorf("seed: profile %q: %w", p.Username, err)
			}
		}

		for _, pet := range p.Pets {
			out, err := svc.Pets.Create(ctx, created.ID, pets.CreateInput{
				Name:         pet.Name,
				Type:         pet.Type,
				Breed:        pet.Breed,
				Age:          pet.Age,
				Gender:       pet.Gender,
				Size:         pet.Size,
				Description:  pet.Description,
				Photos:       pet.Photos,
				ContactEmail: pet.ContactEmail,
				ContactPhone: pet.ContactPhone,
				Location:     pet.Location,
			})
			if err != nil {
				return res, fmt.Errorf("seed: pet %q of %q: %w", pet.Name, p.Username, err)
			}
			res.Pets++
			petIDs[pet.Name] = out.ID
		}
	}

	for _, p := range f.Profiles {
		for _, name := range p.Saves {
			petID, ok := petIDs[name]
			if !ok {
				log.Warn("seed save references unknown pet", map[string]any{"username": p.Username, "pet": name})
				continue
			}
			if _, err := svc.Profiles.SavePet(ctx, profileIDs[p.Username], petID); err != nil {
				return res, fmt.Errorf("seed: %q saving %q: %w", p.Username, name, err)
			}
			res.Saves++
		}
	}

	for _, t := range f.Threads {
		authorID, ok := profileIDs[t.Author]
		if !ok {
			return res, fmt.Errorf("seed: thread %q: unknown author %q", t.Title, t.Author)
		}
		th, err := svc.Forum.CreateThread(ctx, authorID, t.Title, t.Body)
		if err != nil {
			return res, fmt.Errorf("seed: thread %q: %w", t.Title, err)
		}
		res.Threads++

		for _, c := range t.Comments {
			cAuthor, ok := profileIDs[c.Author]
			if !ok {
				return res, fmt.Errorf("seed: comment on %q: unknown author %q", t.Title, c.Author)
			}
			if _, err := svc.Forum.AddComment(ctx, th.ID, cAuthor, c.Body); err != nil {
				return res, fmt.Errorf("seed: comment on %q: %w", t.Title, err)
			}
			res.Comments++
		}
	}

	log.Info("seed applied", map[string]any{
		"profiles": res.Profiles,
		"pets":     res.Pets,
		"saves":    res.Saves,
		"shelters": res.Shelters,
		"threads":  res.Threads,
		"comments": res.Comments,
	})
	return res, nil
}
