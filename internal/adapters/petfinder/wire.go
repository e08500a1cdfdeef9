package petfinder

import (
	"strconv"
	"strings"
	"time"

	"newleash/internal/ports/petlisting"
)

// Formas JSON de Petfinder v2. Solo los campos que usamos.

type wireAddress struct {
	Address1 string `json:"address1"`
	City     string `json:"city"`
	State    string `json:"state"`
	Postcode string `json:"postcode"`
	Country  string `json:"country"`
}

type wirePhoto struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
	Full   string `json:"full"`
}

type wireAnimal struct {
	ID             int64  `json:"id"`
	OrganizationID string `json:"organization_id"`
	URL            string `json:"url"`
	Type           string `json:"type"`
	Species        string `json:"species"`
	Breeds         struct {
		Primary   string `json:"primary"`
		Secondary string `json:"secondary"`
		Mixed     bool   `json:"mixed"`
	} `json:"breeds"`
	Age         string      `json:"age"`
	Gender      string      `json:"gender"`
	Size        string      `json:"size"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Status      string      `json:"status"`
	Photos      []wirePhoto `json:"photos"`
	Contact     struct {
		Email   string      `json:"email"`
		Phone   string      `json:"phone"`
		Address wireAddress `json:"address"`
	} `json:"contact"`
	Distance    *float64 `json:"distance"`
	PublishedAt string   `json:"published_at"`
}

type wirePagination struct {
	CountPerPage int `json:"count_per_page"`
	TotalCount   int `json:"total_count"`
	CurrentPage  int `json:"current_page"`
	TotalPages   int `json:"total_pages"`
}

type animalsResponse struct {
	Animals    []wireAnimal   `json:"animals"`
	Pagination wirePagination `json:"pagination"`
}

type animalResponse struct {
	Animal wireAnimal `json:"animal"`
}

type typesResponse struct {
	Types []struct {
		Name string `json:"name"`
	} `json:"types"`
}

type breedsResponse struct {
	Breeds []struct {
		Name string `json:"name"`
	} `json:"breeds"`
}

type wireOrganization struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Phone    string      `json:"phone"`
	Website  string      `json:"website"`
	URL      string      `json:"url"`
	Address  wireAddress `json:"address"`
	Distance *float64    `json:"distance"`
}

type organizationsResponse struct {
	Organizations []wireOrganization `json:"organizations"`
	Pagination    wirePagination     `json:"pagination"`
}

// Petfinder usa offsets sin dos puntos (2018-09-04T14:49:09+0000).
var publishedLayouts = []string{
	"2006-01-02T15:04:05-0700",
	time.RFC3339,
}

func parsePublished(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func (a wireAnimal) toDomain() petlisting.Animal {
	breed := a.Breeds.Primary
	if a.Breeds.Secondary != "" {
		breed += " / " + a.Breeds.Secondary
	} else if a.Breeds.Mixed && breed != "" {
		breed += " Mix"
	}

	photos := make([]string, 0, len(a.Photos))
	for _, p := range a.Photos {
		if u := bestPhoto(p); u != "" {
			photos = append(photos, u)
		}
	}

	return petlisting.Animal{
		ID:             strconv.FormatInt(a.ID, 10),
		OrganizationID: a.OrganizationID,
		URL:            a.URL,
		Type:           a.Type,
		Species:        a.Species,
		Breed:          breed,
		Age:            a.Age,
		Gender:         a.Gender,
		Size:           a.Size,
		Name:           a.Name,
		Description:    a.Description,
		Status:         a.Status,
		Photos:         photos,
		Contact: petlisting.Contact{
			Email:   a.Contact.Email,
			Phone:   a.Contact.Phone,
			Address: a.Contact.Address.toDomain(),
		},
		Distance:    a.Distance,
		PublishedAt: parsePublished(a.PublishedAt),
	}
}

func bestPhoto(p wirePhoto) string {
	for _, u := range []string{p.Full, p.Large, p.Medium, p.Small} {
		if u != "" {
			return u
		}
	}
	return ""
}

func (a wireAddress) toDomain() petlisting.Address {
	return petlisting.Address{
		Address1: a.Address1,
		City:     a.City,
		State:    a.State,
		Postcode: a.Postcode,
		Country:  a.Country,
	}
}

func (o wireOrganization) toDomain() petlisting.Organization {
	return petlisting.Organization{
		ID:       o.ID,
		Name:     o.Name,
		Email:    o.Email,
		Phone:    o.Phone,
		Website:  o.Website,
		URL:      o.URL,
		Address:  o.Address.toDomain(),
		Distance: o.Distance,
	}
}

func (p wirePagination) toDomain() petlisting.Pagination {
	return petlisting.Pagination{
		CurrentPage: p.CurrentPage,
		TotalPages:  p.TotalPages,
		TotalCount:  p.TotalCount,
		PerPage:     p.CountPerPage,
	}
}
