package petlisting

import (
	"context"
	"time"
)

// SearchParams son los filtros que acepta la API de listados.
// Campos vacíos/cero no se envían.
type SearchParams struct {
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

type Pagination struct {
	CurrentPage int
	TotalPages  int
	TotalCount  int
	PerPage     int
}

type Address struct {
	Address1 string
	City     string
	State    string
	Postcode string
	Country  string
}

type Contact struct {
	Email   string
	Phone   string
	Address Address
}

type Animal struct {
	ID             string
	OrganizationID string
	URL            string
	Type           string
	Species        string
	Breed          string
	Age            string
	Gender         string
	Size           string
	Name           string
	Description    string
	Status         string
	Photos         []string
	Contact        Contact
	Distance       *float64
	PublishedAt    time.Time
}

type AnimalsPage struct {
	Animals    []Animal
	Pagination Pagination
}

type Organization struct {
	ID       string
	Name     string
	Email    string
	Phone    string
	Website  string
	URL      string
	Address  Address
	Distance *float64
}

type OrganizationsPage struct {
	Organizations []Organization
	Pagination    Pagination
}

// Client es el colaborador externo de búsqueda de mascotas (Petfinder).
type Client interface {
	SearchAnimals(ctx context.Context, p SearchParams) (AnimalsPage, error)
	GetAnimal(ctx context.Context, id string) (Animal, error)
	ListTypes(ctx context.Context) ([]string, error)
	ListBreeds(ctx context.Context, animalType string) ([]string, error)
	SearchOrganizations(ctx context.Context, p SearchParams) (OrganizationsPage, error)
}
