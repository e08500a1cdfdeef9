package shelters

import (
	"strings"
	"time"
)

type Address struct {
	Address1 string
	City     string
	State    string
	Postcode string
	Country  string
}

// String arma una dirección apta para geocoding.
func (a Address) String() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.Address1, a.City, a.State, a.Postcode, a.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

type Shelter struct {
	ID         string
	ExternalID string
	Name       string
	Email      string
	Phone      string
	Website    string
	URL        string
	Address    Address

	Latitude  *float64
	Longitude *float64

	// Distance viene del directorio en cada búsqueda; no se persiste.
	Distance *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s Shelter) HasCoordinates() bool {
	return s.Latitude != nil && s.Longitude != nil
}
