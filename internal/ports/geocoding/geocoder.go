package geocoding

import "context"

type Point struct {
	Latitude         float64
	Longitude        float64
	FormattedAddress string
}

// Geocoder resuelve una dirección libre a coordenadas.
// Si no hay resultados devuelve un error apperror.ErrNotFound.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Point, error)
}
