package imagehost

import "context"

type Upload struct {
	Data     []byte
	Filename string
}

type Image struct {
	PublicID string
	URL      string
	Format   string
	Width    int
	Height   int
	Bytes    int
}

type Host interface {
	Upload(ctx context.Context, in Upload) (Image, error)
	Delete(ctx context.Context, publicID string) error
}
