// Package images recibe imágenes en base64, las valida y reduce con
// platform/imaging y las sube al image host.
package images

import (
	"context"
	"errors"
	"path"
	"strings"

	"newleash/internal/apperror"
	"newleash/internal/platform/imaging"
	"newleash/internal/ports/imagehost"
)

type Options struct {
	Folder  string
	Imaging imaging.Options
}

type Service struct {
	host imagehost.Host
	opts Options
}

func NewService(host imagehost.Host, opts Options) *Service {
	opts.Folder = strings.Trim(opts.Folder, "/ ")
	return &Service{host: host, opts: opts}
}

type UploadInput struct {
	Data     string // base64 o data URL
	Filename string
}

func (s *Service) Upload(ctx context.Context, in UploadInput) (imagehost.Image, error) {
	if s.host == nil {
		return imagehost.Image{}, apperror.Unavailable("image host")
	}

	raw, err := imaging.DecodeBase64(in.Data)
	if err != nil {
		return imagehost.Image{}, apperror.Invalid("data", "image data must be base64 or a base64 data URL")
	}

	res, err := imaging.Prepare(raw, s.opts.Imaging)
	if err != nil {
		return imagehost.Image{}, mapImagingError(err)
	}

	return s.host.Upload(ctx, imagehost.Upload{
		Data:     res.Data,
		Filename: filename(in.Filename, res.ContentType),
	})
}

// Delete solo acepta public IDs dentro de la carpeta configurada.
func (s *Service) Delete(ctx context.Context, publicID string) error {
	if s.host == nil {
		return apperror.Unavailable("image host")
	}
	publicID = strings.TrimSpace(publicID)
	if publicID == "" {
		return apperror.Invalid("publicId", "publicId is required")
	}
	if s.opts.Folder != "" && !strings.HasPrefix(publicID, s.opts.Folder+"/") {
		return apperror.Forbidden("image is outside the application folder")
	}
	if strings.Contains(publicID, "..") {
		return apperror.Invalid("publicId", "publicId is malformed")
	}
	return s.host.Delete(ctx, publicID)
}

func mapImagingError(err error) error {
	switch {
	case errors.Is(err, imaging.ErrEmpty):
		return apperror.Invalid("data", "image is empty")
	case errors.Is(err, imaging.ErrUnsupported):
		return apperror.Invalid("data", "image must be JPEG, PNG, GIF or WebP")
	case errors.Is(err, imaging.ErrTooLarge):
		return apperror.Invalid("data", "image is too large")
	default:
		return err
	}
}

var extByType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// filename ajusta la extensión al tipo real tras re-codificar.
func filename(name, contentType string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "image"
	}
	base = strings.TrimSuffix(base, path.Ext(base))
	return base + extByType[contentType]
}
