// Package imaging valida y prepara imágenes antes de subirlas al image host:
// sniffing del tipo real, reescalado al lado máximo y un loop de calidad JPEG
// hasta que el resultado entra en el límite de bytes.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"net/http"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var (
	ErrUnsupported = errors.New("imaging: unsupported image type")
	ErrTooLarge    = errors.New("imaging: image too large")
	ErrEmpty       = errors.New("imaging: empty image")
)

const (
	DefaultMaxInputBytes = 10 << 20
	DefaultMaxBytes      = 1 << 20
	DefaultMaxDimension  = 1600
	DefaultMaxPixels     = 40_000_000
	DefaultStartQuality  = 90
	DefaultMinQuality    = 40
	DefaultQualityStep   = 10
)

var allowedTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

type Options struct {
	MaxInputBytes int
	MaxBytes      int
	MaxDimension  int
	// MaxPixels acota ancho*alto declarado antes de decodificar.
	MaxPixels     int
	StartQuality  int
	MinQuality    int
	QualityStep   int
}

func (o Options) withDefaults() Options {
	if o.MaxInputBytes <= 0 {
		o.MaxInputBytes = DefaultMaxInputBytes
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxBytes
	}
	if o.MaxDimension <= 0 {
		o.MaxDimension = DefaultMaxDimension
	}
	if o.MaxPixels <= 0 {
		o.MaxPixels = DefaultMaxPixels
	}
	if o.StartQuality <= 0 || o.StartQuality > 100 {
		o.StartQuality = DefaultStartQuality
	}
	if o.MinQuality <= 0 || o.MinQuality > o.StartQuality {
		o.MinQuality = DefaultMinQuality
	}
	if o.QualityStep <= 0 {
		o.QualityStep = DefaultQualityStep
	}
	return o
}

type Result struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
	Resized     bool
	Quality     int // 0 si no se re-codificó como JPEG
}

// DecodeBase64 acepta base64 plano o un data URL (data:image/png;base64,...).
func DecodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		i := strings.Index(s, ",")
		if i < 0 {
			return nil, fmt.Errorf("imaging: malformed data url")
		}
		if !strings.Contains(s[:i], ";base64") {
			return nil, fmt.Errorf("imaging: data url must be base64 encoded")
		}
		s = s[i+1:]
	}
	if s == "" {
		return nil, ErrEmpty
	}

	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		b, err = base64.RawStdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("imaging: invalid base64: %w", err)
		}
	}
	return b, nil
}

// Sniff devuelve el content type real si es uno de los soportados.
func Sniff(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmpty
	}
	ct := http.DetectContentType(data)
	if _, ok := allowedTypes[ct]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, ct)
	}
	return ct, nil
}

// Prepare valida, reescala y comprime. Si la imagen ya cumple los límites se
// devuelve tal cual.
func Prepare(data []byte, opts Options) (Result, error) {
	opts = opts.withDefaults()

	if len(data) > opts.MaxInputBytes {
		return Result{}, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, len(data), opts.MaxInputBytes)
	}
	ct, err := Sniff(data)
	if err != nil {
		return Result{}, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("%w: decode config: %v", ErrUnsupported, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Result{}, fmt.Errorf("%w: %dx%d", ErrUnsupported, cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(opts.MaxPixels) {
		return Result{}, fmt.Errorf("%w: %dx%d pixels (max %d)", ErrTooLarge, cfg.Width, cfg.Height, opts.MaxPixels)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("%w: decode: %v", ErrUnsupported, err)
	}

	img, resized := fit(src, opts.MaxDimension)
	b := img.Bounds()

	if !resized && len(data) <= opts.MaxBytes {
		return Result{Data: data, ContentType: ct, Width: b.Dx(), Height: b.Dy()}, nil
	}

	// PNG/GIF/WebP reescalados: primero intentamos PNG para no perder transparencia.
	if resized && ct != "image/jpeg" {
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return Result{}, fmt.Errorf("imaging: encode png: %w", err)
		}
		if buf.Len() <= opts.MaxBytes {
			return Result{Data: buf.Bytes(), ContentType: "image/png", Width: b.Dx(), Height: b.Dy(), Resized: true}, nil
		}
	}

	flat := flatten(img)
	for q := opts.StartQuality; q >= opts.MinQuality; q -= opts.QualityStep {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, flat, &jpeg.Options{Quality: q}); err != nil {
			return Result{}, fmt.Errorf("imaging: encode jpeg: %w", err)
		}
		if buf.Len() <= opts.MaxBytes {
			return Result{
				Data:        buf.Bytes(),
				ContentType: "image/jpeg",
				Width:       b.Dx(),
				Height:      b.Dy(),
				Resized:     resized,
				Quality:     q,
			}, nil
		}
	}

	return Result{}, fmt.Errorf("%w: cannot fit in %d bytes", ErrTooLarge, opts.MaxBytes)
}

// fit reescala para que el lado mayor sea <= maxDim, manteniendo aspecto.
func fit(src image.Image, maxDim int) (image.Image, bool) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return src, false
	}

	nw, nh := maxDim, maxDim
	if w >= h {
		nh = max(1, h*maxDim/w)
	} else {
		nw = max(1, w*maxDim/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst, true
}

// flatten pinta sobre fondo blanco; JPEG no tiene canal alfa.
func flatten(src image.Image) image.Image {
	if _, ok := src.(*image.YCbCr); ok {
		return src
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	return dst
}
