package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"newleash/internal/apperror"
	"newleash/internal/platform/imaging"
	"newleash/internal/ports/imagehost"
)

type fakeHost struct {
	uploaded []imagehost.Upload
	deleted  []string
}

func (h *fakeHost) Upload(ctx context.Context, in imagehost.Upload) (imagehost.Image, error) {
	h.uploaded = append(h.uploaded, in)
	return imagehost.Image{PublicID: "newleash/abc", URL: "https://cdn/abc", Bytes: len(in.Data)}, nil
}

func (h *fakeHost) Delete(ctx context.Context, publicID string) error {
	h.deleted = append(h.deleted, publicID)
	return nil
}

func pngBase64(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 200, B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestUpload_ResizesBeforeUploading(t *testing.T) {
	host := &fakeHost{}
	svc := NewService(host, Options{Folder: "newleash", Imaging: imaging.Options{MaxDimension: 50}})

	img, err := svc.Upload(context.Background(), UploadInput{
		Data:     "data:image/png;base64," + pngBase64(t, 200, 100),
		Filename: "C:\\photos\\milo.jpeg",
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if img.PublicID != "newleash/abc" {
		t.Errorf("image = %+v", img)
	}
	if len(host.uploaded) != 1 {
		t.Fatalf("uploads = %d", len(host.uploaded))
	}
	up := host.uploaded[0]
	if up.Filename != "milo.png" {
		t.Errorf("filename = %q", up.Filename)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(up.Data))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.Width != 50 || cfg.Height != 25 {
		t.Errorf("uploaded size = %dx%d", cfg.Width, cfg.Height)
	}
}

func TestUpload_RejectsBadPayloads(t *testing.T) {
	svc := NewService(&fakeHost{}, Options{})

	for _, data := range []string{"", "!!!", base64.StdEncoding.EncodeToString([]byte("plain text, not an image"))} {
		if _, err := svc.Upload(context.Background(), UploadInput{Data: data}); !errors.Is(err, apperror.ErrInvalidInput) {
			t.Errorf("Upload(%q) err = %v, want invalid", data, err)
		}
	}
}

func TestDelete_RestrictedToFolder(t *testing.T) {
	host := &fakeHost{}
	svc := NewService(host, Options{Folder: "/newleash/"})

	if err := svc.Delete(context.Background(), "other/abc"); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("err = %v, want forbidden", err)
	}
	if err := svc.Delete(context.Background(), "newleash/../x"); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("err = %v, want invalid", err)
	}
	if err := svc.Delete(context.Background(), "newleash/abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(host.deleted) != 1 || host.deleted[0] != "newleash/abc" {
		t.Errorf("deleted = %v", host.deleted)
	}
}

func TestNoHostIsUnavailable(t *testing.T) {
	svc := NewService(nil, Options{})
	if _, err := svc.Upload(context.Background(), UploadInput{Data: "x"}); !errors.Is(err, apperror.ErrUnavailable) {
		t.Errorf("err = %v", err)
	}
}
