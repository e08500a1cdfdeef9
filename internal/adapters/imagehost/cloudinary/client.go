// Package cloudinary implementa imagehost.Host con la Upload API firmada.
package cloudinary

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"newleash/internal/apperror"
	"newleash/internal/platform/httpclient"
	"newleash/internal/ports/imagehost"
)

const (
	serviceName = "cloudinary"

	DefaultBaseURL = "https://api.cloudinary.com/v1_1"
)

type Config struct {
	BaseURL   string
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
	Timeout   time.Duration
}

func (c Config) IsConfigured() bool {
	return strings.TrimSpace(c.CloudName) != "" &&
		strings.TrimSpace(c.APIKey) != "" &&
		strings.TrimSpace(c.APISecret) != ""
}

type Client struct {
	cfg  Config
	http *httpclient.Client
	now  func() time.Time
}

var _ imagehost.Host = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	hc, err := httpclient.NewWithBaseURL(serviceName, cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Client{cfg: cfg, http: hc, now: time.Now}, nil
}

func (c *Client) SetObserver(o httpclient.Observer) {
	c.http.Observer = o
}

type uploadResponse struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	Format    string `json:"format"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Bytes     int    `json:"bytes"`
}

type destroyResponse struct {
	Result string `json:"result"`
}

func (c *Client) Upload(ctx context.Context, in imagehost.Upload) (imagehost.Image, error) {
	if !c.cfg.IsConfigured() {
		return imagehost.Image{}, apperror.Unavailable(serviceName)
	}
	if len(in.Data) == 0 {
		return imagehost.Image{}, apperror.Invalid("data", "image is empty")
	}

	params := map[string]string{
		"timestamp": strconv.FormatInt(c.now().Unix(), 10),
	}
	if f := strings.Trim(c.cfg.Folder, "/ "); f != "" {
		params["folder"] = f
	}
	fields := c.signed(params)

	filename := strings.TrimSpace(in.Filename)
	if filename == "" {
		filename = "upload"
	}

	var resp uploadResponse
	err := c.http.DoMultipart(ctx, c.path("upload"), fields,
		[]httpclient.FormFile{{Field: "file", Filename: filename, Data: in.Data}}, &resp)
	if err != nil {
		return imagehost.Image{}, apperror.Upstream(serviceName, err)
	}

	return imagehost.Image{
		PublicID: resp.PublicID,
		URL:      resp.SecureURL,
		Format:   resp.Format,
		Width:    resp.Width,
		Height:   resp.Height,
		Bytes:    resp.Bytes,
	}, nil
}

func (c *Client) Delete(ctx context.Context, publicID string) error {
	if !c.cfg.IsConfigured() {
		return apperror.Unavailable(serviceName)
	}
	publicID = strings.TrimSpace(publicID)
	if publicID == "" {
		return apperror.Invalid("publicId", "publicId is required")
	}

	fields := c.signed(map[string]string{
		"public_id": publicID,
		"timestamp": strconv.FormatInt(c.now().Unix(), 10),
	})
	form := url.Values{}
	for k, v := range fields {
		form.Set(k, v)
	}

	var resp destroyResponse
	if err := c.http.PostForm(ctx, c.path("destroy"), form, &resp); err != nil {
		if httpclient.StatusOf(err) == http.StatusNotFound {
			return apperror.NotFound("image", publicID)
		}
		return apperror.Upstream(serviceName, err)
	}

	switch resp.Result {
	case "ok":
		return nil
	case "not found":
		return apperror.NotFound("image", publicID)
	default:
		return apperror.Upstream(serviceName, fmt.Errorf("destroy result %q", resp.Result))
	}
}

func (c *Client) path(action string) string {
	return "/" + url.PathEscape(c.cfg.CloudName) + "/image/" + action
}

// signed agrega api_key y signature a los parámetros firmables.
func (c *Client) signed(params map[string]string) map[string]string {
	out := make(map[string]string, len(params)+2)
	for k, v := range params {
		out[k] = v
	}
	out["signature"] = Sign(params, c.cfg.APISecret)
	out["api_key"] = c.cfg.APIKey
	return out
}

// Sign calcula la firma: sha1 de los pares k=v ordenados por clave, unidos
// con '&', seguidos del api secret. file, api_key y resource_type no se firman.
func Sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		switch k {
		case "file", "api_key", "resource_type", "cloud_name", "signature":
			continue
		}
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(parts, "&") + secret))
	return hex.EncodeToString(sum[:])
}
