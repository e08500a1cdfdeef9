// Package petfinder implementa petlisting.Client sobre la API v2 de Petfinder.
//
// El token se obtiene con client credentials y se cachea en memoria hasta
// expiry-buffer. Un 401 invalida el token; el request no se reintenta.
package petfinder

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"newleash/internal/apperror"
	"newleash/internal/platform/httpclient"
	"newleash/internal/ports/petlisting"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	serviceName = "petfinder"

	DefaultBaseURL     = "https://api.petfinder.com/v2"
	DefaultTokenBuffer = 60 * time.Second
)

type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
	TokenBuffer  time.Duration
}

func (c Config) IsConfigured() bool {
	return strings.TrimSpace(c.ClientID) != "" && strings.TrimSpace(c.ClientSecret) != ""
}

type Client struct {
	cfg    Config
	http   *httpclient.Client
	tokens *tokenCache
}

var _ petlisting.Client = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.TokenBuffer <= 0 {
		cfg.TokenBuffer = DefaultTokenBuffer
	}

	hc, err := httpclient.NewWithBaseURL(serviceName, cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	c := &Client{cfg: cfg, http: hc}
	c.tokens = newTokenCache(cfg.TokenBuffer, c.fetchToken)
	return c, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.cfg.IsConfigured()
}

// SetObserver registra métricas de upstream.
func (c *Client) SetObserver(o httpclient.Observer) {
	c.http.Observer = o
}

func (c *Client) CloseIdleConnections() {
	c.http.HTTP.CloseIdleConnections()
}

func (c *Client) fetchToken(ctx context.Context) (*oauth2.Token, error) {
	cc := clientcredentials.Config{
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
		TokenURL:     c.http.BaseURL + "/oauth2/token",
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http.HTTP)

	start := time.Now()
	tok, err := cc.Token(ctx)
	status := http.StatusOK
	if err != nil {
		status = 0
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil {
			status = re.Response.StatusCode
		}
	}
	if c.http.Observer != nil {
		c.http.Observer.ObserveUpstream(serviceName, http.MethodPost, status, time.Since(start))
	}
	if err != nil {
		return nil, err
	}
	return tok, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if !c.IsConfigured() {
		return apperror.Unavailable(serviceName)
	}

	tok, err := c.tokens.Token(ctx)
	if err != nil {
		return apperror.Upstream(serviceName, err)
	}

	err = c.http.GetJSON(ctx, path, query, map[string]string{"Authorization": "Bearer " + tok}, out)
	switch httpclient.StatusOf(err) {
	case 0:
		if err != nil {
			return apperror.Upstream(serviceName, err)
		}
		return nil
	case http.StatusUnauthorized:
		c.tokens.Invalidate()
		return apperror.Upstream(serviceName, err)
	case http.StatusNotFound:
		return apperror.NotFound(serviceName+" resource", path)
	case http.StatusBadRequest:
		return apperror.Invalid("", "invalid search parameters")
	default:
		return apperror.Upstream(serviceName, err)
	}
}

func (c *Client) SearchAnimals(ctx context.Context, p petlisting.SearchParams) (petlisting.AnimalsPage, error) {
	var resp animalsResponse
	if err := c.get(ctx, "/animals", searchQuery(p), &resp); err != nil {
		return petlisting.AnimalsPage{}, err
	}

	out := petlisting.AnimalsPage{
		Animals:    make([]petlisting.Animal, 0, len(resp.Animals)),
		Pagination: resp.Pagination.toDomain(),
	}
	for _, a := range resp.Animals {
		out.Animals = append(out.Animals, a.toDomain())
	}
	return out, nil
}

func (c *Client) GetAnimal(ctx context.Context, id string) (petlisting.Animal, error) {
	id = strings.TrimSpace(id)
	if _, err := strconv.ParseInt(id, 10, 64); err != nil {
		return petlisting.Animal{}, apperror.Invalid("id", "listing id must be numeric")
	}

	var resp animalResponse
	if err := c.get(ctx, "/animals/"+id, nil, &resp); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return petlisting.Animal{}, apperror.NotFound("listing", id)
		}
		return petlisting.Animal{}, err
	}
	return resp.Animal.toDomain(), nil
}

func (c *Client) ListTypes(ctx context.Context) ([]string, error) {
	var resp typesResponse
	if err := c.get(ctx, "/types", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(resp.Types))
	for _, t := range resp.Types {
		out = append(out, t.Name)
	}
	return out, nil
}

func (c *Client) ListBreeds(ctx context.Context, animalType string) ([]string, error) {
	animalType = strings.TrimSpace(animalType)
	if animalType == "" {
		return nil, apperror.Invalid("type", "type is required")
	}

	var resp breedsResponse
	if err := c.get(ctx, "/types/"+url.PathEscape(strings.ToLower(animalType))+"/breeds", nil, &resp); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("type", animalType)
		}
		return nil, err
	}
	out := make([]string, 0, len(resp.Breeds))
	for _, b := range resp.Breeds {
		out = append(out, b.Name)
	}
	return out, nil
}

func (c *Client) SearchOrganizations(ctx context.Context, p petlisting.SearchParams) (petlisting.OrganizationsPage, error) {
	q := url.Values{}
	setIf(q, "location", p.Location)
	setInt(q, "distance", p.Distance)
	setInt(q, "page", p.Page)
	setInt(q, "limit", p.Limit)

	var resp organizationsResponse
	if err := c.get(ctx, "/organizations", q, &resp); err != nil {
		return petlisting.OrganizationsPage{}, err
	}

	out := petlisting.OrganizationsPage{
		Organizations: make([]petlisting.Organization, 0, len(resp.Organizations)),
		Pagination:    resp.Pagination.toDomain(),
	}
	for _, o := range resp.Organizations {
		out.Organizations = append(out.Organizations, o.toDomain())
	}
	return out, nil
}

func searchQuery(p petlisting.SearchParams) url.Values {
	q := url.Values{}
	setIf(q, "type", p.Type)
	setIf(q, "breed", p.Breed)
	setIf(q, "age", p.Age)
	setIf(q, "gender", p.Gender)
	setIf(q, "size", p.Size)
	setIf(q, "location", p.Location)
	setInt(q, "distance", p.Distance)
	setInt(q, "page", p.Page)
	setInt(q, "limit", p.Limit)
	return q
}

func setIf(q url.Values, key, v string) {
	if v = strings.TrimSpace(v); v != "" {
		q.Set(key, v)
	}
}

func setInt(q url.Values, key string, v int) {
	if v > 0 {
		q.Set(key, strconv.Itoa(v))
	}
}
