package google

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"newleash/internal/apperror"
)

func newServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "k" {
			t.Errorf("key = %q", r.URL.Query().Get("key"))
		}
		if r.URL.Query().Get("address") == "" {
			t.Error("missing address")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
}

func TestGeocode_OK(t *testing.T) {
	ts := newServer(t, `{"status":"OK","results":[{"formatted_address":"Newark, NJ, USA","geometry":{"location":{"lat":40.73,"lng":-74.17}}}]}`)
	defer ts.Close()

	c := NewClient(Config{BaseURL: ts.URL, APIKey: "k"})
	p, err := c.Geocode(context.Background(), "Newark NJ")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if p.Latitude != 40.73 || p.Longitude != -74.17 || p.FormattedAddress != "Newark, NJ, USA" {
		t.Errorf("point = %+v", p)
	}
}

func TestGeocode_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"zero results", `{"status":"ZERO_RESULTS","results":[]}`, apperror.ErrNotFound},
		{"denied", `{"status":"REQUEST_DENIED","error_message":"bad key"}`, apperror.ErrUpstream},
		{"over limit", `{"status":"OVER_QUERY_LIMIT"}`, apperror.ErrUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newServer(t, tt.body)
			defer ts.Close()

			_, err := NewClient(Config{BaseURL: ts.URL, APIKey: "k"}).Geocode(context.Background(), "nowhere")
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGeocode_NotConfigured(t *testing.T) {
	_, err := NewClient(Config{}).Geocode(context.Background(), "x")
	if !errors.Is(err, apperror.ErrUnavailable) {
		t.Fatalf("err = %v", err)
	}
}
