package geo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gunvolt24/peerkart/internal/domain"
	"github.com/Gunvolt24/peerkart/internal/ports"
	"googlemaps.github.io/maps"
)

var _ ports.Geocoder = (*GoogleGeocoder)(nil)

// Config — доступ к Google Geocoding API.
type Config struct {
	APIKey  string
	Region  string
	Timeout time.Duration
	BaseURL string // для тестов; пусто — боевой endpoint
}

// GoogleGeocoder — адрес → координаты через Google Maps.
type GoogleGeocoder struct {
	client  *maps.Client
	region  string
	timeout time.Duration
}

func NewGoogleGeocoder(cfg Config) (*GoogleGeocoder, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("geocoder: api key is empty")
	}
	opts := []maps.ClientOption{maps.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, maps.WithBaseURL(cfg.BaseURL))
	}
	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("geocoder: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &GoogleGeocoder{client: client, region: cfg.Region, timeout: timeout}, nil
}

// Geocode — все найденные точки в порядке релевантности. ZERO_RESULTS — пустой срез без ошибки.
func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) ([]domain.Point, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: address, Region: g.region})
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", address, err)
	}

	points := make([]domain.Point, 0, len(results))
	for _, r := range results {
		points = append(points, domain.Point{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng})
	}
	return points, nil
}
