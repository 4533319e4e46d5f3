package ports

import (
	"context"

	"github.com/Gunvolt24/peerkart/internal/domain"
)

// Geocoder — преобразование адреса в координаты (best-effort).
type Geocoder interface {
	Geocode(ctx context.Context, address string) ([]domain.Point, error)
}
