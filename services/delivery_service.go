// Package services holds the application services behind the HTTP handlers.
package services

import (
	"math"

	"github.com/conserv-tt/conserv-backend/config"
	"github.com/conserv-tt/conserv-backend/errors"
	"github.com/conserv-tt/conserv-backend/types"
)

const earthRadiusKm = 6371.0

// DeliveryService quotes delivery fees from the yard to a customer location.
type DeliveryService struct {
	cfg config.DeliveryConfig
}

func NewDeliveryService(cfg config.DeliveryConfig) *DeliveryService {
	return &DeliveryService{cfg: cfg}
}

// HaversineKm is the great-circle distance between two points in kilometers.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Fee computes the delivery fee for a distance:
// base fee plus per-km charge beyond the free radius, rounded to 2 decimals.
func (s *DeliveryService) Fee(distKm float64) float64 {
	extra := math.Max(0, distKm-s.cfg.FreeRadiusKm)
	return math.Round((s.cfg.BaseFee+extra*s.cfg.PerKm)*100) / 100
}

// Quote computes distance and fee from the yard to the given coordinates.
func (s *DeliveryService) Quote(lat, lng float64) (*types.DeliveryQuote, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, errors.ValidationFailed("Invalid lat/lng", "")
	}
	dist := HaversineKm(s.cfg.BaseLat, s.cfg.BaseLng, lat, lng)
	return &types.DeliveryQuote{
		OK:         true,
		DistanceKm: math.Round(dist*100) / 100,
		Fee:        s.Fee(dist),
	}, nil
}
