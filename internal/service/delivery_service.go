package service

import (
	"context"
	"fmt"

	"tarha-store/internal/regionfees"

	"github.com/rs/zerolog"
)

// deliveryService implements DeliveryService on a reloadable fee table.
type deliveryService struct {
	table  *regionfees.Table
	loader regionfees.Loader
	path   string
	logger zerolog.Logger
}

// NewDeliveryService creates a delivery fee service over an already-loaded
// table. The loader and path are kept for runtime reloads.
func NewDeliveryService(table *regionfees.Table, loader regionfees.Loader, path string, logger zerolog.Logger) DeliveryService {
	return &deliveryService{
		table:  table,
		loader: loader,
		path:   path,
		logger: logger.With().Str("service", "delivery").Logger(),
	}
}

// Resolve returns the region's flat fee, or 0 once the subtotal reaches the
// free-delivery threshold. The threshold is read live, so a reload between
// two calls changes the answer for the later one.
func (s *deliveryService) Resolve(region string, subtotal float64) float64 {
	if subtotal >= s.table.Threshold() {
		return 0
	}
	return s.table.Fee(region)
}

// Reload re-reads the fee table document and swaps it in. Already-created
// orders keep the fee they were charged.
func (s *deliveryService) Reload(ctx context.Context) error {
	doc, err := s.loader.Load(ctx, s.path)
	if err != nil {
		s.logger.Error().Err(err).Str("path", s.path).Msg("fee table reload failed")
		return fmt.Errorf("failed to reload fee table: %w", err)
	}

	s.table.Replace(*doc)

	s.logger.Info().
		Str("path", s.path).
		Int("regions", s.table.Regions()).
		Float64("free_delivery_threshold", s.table.Threshold()).
		Msg("fee table reloaded")

	return nil
}
