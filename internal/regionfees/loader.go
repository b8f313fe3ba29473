package regionfees

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for reading fee table documents from disk.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based fee table loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "regionfees-loader").Logger(),
	}
}

// Load reads a JSON fee table document from the local file system.
func (l *fileLoader) Load(ctx context.Context, filePath string) (*Document, error) {
	l.logger.Info().Str("file", filePath).Msg("loading region fee table")

	data, err := os.ReadFile(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to read fee table file")
		return nil, fmt.Errorf("failed to read fee table file %s: %w", filePath, err)
	}

	doc, err := decode(data)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to decode fee table")
		return nil, fmt.Errorf("failed to decode fee table %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("regions", len(doc.Fees)).
		Float64("default_fee", doc.DefaultFee).
		Float64("free_delivery_threshold", doc.FreeDeliveryThreshold).
		Msg("region fee table loaded")

	return doc, nil
}

// decode validates and unmarshals a fee table document.
func decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	if doc.DefaultFee < 0 {
		return nil, fmt.Errorf("default fee cannot be negative")
	}
	if doc.FreeDeliveryThreshold < 0 {
		return nil, fmt.Errorf("free delivery threshold cannot be negative")
	}
	for region, fee := range doc.Fees {
		if fee < 0 {
			return nil, fmt.Errorf("fee for region %q cannot be negative", region)
		}
	}

	return &doc, nil
}
