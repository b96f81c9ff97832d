package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"hotel_finder/internal/domain"
)

// IngestionService warms the hotel catalog straight from the provider's content
// API, bypassing the static cache.
type IngestionService struct {
	provider domain.HotelProvider
	catalog  domain.HotelCatalog
	attempts int
}

func NewIngestionService(p domain.HotelProvider, c domain.HotelCatalog, attempts int) *IngestionService {
	if attempts < 1 {
		attempts = 3
	}
	return &IngestionService{provider: p, catalog: c, attempts: attempts}
}

// IngestBatch fetches one batch of codes and upserts what the provider knows.
// Client-side provider errors (4xx other than 429) are logged and skipped so one
// bad batch does not stop a warm-up run; everything else is returned.
func (s *IngestionService) IngestBatch(ctx context.Context, codes []string) (int, error) {
	codes = uniqueSorted(codes)
	if len(codes) == 0 {
		return 0, nil
	}

	var docs []map[string]any
	err := Retry(ctx, s.attempts, func(ctx context.Context) error {
		var err error
		docs, err = s.provider.HotelContent(ctx, codes)
		return err
	})
	if err != nil {
		var pe *domain.ProviderError
		if errors.As(err, &pe) && !pe.Retryable() {
			log.Warn().Int("status", pe.Status).Strs("codes", codes).Msg("content batch rejected; skipping")
			return 0, nil
		}
		return 0, err
	}

	hs := mapHotelStatics(docs)
	if len(hs) == 0 {
		return 0, nil
	}
	if err := s.catalog.UpsertHotels(ctx, hs); err != nil {
		return 0, fmt.Errorf("upsert %d hotels: %w", len(hs), err)
	}
	return len(hs), nil
}
