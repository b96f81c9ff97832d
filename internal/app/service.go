package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"hotel_finder/internal/adapters/observability"
	"hotel_finder/internal/domain"
)

const DefaultSearchTimeout = 25 * time.Second

// SearchService runs one hotel search end to end: availability and static
// content, normalization, selection and presentation.
type SearchService struct {
	inv     domain.InventoryClient
	events  domain.SearchEventPublisher
	timeout time.Duration
	defTopN int
	maxTopN int
	now     func() time.Time
	newID   func() string
}

type SearchOption func(*SearchService)

// WithEvents publishes a SearchEvent after each completed search.
func WithEvents(p domain.SearchEventPublisher) SearchOption {
	return func(s *SearchService) { s.events = p }
}

func WithSearchTimeout(d time.Duration) SearchOption {
	return func(s *SearchService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithTopN(def, limit int) SearchOption {
	return func(s *SearchService) { s.defTopN, s.maxTopN = def, limit }
}

func WithClock(now func() time.Time) SearchOption {
	return func(s *SearchService) { s.now = now }
}

func WithIDGenerator(f func() string) SearchOption {
	return func(s *SearchService) { s.newID = f }
}

func NewSearchService(inv domain.InventoryClient, opts ...SearchOption) *SearchService {
	s := &SearchService{
		inv:     inv,
		timeout: DefaultSearchTimeout,
		defTopN: domain.DefaultTopN,
		maxTopN: domain.MaxTopN,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Search validates constraints before any provider call. Provider failures,
// timeouts and malformed documents fail the whole search; an empty or
// infeasible search is a NoMatch result, not an error.
func (s *SearchService) Search(ctx context.Context, c domain.SearchConstraints) (domain.SearchResponse, error) {
	c = c.Normalize(s.defTopN, s.maxTopN)
	if err := c.Validate(); err != nil {
		return domain.SearchResponse{}, err
	}
	start := s.now()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, statics, err := s.fetch(ctx, c)
	if err != nil {
		observability.ObserveSelection(string(c.Mode), "error")
		return domain.SearchResponse{}, err
	}

	rates, err := Flatten(raw)
	if err != nil {
		observability.ObserveSelection(string(c.Mode), "error")
		log.Error().Err(err).Str("destination", c.Destination).
			Str("snippet", Snippet(raw, 512)).Msg("unreadable availability document")
		return domain.SearchResponse{}, err
	}

	if missing := missingCodes(rates, statics); len(missing) > 0 {
		more, err := s.inv.FetchStatic(ctx, missing)
		if err != nil {
			observability.ObserveSelection(string(c.Mode), "error")
			return domain.SearchResponse{}, wrapTimeout(ctx, err)
		}
		for k, v := range more {
			statics[k] = v
		}
	}

	result, err := Select(rates, statics, c)
	if err != nil {
		return domain.SearchResponse{}, err
	}
	resp := domain.SearchResponse{
		SearchID:    s.newID(),
		Constraints: c,
		Result:      result,
		Cards:       ToDisplay(result, statics),
	}

	outcome := result.Outcome()
	observability.ObserveSelection(string(c.Mode), outcome)
	log.Info().
		Str("search_id", resp.SearchID).
		Str("destination", c.DestinationLabel()).
		Str("mode", string(c.Mode)).
		Int("rates", len(rates)).
		Int("hotels", len(statics)).
		Str("outcome", outcome).
		Int("returned", len(result.Candidates())).
		Dur("took", s.now().Sub(start)).
		Msg("hotel_search")

	s.publish(ctx, resp, rates, outcome)
	return resp, nil
}

// fetch loads availability and, when the hotels are known up front, their
// static content concurrently. Both must finish; either failure aborts both.
func (s *SearchService) fetch(ctx context.Context, c domain.SearchConstraints) (domain.RawAvailabilityDocument, map[string]domain.HotelStatic, error) {
	var (
		raw     domain.RawAvailabilityDocument
		statics map[string]domain.HotelStatic
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		raw, err = s.inv.SearchAvailability(gctx, c)
		return err
	})
	if len(c.HotelCodes) > 0 {
		g.Go(func() error {
			var err error
			statics, err = s.inv.FetchStatic(gctx, c.HotelCodes)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, wrapTimeout(ctx, err)
	}
	if statics == nil {
		statics = map[string]domain.HotelStatic{}
	}
	return raw, statics, nil
}

func (s *SearchService) publish(ctx context.Context, resp domain.SearchResponse, rates []domain.RateRecord, outcome string) {
	if s.events == nil {
		return
	}
	c := resp.Constraints
	ev := domain.SearchEvent{
		SearchID:    resp.SearchID,
		Destination: c.DestinationLabel(),
		CheckIn:     c.CheckIn.String(),
		CheckOut:    c.CheckOut.String(),
		Mode:        c.Mode,
		Budget:      c.BudgetPerNight,
		Outcome:     outcome,
		Returned:    len(resp.Result.Candidates()),
		RateCount:   len(rates),
		Cheapest:    cheapestPrice(rates),
		OccurredAt:  s.now().UTC(),
	}
	if err := s.events.PublishSearch(ctx, ev); err != nil {
		log.Warn().Err(err).Str("search_id", resp.SearchID).Msg("search event not published")
	}
}

// wrapTimeout names the search deadline when it is what ended the call.
func wrapTimeout(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("hotel search timed out: %w (%v)", context.DeadlineExceeded, err)
	}
	return err
}

func missingCodes(rates []domain.RateRecord, have map[string]domain.HotelStatic) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, r := range rates {
		if _, ok := have[r.HotelCode]; ok {
			continue
		}
		if _, ok := seen[r.HotelCode]; ok {
			continue
		}
		seen[r.HotelCode] = struct{}{}
		out = append(out, r.HotelCode)
	}
	return out
}

func cheapestPrice(rates []domain.RateRecord) *decimal.Decimal {
	if len(rates) == 0 {
		return nil
	}
	low := rates[0].NetPrice
	for _, r := range rates[1:] {
		if r.NetPrice.LessThan(low) {
			low = r.NetPrice
		}
	}
	return &low
}
