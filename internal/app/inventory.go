package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"hotel_finder/internal/domain"
)

const (
	DefaultStaticBatchSize = 100
	DefaultStaticTTL       = time.Hour
)

// Inventory implements domain.InventoryClient on top of a provider. Static
// content is read through the cache in fixed-size batches; fresh batches are
// written through to the catalog when one is configured.
type Inventory struct {
	provider domain.HotelProvider
	cache    domain.Cache
	catalog  domain.HotelCatalog
	ttl      time.Duration
	batch    int
}

type InventoryOption func(*Inventory)

// WithCatalog enables write-through of fetched static content.
func WithCatalog(c domain.HotelCatalog) InventoryOption {
	return func(i *Inventory) { i.catalog = c }
}

func WithStaticBatchSize(n int) InventoryOption {
	return func(i *Inventory) {
		if n > 0 {
			i.batch = n
		}
	}
}

func WithStaticTTL(d time.Duration) InventoryOption {
	return func(i *Inventory) {
		if d > 0 {
			i.ttl = d
		}
	}
}

func NewInventory(p domain.HotelProvider, c domain.Cache, opts ...InventoryOption) *Inventory {
	i := &Inventory{provider: p, cache: c, ttl: DefaultStaticTTL, batch: DefaultStaticBatchSize}
	for _, o := range opts {
		o(i)
	}
	return i
}

func (i *Inventory) SearchAvailability(ctx context.Context, c domain.SearchConstraints) (domain.RawAvailabilityDocument, error) {
	return i.provider.Availability(ctx, domain.AvailabilityRequest{
		Destination: c.Destination,
		HotelCodes:  c.HotelCodes,
		CheckIn:     c.CheckIn.String(),
		CheckOut:    c.CheckOut.String(),
		Rooms:       c.Rooms,
		Adults:      c.Adults,
		Children:    c.Children,
	})
}

// FetchStatic returns content for every known code. Codes the provider has no
// content for are simply absent from the map. Any batch failure fails the call.
func (i *Inventory) FetchStatic(ctx context.Context, codes []string) (map[string]domain.HotelStatic, error) {
	uniq := uniqueSorted(codes)
	out := make(map[string]domain.HotelStatic, len(uniq))
	if len(uniq) == 0 {
		return out, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(uniq); start += i.batch {
		end := min(start+i.batch, len(uniq))
		chunk := uniq[start:end]
		g.Go(func() error {
			hs, err := i.fetchBatch(gctx, chunk)
			if err != nil {
				return err
			}
			mu.Lock()
			for _, h := range hs {
				out[h.Code] = h
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (i *Inventory) fetchBatch(ctx context.Context, codes []string) ([]domain.HotelStatic, error) {
	key := StaticCacheKey(codes)
	var hs []domain.HotelStatic
	ok, err := i.cache.Get(ctx, key, &hs)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("static cache get failed")
	} else if ok {
		return hs, nil
	}

	docs, err := i.provider.HotelContent(ctx, codes)
	if err != nil {
		return nil, err
	}
	hs = mapHotelStatics(docs)

	if err := i.cache.Set(ctx, key, hs, int(i.ttl.Seconds())); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("static cache set failed")
	}
	if i.catalog != nil && len(hs) > 0 {
		if err := i.catalog.UpsertHotels(ctx, hs); err != nil {
			log.Warn().Err(err).Int("hotels", len(hs)).Msg("catalog write-through failed")
		}
	}
	return hs, nil
}

// StaticCacheKey derives the cache key from the sorted code set.
func StaticCacheKey(codes []string) string {
	sorted := uniqueSorted(codes)
	sum := sha1.Sum([]byte(strings.Join(sorted, ",")))
	return "static:" + hex.EncodeToString(sum[:])
}

func uniqueSorted(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
