package app_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_finder/internal/app"
	"hotel_finder/internal/domain"
)

func contentProvider() *fakeProvider {
	return &fakeProvider{content: map[string]map[string]any{
		"1001": contentDoc("1001", "Casa Gràcia", "4EST", 20, 70),
		"1002": contentDoc("1002", "Hostal Sol", "HS2"),
		"1003": contentDoc("1003", "Gran Hotel", "5LUX", 250),
		"1004": contentDoc("1004", "Pensión Luz", "PENDI"),
		"1005": contentDoc("1005", "Villa Mar", "VILLA"),
	}}
}

func TestFetchStatic_MissThenHit(t *testing.T) {
	p := contentProvider()
	cache := &fakeCache{}
	inv := app.NewInventory(p, cache)
	ctx := context.Background()

	got, err := inv.FetchStatic(ctx, []string{"1002", "1001", "1001", " "})
	require.NoError(t, err)
	require.Len(t, got, 2)

	h := got["1001"]
	assert.Equal(t, "Casa Gràcia", h.Name)
	assert.Equal(t, 4.0, h.StarRating)
	assert.Equal(t, []int{20, 70}, h.AmenityCodes)
	assert.Equal(t, []string{"https://photos.hotelbeds.com/giata/00/0001/0001a_hb_a_001.jpg"}, h.Images)
	assert.Equal(t, [][]string{{"1001", "1002"}}, p.contentCalls, "codes are deduped and sorted")

	// same set in another order hits the cache
	again, err := inv.FetchStatic(ctx, []string{"1001", "1002"})
	require.NoError(t, err)
	assert.Equal(t, got, again)
	assert.Equal(t, 1, p.contentCount())
}

func TestFetchStatic_CacheReadFailureFallsThrough(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	p := contentProvider()
	cache := &fakeCache{getErr: errors.New("connection refused")}
	got, err := app.NewInventory(p, cache).FetchStatic(context.Background(), []string{"1001"})
	require.NoError(t, err)
	assert.Equal(t, "Casa Gràcia", got["1001"].Name)
	assert.Equal(t, 1, p.contentCount())
	assert.Contains(t, buf.String(), "static cache get failed")
	assert.Contains(t, buf.String(), "connection refused")
}

func TestFetchStatic_Batches(t *testing.T) {
	p := contentProvider()
	inv := app.NewInventory(p, &fakeCache{}, app.WithStaticBatchSize(2))

	got, err := inv.FetchStatic(context.Background(), []string{"1005", "1004", "1003", "1002", "1001", "9999"})
	require.NoError(t, err)
	assert.Len(t, got, 5, "unknown codes are simply absent")
	assert.Equal(t, 3, p.contentCount())
	for _, call := range p.contentCalls {
		assert.LessOrEqual(t, len(call), 2)
	}
}

func TestFetchStatic_WriteThrough(t *testing.T) {
	p := contentProvider()
	cat := &fakeCatalog{}
	inv := app.NewInventory(p, &fakeCache{}, app.WithCatalog(cat))

	_, err := inv.FetchStatic(context.Background(), []string{"1001", "1003"})
	require.NoError(t, err)
	assert.Len(t, cat.upserted, 2)

	// catalog and cache failures do not fail the read
	failing := app.NewInventory(p, &fakeCache{failSet: true}, app.WithCatalog(&fakeCatalog{err: errors.New("db down")}))
	got, err := failing.FetchStatic(context.Background(), []string{"1002"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFetchStatic_ProviderError(t *testing.T) {
	p := contentProvider()
	p.contentErrs = []error{&domain.ProviderError{Service: "hotelbeds", Status: 500}}
	inv := app.NewInventory(p, &fakeCache{}, app.WithStaticBatchSize(2))

	_, err := inv.FetchStatic(context.Background(), []string{"1001", "1002", "1003"})
	var pe *domain.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 500, pe.Status)
}

func TestFetchStatic_Empty(t *testing.T) {
	p := contentProvider()
	got, err := app.NewInventory(p, &fakeCache{}).FetchStatic(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, p.contentCount())
}

func TestSearchAvailability_Request(t *testing.T) {
	p := &fakeProvider{doc: `{}`}
	c := barcelona()
	c.Children = 1
	c.HotelCodes = []string{"1001"}

	_, err := app.NewInventory(p, &fakeCache{}).SearchAvailability(context.Background(), c)
	require.NoError(t, err)
	require.Len(t, p.availReqs, 1)
	assert.Equal(t, domain.AvailabilityRequest{
		Destination: "Barcelona",
		HotelCodes:  []string{"1001"},
		CheckIn:     "2025-07-20",
		CheckOut:    "2025-07-23",
		Rooms:       1,
		Adults:      2,
		Children:    1,
	}, p.availReqs[0])
}

func TestStaticCacheKey(t *testing.T) {
	a := app.StaticCacheKey([]string{"2", "1", "3"})
	b := app.StaticCacheKey([]string{"3", "2", "1", "1"})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, app.StaticCacheKey([]string{"1", "2"}))
	assert.Regexp(t, `^static:[0-9a-f]{40}$`, a)
}
