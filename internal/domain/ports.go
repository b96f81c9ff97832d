package domain

import (
	"context"
	"encoding/json"
)

// RawAvailabilityDocument is the provider's availability response, untouched.
type RawAvailabilityDocument = json.RawMessage

type AvailabilityRequest struct {
	Destination string
	HotelCodes  []string
	CheckIn     string // YYYY-MM-DD
	CheckOut    string
	Rooms       int
	Adults      int
	Children    int
}

// HotelProvider is the authenticated provider surface. It returns provider-shaped
// documents and never interprets them.
type HotelProvider interface {
	Availability(ctx context.Context, req AvailabilityRequest) (RawAvailabilityDocument, error)
	HotelContent(ctx context.Context, codes []string) ([]map[string]any, error)
}

// InventoryClient is what a search consumes: raw availability plus typed,
// cached static content.
type InventoryClient interface {
	SearchAvailability(ctx context.Context, c SearchConstraints) (RawAvailabilityDocument, error)
	FetchStatic(ctx context.Context, codes []string) (map[string]HotelStatic, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
}

// HotelCatalog is the durable copy of static content. GetHotel returns
// ErrNotFound for unknown codes.
type HotelCatalog interface {
	UpsertHotels(ctx context.Context, hs []HotelStatic) error
	GetHotel(ctx context.Context, code string) (HotelStatic, error)
	ListHotels(ctx context.Context, city string, limit int) ([]HotelStatic, error)
}

type SearchEventPublisher interface {
	PublishSearch(ctx context.Context, ev SearchEvent) error
}
