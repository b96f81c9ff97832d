package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"hotel_finder/internal/domain"
)

// ---- fakes ----

type fakeProvider struct {
	mu sync.Mutex

	doc       string
	availErr  error
	availWait <-chan struct{} // availability blocks on it when set
	availReqs []domain.AvailabilityRequest

	content      map[string]map[string]any
	contentErrs  []error // consumed one per call, then succeeds
	contentCalls [][]string
	contentHook  func() // runs at the start of every content call
}

func (f *fakeProvider) Availability(ctx context.Context, req domain.AvailabilityRequest) (domain.RawAvailabilityDocument, error) {
	f.mu.Lock()
	f.availReqs = append(f.availReqs, req)
	wait := f.availWait
	f.mu.Unlock()

	if wait != nil {
		select {
		case <-wait:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.availErr != nil {
		return nil, f.availErr
	}
	return domain.RawAvailabilityDocument(f.doc), nil
}

func (f *fakeProvider) HotelContent(ctx context.Context, codes []string) ([]map[string]any, error) {
	if f.contentHook != nil {
		f.contentHook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contentCalls = append(f.contentCalls, append([]string(nil), codes...))
	if len(f.contentErrs) > 0 {
		err := f.contentErrs[0]
		f.contentErrs = f.contentErrs[1:]
		return nil, err
	}
	var out []map[string]any
	for _, c := range codes {
		if d, ok := f.content[c]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeProvider) availCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.availReqs)
}

func (f *fakeProvider) contentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.contentCalls)
}

// fakeCache stores JSON like the real adapters so callers get copies.
type fakeCache struct {
	mu      sync.Mutex
	store   map[string][]byte
	sets    int
	failSet bool
	getErr  error
}

func (c *fakeCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return false, c.getErr
	}
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(_ context.Context, key string, v any, _ int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failSet {
		return errors.New("cache unavailable")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	c.store[key] = b
	c.sets++
	return nil
}

type fakeCatalog struct {
	mu       sync.Mutex
	upserted []domain.HotelStatic
	err      error
}

func (f *fakeCatalog) UpsertHotels(_ context.Context, hs []domain.HotelStatic) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.upserted = append(f.upserted, hs...)
	return nil
}

func (f *fakeCatalog) GetHotel(context.Context, string) (domain.HotelStatic, error) {
	return domain.HotelStatic{}, domain.ErrNotFound
}

func (f *fakeCatalog) ListHotels(context.Context, string, int) ([]domain.HotelStatic, error) {
	return nil, nil
}

type fakeEvents struct {
	mu  sync.Mutex
	got []domain.SearchEvent
	err error
}

func (f *fakeEvents) PublishSearch(_ context.Context, ev domain.SearchEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, ev)
	return f.err
}

// ---- builders ----

type testRate struct {
	hotel  string
	net    string
	board  string
	class  string
	from   []string // cancellation policy start dates
	promos []string
}

// availabilityDoc renders rates the way the provider nests them,
// hotels.hotels[].rooms[].rates[].
func availabilityDoc(rates ...testRate) string {
	type hotel struct {
		Code     string           `json:"code"`
		Currency string           `json:"currency"`
		Rooms    []map[string]any `json:"rooms"`
	}
	var order []string
	byHotel := map[string]*hotel{}
	for _, r := range rates {
		h, ok := byHotel[r.hotel]
		if !ok {
			h = &hotel{Code: r.hotel, Currency: "EUR"}
			byHotel[r.hotel] = h
			order = append(order, r.hotel)
		}
		rate := map[string]any{"net": r.net, "boardCode": r.board, "rateClass": r.class}
		var pols []map[string]any
		for _, f := range r.from {
			pols = append(pols, map[string]any{"amount": "50.00", "from": f + "T23:59:00+02:00"})
		}
		if pols != nil {
			rate["cancellationPolicies"] = pols
		}
		var promos []map[string]any
		for _, p := range r.promos {
			promos = append(promos, map[string]any{"code": p, "name": strings.ToLower(p)})
		}
		if promos != nil {
			rate["promotions"] = promos
		}
		h.Rooms = append(h.Rooms, map[string]any{"code": "DBL.ST", "name": "Double", "rates": []any{rate}})
	}
	list := make([]*hotel, 0, len(order))
	for _, c := range order {
		list = append(list, byHotel[c])
	}
	b, err := json.Marshal(map[string]any{"hotels": map[string]any{"hotels": list, "total": len(list)}})
	if err != nil {
		panic(err)
	}
	return string(b)
}

func rateRecord(hotel, net string) domain.RateRecord {
	return domain.RateRecord{
		HotelCode:  hotel,
		NetPrice:   decimal.RequireFromString(net),
		GrossPrice: decimal.RequireFromString(net),
		Currency:   "EUR",
		RateClass:  domain.RateRefundable,
	}
}

func static(code string, rating float64) domain.HotelStatic {
	return domain.HotelStatic{Code: code, Name: "Hotel " + strings.ToUpper(code), StarRating: rating, City: "BARCELONA"}
}

func contentDoc(code, name, category string, facilities ...int) map[string]any {
	fs := make([]any, 0, len(facilities))
	for _, f := range facilities {
		fs = append(fs, map[string]any{"facilityCode": json.Number(fmt.Sprint(f)), "facilityGroupCode": json.Number("70")})
	}
	return map[string]any{
		"code":         json.Number(code),
		"name":         map[string]any{"content": name},
		"categoryCode": category,
		"city":         map[string]any{"content": "BARCELONA"},
		"images":       []any{map[string]any{"path": "00/0001/0001a_hb_a_001.jpg"}},
		"facilities":   fs,
	}
}

func date(s string) civil.Date {
	d, err := civil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func pfloat(f float64) *float64 { return &f }

func barcelona() domain.SearchConstraints {
	return domain.SearchConstraints{
		Destination: "Barcelona",
		CheckIn:     date("2025-07-20"),
		CheckOut:    date("2025-07-23"),
		Rooms:       1,
		Adults:      2,
		TopN:        3,
		Mode:        domain.ModeBestFit,
	}
}

func codes(cs []domain.Candidate) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Rate.HotelCode)
	}
	return out
}

func prices(cs []domain.Candidate) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Rate.NetPrice.String())
	}
	return out
}
