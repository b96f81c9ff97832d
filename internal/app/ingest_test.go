package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotel_finder/internal/app"
	"hotel_finder/internal/domain"
)

func TestIngestBatch_UpsertsMappedHotels(t *testing.T) {
	p := contentProvider()
	cat := &fakeCatalog{}
	ing := app.NewIngestionService(p, cat, 3)

	n, err := ing.IngestBatch(context.Background(), []string{"1003", "1001", "1001", "4242"})
	if err != nil {
		t.Fatalf("IngestBatch: %v", err)
	}
	if n != 2 || len(cat.upserted) != 2 {
		t.Fatalf("stored=%d upserted=%d, want 2", n, len(cat.upserted))
	}
	if cat.upserted[0].Code != "1001" || cat.upserted[1].StarRating != 5 {
		t.Fatalf("unexpected hotels: %+v", cat.upserted)
	}
}

func TestIngestBatch_RetriesTransientFailures(t *testing.T) {
	p := contentProvider()
	p.contentErrs = []error{
		&domain.ProviderError{Service: "hotelbeds", Status: 503, RetryAfter: time.Millisecond},
		&domain.ProviderError{Service: "hotelbeds", Status: 429, RetryAfter: time.Millisecond},
	}
	cat := &fakeCatalog{}

	n, err := app.NewIngestionService(p, cat, 3).IngestBatch(context.Background(), []string{"1001"})
	if err != nil || n != 1 {
		t.Fatalf("n=%d err=%v", n, err)
	}
	if p.contentCount() != 3 {
		t.Fatalf("content calls = %d, want 3", p.contentCount())
	}
}

func TestIngestBatch_SkipsRejectedBatch(t *testing.T) {
	p := contentProvider()
	p.contentErrs = []error{&domain.ProviderError{Service: "hotelbeds", Status: 400, RawBody: "invalid codes"}}
	cat := &fakeCatalog{}

	n, err := app.NewIngestionService(p, cat, 3).IngestBatch(context.Background(), []string{"1001"})
	if err != nil || n != 0 || len(cat.upserted) != 0 {
		t.Fatalf("n=%d err=%v upserted=%d", n, err, len(cat.upserted))
	}
}

func TestIngestBatch_Errors(t *testing.T) {
	p := contentProvider()
	p.contentErrs = []error{&domain.ProviderError{Service: "hotelbeds", Status: 500, RetryAfter: time.Millisecond}}
	if _, err := app.NewIngestionService(p, &fakeCatalog{}, 1).IngestBatch(context.Background(), []string{"1001"}); err == nil {
		t.Fatal("expected the provider error after the last attempt")
	}

	boom := errors.New("deadlock")
	if _, err := app.NewIngestionService(contentProvider(), &fakeCatalog{err: boom}, 1).IngestBatch(context.Background(), []string{"1001"}); !errors.Is(err, boom) {
		t.Fatalf("catalog error: got %v", err)
	}

	if n, err := app.NewIngestionService(p, &fakeCatalog{}, 1).IngestBatch(context.Background(), nil); n != 0 || err != nil {
		t.Fatalf("empty batch: n=%d err=%v", n, err)
	}
}
