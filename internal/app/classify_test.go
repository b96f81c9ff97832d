package app_test

import (
	"errors"
	"testing"

	"cloud.google.com/go/civil"

	"hotel_finder/internal/app"
	"hotel_finder/internal/domain"
)

func TestNormalizeStarRating(t *testing.T) {
	cases := map[string]float64{
		"4EST":    4,
		"5LUX":    5,
		"HS2":     2,
		"5 STARS": 5,
		"7EST":    5,
		"0LL":     1,
		"XYZ":     domain.DefaultStarRating,
		"":        domain.DefaultStarRating,
		"H3_5":    3,
	}
	for in, want := range cases {
		if got := app.NormalizeStarRating(in); got != want {
			t.Errorf("NormalizeStarRating(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestClassifyRateClass(t *testing.T) {
	cases := map[string]domain.RateClass{
		"NOR":  domain.RateRefundable,
		"nrf":  domain.RateNonRefundable,
		" NRF": domain.RateNonRefundable,
		"PAQ":  domain.RateUnknown,
		"":     domain.RateUnknown,
	}
	for in, want := range cases {
		if got := app.ClassifyRateClass(in); got != want {
			t.Errorf("ClassifyRateClass(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestClassifyCancellation(t *testing.T) {
	free := rateRecord("h1", "80")
	charged := rateRecord("h2", "90")
	charged.CancellationPolicies = []domain.CancellationPolicy{
		{Deadline: date("2025-07-15")},
		{Deadline: date("2025-07-19")},
	}
	nrf := rateRecord("h3", "70")
	nrf.RateClass = domain.RateNonRefundable

	cases := []struct {
		name     string
		rate     domain.RateRecord
		kind     domain.PolicyKind
		deadline string
		want     bool
	}{
		{"free rate is free", free, domain.PolicyFree, "", true},
		{"charged rate is not free", charged, domain.PolicyFree, "", false},
		{"nrf class", nrf, domain.PolicyNonRefundable, "", true},
		{"refundable is not nrf", charged, domain.PolicyNonRefundable, "", false},
		{"NRF alias", nrf, "NRF", "", true},
		{"all charges after deadline", charged, domain.PolicyBeforeDate, "2025-07-14", true},
		{"charge on the deadline", charged, domain.PolicyBeforeDate, "2025-07-15", false},
		{"earliest charge decides", charged, domain.PolicyBeforeDate, "2025-07-16", false},
		{"no charges at all", free, domain.PolicyBeforeDate, "2025-07-30", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var dl *civil.Date
			if tc.deadline != "" {
				d := date(tc.deadline)
				dl = &d
			}
			got, err := app.ClassifyCancellation(tc.rate, tc.kind, dl)
			if err != nil {
				t.Fatalf("ClassifyCancellation: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestClassifyCancellation_Errors(t *testing.T) {
	r := rateRecord("h1", "80")
	if _, err := app.ClassifyCancellation(r, "FLEX", nil); !errors.Is(err, domain.ErrUnsupportedPolicy) {
		t.Fatalf("unknown kind: got %v", err)
	}
	if _, err := app.ClassifyCancellation(r, domain.PolicyBeforeDate, nil); !errors.Is(err, domain.ErrInvalidConstraints) {
		t.Fatalf("missing deadline: got %v", err)
	}
	if ok, err := app.MatchesCancellation(r, nil); !ok || err != nil {
		t.Fatalf("nil filter should match, got %v %v", ok, err)
	}
}
