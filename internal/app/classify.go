package app

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"

	"hotel_finder/internal/domain"
)

// ClassifyRateClass maps the provider's rate class code (NOR, NRF) to a RateClass.
func ClassifyRateClass(code string) domain.RateClass {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "NOR", "REFUNDABLE":
		return domain.RateRefundable
	case "NRF", "NON_REFUNDABLE", "NONREFUNDABLE":
		return domain.RateNonRefundable
	}
	return domain.RateUnknown
}

// ClassifyCancellation reports whether a rate satisfies a cancellation filter.
// For BEFORE_DATE, every charge must start strictly after deadline.
func ClassifyCancellation(r domain.RateRecord, kind domain.PolicyKind, deadline *civil.Date) (bool, error) {
	k, err := domain.ParsePolicyKind(string(kind))
	if err != nil {
		return false, err
	}
	switch k {
	case domain.PolicyFree:
		return r.FreeCancellation(), nil
	case domain.PolicyNonRefundable:
		return r.RateClass == domain.RateNonRefundable, nil
	default: // BEFORE_DATE
		if deadline == nil || !deadline.IsValid() {
			return false, fmt.Errorf("%w: BEFORE_DATE needs a deadline", domain.ErrInvalidConstraints)
		}
		for _, p := range r.CancellationPolicies {
			if !p.Deadline.After(*deadline) {
				return false, nil
			}
		}
		return true, nil
	}
}

// MatchesCancellation applies an optional filter; nil matches everything.
func MatchesCancellation(r domain.RateRecord, f *domain.PolicyFilter) (bool, error) {
	if f == nil {
		return true, nil
	}
	return ClassifyCancellation(r, f.Kind, f.Deadline)
}

var digitRun = regexp.MustCompile(`\d+`)

// NormalizeStarRating derives 1..5 stars from a free-text category code
// ("4EST", "HS2", "5 STARS"). No digits means the default rating.
func NormalizeStarRating(category string) float64 {
	m := digitRun.FindString(category)
	if m == "" {
		return domain.DefaultStarRating
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return domain.DefaultStarRating
	}
	switch {
	case v < 1:
		return 1
	case v > 5:
		return 5
	}
	return v
}
