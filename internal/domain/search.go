package domain

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

type PolicyKind string

const (
	PolicyFree          PolicyKind = "FREE"
	PolicyNonRefundable PolicyKind = "NON_REFUNDABLE"
	PolicyBeforeDate    PolicyKind = "BEFORE_DATE"
)

// ParsePolicyKind accepts the canonical names plus the provider's "NRF" shorthand.
func ParsePolicyKind(s string) (PolicyKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FREE":
		return PolicyFree, nil
	case "NRF", "NON_REFUNDABLE", "NONREFUNDABLE":
		return PolicyNonRefundable, nil
	case "BEFORE_DATE":
		return PolicyBeforeDate, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedPolicy, s)
}

type PolicyFilter struct {
	Kind     PolicyKind  `json:"kind"`
	Deadline *civil.Date `json:"deadline,omitempty"` // BEFORE_DATE only
}

type Mode string

const (
	ModeBestFit    Mode = "BEST_FIT"
	ModeCheapest   Mode = "CHEAPEST"
	ModePromotions Mode = "PROMOTIONS"
)

func ParseMode(s string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "BEST_FIT", "BEST", "RATING", "HIGHEST_RATED":
		return ModeBestFit, nil
	case "CHEAPEST", "PRICE", "LOWEST_PRICE":
		return ModeCheapest, nil
	case "PROMOTIONS", "PROMO", "PROMOS":
		return ModePromotions, nil
	}
	return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidConstraints, s)
}

const (
	DefaultTopN = 3
	MaxTopN     = 10
)

// SearchConstraints is the caller-supplied, per-call input of a hotel search.
type SearchConstraints struct {
	Destination    string           `json:"destination"`
	HotelCodes     []string         `json:"hotel_codes,omitempty"`
	CheckIn        civil.Date       `json:"check_in"`
	CheckOut       civil.Date       `json:"check_out"`
	Rooms          int              `json:"rooms"`
	Adults         int              `json:"adults"`
	Children       int              `json:"children"`
	BudgetPerNight *decimal.Decimal `json:"budget_per_night,omitempty"`
	Cancellation   *PolicyFilter    `json:"cancellation,omitempty"`
	BoardCode      string           `json:"board_code,omitempty"`
	MinRating      *float64         `json:"min_rating,omitempty"`
	TopN           int              `json:"top_n"`
	Mode           Mode             `json:"mode"`
}

// Normalize fills defaults and clamps TopN to [1, max].
func (c SearchConstraints) Normalize(defTopN, maxTopN int) SearchConstraints {
	if defTopN <= 0 {
		defTopN = DefaultTopN
	}
	if maxTopN <= 0 {
		maxTopN = MaxTopN
	}
	if c.TopN == 0 {
		c.TopN = defTopN
	}
	if c.TopN > maxTopN {
		c.TopN = maxTopN
	}
	if c.Rooms == 0 {
		c.Rooms = 1
	}
	if c.Mode == "" {
		c.Mode = ModeBestFit
	}
	c.Destination = strings.TrimSpace(c.Destination)
	c.BoardCode = strings.ToUpper(strings.TrimSpace(c.BoardCode))
	return c
}

// Validate rejects constraints that must never reach the provider.
func (c SearchConstraints) Validate() error {
	if c.Destination == "" && len(c.HotelCodes) == 0 {
		return fmt.Errorf("%w: destination is required", ErrInvalidConstraints)
	}
	if !c.CheckIn.IsValid() || !c.CheckOut.IsValid() {
		return fmt.Errorf("%w: check_in and check_out must be valid dates", ErrInvalidConstraints)
	}
	if !c.CheckOut.After(c.CheckIn) {
		return fmt.Errorf("%w: check_out must be after check_in", ErrInvalidConstraints)
	}
	if c.Rooms < 1 || c.Adults < 1 || c.Children < 0 {
		return fmt.Errorf("%w: need rooms>=1, adults>=1, children>=0", ErrInvalidConstraints)
	}
	if c.BudgetPerNight != nil && !c.BudgetPerNight.IsPositive() {
		return fmt.Errorf("%w: budget must be greater than zero", ErrInvalidConstraints)
	}
	if c.TopN < 1 {
		return fmt.Errorf("%w: top_n must be positive", ErrInvalidConstraints)
	}
	if c.MinRating != nil && (*c.MinRating < 0 || *c.MinRating > 5) {
		return fmt.Errorf("%w: min_rating must be within 0..5", ErrInvalidConstraints)
	}
	if _, err := ParseMode(string(c.Mode)); err != nil {
		return err
	}
	if f := c.Cancellation; f != nil {
		kind, err := ParsePolicyKind(string(f.Kind))
		if err != nil {
			return err
		}
		if kind == PolicyBeforeDate && (f.Deadline == nil || !f.Deadline.IsValid()) {
			return fmt.Errorf("%w: BEFORE_DATE needs a deadline", ErrInvalidConstraints)
		}
	}
	return nil
}

func (c SearchConstraints) Nights() int { return c.CheckOut.DaysSince(c.CheckIn) }

// DestinationLabel names the search target in messages.
func (c SearchConstraints) DestinationLabel() string {
	if c.Destination != "" {
		return c.Destination
	}
	return "the requested hotels"
}
