package app

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"hotel_finder/internal/domain"
)

// DefaultAdults applies when a caller does not state the party size.
const DefaultAdults = 2

// SearchRequest is the wire form of a search, shared by the HTTP API and the
// agent tools. Dates are ISO strings; everything else maps one to one onto
// domain.SearchConstraints.
type SearchRequest struct {
	Destination        string           `json:"destination"`
	HotelCodes         []string         `json:"hotel_codes,omitempty"`
	CheckIn            string           `json:"check_in"`
	CheckOut           string           `json:"check_out"`
	Budget             *decimal.Decimal `json:"budget,omitempty"`
	Rooms              int              `json:"rooms,omitempty"`
	Adults             int              `json:"adults,omitempty"`
	Children           int              `json:"children,omitempty"`
	TopN               int              `json:"top_n,omitempty"`
	CancellationPolicy string           `json:"cancellation_policy,omitempty"`
	Deadline           string           `json:"deadline,omitempty"`
	BoardCode          string           `json:"board_code,omitempty"`
	MinRating          *float64         `json:"min_rating,omitempty"`
	Mode               string           `json:"mode,omitempty"`
}

// Constraints parses the request. Range checks are left to
// SearchConstraints.Validate; only unparseable fields fail here.
func (r SearchRequest) Constraints() (domain.SearchConstraints, error) {
	in, err := parseDate("check_in", r.CheckIn)
	if err != nil {
		return domain.SearchConstraints{}, err
	}
	out, err := parseDate("check_out", r.CheckOut)
	if err != nil {
		return domain.SearchConstraints{}, err
	}
	mode, err := domain.ParseMode(r.Mode)
	if err != nil {
		return domain.SearchConstraints{}, err
	}

	c := domain.SearchConstraints{
		Destination:    strings.TrimSpace(r.Destination),
		HotelCodes:     r.HotelCodes,
		CheckIn:        in,
		CheckOut:       out,
		Rooms:          r.Rooms,
		Adults:         r.Adults,
		Children:       r.Children,
		BudgetPerNight: r.Budget,
		BoardCode:      r.BoardCode,
		MinRating:      r.MinRating,
		TopN:           r.TopN,
		Mode:           mode,
	}
	if c.Adults == 0 {
		c.Adults = DefaultAdults
	}

	if p := strings.TrimSpace(r.CancellationPolicy); p != "" {
		kind, err := domain.ParsePolicyKind(p)
		if err != nil {
			return domain.SearchConstraints{}, err
		}
		f := &domain.PolicyFilter{Kind: kind}
		if r.Deadline != "" {
			d, err := parseDate("deadline", r.Deadline)
			if err != nil {
				return domain.SearchConstraints{}, err
			}
			f.Deadline = &d
		}
		c.Cancellation = f
	}
	return c, nil
}

func parseDate(field, s string) (civil.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return civil.Date{}, fmt.Errorf("%w: %s is required", domain.ErrInvalidConstraints, field)
	}
	d, err := civil.ParseDate(s)
	if err != nil {
		return civil.Date{}, fmt.Errorf("%w: %s %q is not a YYYY-MM-DD date", domain.ErrInvalidConstraints, field, s)
	}
	return d, nil
}
