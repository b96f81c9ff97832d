package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DisplayCard is the stable shape shared by the UI and the agent reply.
type DisplayCard struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Location  string          `json:"location"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	Rating    float64         `json:"rating"`
	ImageURL  string          `json:"image_url"`
	TypeLabel string          `json:"type_label"`
	Amenities []Amenity       `json:"amenities"`
}

type SearchResponse struct {
	SearchID    string            `json:"search_id"`
	Constraints SearchConstraints `json:"constraints"`
	Result      SelectionResult   `json:"result"`
	Cards       []DisplayCard     `json:"cards"`
}

// SearchEvent is emitted once per completed search.
type SearchEvent struct {
	SearchID    string           `json:"search_id"`
	Destination string           `json:"destination"`
	CheckIn     string           `json:"check_in"`
	CheckOut    string           `json:"check_out"`
	Mode        Mode             `json:"mode"`
	Budget      *decimal.Decimal `json:"budget,omitempty"`
	Outcome     string           `json:"outcome"` // selected | no_match cause
	Returned    int              `json:"returned"`
	RateCount   int              `json:"rate_count"`
	Cheapest    *decimal.Decimal `json:"cheapest,omitempty"`
	OccurredAt  time.Time        `json:"occurred_at"`
}
