package domain

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

type RateClass string

const (
	RateRefundable    RateClass = "REFUNDABLE"
	RateNonRefundable RateClass = "NON_REFUNDABLE"
	RateUnknown       RateClass = "UNKNOWN"
)

// CancellationPolicy charges Amount when the booking is cancelled on or after Deadline.
type CancellationPolicy struct {
	Deadline civil.Date      `json:"deadline"`
	Amount   decimal.Decimal `json:"amount"`
}

// RateRecord is one priced offer for a room, flattened out of an availability document.
type RateRecord struct {
	HotelCode            string               `json:"hotel_code"`
	RoomCode             string               `json:"room_code,omitempty"`
	RoomName             string               `json:"room_name,omitempty"`
	RateKey              string               `json:"rate_key,omitempty"`
	BoardCode            string               `json:"board_code"`
	BoardName            string               `json:"board_name,omitempty"`
	RateClass            RateClass            `json:"rate_class"`
	NetPrice             decimal.Decimal      `json:"net_price"`
	GrossPrice           decimal.Decimal      `json:"gross_price"`
	Currency             string               `json:"currency"`
	CancellationPolicies []CancellationPolicy `json:"cancellation_policies"`
	Promotions           []string             `json:"promotions"`
}

// FreeCancellation reports whether the rate carries no cancellation charges at all.
func (r RateRecord) FreeCancellation() bool { return len(r.CancellationPolicies) == 0 }
