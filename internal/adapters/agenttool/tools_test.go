package agenttool_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_finder/internal/adapters/agenttool"
	"hotel_finder/internal/domain"
)

type fakeSearcher struct {
	got  domain.SearchConstraints
	resp domain.SearchResponse
	err  error
}

func (f *fakeSearcher) Search(_ context.Context, c domain.SearchConstraints) (domain.SearchResponse, error) {
	f.got = c
	if f.err != nil {
		return domain.SearchResponse{}, f.err
	}
	r := f.resp
	r.Constraints = c
	return r, nil
}

func matchedResponse() domain.SearchResponse {
	cand := domain.Candidate{
		Rate:  domain.RateRecord{HotelCode: "1", NetPrice: decimal.NewFromInt(95), Currency: "EUR"},
		Hotel: domain.HotelStatic{Code: "1", Name: "Casa Gràcia", StarRating: 4.5},
	}
	return domain.SearchResponse{
		SearchID: "s-1",
		Result:   domain.Matched([]domain.Candidate{cand}),
		Cards: []domain.DisplayCard{{
			ID: "1", Name: "Casa Gràcia", Price: decimal.NewFromInt(95), Currency: "EUR",
			Rating: 4.5, TypeLabel: "4 Star Hotel",
			Amenities: []domain.Amenity{{Name: "Free WiFi", Icon: "wifi"}},
		}},
	}
}

func TestTools_Definitions(t *testing.T) {
	d := agenttool.NewDispatcher(&fakeSearcher{})
	tools := d.Tools()
	require.Len(t, tools, len(d.Names()))
	for _, tl := range tools {
		assert.Equal(t, openai.ToolTypeFunction, tl.Type)
		require.NotNil(t, tl.Function)
		assert.NotEmpty(t, tl.Function.Description)

		// the schema must serialize for the chat API
		b, err := json.Marshal(tl.Function.Parameters)
		require.NoError(t, err)
		assert.Contains(t, string(b), `"check_in"`)
	}
}

func TestCall_SearchAndSelect_JSONArgs(t *testing.T) {
	fs := &fakeSearcher{resp: matchedResponse()}
	d := agenttool.NewDispatcher(fs)

	res, err := d.Call(context.Background(), "search_and_select_hotels",
		`{"city":"Barcelona","check_in":"2025-07-20","check_out":"2025-07-23","budget":150}`)
	require.NoError(t, err)

	assert.Equal(t, "Barcelona", fs.got.Destination)
	assert.Equal(t, civil.Date{Year: 2025, Month: 7, Day: 20}, fs.got.CheckIn)
	assert.True(t, fs.got.BudgetPerNight.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, domain.ModeBestFit, fs.got.Mode)
	assert.Equal(t, 2, fs.got.Adults)

	assert.Contains(t, res.Summary, "Found 1 hotel(s) in Barcelona")
	assert.Contains(t, res.Summary, "Casa Gràcia (4.5 stars, 4 Star Hotel) from 95.00 EUR")
}

func TestCall_LegacyStringArgs(t *testing.T) {
	fs := &fakeSearcher{resp: matchedResponse()}
	d := agenttool.NewDispatcher(fs)

	_, err := d.Call(context.Background(), "get_hotels_with_compatible_cancellation",
		"dest=BCN, cin=2025-07-20, cout=2025-07-23, policy=BEFORE_DATE, deadline=2025-07-18, top_n=5")
	require.NoError(t, err)

	assert.Equal(t, "BCN", fs.got.Destination)
	require.NotNil(t, fs.got.Cancellation)
	assert.Equal(t, domain.PolicyBeforeDate, fs.got.Cancellation.Kind)
	assert.Equal(t, civil.Date{Year: 2025, Month: 7, Day: 18}, *fs.got.Cancellation.Deadline)
	assert.Equal(t, 5, fs.got.TopN)
}

func TestCall_ModesPerTool(t *testing.T) {
	cases := map[string]domain.Mode{
		"get_cheapest_hotels":     domain.ModeCheapest,
		"get_highest_rated_hotel": domain.ModeBestFit,
		"get_best_promotions":     domain.ModePromotions,
	}
	for name, want := range cases {
		fs := &fakeSearcher{resp: matchedResponse()}
		_, err := agenttool.NewDispatcher(fs).Call(context.Background(), name,
			`{"city":"BCN","check_in":"2025-07-20","check_out":"2025-07-21"}`)
		require.NoError(t, err, name)
		assert.Equal(t, want, fs.got.Mode, name)
	}
}

func TestCall_Errors(t *testing.T) {
	d := agenttool.NewDispatcher(&fakeSearcher{})
	ctx := context.Background()

	_, err := d.Call(ctx, "book_flight", "{}")
	assert.ErrorIs(t, err, agenttool.ErrUnknownTool)

	_, err = d.Call(ctx, "search_and_select_hotels", `{"city":"BCN","check_in":"2025-07-20","check_out":"2025-07-21"}`)
	assert.ErrorIs(t, err, domain.ErrInvalidConstraints, "budget is required")

	_, err = d.Call(ctx, "get_hotels_with_compatible_cancellation",
		`{"city":"BCN","check_in":"2025-07-20","check_out":"2025-07-21","policy":"MAYBE"}`)
	assert.ErrorIs(t, err, domain.ErrUnsupportedPolicy)

	_, err = d.Call(ctx, "get_cheapest_hotels", "city=BCN,top_n=many")
	assert.ErrorIs(t, err, domain.ErrInvalidConstraints)

	_, err = d.Call(ctx, "get_cheapest_hotels", "just some words")
	assert.ErrorIs(t, err, domain.ErrInvalidConstraints)
}

func TestHandle_ToolMessage(t *testing.T) {
	d := agenttool.NewDispatcher(&fakeSearcher{resp: matchedResponse()})
	msg, err := d.Handle(context.Background(), openai.ToolCall{
		ID:   "call_1",
		Type: openai.ToolTypeFunction,
		Function: openai.FunctionCall{
			Name:      "get_cheapest_hotels",
			Arguments: `{"city":"BCN","check_in":"2025-07-20","check_out":"2025-07-21"}`,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, openai.ChatMessageRoleTool, msg.Role)
	assert.Equal(t, "call_1", msg.ToolCallID)

	var reply map[string]any
	require.NoError(t, json.Unmarshal([]byte(msg.Content), &reply))
	assert.Equal(t, "selected", reply["status"])
	assert.Len(t, reply["cards"], 1)
}

func TestHandle_ErrorBecomesReply(t *testing.T) {
	boom := errors.New("provider down")
	d := agenttool.NewDispatcher(&fakeSearcher{err: boom})
	msg, err := d.Handle(context.Background(), openai.ToolCall{
		ID:       "call_2",
		Function: openai.FunctionCall{Name: "get_cheapest_hotels", Arguments: `{"city":"BCN","check_in":"2025-07-20","check_out":"2025-07-21"}`},
	})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, msg.Content, `"status":"error"`)
	assert.Contains(t, msg.Content, "provider down")
}

func TestSummarize_NoMatch(t *testing.T) {
	alt := domain.Candidate{Rate: domain.RateRecord{HotelCode: "9", NetPrice: decimal.NewFromInt(80), Currency: "EUR"}}
	resp := domain.SearchResponse{
		Constraints: domain.SearchConstraints{Destination: "Barcelona"},
		Result: domain.Unmatched(domain.NoMatch{
			Cause: domain.CauseBudget, Reason: "No hotels in Barcelona fit your budget of 50.00 EUR per night.",
			CheapestAlternatives: []domain.Candidate{alt},
		}),
		Cards: []domain.DisplayCard{{ID: "9", Name: "Hotel 9", Price: decimal.NewFromInt(80), Currency: "EUR", Rating: 3, TypeLabel: "Hotel"}},
	}
	got := agenttool.Summarize(resp)
	assert.Contains(t, got, "fit your budget of 50.00 EUR")
	assert.Contains(t, got, "Cheapest options:\n1. Hotel 9 (3.0 stars, Hotel) from 80.00 EUR")
}
