// Package agenttool exposes hotel search to an LLM agent as function tools.
// It owns argument parsing, including the older "k=v,k=v" string form, and
// turns results into a short text reply plus the display cards.
package agenttool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"github.com/shopspring/decimal"

	"hotel_finder/internal/app"
	"hotel_finder/internal/domain"
)

var ErrUnknownTool = errors.New("unknown tool")

// Searcher is the search entry point the tools call.
type Searcher interface {
	Search(ctx context.Context, c domain.SearchConstraints) (domain.SearchResponse, error)
}

type toolSpec struct {
	name        string
	description string
	mode        domain.Mode
	policy      bool // requires a cancellation policy argument
	budget      bool // budget is required
}

var specs = []toolSpec{
	{
		name:        "search_and_select_hotels",
		description: "Search hotels in a city for the given dates and pick the best ones within the nightly budget. Explains why when nothing fits.",
		mode:        domain.ModeBestFit,
		budget:      true,
	},
	{
		name:        "get_highest_rated_hotel",
		description: "Get the top-n hotels with the highest rating that have availability for the given dates and location.",
		mode:        domain.ModeBestFit,
	},
	{
		name:        "get_cheapest_hotels",
		description: "Get the hotels with the cheapest rates that have availability for the given dates and location.",
		mode:        domain.ModeCheapest,
	},
	{
		name: "get_hotels_with_compatible_cancellation",
		description: "Get hotels whose rates match a cancellation policy. FREE means no cancellation charges; " +
			"NRF means non-refundable rates; BEFORE_DATE means cancelling before the deadline is free.",
		mode:   domain.ModeBestFit,
		policy: true,
	},
	{
		name:        "get_best_promotions",
		description: "Get the hotels whose rates carry the most promotions for the given dates and location.",
		mode:        domain.ModePromotions,
	},
}

func specByName(name string) (toolSpec, bool) {
	for _, s := range specs {
		if s.name == name {
			return s, true
		}
	}
	return toolSpec{}, false
}

// Dispatcher routes tool calls to the search service.
type Dispatcher struct {
	search Searcher
}

func NewDispatcher(s Searcher) *Dispatcher { return &Dispatcher{search: s} }

// Names lists the registered tools in declaration order.
func (d *Dispatcher) Names() []string {
	out := make([]string, 0, len(specs))
	for _, s := range specs {
		out = append(out, s.name)
	}
	return out
}

// Tools returns the function definitions to send with a chat completion request.
func (d *Dispatcher) Tools() []openai.Tool {
	out := make([]openai.Tool, 0, len(specs))
	for _, s := range specs {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        s.name,
				Description: s.description,
				Parameters:  parameters(s),
			},
		})
	}
	return out
}

func parameters(s toolSpec) jsonschema.Definition {
	props := map[string]jsonschema.Definition{
		"city":      {Type: jsonschema.String, Description: "Destination city or destination code, e.g. BCN"},
		"check_in":  {Type: jsonschema.String, Description: "Check-in date (YYYY-MM-DD)"},
		"check_out": {Type: jsonschema.String, Description: "Check-out date (YYYY-MM-DD)"},
		"budget":    {Type: jsonschema.Number, Description: "Maximum price per night"},
		"adults":    {Type: jsonschema.Integer, Description: "Number of adults, default 2"},
		"children":  {Type: jsonschema.Integer, Description: "Number of children"},
		"rooms":     {Type: jsonschema.Integer, Description: "Number of rooms, default 1"},
		"top_n":     {Type: jsonschema.Integer, Description: "Number of hotels to return"},
		"board":     {Type: jsonschema.String, Description: "Board code, e.g. BB for bed and breakfast"},
		"min_rating": {
			Type: jsonschema.Number, Description: "Minimum star rating, 1 to 5",
		},
	}
	required := []string{"city", "check_in", "check_out"}
	if s.budget {
		required = append(required, "budget")
	}
	if s.policy {
		props["policy"] = jsonschema.Definition{
			Type: jsonschema.String, Enum: []string{"FREE", "NRF", "BEFORE_DATE"},
			Description: "Cancellation policy type",
		}
		props["deadline"] = jsonschema.Definition{
			Type: jsonschema.String, Description: "Deadline date (YYYY-MM-DD) for BEFORE_DATE",
		}
		required = append(required, "policy")
	}
	return jsonschema.Definition{Type: jsonschema.Object, Properties: props, Required: required}
}

// Result is one tool execution.
type Result struct {
	Tool     string                `json:"tool"`
	Summary  string                `json:"summary"`
	Response domain.SearchResponse `json:"response"`
}

// Call runs a tool by name. arguments is either a JSON object or the
// legacy "k=v,k=v" form.
func (d *Dispatcher) Call(ctx context.Context, name, arguments string) (Result, error) {
	td, ok := specByName(name)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	args, err := ParseArguments(arguments)
	if err != nil {
		return Result{}, err
	}
	req := args.request()
	req.Mode = string(td.mode)
	if td.budget && req.Budget == nil {
		return Result{}, fmt.Errorf("%w: budget is required", domain.ErrInvalidConstraints)
	}
	if td.policy && req.CancellationPolicy == "" {
		return Result{}, fmt.Errorf("%w: policy is required", domain.ErrUnsupportedPolicy)
	}

	c, err := req.Constraints()
	if err != nil {
		return Result{}, err
	}
	resp, err := d.search.Search(ctx, c)
	if err != nil {
		return Result{}, err
	}
	return Result{Tool: name, Summary: Summarize(resp), Response: resp}, nil
}

type toolReply struct {
	Status  string               `json:"status"`
	Summary string               `json:"summary,omitempty"`
	Cards   []domain.DisplayCard `json:"cards,omitempty"`
	Error   string               `json:"error,omitempty"`
}

// Handle answers one tool call from a chat completion. Failures become an
// error reply the model can read; the error is returned as well for logging.
func (d *Dispatcher) Handle(ctx context.Context, call openai.ToolCall) (openai.ChatCompletionMessage, error) {
	msg := openai.ChatCompletionMessage{
		Role:       openai.ChatMessageRoleTool,
		ToolCallID: call.ID,
		Name:       call.Function.Name,
	}
	var reply toolReply
	res, err := d.Call(ctx, call.Function.Name, call.Function.Arguments)
	if err != nil {
		reply = toolReply{Status: "error", Error: err.Error()}
	} else {
		reply = toolReply{Status: statusOf(res.Response.Result), Summary: res.Summary, Cards: res.Response.Cards}
	}
	b, mErr := json.Marshal(reply)
	if mErr != nil {
		return msg, mErr
	}
	msg.Content = string(b)
	return msg, err
}

func statusOf(r domain.SelectionResult) string {
	if r.IsMatch() {
		return "selected"
	}
	return "no_match"
}

// Args is the union of argument names the tools have accepted over time.
type Args struct {
	City               string           `json:"city"`
	Dest               string           `json:"dest"`
	Destination        string           `json:"destination"`
	HotelCodes         []string         `json:"hotel_codes"`
	CheckIn            string           `json:"check_in"`
	Cin                string           `json:"cin"`
	CheckOut           string           `json:"check_out"`
	Cout               string           `json:"cout"`
	Budget             *decimal.Decimal `json:"budget"`
	Rooms              int              `json:"rooms"`
	Adults             int              `json:"adults"`
	Children           int              `json:"children"`
	TopN               int              `json:"top_n"`
	Policy             string           `json:"policy"`
	CancellationPolicy string           `json:"cancellation_policy"`
	Deadline           string           `json:"deadline"`
	Board              string           `json:"board"`
	BoardCode          string           `json:"board_code"`
	MinRating          *float64         `json:"min_rating"`
}

func (a Args) request() app.SearchRequest {
	return app.SearchRequest{
		Destination:        firstOf(a.City, a.Dest, a.Destination),
		HotelCodes:         a.HotelCodes,
		CheckIn:            firstOf(a.CheckIn, a.Cin),
		CheckOut:           firstOf(a.CheckOut, a.Cout),
		Budget:             a.Budget,
		Rooms:              a.Rooms,
		Adults:             a.Adults,
		Children:           a.Children,
		TopN:               a.TopN,
		CancellationPolicy: firstOf(a.Policy, a.CancellationPolicy),
		Deadline:           a.Deadline,
		BoardCode:          firstOf(a.Board, a.BoardCode),
		MinRating:          a.MinRating,
	}
}

// ParseArguments accepts a JSON object or "city=Barcelona,check_in=2025-07-20,...".
func ParseArguments(s string) (Args, error) {
	s = strings.TrimSpace(s)
	var a Args
	if s == "" {
		return a, fmt.Errorf("%w: no arguments", domain.ErrInvalidConstraints)
	}
	if strings.HasPrefix(s, "{") {
		if err := json.Unmarshal([]byte(s), &a); err != nil {
			return Args{}, fmt.Errorf("%w: arguments: %v", domain.ErrInvalidConstraints, err)
		}
		return a, nil
	}
	return parseLegacy(s)
}

func parseLegacy(s string) (Args, error) {
	kv := map[string]string{}
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' || r == '\n' }) {
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			return Args{}, fmt.Errorf("%w: %q is not key=value", domain.ErrInvalidConstraints, strings.TrimSpace(part))
		}
		k = strings.ToLower(strings.TrimSpace(k))
		kv[k] = strings.Trim(strings.TrimSpace(v), `"'`)
	}

	var a Args
	var bad []string
	num := func(k string, dst *int) {
		if v, ok := kv[k]; ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				bad = append(bad, k)
				return
			}
			*dst = n
		}
	}
	a.City, a.Dest, a.Destination = kv["city"], kv["dest"], kv["destination"]
	a.CheckIn, a.Cin, a.CheckOut, a.Cout = kv["check_in"], kv["cin"], kv["check_out"], kv["cout"]
	a.Policy, a.CancellationPolicy, a.Deadline = kv["policy"], kv["cancellation_policy"], kv["deadline"]
	a.Board, a.BoardCode = kv["board"], kv["board_code"]
	num("rooms", &a.Rooms)
	num("adults", &a.Adults)
	num("children", &a.Children)
	num("top_n", &a.TopN)
	if v, ok := kv["budget"]; ok {
		d, err := decimal.NewFromString(strings.TrimLeft(v, "$€£ "))
		if err != nil {
			bad = append(bad, "budget")
		} else {
			a.Budget = &d
		}
	}
	if v, ok := kv["min_rating"]; ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			bad = append(bad, "min_rating")
		} else {
			a.MinRating = &f
		}
	}
	if v, ok := kv["hotel_codes"]; ok && v != "" {
		a.HotelCodes = strings.Fields(strings.ReplaceAll(v, "|", " "))
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return Args{}, fmt.Errorf("%w: unreadable %s", domain.ErrInvalidConstraints, strings.Join(bad, ", "))
	}
	return a, nil
}

func firstOf(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
