package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"

	"hotel_finder/internal/domain"
)

// maxHotelNesting bounds the "hotels" unwrapping; the provider nests it twice.
const maxHotelNesting = 3

// Flatten turns an availability document into one RateRecord per offered rate.
// doc may be raw JSON bytes or an already decoded object. A document with no
// hotels yields an empty slice; a document whose structure cannot be read
// yields an error wrapping domain.ErrMalformedDocument.
func Flatten(doc any) ([]domain.RateRecord, error) {
	root, err := decodeDocument(doc)
	if err != nil {
		return nil, err
	}
	hotels, err := hotelList(root)
	if err != nil {
		return nil, err
	}

	out := make([]domain.RateRecord, 0, len(hotels)*4)
	for hi, h := range hotels {
		hm, ok := h.(map[string]any)
		if !ok {
			return nil, malformed("hotels[%d] is %s, want object", hi, kindOf(h))
		}
		code := firstNonEmptyAlias(hm, staticAliases, "code")
		if code == "" {
			return nil, malformed("hotels[%d] has no code", hi)
		}
		currency := lookupStr(hm, "currency")

		rooms, err := optionalSlice(hm, "rooms")
		if err != nil {
			return nil, malformed("hotel %s: %v", code, err)
		}
		for ri, r := range rooms {
			rm, ok := r.(map[string]any)
			if !ok {
				return nil, malformed("hotel %s rooms[%d] is %s, want object", code, ri, kindOf(r))
			}
			rates, err := optionalSlice(rm, "rates")
			if err != nil {
				return nil, malformed("hotel %s room %d: %v", code, ri, err)
			}
			for ki, rt := range rates {
				rtm, ok := rt.(map[string]any)
				if !ok {
					return nil, malformed("hotel %s rooms[%d].rates[%d] is %s, want object", code, ri, ki, kindOf(rt))
				}
				rec, err := buildRate(rtm, code, currency, rm)
				if err != nil {
					return nil, malformed("hotel %s rooms[%d].rates[%d]: %v", code, ri, ki, err)
				}
				out = append(out, rec)
			}
		}
	}
	return out, nil
}

func buildRate(rt map[string]any, hotelCode, currency string, room map[string]any) (domain.RateRecord, error) {
	rawNet, ok := firstPresentAlias(rt, rateAliases, "net")
	if !ok {
		return domain.RateRecord{}, fmt.Errorf("missing net price")
	}
	net, ok := decimalFlexible(rawNet)
	if !ok {
		return domain.RateRecord{}, fmt.Errorf("unreadable net price %v", rawNet)
	}
	if net.IsNegative() {
		return domain.RateRecord{}, fmt.Errorf("negative net price %s", net)
	}
	gross := net
	if rawGross, ok := firstPresentAlias(rt, rateAliases, "gross"); ok {
		if g, ok := decimalFlexible(rawGross); ok && g.GreaterThanOrEqual(net) {
			gross = g
		}
	}
	if c := firstNonEmptyAlias(rt, rateAliases, "currency"); c != "" {
		currency = c
	}

	policies, err := cancellationPolicies(rt)
	if err != nil {
		return domain.RateRecord{}, err
	}

	return domain.RateRecord{
		HotelCode:            hotelCode,
		RoomCode:             lookupStr(room, "code"),
		RoomName:             lookupStr(room, "name"),
		RateKey:              firstNonEmptyAlias(rt, rateAliases, "key"),
		BoardCode:            strings.ToUpper(firstNonEmptyAlias(rt, rateAliases, "board")),
		BoardName:            firstNonEmptyAlias(rt, rateAliases, "board_name"),
		RateClass:            ClassifyRateClass(firstNonEmptyAlias(rt, rateAliases, "class")),
		NetPrice:             net,
		GrossPrice:           gross,
		Currency:             strings.ToUpper(currency),
		CancellationPolicies: policies,
		Promotions:           promotions(rt),
	}, nil
}

func cancellationPolicies(rt map[string]any) ([]domain.CancellationPolicy, error) {
	raw, err := optionalSlice(rt, "cancellationPolicies")
	if err != nil {
		return nil, err
	}
	out := make([]domain.CancellationPolicy, 0, len(raw))
	for i, p := range raw {
		pm, ok := p.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("cancellationPolicies[%d] is %s, want object", i, kindOf(p))
		}
		from := lookupStr(pm, "from")
		if len(from) < 10 {
			return nil, fmt.Errorf("cancellationPolicies[%d] has no usable 'from' date", i)
		}
		d, err := civil.ParseDate(from[:10])
		if err != nil {
			return nil, fmt.Errorf("cancellationPolicies[%d]: %v", i, err)
		}
		amount, _ := decimalFlexible(pm["amount"])
		out = append(out, domain.CancellationPolicy{Deadline: d, Amount: amount})
	}
	return out, nil
}

// promotions accepts [{code,name}] or plain strings; tags keep document order.
func promotions(rt map[string]any) []string {
	raw, _ := rt["promotions"].([]any)
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		switch t := p.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				out = append(out, s)
			}
		case map[string]any:
			if s := lookupStr(t, "code"); s != "" {
				out = append(out, s)
			} else if s := lookupStr(t, "name"); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func decodeDocument(doc any) (map[string]any, error) {
	var raw []byte
	switch v := doc.(type) {
	case map[string]any:
		return v, nil
	case json.RawMessage:
		raw = v
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case nil:
		return nil, malformed("document is empty")
	default:
		return nil, malformed("document is %T, want object", doc)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, malformed("invalid json: %v", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, malformed("document is %s, want object", kindOf(v))
	}
	return m, nil
}

// hotelList unwraps {"hotels": {"hotels": [...]}} down to the list.
func hotelList(root map[string]any) ([]any, error) {
	cur, ok := root["hotels"]
	for depth := 0; depth < maxHotelNesting; depth++ {
		if !ok || cur == nil {
			return nil, nil
		}
		switch t := cur.(type) {
		case []any:
			return t, nil
		case map[string]any:
			cur, ok = t["hotels"]
		default:
			return nil, malformed("hotels is %s, want object or array", kindOf(cur))
		}
	}
	return nil, malformed("hotels nested deeper than %d levels", maxHotelNesting)
}

func optionalSlice(m map[string]any, key string) ([]any, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s is %s, want array", key, kindOf(v))
	}
	return s, nil
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number, float64, int, int64:
		return "number"
	case bool:
		return "bool"
	}
	return fmt.Sprintf("%T", v)
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrMalformedDocument, fmt.Sprintf(format, args...))
}

// Snippet trims a raw document for log lines.
func Snippet(raw []byte, n int) string {
	if len(raw) <= n {
		return string(raw)
	}
	return string(raw[:n]) + "..."
}
