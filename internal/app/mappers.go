package app

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"hotel_finder/internal/domain"
)

/********** alias registries (single source of truth) **********/

var staticAliases = map[string][]string{
	"code":        {"code", "hotelCode", "hotel_code", "id"},
	"name":        {"name.content", "name", "hotel_name", "hotelName"},
	"category":    {"categoryCode", "category_code", "category.code", "categoryGroupCode"},
	"category_ds": {"category.description.content", "category.description", "categoryName"},
	"city":        {"city.content", "city", "address.city", "destinationName"},
	"description": {"description.content", "description", "shortDescription"},
}

var rateAliases = map[string][]string{
	"net":        {"net", "netPrice", "net_price", "price"},
	"gross":      {"sellingRate", "gross", "grossPrice", "gross_price"},
	"board":      {"boardCode", "board_code", "board"},
	"board_name": {"boardName", "board_name"},
	"class":      {"rateClass", "rate_class"},
	"key":        {"rateKey", "rate_key"},
	"currency":   {"currency"},
}

// hotelbeds serves relative image paths from its photo CDN.
const photoBaseURL = "https://photos.hotelbeds.com/giata/"

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns the string (or number rendered as text) at path, or "".
func lookupStr(m map[string]any, path string) string {
	switch v := lookupAny(m, path).(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return ""
}

// firstNonEmptyAlias: first non-empty value for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) string {
	for _, p := range aliases[key] {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

// firstPresentAlias returns the raw value of the first alias that exists at all.
func firstPresentAlias(m map[string]any, aliases map[string][]string, key string) (any, bool) {
	for _, p := range aliases[key] {
		if v := lookupAny(m, p); v != nil {
			return v, true
		}
	}
	return nil, false
}

// decimalFlexible: price from json.Number, string ("80.00", "80,00", "1,234.50")
// or native numbers. A comma is a decimal separator only when there is no dot.
func decimalFlexible(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case string:
		s := strings.TrimSpace(t)
		if strings.Contains(s, ".") {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ",", ".")
		}
		if s == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(s)
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(t), true
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int64:
		return decimal.NewFromInt(t), true
	}
	return decimal.Zero, false
}

// intFlexible: int from json.Number/float64/int/string.
func intFlexible(v any) (int, bool) {
	switch t := v.(type) {
	case json.Number:
		n, err := t.Int64()
		return int(n), err == nil
	case float64:
		return int(t), true
	case int:
		return t, true
	case int64:
		return int(t), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		return n, err == nil
	}
	return 0, false
}

// firstSliceStrings: accept []any with either strings or {url/src/path/name}.
func firstSliceStrings(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		raw, ok := lookupAny(m, k).([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(raw))
		for _, it := range raw {
			switch t := it.(type) {
			case string:
				if t != "" {
					out = append(out, t)
				}
			case map[string]any:
				for _, f := range []string{"url", "src", "path", "name"} {
					if u, ok := t[f].(string); ok && u != "" {
						out = append(out, u)
						break
					}
				}
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

/********** static content mapper **********/

func mapHotelStatic(p map[string]any) domain.HotelStatic {
	category := firstNonEmptyAlias(p, staticAliases, "category")
	rating := NormalizeStarRating(category)
	if category == "" {
		rating = NormalizeStarRating(firstNonEmptyAlias(p, staticAliases, "category_ds"))
	}

	images := firstSliceStrings(p, "images", "photos")
	for i, img := range images {
		if !strings.HasPrefix(img, "http://") && !strings.HasPrefix(img, "https://") {
			images[i] = photoBaseURL + strings.TrimPrefix(img, "/")
		}
	}

	return domain.HotelStatic{
		Code:         firstNonEmptyAlias(p, staticAliases, "code"),
		Name:         firstNonEmptyAlias(p, staticAliases, "name"),
		CategoryCode: category,
		StarRating:   rating,
		City:         firstNonEmptyAlias(p, staticAliases, "city"),
		Description:  firstNonEmptyAlias(p, staticAliases, "description"),
		Images:       images,
		AmenityCodes: amenityCodes(p),
	}
}

// mapHotelStatics drops entries that carry no hotel code; they cannot be joined.
func mapHotelStatics(docs []map[string]any) []domain.HotelStatic {
	out := make([]domain.HotelStatic, 0, len(docs))
	for _, d := range docs {
		h := mapHotelStatic(d)
		if h.Code == "" {
			continue
		}
		out = append(out, h)
	}
	return out
}

// amenityCodes collects facility codes as a sorted set.
func amenityCodes(p map[string]any) []int {
	seen := map[int]struct{}{}
	for _, k := range []string{"facilities", "amenity_codes", "amenityCodes", "amenities"} {
		raw, ok := lookupAny(p, k).([]any)
		if !ok {
			continue
		}
		for _, it := range raw {
			v := it
			if obj, ok := it.(map[string]any); ok {
				v = obj["facilityCode"]
				if v == nil {
					v = obj["code"]
				}
			}
			if n, ok := intFlexible(v); ok {
				seen[n] = struct{}{}
			}
		}
	}
	out := make([]int, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}
