package app

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"hotel_finder/internal/domain"
)

// maxCardAmenities caps the icons shown on one card.
const maxCardAmenities = 6

var typeLabels = map[string]string{
	"1EST": "1 Star Hotel", "2EST": "2 Star Hotel", "3EST": "3 Star Hotel",
	"4EST": "4 Star Hotel", "5EST": "5 Star Hotel",
	"1 STAR": "1 Star Hotel", "2 STARS": "2 Star Hotel", "3 STARS": "3 Star Hotel",
	"4 STARS": "4 Star Hotel", "5 STARS": "5 Star Hotel",
	"3LL": "3 Star Hotel", "4LL": "4 Star Hotel", "5LL": "5 Star Luxury Hotel", "5LUX": "5 Star Luxury Hotel",
	"SUP": "Superior Hotel", "BOU": "Boutique Hotel", "BOUTIQUE": "Boutique Hotel",
	"APTH": "Apartment", "AT1": "Apartment", "AT2": "Apartment", "AT3": "Apartment", "APARTMENT": "Apartment",
	"HS": "Hostel", "HS1": "Hostel", "HS2": "Hostel", "HS3": "Hostel", "HOSTEL": "Hostel", "ALBER": "Hostel",
	"BB": "Bed & Breakfast", "BB3": "Bed & Breakfast", "PENDI": "Guest House",
	"VILLA": "Villa", "VTV": "Villa",
	"RESORT": "Resort", "H5_5": "Resort",
	"CAMP": "Campsite",
}

const defaultTypeLabel = "Hotel"

const (
	imageLuxury   = "https://images.unsplash.com/photo-1520250497591-112f2f40a3f4?w=800"
	imageStandard = "https://images.unsplash.com/photo-1566073771259-6a8506099945?w=800"
	imageBudget   = "https://images.unsplash.com/photo-1551882547-ff40c63fe5fa?w=800"
)

var typeImages = map[string]string{
	"5 Star Luxury Hotel": imageLuxury,
	"5 Star Hotel":        imageLuxury,
	"Resort":              imageLuxury,
	"Villa":               imageLuxury,
	"4 Star Hotel":        imageStandard,
	"Superior Hotel":      imageStandard,
	"Boutique Hotel":      imageStandard,
	"3 Star Hotel":        imageStandard,
	"Hotel":               imageStandard,
}

// TypeLabel maps a category code to a human label, "Hotel" when unknown.
func TypeLabel(category string) string {
	if l, ok := typeLabels[strings.ToUpper(strings.TrimSpace(category))]; ok {
		return l
	}
	return defaultTypeLabel
}

// StockImage picks the card image for a category.
func StockImage(category string) string {
	if u, ok := typeImages[TypeLabel(category)]; ok {
		return u
	}
	return imageBudget
}

// ToDisplay renders the candidates of a result, selected or alternatives, as cards.
// statics overrides the content joined during selection when it has the hotel.
func ToDisplay(result domain.SelectionResult, statics map[string]domain.HotelStatic) []domain.DisplayCard {
	cands := result.Candidates()
	cards := make([]domain.DisplayCard, 0, len(cands))
	for _, cd := range cands {
		h := cd.Hotel
		if s, ok := statics[cd.Rate.HotelCode]; ok {
			h = s
		}
		name := h.Name
		if name == "" {
			name = "Hotel " + cd.Rate.HotelCode
		}
		amenities := ResolveAmenities(h.AmenityCodes)
		if len(amenities) > maxCardAmenities {
			amenities = amenities[:maxCardAmenities]
		}
		cards = append(cards, domain.DisplayCard{
			ID:        cd.Rate.HotelCode,
			Name:      name,
			Location:  titleCase(h.City),
			Price:     cd.Rate.NetPrice,
			Currency:  cd.Rate.Currency,
			Rating:    h.Rating(),
			ImageURL:  StockImage(h.CategoryCode),
			TypeLabel: TypeLabel(h.CategoryCode),
			Amenities: amenities,
		})
	}
	return cards
}

// titleCase turns provider upper-case city names ("BARCELONA") into "Barcelona".
func titleCase(s string) string {
	if s != strings.ToUpper(s) {
		return s
	}
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToTitle(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
