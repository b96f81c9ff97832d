package domain

// HotelStatic is the descriptive content for one hotel, keyed by Code.
type HotelStatic struct {
	Code         string   `json:"code"`
	Name         string   `json:"name"`
	CategoryCode string   `json:"category_code"` // raw provider code, e.g. "4EST"
	StarRating   float64  `json:"star_rating"`   // normalized, 1.0..5.0
	City         string   `json:"city"`
	Description  string   `json:"description"`
	Images       []string `json:"images"`
	AmenityCodes []int    `json:"amenity_codes"` // sorted, unique
}

// DefaultStarRating applies when a hotel has no usable category.
const DefaultStarRating = 3.0

type Amenity struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Rating returns the normalized star rating, or the default for unknown hotels.
func (h HotelStatic) Rating() float64 {
	if h.StarRating <= 0 {
		return DefaultStarRating
	}
	return h.StarRating
}
