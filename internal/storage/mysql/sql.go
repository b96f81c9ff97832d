package mysql

const upsertHotelsPrefix = "INSERT INTO hotels\n  (code, name, category_code, star_rating, city, description, images, amenity_codes)\nVALUES "

// Use VALUES(col) for broad compatibility; COALESCE keeps old value if new is NULL.
const upsertHotelsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  name          = COALESCE(VALUES(name), hotels.name),\n" +
	"  category_code = COALESCE(VALUES(category_code), hotels.category_code),\n" +
	"  star_rating   = VALUES(star_rating),\n" +
	"  city          = COALESCE(VALUES(city), hotels.city),\n" +
	"  description   = COALESCE(VALUES(description), hotels.description),\n" +
	"  images        = VALUES(images),\n" +
	"  amenity_codes = VALUES(amenity_codes),\n" +
	"  updated_at    = CURRENT_TIMESTAMP\n"

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const hotelColumns = `code, name, category_code, star_rating, city, description, images, amenity_codes`

const getHotelSQL = `SELECT ` + hotelColumns + ` FROM hotels WHERE code = ?`

// City match is case-insensitive under the table's utf8mb4 collation.
const listHotelsByCitySQL = `
SELECT ` + hotelColumns + `
FROM hotels
WHERE city = ?
ORDER BY star_rating DESC, code
LIMIT ?`
