package app

import (
	"fmt"

	"hotel_finder/internal/domain"
)

// Icons are lucide icon names; the UI renders them directly.
const (
	iconWifi     = "wifi"
	iconCar      = "car"
	iconCoffee   = "coffee"
	iconFood     = "utensils"
	iconBar      = "wine"
	iconPool     = "waves"
	iconGym      = "dumbbell"
	iconSpa      = "sparkles"
	iconAir      = "snowflake"
	iconTV       = "tv"
	iconBath     = "bath"
	iconBed      = "bed"
	iconBaby     = "baby"
	iconAccess   = "accessibility"
	iconPet      = "dog"
	iconNoSmoke  = "cigarette-off"
	iconSafe     = "lock"
	iconDesk     = "concierge-bell"
	iconBusiness = "briefcase"
	iconShuttle  = "bus"
	iconPlane    = "plane"
	iconBike     = "bike"
	iconLaundry  = "shirt"
	iconSun      = "sun"
	iconBeach    = "umbrella"
	iconGolf     = "flag"
	iconTennis   = "trophy"
	iconKitchen  = "cooking-pot"
	iconPhone    = "phone"
	iconLift     = "arrow-up-down"
	iconGarden   = "trees"
	iconKids     = "puzzle"
	iconMusic    = "music"
	iconShop     = "shopping-bag"
	iconMoney    = "banknote"
	iconKey      = "key-round"
	iconHeat     = "flame"
	iconEV       = "plug-zap"
	iconStar     = "star"
)

// amenityTable covers both facility numbering schemes. The legacy scheme uses
// 1..199; the current one uses 200..699 and reuses names, so icons dedupe.
var amenityTable = map[int]domain.Amenity{
	// legacy scheme
	1:   {Name: "Air conditioning", Icon: iconAir},
	2:   {Name: "Heating", Icon: iconHeat},
	3:   {Name: "Television", Icon: iconTV},
	4:   {Name: "Satellite TV", Icon: iconTV},
	5:   {Name: "Telephone", Icon: iconPhone},
	6:   {Name: "Minibar", Icon: iconBar},
	7:   {Name: "In-room safe", Icon: iconSafe},
	8:   {Name: "Hairdryer", Icon: iconBath},
	9:   {Name: "Bathtub", Icon: iconBath},
	10:  {Name: "Shower", Icon: iconBath},
	11:  {Name: "Balcony", Icon: iconSun},
	12:  {Name: "Terrace", Icon: iconSun},
	13:  {Name: "Kitchenette", Icon: iconKitchen},
	14:  {Name: "Microwave", Icon: iconKitchen},
	15:  {Name: "Refrigerator", Icon: iconKitchen},
	16:  {Name: "Coffee maker", Icon: iconCoffee},
	17:  {Name: "Desk", Icon: iconBusiness},
	18:  {Name: "Iron", Icon: iconLaundry},
	19:  {Name: "Extra beds available", Icon: iconBed},
	20:  {Name: "Free WiFi", Icon: iconWifi},
	21:  {Name: "WiFi (charges apply)", Icon: iconWifi},
	22:  {Name: "Internet access", Icon: iconWifi},
	23:  {Name: "Cots available", Icon: iconBaby},
	24:  {Name: "Soundproofing", Icon: iconBed},
	25:  {Name: "Wheelchair accessible room", Icon: iconAccess},
	26:  {Name: "Non-smoking rooms", Icon: iconNoSmoke},
	27:  {Name: "Family rooms", Icon: iconKids},
	28:  {Name: "Connecting rooms", Icon: iconKey},
	29:  {Name: "Sea view", Icon: iconBeach},
	30:  {Name: "City view", Icon: iconSun},
	40:  {Name: "24-hour reception", Icon: iconDesk},
	41:  {Name: "Concierge", Icon: iconDesk},
	42:  {Name: "Luggage storage", Icon: iconDesk},
	43:  {Name: "Currency exchange", Icon: iconMoney},
	44:  {Name: "Lift", Icon: iconLift},
	45:  {Name: "Safe deposit box", Icon: iconSafe},
	46:  {Name: "Express check-in", Icon: iconKey},
	47:  {Name: "Room service", Icon: iconDesk},
	48:  {Name: "Laundry service", Icon: iconLaundry},
	49:  {Name: "Dry cleaning", Icon: iconLaundry},
	50:  {Name: "Tour desk", Icon: iconDesk},
	51:  {Name: "Newspapers", Icon: iconDesk},
	52:  {Name: "Wake-up service", Icon: iconPhone},
	53:  {Name: "Shops", Icon: iconShop},
	54:  {Name: "Hairdresser", Icon: iconSpa},
	55:  {Name: "ATM", Icon: iconMoney},
	56:  {Name: "Garden", Icon: iconGarden},
	57:  {Name: "Library", Icon: iconBusiness},
	58:  {Name: "Playground", Icon: iconKids},
	59:  {Name: "Kids club", Icon: iconKids},
	60:  {Name: "Babysitting", Icon: iconBaby},
	70:  {Name: "Restaurant", Icon: iconFood},
	71:  {Name: "Bar", Icon: iconBar},
	72:  {Name: "Snack bar", Icon: iconFood},
	73:  {Name: "Breakfast", Icon: iconCoffee},
	74:  {Name: "Buffet breakfast", Icon: iconCoffee},
	75:  {Name: "Café", Icon: iconCoffee},
	76:  {Name: "Poolside bar", Icon: iconBar},
	77:  {Name: "Special diet menus", Icon: iconFood},
	78:  {Name: "Vending machine", Icon: iconFood},
	79:  {Name: "Wine cellar", Icon: iconBar},
	80:  {Name: "Parking", Icon: iconCar},
	81:  {Name: "Free parking", Icon: iconCar},
	82:  {Name: "Valet parking", Icon: iconCar},
	83:  {Name: "Garage", Icon: iconCar},
	84:  {Name: "Car hire", Icon: iconCar},
	85:  {Name: "Electric vehicle charging", Icon: iconEV},
	86:  {Name: "Airport shuttle", Icon: iconPlane},
	87:  {Name: "Shuttle service", Icon: iconShuttle},
	88:  {Name: "Bicycle rental", Icon: iconBike},
	89:  {Name: "Bicycle storage", Icon: iconBike},
	100: {Name: "Outdoor swimming pool", Icon: iconPool},
	101: {Name: "Indoor swimming pool", Icon: iconPool},
	102: {Name: "Heated pool", Icon: iconPool},
	103: {Name: "Children's pool", Icon: iconPool},
	104: {Name: "Sun loungers", Icon: iconBeach},
	105: {Name: "Beach access", Icon: iconBeach},
	106: {Name: "Private beach", Icon: iconBeach},
	107: {Name: "Fitness centre", Icon: iconGym},
	108: {Name: "Spa", Icon: iconSpa},
	109: {Name: "Sauna", Icon: iconSpa},
	110: {Name: "Steam room", Icon: iconSpa},
	111: {Name: "Hot tub", Icon: iconSpa},
	112: {Name: "Massage", Icon: iconSpa},
	113: {Name: "Solarium", Icon: iconSun},
	114: {Name: "Tennis court", Icon: iconTennis},
	115: {Name: "Golf course", Icon: iconGolf},
	116: {Name: "Mini golf", Icon: iconGolf},
	117: {Name: "Squash", Icon: iconTennis},
	118: {Name: "Table tennis", Icon: iconTennis},
	119: {Name: "Billiards", Icon: iconTennis},
	120: {Name: "Live entertainment", Icon: iconMusic},
	121: {Name: "Nightclub", Icon: iconMusic},
	122: {Name: "Karaoke", Icon: iconMusic},
	123: {Name: "Games room", Icon: iconKids},
	124: {Name: "Water sports", Icon: iconPool},
	125: {Name: "Diving", Icon: iconPool},
	126: {Name: "Hiking", Icon: iconGarden},
	127: {Name: "Skiing", Icon: iconAir},
	140: {Name: "Business centre", Icon: iconBusiness},
	141: {Name: "Meeting rooms", Icon: iconBusiness},
	142: {Name: "Conference hall", Icon: iconBusiness},
	143: {Name: "Fax and photocopying", Icon: iconBusiness},
	150: {Name: "Pets allowed", Icon: iconPet},
	151: {Name: "Non-smoking hotel", Icon: iconNoSmoke},
	152: {Name: "Wheelchair accessible", Icon: iconAccess},
	153: {Name: "Adults only", Icon: iconStar},
	154: {Name: "Designated smoking area", Icon: iconStar},
	160: {Name: "All inclusive", Icon: iconFood},
	161: {Name: "Half board", Icon: iconFood},
	162: {Name: "Full board", Icon: iconFood},

	// current scheme
	200: {Name: "Air conditioning", Icon: iconAir},
	201: {Name: "Centrally regulated air conditioning", Icon: iconAir},
	202: {Name: "Heating", Icon: iconHeat},
	203: {Name: "Television", Icon: iconTV},
	204: {Name: "Pay-per-view channels", Icon: iconTV},
	205: {Name: "Telephone", Icon: iconPhone},
	206: {Name: "Minibar", Icon: iconBar},
	207: {Name: "In-room safe", Icon: iconSafe},
	208: {Name: "Hairdryer", Icon: iconBath},
	209: {Name: "Bathtub", Icon: iconBath},
	210: {Name: "Shower", Icon: iconBath},
	211: {Name: "Bathrobes", Icon: iconBath},
	212: {Name: "Toiletries", Icon: iconBath},
	213: {Name: "Balcony", Icon: iconSun},
	214: {Name: "Kitchenette", Icon: iconKitchen},
	215: {Name: "Coffee maker", Icon: iconCoffee},
	216: {Name: "Tea and coffee facilities", Icon: iconCoffee},
	217: {Name: "Desk", Icon: iconBusiness},
	218: {Name: "Iron", Icon: iconLaundry},
	219: {Name: "Extra beds available", Icon: iconBed},
	220: {Name: "Cots available", Icon: iconBaby},
	221: {Name: "Soundproofing", Icon: iconBed},
	222: {Name: "Wheelchair accessible room", Icon: iconAccess},
	223: {Name: "Non-smoking rooms", Icon: iconNoSmoke},
	224: {Name: "Family rooms", Icon: iconKids},
	225: {Name: "Sea view", Icon: iconBeach},
	226: {Name: "City view", Icon: iconSun},
	227: {Name: "Mountain view", Icon: iconGarden},
	228: {Name: "Dishwasher", Icon: iconKitchen},
	229: {Name: "Washing machine", Icon: iconLaundry},
	250: {Name: "Free WiFi", Icon: iconWifi},
	251: {Name: "WiFi in public areas", Icon: iconWifi},
	252: {Name: "WiFi (charges apply)", Icon: iconWifi},
	253: {Name: "Wired internet", Icon: iconWifi},
	254: {Name: "Internet corner", Icon: iconWifi},
	260: {Name: "24-hour reception", Icon: iconDesk},
	261: {Name: "Concierge", Icon: iconDesk},
	262: {Name: "Luggage storage", Icon: iconDesk},
	263: {Name: "Currency exchange", Icon: iconMoney},
	264: {Name: "Lift", Icon: iconLift},
	265: {Name: "Safe deposit box", Icon: iconSafe},
	266: {Name: "Express check-in", Icon: iconKey},
	267: {Name: "Express check-out", Icon: iconKey},
	268: {Name: "Room service", Icon: iconDesk},
	269: {Name: "24-hour room service", Icon: iconDesk},
	270: {Name: "Laundry service", Icon: iconLaundry},
	271: {Name: "Dry cleaning", Icon: iconLaundry},
	272: {Name: "Tour desk", Icon: iconDesk},
	273: {Name: "Ticket service", Icon: iconDesk},
	274: {Name: "Shops", Icon: iconShop},
	275: {Name: "Mini market", Icon: iconShop},
	276: {Name: "Hairdresser", Icon: iconSpa},
	277: {Name: "ATM", Icon: iconMoney},
	278: {Name: "Garden", Icon: iconGarden},
	279: {Name: "Library", Icon: iconBusiness},
	280: {Name: "Playground", Icon: iconKids},
	281: {Name: "Kids club", Icon: iconKids},
	282: {Name: "Babysitting", Icon: iconBaby},
	283: {Name: "Self-service laundry", Icon: iconLaundry},
	284: {Name: "Doctor on call", Icon: iconAccess},
	300: {Name: "Restaurant", Icon: iconFood},
	301: {Name: "À la carte restaurant", Icon: iconFood},
	302: {Name: "Buffet restaurant", Icon: iconFood},
	303: {Name: "Bar", Icon: iconBar},
	304: {Name: "Lobby bar", Icon: iconBar},
	305: {Name: "Poolside bar", Icon: iconBar},
	306: {Name: "Snack bar", Icon: iconFood},
	307: {Name: "Breakfast", Icon: iconCoffee},
	308: {Name: "Buffet breakfast", Icon: iconCoffee},
	309: {Name: "Continental breakfast", Icon: iconCoffee},
	310: {Name: "Café", Icon: iconCoffee},
	311: {Name: "Special diet menus", Icon: iconFood},
	312: {Name: "Packed lunches", Icon: iconFood},
	313: {Name: "Vending machine", Icon: iconFood},
	314: {Name: "Wine cellar", Icon: iconBar},
	320: {Name: "All inclusive", Icon: iconFood},
	321: {Name: "Half board", Icon: iconFood},
	322: {Name: "Full board", Icon: iconFood},
	350: {Name: "Parking", Icon: iconCar},
	351: {Name: "Free parking", Icon: iconCar},
	352: {Name: "Secured parking", Icon: iconCar},
	353: {Name: "Valet parking", Icon: iconCar},
	354: {Name: "Garage", Icon: iconCar},
	355: {Name: "Car hire", Icon: iconCar},
	356: {Name: "Electric vehicle charging", Icon: iconEV},
	357: {Name: "Airport shuttle", Icon: iconPlane},
	358: {Name: "Free airport shuttle", Icon: iconPlane},
	359: {Name: "Shuttle service", Icon: iconShuttle},
	360: {Name: "Bicycle rental", Icon: iconBike},
	361: {Name: "Bicycle storage", Icon: iconBike},
	362: {Name: "Public transport tickets", Icon: iconShuttle},
	400: {Name: "Outdoor swimming pool", Icon: iconPool},
	401: {Name: "Indoor swimming pool", Icon: iconPool},
	402: {Name: "Heated pool", Icon: iconPool},
	403: {Name: "Children's pool", Icon: iconPool},
	404: {Name: "Infinity pool", Icon: iconPool},
	405: {Name: "Rooftop pool", Icon: iconPool},
	406: {Name: "Sun loungers", Icon: iconBeach},
	407: {Name: "Beach umbrellas", Icon: iconBeach},
	408: {Name: "Beach access", Icon: iconBeach},
	409: {Name: "Private beach", Icon: iconBeach},
	410: {Name: "Sun terrace", Icon: iconSun},
	450: {Name: "Fitness centre", Icon: iconGym},
	451: {Name: "Yoga classes", Icon: iconGym},
	452: {Name: "Spa", Icon: iconSpa},
	453: {Name: "Wellness centre", Icon: iconSpa},
	454: {Name: "Sauna", Icon: iconSpa},
	455: {Name: "Steam room", Icon: iconSpa},
	456: {Name: "Hot tub", Icon: iconSpa},
	457: {Name: "Massage", Icon: iconSpa},
	458: {Name: "Beauty treatments", Icon: iconSpa},
	459: {Name: "Turkish bath", Icon: iconSpa},
	460: {Name: "Solarium", Icon: iconSun},
	500: {Name: "Tennis court", Icon: iconTennis},
	501: {Name: "Golf course", Icon: iconGolf},
	502: {Name: "Mini golf", Icon: iconGolf},
	503: {Name: "Squash", Icon: iconTennis},
	504: {Name: "Table tennis", Icon: iconTennis},
	505: {Name: "Billiards", Icon: iconTennis},
	506: {Name: "Darts", Icon: iconTennis},
	507: {Name: "Bowling", Icon: iconTennis},
	508: {Name: "Water sports", Icon: iconPool},
	509: {Name: "Diving", Icon: iconPool},
	510: {Name: "Snorkelling", Icon: iconPool},
	511: {Name: "Windsurfing", Icon: iconBeach},
	512: {Name: "Hiking", Icon: iconGarden},
	513: {Name: "Horse riding", Icon: iconGarden},
	514: {Name: "Skiing", Icon: iconAir},
	515: {Name: "Ski storage", Icon: iconAir},
	550: {Name: "Live entertainment", Icon: iconMusic},
	551: {Name: "Evening entertainment", Icon: iconMusic},
	552: {Name: "Nightclub", Icon: iconMusic},
	553: {Name: "Karaoke", Icon: iconMusic},
	554: {Name: "Games room", Icon: iconKids},
	555: {Name: "Cinema", Icon: iconTV},
	556: {Name: "Casino", Icon: iconMoney},
	600: {Name: "Business centre", Icon: iconBusiness},
	601: {Name: "Meeting rooms", Icon: iconBusiness},
	602: {Name: "Conference hall", Icon: iconBusiness},
	603: {Name: "Audio-visual equipment", Icon: iconBusiness},
	604: {Name: "Fax and photocopying", Icon: iconBusiness},
	650: {Name: "Pets allowed", Icon: iconPet},
	651: {Name: "Pets on request", Icon: iconPet},
	652: {Name: "Non-smoking hotel", Icon: iconNoSmoke},
	653: {Name: "Wheelchair accessible", Icon: iconAccess},
	654: {Name: "Accessible parking", Icon: iconAccess},
	655: {Name: "Adults only", Icon: iconStar},
	656: {Name: "Eco-certified", Icon: iconGarden},
	657: {Name: "Designated smoking area", Icon: iconStar},
	699: {Name: "Sustainable practices", Icon: iconGarden},
}

// ResolveAmenity names a facility code; unknown codes get a generic entry.
func ResolveAmenity(code int) domain.Amenity {
	if a, ok := amenityTable[code]; ok {
		return a
	}
	return domain.Amenity{Name: fmt.Sprintf("Amenity %d", code), Icon: iconStar}
}

// ResolveAmenities resolves codes in order, dropping repeated (icon, name) pairs.
func ResolveAmenities(codes []int) []domain.Amenity {
	seen := make(map[domain.Amenity]struct{}, len(codes))
	out := make([]domain.Amenity, 0, len(codes))
	for _, c := range codes {
		a := ResolveAmenity(c)
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}
