package agenttool

import (
	"fmt"
	"strings"

	"hotel_finder/internal/domain"
)

// Summarize writes the reply the agent relays to the traveler.
func Summarize(resp domain.SearchResponse) string {
	c := resp.Constraints
	var b strings.Builder
	if resp.Result.IsMatch() {
		fmt.Fprintf(&b, "Found %d hotel(s) in %s from %s to %s:\n",
			len(resp.Cards), c.DestinationLabel(), c.CheckIn, c.CheckOut)
		writeCards(&b, resp.Cards)
		return strings.TrimRight(b.String(), "\n")
	}

	nm := resp.Result.NoMatch()
	b.WriteString(nm.Reason)
	if len(resp.Cards) > 0 {
		b.WriteString("\nCheapest options:\n")
		writeCards(&b, resp.Cards)
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeCards(b *strings.Builder, cards []domain.DisplayCard) {
	for i, cd := range cards {
		price := strings.TrimSpace(cd.Price.StringFixed(2) + " " + cd.Currency)
		fmt.Fprintf(b, "%d. %s (%.1f stars, %s) from %s", i+1, cd.Name, cd.Rating, cd.TypeLabel, price)
		if len(cd.Amenities) > 0 {
			names := make([]string, 0, 3)
			for _, a := range cd.Amenities {
				if len(names) == 3 {
					break
				}
				names = append(names, a.Name)
			}
			fmt.Fprintf(b, " | %s", strings.Join(names, ", "))
		}
		b.WriteByte('\n')
	}
}
