package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"hotel_finder/internal/domain"
)

// Select filters and ranks normalized rates against the traveler's constraints.
// It is pure: the same inputs always produce the same result.
//
// Order of filters: budget, cancellation, board, rating floor. When a filter
// empties the pool the result is a NoMatch naming that filter, offering the
// cheapest options of the pool before it was applied.
func Select(rates []domain.RateRecord, statics map[string]domain.HotelStatic, c domain.SearchConstraints) (domain.SelectionResult, error) {
	if c.Cancellation != nil {
		if _, err := domain.ParsePolicyKind(string(c.Cancellation.Kind)); err != nil {
			return domain.SelectionResult{}, err
		}
	}
	mode, err := domain.ParseMode(string(c.Mode))
	if err != nil {
		return domain.SelectionResult{}, err
	}
	topN := c.TopN
	if topN <= 0 {
		topN = domain.DefaultTopN
	}

	all := joinStatics(rates, statics)
	if len(all) == 0 {
		return domain.Unmatched(domain.NoMatch{
			Cause:  domain.CauseNoInventory,
			Reason: fmt.Sprintf("No hotels have availability in %s for %s to %s.", c.DestinationLabel(), c.CheckIn, c.CheckOut),
		}), nil
	}

	pool := all
	if b := c.BudgetPerNight; b != nil {
		affordable := keep(pool, func(cd domain.Candidate) bool { return cd.Rate.NetPrice.LessThanOrEqual(*b) })
		if len(affordable) == 0 {
			alts := cheapest(all, topN)
			return domain.Unmatched(domain.NoMatch{
				Cause: domain.CauseBudget,
				Reason: fmt.Sprintf("No hotels in %s fit your budget of %s per night. The cheapest available rate is %s.",
					c.DestinationLabel(), formatMoney(*b, alts[0].Rate.Currency), formatMoney(alts[0].Rate.NetPrice, alts[0].Rate.Currency)),
				CheapestAlternatives: alts,
			}), nil
		}
		pool = affordable
	}

	if f := c.Cancellation; f != nil {
		var ferr error
		next := keep(pool, func(cd domain.Candidate) bool {
			ok, err := MatchesCancellation(cd.Rate, f)
			if err != nil {
				ferr = err
			}
			return ok
		})
		if ferr != nil {
			return domain.SelectionResult{}, ferr
		}
		if len(next) == 0 {
			return filteredOut(pool, topN, domain.CauseCancellation,
				fmt.Sprintf("No rates in %s match the %s cancellation policy%s.", c.DestinationLabel(), f.Kind, deadlineSuffix(f))), nil
		}
		pool = next
	}

	if board := c.BoardCode; board != "" {
		next := keep(pool, func(cd domain.Candidate) bool { return strings.EqualFold(cd.Rate.BoardCode, board) })
		if len(next) == 0 {
			return filteredOut(pool, topN, domain.CauseBoard,
				fmt.Sprintf("No rates in %s offer board %s.", c.DestinationLabel(), board)), nil
		}
		pool = next
	}

	if floor := c.MinRating; floor != nil {
		next := keep(pool, func(cd domain.Candidate) bool { return cd.Hotel.Rating() >= *floor })
		if len(next) == 0 {
			return filteredOut(pool, topN, domain.CauseRating,
				fmt.Sprintf("No hotels in %s are rated %.1f stars or higher.", c.DestinationLabel(), *floor)), nil
		}
		pool = next
	}

	ranked := rank(pool, mode)
	return domain.Matched(firstPerHotel(ranked, topN)), nil
}

// joinStatics pairs every rate with its hotel. Hotels without static content
// get a placeholder at the default rating.
func joinStatics(rates []domain.RateRecord, statics map[string]domain.HotelStatic) []domain.Candidate {
	out := make([]domain.Candidate, 0, len(rates))
	for _, r := range rates {
		h, ok := statics[r.HotelCode]
		if !ok {
			h = domain.HotelStatic{Code: r.HotelCode, Name: "Hotel " + r.HotelCode}
		}
		h.StarRating = h.Rating()
		out = append(out, domain.Candidate{Rate: r, Hotel: h})
	}
	return out
}

func keep(in []domain.Candidate, pred func(domain.Candidate) bool) []domain.Candidate {
	out := make([]domain.Candidate, 0, len(in))
	for _, cd := range in {
		if pred(cd) {
			out = append(out, cd)
		}
	}
	return out
}

// rank sorts a copy of the pool; ties keep input order.
func rank(pool []domain.Candidate, mode domain.Mode) []domain.Candidate {
	out := append([]domain.Candidate(nil), pool...)
	switch mode {
	case domain.ModeCheapest:
		sort.SliceStable(out, func(i, j int) bool {
			if c := out[i].Rate.NetPrice.Cmp(out[j].Rate.NetPrice); c != 0 {
				return c < 0
			}
			return out[i].Hotel.Rating() > out[j].Hotel.Rating()
		})
	case domain.ModePromotions:
		sort.SliceStable(out, func(i, j int) bool {
			return len(out[i].Rate.Promotions) > len(out[j].Rate.Promotions)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			ri, rj := out[i].Hotel.Rating(), out[j].Hotel.Rating()
			if ri != rj {
				return ri > rj
			}
			return out[i].Rate.NetPrice.LessThan(out[j].Rate.NetPrice)
		})
	}
	return out
}

// firstPerHotel keeps the best-ranked rate of each hotel, up to n entries.
func firstPerHotel(ranked []domain.Candidate, n int) []domain.Candidate {
	seen := make(map[string]struct{}, n)
	out := make([]domain.Candidate, 0, n)
	for _, cd := range ranked {
		if len(out) == n {
			break
		}
		if _, dup := seen[cd.Rate.HotelCode]; dup {
			continue
		}
		seen[cd.Rate.HotelCode] = struct{}{}
		out = append(out, cd)
	}
	return out
}

func cheapest(pool []domain.Candidate, n int) []domain.Candidate {
	return firstPerHotel(rank(pool, domain.ModeCheapest), n)
}

func filteredOut(pool []domain.Candidate, n int, cause domain.NoMatchCause, reason string) domain.SelectionResult {
	return domain.Unmatched(domain.NoMatch{Cause: cause, Reason: reason, CheapestAlternatives: cheapest(pool, n)})
}

func deadlineSuffix(f *domain.PolicyFilter) string {
	if f.Kind == domain.PolicyBeforeDate && f.Deadline != nil {
		return " before " + f.Deadline.String()
	}
	return ""
}

func formatMoney(d decimal.Decimal, currency string) string {
	if currency == "" {
		return d.StringFixed(2)
	}
	return d.StringFixed(2) + " " + currency
}
