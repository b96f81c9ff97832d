package domain

import (
	"encoding/json"
	"fmt"
)

// Candidate joins a rate with the static content of the hotel that owns it.
type Candidate struct {
	Rate  RateRecord  `json:"rate"`
	Hotel HotelStatic `json:"hotel"`
}

type NoMatchCause string

const (
	CauseNoInventory  NoMatchCause = "NO_INVENTORY"
	CauseBudget       NoMatchCause = "BUDGET"
	CauseCancellation NoMatchCause = "CANCELLATION_POLICY"
	CauseBoard        NoMatchCause = "BOARD"
	CauseRating       NoMatchCause = "RATING"
)

type NoMatch struct {
	Cause                NoMatchCause `json:"cause"`
	Reason               string       `json:"reason"`
	CheapestAlternatives []Candidate  `json:"cheapest_alternatives"`
}

// SelectionResult holds either a non-empty selection or a NoMatch, never both.
// Build it with Matched or Unmatched and branch on IsMatch.
type SelectionResult struct {
	selected []Candidate
	noMatch  *NoMatch
}

func Matched(selected []Candidate) SelectionResult {
	if len(selected) == 0 {
		return Unmatched(NoMatch{Cause: CauseNoInventory, Reason: "no hotels matched the search"})
	}
	return SelectionResult{selected: selected}
}

func Unmatched(nm NoMatch) SelectionResult {
	if nm.CheapestAlternatives == nil {
		nm.CheapestAlternatives = []Candidate{}
	}
	return SelectionResult{noMatch: &nm}
}

func (r SelectionResult) IsMatch() bool { return r.noMatch == nil && len(r.selected) > 0 }

// Selected is nil for a NoMatch result.
func (r SelectionResult) Selected() []Candidate { return r.selected }

// NoMatch is nil for a successful selection.
func (r SelectionResult) NoMatch() *NoMatch { return r.noMatch }

// Outcome is "selected" or the no-match cause, as used in logs, metrics and events.
func (r SelectionResult) Outcome() string {
	if r.noMatch != nil {
		return string(r.noMatch.Cause)
	}
	return statusSelected
}

// Candidates returns whatever the result offers the traveler: the selection, or the alternatives.
func (r SelectionResult) Candidates() []Candidate {
	if r.noMatch != nil {
		return r.noMatch.CheapestAlternatives
	}
	return r.selected
}

const (
	statusSelected = "selected"
	statusNoMatch  = "no_match"
)

type resultWire struct {
	Status   string      `json:"status"`
	Selected []Candidate `json:"selected,omitempty"`
	NoMatch  *NoMatch    `json:"no_match,omitempty"`
}

func (r SelectionResult) MarshalJSON() ([]byte, error) {
	if r.IsMatch() {
		return json.Marshal(resultWire{Status: statusSelected, Selected: r.selected})
	}
	nm := r.noMatch
	if nm == nil {
		nm = &NoMatch{Cause: CauseNoInventory, CheapestAlternatives: []Candidate{}}
	}
	return json.Marshal(resultWire{Status: statusNoMatch, NoMatch: nm})
}

func (r *SelectionResult) UnmarshalJSON(b []byte) error {
	var w resultWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	switch w.Status {
	case statusSelected:
		*r = Matched(w.Selected)
	case statusNoMatch:
		if w.NoMatch == nil {
			return fmt.Errorf("selection result: no_match without payload")
		}
		*r = Unmatched(*w.NoMatch)
	default:
		return fmt.Errorf("selection result: unknown status %q", w.Status)
	}
	return nil
}
