package quote

import "time"

// Quote is one refresh-cycle reading for a tracked symbol.
// All fields are set together when a snapshot is built; a partially
// populated Quote is never visible to consumers.
type Quote struct {
	Current          float64 `json:"current"`
	PreviousClose    float64 `json:"previous_close"`
	PercentageChange float64 `json:"percentage_change"`
	MarketOpen       bool    `json:"market_open"`
}

// Symbol describes one tracked market indicator and how its value view
// is rendered.
type Symbol struct {
	// ID is the upstream identifier, e.g. "^SPX".
	ID string `json:"id"`
	// Label is the short display name, e.g. "SPX".
	Label string `json:"label"`
	// Scale multiplies extracted values before display. The rate proxy
	// uses 1000 so a 4.123% yield shows as 4,123.
	Scale float64 `json:"scale"`
	// Separator groups the integer digits in the value view.
	Separator rune `json:"-"`
	// Decimals is the fractional digit count in the value view.
	Decimals int `json:"decimals"`
}

// Entry pairs a symbol with its quote inside a snapshot.
type Entry struct {
	Symbol Symbol `json:"symbol"`
	Quote  Quote  `json:"quote"`
}

// Snapshot is the complete, internally consistent set of quotes for all
// tracked symbols at one poll cycle. It is immutable after construction
// and replaced wholesale by the next cycle.
type Snapshot struct {
	Entries []Entry   `json:"entries"`
	Taken   time.Time `json:"taken"`
}

// Lookup returns the entry for a symbol ID, if present.
func (s Snapshot) Lookup(id string) (Entry, bool) {
	for _, e := range s.Entries {
		if e.Symbol.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// ChangePercent derives the session change in percent. Defined as 0 when
// the previous close is 0 so a missing field never propagates NaN/Inf.
func ChangePercent(current, previousClose float64) float64 {
	if previousClose == 0 {
		return 0
	}
	return (current - previousClose) / previousClose * 100
}
