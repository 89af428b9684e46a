package render

import "tickerboard/internal/quote"

// State is the visual classification of a quote.
type State int

const (
	StateClosed State = iota // market not trading
	StateUp
	StateFlat
	StateDown
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateUp:
		return "up"
	case StateFlat:
		return "flat"
	case StateDown:
		return "down"
	default:
		return "unknown"
	}
}

// percentEpsilon absorbs floating-point noise in the derived change
// ratio. The value view compares the raw fields exactly instead: both
// come from the same upstream representation, so equality is meaningful
// there.
const percentEpsilon = 0.001

// ByValue classifies a quote by its current value against the previous
// close. A closed market wins regardless of the values.
func ByValue(q quote.Quote) State {
	switch {
	case !q.MarketOpen:
		return StateClosed
	case q.Current > q.PreviousClose:
		return StateUp
	case q.Current == q.PreviousClose:
		return StateFlat
	default:
		return StateDown
	}
}

// ByPercent classifies a quote by its derived percentage change against
// zero, with a small epsilon substituting for exact equality.
func ByPercent(q quote.Quote) State {
	switch {
	case !q.MarketOpen:
		return StateClosed
	case q.PercentageChange > percentEpsilon:
		return StateUp
	case q.PercentageChange >= -percentEpsilon:
		return StateFlat
	default:
		return StateDown
	}
}
