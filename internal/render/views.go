package render

import (
	"fmt"

	"tickerboard/internal/quote"
)

// ValueText formats the value view for one entry: the current value
// with the symbol's grouping separator and decimal count.
func ValueText(e quote.Entry) string {
	return Group(e.Quote.Current, e.Symbol.Separator, e.Symbol.Decimals)
}

// PercentText formats the percent-change view, always signed, one
// decimal place.
func PercentText(e quote.Entry) string {
	return fmt.Sprintf("%+.1f%%", e.Quote.PercentageChange)
}
