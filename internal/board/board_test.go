package board

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap"

	"tickerboard/internal/quote"
)

// fakeSource serves canned bodies per symbol and can be told to fail.
type fakeSource struct {
	mu     sync.Mutex
	bodies map[string]string
	fail   map[string]bool
	calls  []string
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Fetch(_ context.Context, symbol string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, symbol)
	if f.fail[symbol] {
		return "", fmt.Errorf("fake: GET %s -> 502", symbol)
	}
	return f.bodies[symbol], nil
}

func body(price, prevClose float64, state string) string {
	return fmt.Sprintf(`{"quoteResponse":{"result":[{"marketState":"%s",`+
		`"regularMarketPrice":%v,"regularMarketPreviousClose":%v}]}}`, state, price, prevClose)
}

func symbols() []quote.Symbol {
	return []quote.Symbol{
		{ID: "^SPX", Label: "SPX", Scale: 1, Separator: ',', Decimals: 0},
		{ID: "^NDX", Label: "NDX", Scale: 1, Separator: ',', Decimals: 0},
		{ID: "^TNX", Label: "T10", Scale: 1000, Separator: '.', Decimals: 0},
	}
}

func TestRefresh_AllSucceed(t *testing.T) {
	src := &fakeSource{bodies: map[string]string{
		"^SPX": body(5123.45, 5100, "REGULAR"),
		"^NDX": body(18000, 18100, "REGULAR"),
		"^TNX": body(4.123, 4.1, "CLOSED"),
	}}
	repo := New(symbols(), src, zap.NewNop())

	snap, ok := repo.Refresh(context.Background())
	if !ok {
		t.Fatal("want ok=true")
	}
	if len(snap.Entries) != 3 {
		t.Fatalf("want 3 entries, got %d", len(snap.Entries))
	}

	spx := snap.Entries[0].Quote
	if spx.Current != 5123.45 || spx.PreviousClose != 5100 || !spx.MarketOpen {
		t.Fatalf("spx: %+v", spx)
	}
	wantPct := (5123.45 - 5100) / 5100 * 100
	if spx.PercentageChange != wantPct {
		t.Fatalf("spx pct: got %v, want %v", spx.PercentageChange, wantPct)
	}

	ndx := snap.Entries[1].Quote
	if ndx.Current != 18000 || ndx.PercentageChange >= 0 {
		t.Fatalf("ndx: %+v", ndx)
	}

	// Rate proxy is scaled x1000 and its market is closed.
	tnx := snap.Entries[2].Quote
	if tnx.Current != 4123 || tnx.PreviousClose != 4100 || tnx.MarketOpen {
		t.Fatalf("tnx: %+v", tnx)
	}

	// Symbols were fetched sequentially in configured order.
	if len(src.calls) != 3 || src.calls[0] != "^SPX" || src.calls[1] != "^NDX" || src.calls[2] != "^TNX" {
		t.Fatalf("fetch order: %v", src.calls)
	}
}

func TestRefresh_OneFailure_OthersPopulated(t *testing.T) {
	src := &fakeSource{
		bodies: map[string]string{
			"^SPX": body(5000, 4900, "REGULAR"),
			"^TNX": body(4.0, 4.0, "REGULAR"),
		},
		fail: map[string]bool{"^NDX": true},
	}
	repo := New(symbols(), src, zap.NewNop())

	snap, ok := repo.Refresh(context.Background())
	if ok {
		t.Fatal("want ok=false when one symbol fails")
	}
	if snap.Entries[0].Quote.Current != 5000 {
		t.Fatalf("spx should be populated: %+v", snap.Entries[0].Quote)
	}
	if snap.Entries[2].Quote.Current != 4000 {
		t.Fatalf("tnx should be populated: %+v", snap.Entries[2].Quote)
	}
	// First-ever failure has no prior value to retain.
	if snap.Entries[1].Quote != (quote.Quote{}) {
		t.Fatalf("ndx should be zero on first failure: %+v", snap.Entries[1].Quote)
	}
}

func TestRefresh_FailureRetainsPriorQuote(t *testing.T) {
	src := &fakeSource{bodies: map[string]string{
		"^SPX": body(5000, 4900, "REGULAR"),
		"^NDX": body(18000, 17900, "REGULAR"),
		"^TNX": body(4.0, 3.9, "REGULAR"),
	}}
	repo := New(symbols(), src, zap.NewNop())

	first, ok := repo.Refresh(context.Background())
	if !ok {
		t.Fatal("seed refresh failed")
	}

	src.mu.Lock()
	src.fail = map[string]bool{"^NDX": true}
	src.bodies["^SPX"] = body(5010, 4900, "REGULAR")
	src.mu.Unlock()

	second, ok := repo.Refresh(context.Background())
	if ok {
		t.Fatal("want ok=false")
	}
	if second.Entries[0].Quote.Current != 5010 {
		t.Fatalf("spx should carry the new value: %+v", second.Entries[0].Quote)
	}
	if second.Entries[1].Quote != first.Entries[1].Quote {
		t.Fatalf("ndx should retain prior quote: got %+v, want %+v",
			second.Entries[1].Quote, first.Entries[1].Quote)
	}
}

func TestRefresh_ZeroPreviousClose_NoNaN(t *testing.T) {
	src := &fakeSource{bodies: map[string]string{
		"^SPX": body(5000, 0, "REGULAR"),
		"^NDX": `{"quoteResponse":{"result":[{"marketState":"REGULAR"}]}}`, // markers absent
		"^TNX": body(4.0, 3.9, "REGULAR"),
	}}
	repo := New(symbols(), src, zap.NewNop())

	snap, ok := repo.Refresh(context.Background())
	if !ok {
		t.Fatal("want ok=true: content gaps are not fetch failures")
	}
	if snap.Entries[0].Quote.PercentageChange != 0 {
		t.Fatalf("pct with zero prev close: %v", snap.Entries[0].Quote.PercentageChange)
	}
	if q := snap.Entries[1].Quote; q.Current != 0 || q.PreviousClose != 0 || q.PercentageChange != 0 {
		t.Fatalf("absent markers should degrade to zeros: %+v", q)
	}
}

func TestCurrent_BeforeFirstRefresh(t *testing.T) {
	repo := New(symbols(), &fakeSource{}, zap.NewNop())
	snap := repo.Current()
	if len(snap.Entries) != 3 {
		t.Fatalf("want 3 placeholder entries, got %d", len(snap.Entries))
	}
	if snap.Entries[0].Symbol.ID != "^SPX" || snap.Entries[0].Quote != (quote.Quote{}) {
		t.Fatalf("unexpected placeholder: %+v", snap.Entries[0])
	}
}
