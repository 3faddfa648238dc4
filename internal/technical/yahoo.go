package technical

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"StockBoard/internal/fetch"
	"StockBoard/internal/model"
)

const (
	// ~6 months of daily closes covers the 120-day average plus the 3-month
	// trailing change; 10 days feeds the sparkline.
	historyURLFormat   = "https://query1.finance.yahoo.com/v8/finance/chart/%s?range=6mo&interval=1d&events=history"
	sparklineURLFormat = "https://query1.finance.yahoo.com/v8/finance/chart/%s?range=10d&interval=1d&events=history"

	sparklinePoints    = 5
	sparklineMinPoints = 2
)

// YahooSymbol maps an exchange code to the quote service's ticker; the
// suffix distinguishes the board.
func YahooSymbol(id string, board model.Board) string {
	if board == model.BoardOTC {
		return id + ".TWO"
	}
	return id + ".TW"
}

// Fetcher pulls per-security price history from the public quote service,
// pacing consecutive symbols to stay under its rate limit.
type Fetcher struct {
	client     *fetch.Client
	pacer      fetch.Pacer // between full-history fetches
	sparkPacer fetch.Pacer // between sparkline fetches, cheaper so shorter

	// Overridable for tests.
	HistoryURLFormat   string
	SparklineURLFormat string
}

func NewFetcher(client *fetch.Client, pacer, sparkPacer fetch.Pacer) *Fetcher {
	return &Fetcher{
		client:             client,
		pacer:              pacer,
		sparkPacer:         sparkPacer,
		HistoryURLFormat:   historyURLFormat,
		SparklineURLFormat: sparklineURLFormat,
	}
}

// chartResponse is the quote service's parallel-array time series.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
	} `json:"chart"`
}

// parseChart flattens the parallel arrays into an ascending, date-deduplicated
// close series. Null closes (holidays, halts) are dropped.
func parseChart(resp *chartResponse) []model.PricePoint {
	if len(resp.Chart.Result) == 0 {
		return nil
	}
	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil
	}
	closes := result.Indicators.Quote[0].Close

	seen := map[string]bool{}
	history := make([]model.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		date := time.Unix(ts, 0).UTC().Format("20060102")
		if seen[date] {
			continue
		}
		seen[date] = true
		history = append(history, model.PricePoint{Date: date, Close: *closes[i]})
	}

	sort.Slice(history, func(i, j int) bool { return history[i].Date < history[j].Date })
	return history
}

// FetchHistory returns ~6 months of daily closes for one ticker, or nil when
// the service has nothing usable.
func (f *Fetcher) FetchHistory(ctx context.Context, symbol string) []model.PricePoint {
	var resp chartResponse
	url := fmt.Sprintf(f.HistoryURLFormat, symbol)
	if err := f.client.GetJSON(ctx, url, &resp); err != nil {
		return nil
	}
	return parseChart(&resp)
}

// FetchSparkline returns the last few closes plus their percent change.
func (f *Fetcher) FetchSparkline(ctx context.Context, symbol string) model.Sparkline {
	var resp chartResponse
	url := fmt.Sprintf(f.SparklineURLFormat, symbol)
	if err := f.client.GetJSON(ctx, url, &resp); err != nil {
		return model.Sparkline{Prices: []float64{}}
	}

	history := parseChart(&resp)
	if len(history) > sparklinePoints {
		history = history[len(history)-sparklinePoints:]
	}
	prices := make([]float64, len(history))
	for i, p := range history {
		prices[i] = p.Close
	}

	spark := model.Sparkline{Prices: prices}
	if len(prices) >= sparklineMinPoints && prices[0] != 0 {
		change := (prices[len(prices)-1] - prices[0]) / prices[0] * 100
		spark.Change = &change
	}
	return spark
}

// Indicators fetches and derives technical data for every watch-list symbol
// that has a known board. Symbols run sequentially with pacing; a symbol
// without history degrades to the no-data block.
func (f *Fetcher) Indicators(ctx context.Context, ids []string, fundamentals map[string]model.Fundamentals) map[string]model.TechnicalIndicators {
	log.Printf("[INFO] fetching technical history for %d securities", len(ids))
	out := make(map[string]model.TechnicalIndicators, len(ids))
	success := 0
	for i, id := range ids {
		info, ok := fundamentals[id]
		if !ok {
			log.Printf("[WARN] %s: board unknown, skipping technical fetch", id)
			out[id] = EmptyIndicators()
			continue
		}

		history := f.FetchHistory(ctx, YahooSymbol(id, info.Market))
		if len(history) > 0 {
			out[id] = CalculateIndicators(history)
			success++
		} else {
			log.Printf("[WARN] %s: no price history", id)
			out[id] = EmptyIndicators()
		}

		if i < len(ids)-1 {
			f.pacer.Wait(ctx)
		}
	}
	log.Printf("[INFO] technical analysis done: %d/%d securities", success, len(ids))
	return out
}

// Sparklines fetches the short close series for every symbol, with the same
// pacing and degradation rules as Indicators.
func (f *Fetcher) Sparklines(ctx context.Context, ids []string, fundamentals map[string]model.Fundamentals) map[string]model.Sparkline {
	out := make(map[string]model.Sparkline, len(ids))
	for i, id := range ids {
		info, ok := fundamentals[id]
		if !ok {
			out[id] = model.Sparkline{Prices: []float64{}}
			continue
		}
		out[id] = f.FetchSparkline(ctx, YahooSymbol(id, info.Market))
		if i < len(ids)-1 {
			f.sparkPacer.Wait(ctx)
		}
	}
	return out
}
