// Package institutional aggregates multi-day institutional buy/sell filings
// from both boards and reduces them into per-security rolling statistics.
package institutional

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"StockBoard/internal/calendar"
	"StockBoard/internal/fetch"
	"StockBoard/internal/model"
)

const (
	twseDayURLFormat = "https://www.twse.com.tw/rwd/zh/fund/T86?date=%s&selectType=ALLBUT0999&response=json"
	tpexDayURLFormat = "https://www.tpex.org.tw/web/stock/3insti/daily_trade/3itrade_hedge_result.php?l=zh-tw&d=%s&se=EW&t=D"
)

// rowLayout maps the positional columns of one board's wide filing rows.
// Rows shorter than minLength are dropped.
type rowLayout struct {
	code, foreign, trust, dealer, total int
	minLength                           int
}

var (
	twseLayout = rowLayout{code: 0, foreign: 4, trust: 10, dealer: 11, total: 18, minLength: 19}
	tpexLayout = rowLayout{code: 0, foreign: 10, trust: 13, dealer: 22, total: 23, minLength: 24}
)

// Result is one aggregation sweep. SuccessDays reports partial coverage;
// the sweep itself is best-effort and never fails the pipeline.
type Result struct {
	Stats         map[string]model.InstitutionalStats
	SuccessDays   int
	RequestedDays int
}

// Aggregator walks the last N trading days and accumulates per-security
// flow history across both boards. Days run sequentially with a pacing
// delay; the two board fetches within a day run concurrently.
type Aggregator struct {
	client *fetch.Client
	pacer  fetch.Pacer

	// Overridable for tests.
	TWSEURLFormat string
	TPEXURLFormat string
	Now           func() time.Time
}

func NewAggregator(client *fetch.Client, pacer fetch.Pacer) *Aggregator {
	return &Aggregator{
		client:        client,
		pacer:         pacer,
		TWSEURLFormat: twseDayURLFormat,
		TPEXURLFormat: tpexDayURLFormat,
		Now:           time.Now,
	}
}

// Aggregate fetches the last `days` trading days and reduces the collected
// history into per-security stats. A day where both board fetches fail
// contributes nothing; a security absent from every day simply has no entry.
func (a *Aggregator) Aggregate(ctx context.Context, days int) Result {
	dates := calendar.LastNTradingDates(days, a.Now())
	history := map[string][]model.InstitutionalDay{}
	successDays := 0

	log.Printf("[INFO] fetching institutional flow for %d trading days", days)
	for i, d := range dates {
		var (
			wg       sync.WaitGroup
			twseRows [][]any
			tpexRows [][]any
			twseOK   bool
			tpexOK   bool
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			twseRows, twseOK = a.fetchTWSEDay(ctx, d.Gregorian)
		}()
		go func() {
			defer wg.Done()
			tpexRows, tpexOK = a.fetchTPEXDay(ctx, d.ROC)
		}()
		wg.Wait()

		if twseOK {
			appendRows(history, twseRows, d.Gregorian, twseLayout)
		} else {
			log.Printf("[WARN] no TWSE institutional data for %s", d.Gregorian)
		}
		if tpexOK {
			appendRows(history, tpexRows, d.ROC, tpexLayout)
		} else {
			log.Printf("[WARN] no TPEX institutional data for %s", d.ROC)
		}
		if twseOK || tpexOK {
			successDays++
		}

		if i < len(dates)-1 {
			a.pacer.Wait(ctx)
		}
	}

	stats := make(map[string]model.InstitutionalStats, len(history))
	for code, h := range history {
		stats[code] = calculateStats(h)
	}

	log.Printf("[INFO] institutional flow done: %d/%d days, %d securities", successDays, days, len(stats))
	return Result{Stats: stats, SuccessDays: successDays, RequestedDays: days}
}

type twseDayResponse struct {
	Stat string  `json:"stat"`
	Data [][]any `json:"data"`
}

func (a *Aggregator) fetchTWSEDay(ctx context.Context, date string) ([][]any, bool) {
	var resp twseDayResponse
	url := fmt.Sprintf(a.TWSEURLFormat, date)
	if err := a.client.GetJSON(ctx, url, &resp); err != nil {
		return nil, false
	}
	if resp.Stat != "OK" || len(resp.Data) == 0 {
		return nil, false
	}
	return resp.Data, true
}

// The TPEX endpoint has shipped two response shapes over time.
type tpexDayResponse struct {
	Tables []struct {
		Data [][]any `json:"data"`
	} `json:"tables"`
	AaData [][]any `json:"aaData"`
}

func (a *Aggregator) fetchTPEXDay(ctx context.Context, rocDate string) ([][]any, bool) {
	var resp tpexDayResponse
	url := fmt.Sprintf(a.TPEXURLFormat, rocDate)
	if err := a.client.GetJSON(ctx, url, &resp); err != nil {
		return nil, false
	}
	var rows [][]any
	if len(resp.Tables) > 0 && len(resp.Tables[0].Data) > 0 {
		rows = resp.Tables[0].Data
	} else if len(resp.AaData) > 0 {
		rows = resp.AaData
	}
	return rows, len(rows) > 0
}

// appendRows extracts one day's rows into the shared history map. Invalid
// rows are dropped, not fatal.
func appendRows(history map[string][]model.InstitutionalDay, rows [][]any, date string, layout rowLayout) {
	for _, row := range rows {
		if len(row) < layout.minLength {
			continue
		}
		code := strings.TrimSpace(stringCell(row[layout.code]))
		if code == "" {
			continue
		}
		history[code] = append(history[code], model.InstitutionalDay{
			Date:    date,
			Foreign: toLots(row[layout.foreign]),
			Trust:   toLots(row[layout.trust]),
			Dealer:  toLots(row[layout.dealer]),
			Total:   toLots(row[layout.total]),
		})
	}
}

func stringCell(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// toLots converts a share count cell to lots (1 lot = 1000 shares).
func toLots(v any) int {
	return int(math.Round(fetch.ParseNumber(v) / 1000))
}

// calculateStats reduces one security's unordered day history. The streak
// scans from the most recent day, counting consecutive days whose sign
// matches that day's sign; a zero-net day breaks the streak.
func calculateStats(history []model.InstitutionalDay) model.InstitutionalStats {
	var stats model.InstitutionalStats
	if len(history) == 0 {
		return stats
	}

	sorted := make([]model.InstitutionalDay, len(history))
	copy(sorted, history)
	sort.Slice(sorted, func(i, j int) bool {
		return normalizeDate(sorted[i].Date) > normalizeDate(sorted[j].Date)
	})

	stats.Today = sorted[0].Total
	for i, day := range sorted {
		if i < 5 {
			stats.Sum5 += day.Total
			stats.Foreign5 += day.Foreign
			stats.Trust5 += day.Trust
			stats.Dealer5 += day.Dealer
		}
		if i < 10 {
			stats.Sum10 += day.Total
		}
	}

	if stats.Today != 0 {
		positive := stats.Today > 0
		streak := 0
		for _, day := range sorted {
			if (positive && day.Total > 0) || (!positive && day.Total < 0) {
				streak++
			} else {
				break
			}
		}
		if !positive {
			streak = -streak
		}
		stats.ConsecutiveDays = streak
	}

	return stats
}

// normalizeDate makes Gregorian and ROC date strings comparable.
func normalizeDate(d string) string {
	return strings.ReplaceAll(d, "/", "")
}
