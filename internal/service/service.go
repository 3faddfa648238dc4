// Package service joins every upstream mapping against the watch-list and
// assembles the composite per-security records plus the portfolio summary.
package service

import (
	"context"
	"log"
	"sync"
	"time"

	"StockBoard/internal/analysis"
	"StockBoard/internal/institutional"
	"StockBoard/internal/marketdata"
	"StockBoard/internal/model"
)

// MarketData supplies fundamentals, close prices and monthly revenue.
type MarketData interface {
	BasicData(ctx context.Context) marketdata.BasicData
}

// FlowSource supplies rolled-up institutional flow statistics.
type FlowSource interface {
	Aggregate(ctx context.Context, days int) institutional.Result
}

// TechnicalSource supplies per-security indicators and sparklines.
type TechnicalSource interface {
	Indicators(ctx context.Context, ids []string, fundamentals map[string]model.Fundamentals) map[string]model.TechnicalIndicators
	Sparklines(ctx context.Context, ids []string, fundamentals map[string]model.Fundamentals) map[string]model.Sparkline
}

// Service runs the aggregation pipeline over the configured watch-list.
// The watch-list and benchmarks are read-only after construction; the only
// shared mutable state is the cached latest response.
type Service struct {
	market     MarketData
	flow       FlowSource
	technical  TechnicalSource
	watchlist  []model.WatchItem
	benchmarks map[string]model.SectorBenchmark
	flowDays   int

	Now func() time.Time

	mu       sync.RWMutex
	latest   *model.Response
	coverage Coverage
}

// Coverage reports how many of the requested institutional trading days the
// most recent run actually collected.
type Coverage struct {
	SuccessDays   int
	RequestedDays int
}

func New(market MarketData, flow FlowSource, technical TechnicalSource,
	watchlist []model.WatchItem, benchmarks map[string]model.SectorBenchmark, flowDays int) *Service {
	return &Service{
		market:     market,
		flow:       flow,
		technical:  technical,
		watchlist:  watchlist,
		benchmarks: benchmarks,
		flowDays:   flowDays,
		Now:        time.Now,
	}
}

// rawData is everything one run fetched, keyed by security ID throughout.
type rawData struct {
	basic      marketdata.BasicData
	flow       institutional.Result
	sparklines map[string]model.Sparkline
	technicals map[string]model.TechnicalIndicators
}

func (s *Service) loadRawData(ctx context.Context, ids []string, includeTechnical bool) rawData {
	raw := rawData{basic: s.market.BasicData(ctx)}
	raw.flow = s.flow.Aggregate(ctx, s.flowDays)
	raw.sparklines = s.technical.Sparklines(ctx, ids, raw.basic.Fundamentals)
	if includeTechnical {
		raw.technicals = s.technical.Indicators(ctx, ids, raw.basic.Fundamentals)
	}
	return raw
}

// Complete runs the full pipeline including technical analysis and caches
// the result as the latest snapshot.
func (s *Service) Complete(ctx context.Context) *model.Response {
	return s.run(ctx, true)
}

// Quick runs the pipeline without the per-security technical fetches. The
// quick scan uses the narrower rating buckets and skips the single-day
// institutional fallback.
func (s *Service) Quick(ctx context.Context) *model.Response {
	return s.run(ctx, false)
}

func (s *Service) run(ctx context.Context, includeTechnical bool) *model.Response {
	if len(s.watchlist) == 0 {
		return s.emptyResponse()
	}

	mode := "quick"
	if includeTechnical {
		mode = "complete"
	}
	started := s.Now()
	log.Printf("[INFO] aggregation started: %d securities (%s)", len(s.watchlist), mode)

	ids := make([]string, len(s.watchlist))
	for i, item := range s.watchlist {
		ids[i] = item.ID
	}
	raw := s.loadRawData(ctx, ids, includeTechnical)

	stocks := make([]model.Stock, len(s.watchlist))
	for i, item := range s.watchlist {
		stocks[i] = s.transformStock(item, raw, includeTechnical)
	}

	resp := &model.Response{
		Stocks:           stocks,
		Summary:          buildSummary(stocks),
		SectorBenchmarks: s.benchmarks,
		UpdatedAt:        s.Now(),
	}

	s.mu.Lock()
	s.latest = resp
	s.coverage = Coverage{SuccessDays: raw.flow.SuccessDays, RequestedDays: raw.flow.RequestedDays}
	s.mu.Unlock()

	log.Printf("[INFO] aggregation finished in %s: %d bullish / %d neutral / %d bearish",
		s.Now().Sub(started).Round(time.Millisecond),
		resp.Summary.Bullish, resp.Summary.Neutral, resp.Summary.Bearish)
	return resp
}

// StockByID runs the pipeline for a single watch-list entry. Returns nil
// when the ID is not on the watch-list.
func (s *Service) StockByID(ctx context.Context, id string, includeTechnical bool) *model.Stock {
	var item *model.WatchItem
	for i := range s.watchlist {
		if s.watchlist[i].ID == id {
			item = &s.watchlist[i]
			break
		}
	}
	if item == nil {
		return nil
	}

	raw := s.loadRawData(ctx, []string{id}, includeTechnical)
	stock := s.transformStock(*item, raw, includeTechnical)
	return &stock
}

// Latest returns the cached snapshot of the most recent run, or nil when no
// run has completed yet.
func (s *Service) Latest() *model.Response {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// LastCoverage returns the institutional-day coverage of the most recent run.
func (s *Service) LastCoverage() Coverage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.coverage
}

func (s *Service) emptyResponse() *model.Response {
	return &model.Response{
		Stocks:           []model.Stock{},
		SectorBenchmarks: s.benchmarks,
		UpdatedAt:        s.Now(),
	}
}

// transformStock assembles one composite record. Every upstream miss
// substitutes the documented default, so a security can always be rendered
// even when every source failed.
func (s *Service) transformStock(item model.WatchItem, raw rawData, includeTechnical bool) model.Stock {
	fund := raw.basic.Fundamentals[item.ID]
	rev := raw.basic.Revenue[item.ID]
	flow := raw.flow.Stats[item.ID]

	sparkline, ok := raw.sparklines[item.ID]
	if !ok {
		sparkline = model.Sparkline{Prices: []float64{}}
	}

	var benchmark *model.SectorBenchmark
	sectorName := "未分類"
	if b, ok := s.benchmarks[item.Sector]; ok {
		benchmark = &b
		sectorName = b.Name
	}

	var technical *model.TechnicalIndicators
	if includeTechnical {
		tech, ok := raw.technicals[item.ID]
		if !ok {
			tech = model.TechnicalIndicators{Trend: model.TrendNoData}
		}
		technical = &tech
	}

	input := analysis.Input{
		PE:         fund.PE,
		PB:         fund.PB,
		YieldRate:  fund.YieldRate,
		RevenueYoY: rev.YoY,
		Flow:       &flow,
		Technical:  technical,
		Benchmark:  benchmark,
	}
	var result model.Analysis
	if includeTechnical {
		result = analysis.EvaluateComplete(input)
	} else {
		result = analysis.EvaluateQuick(input)
	}

	stock := model.Stock{
		ID:         item.ID,
		Name:       fund.Name,
		Note:       item.Note,
		Sector:     item.Sector,
		SectorName: sectorName,
		Market:     fund.Market.DisplayName(),

		PE:        positiveOrNil(fund.PE),
		PB:        positiveOrNil(fund.PB),
		YieldRate: positiveOrNil(fund.YieldRate),

		Revenue: rev,
		Institutional: model.InstitutionalBlock{
			InstitutionalStats: flow,
			ConsecutiveDisplay: model.FormatConsecutiveDays(flow.ConsecutiveDays),
		},
		Technical: technical,
		Sparkline: sparkline,
		Analysis:  result,
	}

	if price, ok := raw.basic.Prices[item.ID]; ok {
		stock.Price = &price
	}
	if fund.PE > 0 && fund.PB > 0 {
		graham := fund.PE * fund.PB
		stock.GrahamNumber = &graham
	}
	if benchmark != nil {
		stock.GrahamThreshold = &benchmark.GrahamThreshold
	}
	return stock
}

func positiveOrNil(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return &v
}
