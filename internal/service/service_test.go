package service

import (
	"context"
	"reflect"
	"testing"
	"time"

	"StockBoard/internal/institutional"
	"StockBoard/internal/marketdata"
	"StockBoard/internal/model"
)

type stubMarket struct{ data marketdata.BasicData }

func (s *stubMarket) BasicData(context.Context) marketdata.BasicData { return s.data }

type stubFlow struct{ result institutional.Result }

func (s *stubFlow) Aggregate(_ context.Context, days int) institutional.Result {
	s.result.RequestedDays = days
	return s.result
}

type stubTechnical struct {
	indicators map[string]model.TechnicalIndicators
	sparklines map[string]model.Sparkline
}

func (s *stubTechnical) Indicators(_ context.Context, ids []string, _ map[string]model.Fundamentals) map[string]model.TechnicalIndicators {
	return s.indicators
}

func (s *stubTechnical) Sparklines(_ context.Context, ids []string, _ map[string]model.Fundamentals) map[string]model.Sparkline {
	return s.sparklines
}

func emptyStubs() (*stubMarket, *stubFlow, *stubTechnical) {
	market := &stubMarket{data: marketdata.BasicData{
		Fundamentals: map[string]model.Fundamentals{},
		Prices:       map[string]float64{},
		Revenue:      map[string]model.RevenueRecord{},
	}}
	flow := &stubFlow{result: institutional.Result{Stats: map[string]model.InstitutionalStats{}}}
	tech := &stubTechnical{
		indicators: map[string]model.TechnicalIndicators{},
		sparklines: map[string]model.Sparkline{},
	}
	return market, flow, tech
}

func fixedClock() func() time.Time {
	now := time.Date(2025, time.June, 12, 18, 0, 0, 0, time.Local)
	return func() time.Time { return now }
}

func TestComplete_AllSourcesEmptyYieldsDefaultRecord(t *testing.T) {
	market, flow, tech := emptyStubs()
	svc := New(market, flow, tech, []model.WatchItem{{ID: "2330", Sector: "semi"}}, nil, 5)
	svc.Now = fixedClock()

	resp := svc.Complete(context.Background())
	if len(resp.Stocks) != 1 {
		t.Fatalf("expected 1 stock, got %d", len(resp.Stocks))
	}
	stock := resp.Stocks[0]
	if stock.ID != "2330" || stock.Name != "" {
		t.Errorf("unexpected identity: %+v", stock)
	}
	if stock.Market != "未知" || stock.SectorName != "未分類" {
		t.Errorf("expected unknown market and unclassified sector, got %q/%q", stock.Market, stock.SectorName)
	}
	if stock.PE != nil || stock.PB != nil || stock.Price != nil || stock.GrahamNumber != nil {
		t.Errorf("expected nil valuation fields, got %+v", stock)
	}
	if stock.Technical == nil || stock.Technical.Trend != model.TrendNoData {
		t.Errorf("expected no-data technical block, got %+v", stock.Technical)
	}
	if len(stock.Sparkline.Prices) != 0 {
		t.Errorf("expected empty sparkline, got %v", stock.Sparkline.Prices)
	}
	if len(stock.Analysis.Tags) != 1 || stock.Analysis.Tags[0].Text != "資料不足" {
		t.Errorf("expected single 資料不足 tag, got %v", stock.Analysis.Tags)
	}
	if stock.Institutional.ConsecutiveDisplay != "-" {
		t.Errorf("expected dash streak display, got %q", stock.Institutional.ConsecutiveDisplay)
	}
}

func TestComplete_AssemblesCompositeRecord(t *testing.T) {
	market, flow, tech := emptyStubs()
	yoy := 25.0
	market.data.Fundamentals["2330"] = model.Fundamentals{
		Name: "台積電", PE: 18, PB: 5, YieldRate: 2, Market: model.BoardTWSE,
	}
	market.data.Prices["2330"] = 1050
	market.data.Revenue["2330"] = model.RevenueRecord{YoY: &yoy}
	flow.result.Stats = map[string]model.InstitutionalStats{
		"2330": {Today: 500, Sum5: 1200, ConsecutiveDays: 4},
	}
	tech.sparklines["2330"] = model.Sparkline{Prices: []float64{1000, 1050}}
	tech.indicators["2330"] = model.TechnicalIndicators{Trend: model.TrendBullish, DataPoints: 120}

	benchmarks := map[string]model.SectorBenchmark{
		"semi": {Name: "半導體", GrahamThreshold: 100, PEMin: 10, PEMax: 25, PBMin: 2, YieldMin: 2},
	}
	svc := New(market, flow, tech, []model.WatchItem{{ID: "2330", Sector: "semi", Note: "core"}}, benchmarks, 5)
	svc.Now = fixedClock()

	resp := svc.Complete(context.Background())
	stock := resp.Stocks[0]

	if stock.Market != "上市" || stock.SectorName != "半導體" || stock.Note != "core" {
		t.Errorf("unexpected identity fields: %+v", stock)
	}
	if stock.GrahamNumber == nil || *stock.GrahamNumber != 90 {
		t.Errorf("grahamNumber = %v, want 90", stock.GrahamNumber)
	}
	if stock.GrahamThreshold == nil || *stock.GrahamThreshold != 100 {
		t.Errorf("grahamThreshold = %v, want 100", stock.GrahamThreshold)
	}
	if stock.Price == nil || *stock.Price != 1050 {
		t.Errorf("price = %v, want 1050", stock.Price)
	}
	if stock.Institutional.ConsecutiveDisplay != "連買4天" {
		t.Errorf("streak display = %q", stock.Institutional.ConsecutiveDisplay)
	}
	// 估值合理(90<100) +1, 營收高成長 +2, 法人5日大買 +2, 多頭排列 +2 = 7.
	if stock.Analysis.Score != 7 || stock.Analysis.RatingClass != "strong-buy" {
		t.Errorf("analysis = %+v, want score 7 strong-buy", stock.Analysis)
	}

	if resp.Summary.Bullish != 1 || resp.Summary.Total != 1 {
		t.Errorf("summary = %+v", resp.Summary)
	}
	if len(resp.Summary.InstBuyList) != 1 || resp.Summary.InstBuyList[0].Value != 500 {
		t.Errorf("buy list = %v", resp.Summary.InstBuyList)
	}
}

func TestQuick_OmitsTechnicalBlock(t *testing.T) {
	market, flow, tech := emptyStubs()
	tech.indicators["2330"] = model.TechnicalIndicators{Trend: model.TrendBullish}
	svc := New(market, flow, tech, []model.WatchItem{{ID: "2330"}}, nil, 5)
	svc.Now = fixedClock()

	resp := svc.Quick(context.Background())
	if resp.Stocks[0].Technical != nil {
		t.Errorf("quick run must not carry a technical block: %+v", resp.Stocks[0].Technical)
	}
	// Quick scan without ratios emits no tags at all.
	if len(resp.Stocks[0].Analysis.Tags) != 0 {
		t.Errorf("expected no tags, got %v", resp.Stocks[0].Analysis.Tags)
	}
}

func TestStockByID(t *testing.T) {
	market, flow, tech := emptyStubs()
	svc := New(market, flow, tech, []model.WatchItem{{ID: "2330"}}, nil, 5)
	svc.Now = fixedClock()

	if got := svc.StockByID(context.Background(), "9999", false); got != nil {
		t.Errorf("expected nil for a symbol off the watch-list, got %+v", got)
	}
	got := svc.StockByID(context.Background(), "2330", true)
	if got == nil || got.ID != "2330" {
		t.Fatalf("expected a record for 2330, got %+v", got)
	}
	if got.Technical == nil {
		t.Error("expected technical block when requested")
	}
}

func TestLatest_CachesLastRun(t *testing.T) {
	market, flow, tech := emptyStubs()
	svc := New(market, flow, tech, []model.WatchItem{{ID: "2330"}}, nil, 5)
	svc.Now = fixedClock()

	if svc.Latest() != nil {
		t.Fatal("expected nil before any run")
	}
	resp := svc.Complete(context.Background())
	if svc.Latest() != resp {
		t.Error("expected the cached snapshot to be the last run")
	}
}

func TestComplete_Idempotent(t *testing.T) {
	market, flow, tech := emptyStubs()
	market.data.Fundamentals["2330"] = model.Fundamentals{Name: "台積電", PE: 10, PB: 2, Market: model.BoardTWSE}
	svc := New(market, flow, tech, []model.WatchItem{{ID: "2330"}}, nil, 5)
	svc.Now = fixedClock()

	first := svc.Complete(context.Background())
	second := svc.Complete(context.Background())
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs must produce identical responses")
	}
}

func TestEmptyWatchlist(t *testing.T) {
	market, flow, tech := emptyStubs()
	svc := New(market, flow, tech, nil, nil, 5)
	svc.Now = fixedClock()

	resp := svc.Complete(context.Background())
	if len(resp.Stocks) != 0 || resp.Summary.Total != 0 {
		t.Errorf("expected an empty response, got %+v", resp)
	}
}
