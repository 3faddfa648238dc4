// Package marketdata fetches fundamentals, close prices and monthly revenue
// from both Taiwan boards and merges them into symbol-keyed maps.
package marketdata

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"StockBoard/internal/fetch"
	"StockBoard/internal/model"
)

// BasicData is the merged output of one fundamentals/price/revenue sweep
// across all boards.
type BasicData struct {
	Fundamentals map[string]model.Fundamentals
	Prices       map[string]float64
	Revenue      map[string]model.RevenueRecord
}

// BoardSource is one board's set of independent queries. Each returns a
// symbol-keyed map and degrades to an empty map on failure.
type BoardSource interface {
	Board() model.Board
	Fundamentals(ctx context.Context) (map[string]model.Fundamentals, error)
	ClosePrices(ctx context.Context) (map[string]float64, error)
	MonthlyRevenue(ctx context.Context) (map[string]model.RevenueRecord, error)
}

// Service fans out to all boards and merges the results. Sources are merged
// in slice order, so on a symbol conflict the last source wins; in practice
// the two boards' symbol sets are disjoint.
type Service struct {
	Sources []BoardSource
}

// NewService wires the two production boards, TWSE first.
func NewService(client *fetch.Client) *Service {
	return &Service{Sources: []BoardSource{NewTWSE(client), NewTPEX(client)}}
}

// BasicData fetches all three data kinds from every board concurrently.
// Per-board failures are logged and contribute nothing; the sweep itself
// never fails.
func (s *Service) BasicData(ctx context.Context) BasicData {
	n := len(s.Sources)
	fundamentals := make([]map[string]model.Fundamentals, n)
	prices := make([]map[string]float64, n)
	revenue := make([]map[string]model.RevenueRecord, n)

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range s.Sources {
		i, src := i, src
		g.Go(func() error {
			m, err := src.Fundamentals(gctx)
			if err != nil {
				log.Printf("[WARN] %s fundamentals unavailable: %v", src.Board(), err)
				return nil
			}
			fundamentals[i] = m
			return nil
		})
		g.Go(func() error {
			m, err := src.ClosePrices(gctx)
			if err != nil {
				log.Printf("[WARN] %s close prices unavailable: %v", src.Board(), err)
				return nil
			}
			prices[i] = m
			return nil
		})
		g.Go(func() error {
			m, err := src.MonthlyRevenue(gctx)
			if err != nil {
				log.Printf("[WARN] %s revenue unavailable: %v", src.Board(), err)
				return nil
			}
			revenue[i] = m
			return nil
		})
	}
	g.Wait()

	out := BasicData{
		Fundamentals: map[string]model.Fundamentals{},
		Prices:       map[string]float64{},
		Revenue:      map[string]model.RevenueRecord{},
	}
	for i := range s.Sources {
		for k, v := range fundamentals[i] {
			out.Fundamentals[k] = v
		}
		for k, v := range prices[i] {
			out.Prices[k] = v
		}
		for k, v := range revenue[i] {
			out.Revenue[k] = v
		}
	}

	log.Printf("[INFO] basic data loaded: %d fundamentals, %d prices, %d revenue",
		len(out.Fundamentals), len(out.Prices), len(out.Revenue))
	return out
}
