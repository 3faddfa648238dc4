package service

import (
	"fmt"
	"sort"

	"StockBoard/internal/analysis"
	"StockBoard/internal/model"
)

// Thresholds for the summary panel's notable lists and signals.
const (
	notableNetLots     = 100 // today's net beyond which a security is listed
	signalStreakDays   = 3
	signalMA60Band     = 3.0 // percent distance from the quarterly line
	signalGrowthYoYPct = 20.0
)

// buildSummary rolls one run's composite records into the portfolio summary.
func buildSummary(stocks []model.Stock) model.Summary {
	summary := model.Summary{
		Total:        len(stocks),
		InstBuyList:  []model.RankedStock{},
		InstSellList: []model.RankedStock{},
		Signals:      []model.Signal{},
		BySector:     map[string]model.SectorGroup{},
	}

	for _, stock := range stocks {
		switch stock.Analysis.RatingClass {
		case analysis.ClassStrongBuy, analysis.ClassBuy, analysis.ClassBullish:
			summary.Bullish++
		case analysis.ClassNeutral:
			summary.Neutral++
		case analysis.ClassBearish, analysis.ClassWatch, analysis.ClassAvoid:
			summary.Bearish++
		}

		today := stock.Institutional.Today
		if today > notableNetLots {
			summary.InstBuyList = append(summary.InstBuyList, model.RankedStock{ID: stock.ID, Name: stock.Name, Value: today})
		} else if today < -notableNetLots {
			summary.InstSellList = append(summary.InstSellList, model.RankedStock{ID: stock.ID, Name: stock.Name, Value: today})
		}

		summary.Signals = append(summary.Signals, stockSignals(stock)...)

		group := summary.BySector[stock.SectorName]
		group.Count++
		group.Stocks = append(group.Stocks, model.SectorMember{
			ID:     stock.ID,
			Name:   stock.Name,
			Rating: stock.Analysis.Rating,
		})
		summary.BySector[stock.SectorName] = group
	}

	sort.Slice(summary.InstBuyList, func(i, j int) bool {
		return summary.InstBuyList[i].Value > summary.InstBuyList[j].Value
	})
	sort.Slice(summary.InstSellList, func(i, j int) bool {
		return summary.InstSellList[i].Value < summary.InstSellList[j].Value
	})

	return summary
}

// stockSignals emits the free-text observations for one security: a long
// institutional streak, a price hugging the quarterly line, or strong
// revenue growth.
func stockSignals(stock model.Stock) []model.Signal {
	var signals []model.Signal
	label := stock.Name
	if label == "" {
		label = stock.ID
	}

	if streak := stock.Institutional.ConsecutiveDays; streak >= signalStreakDays {
		signals = append(signals, model.Signal{
			Type: "bullish",
			Text: fmt.Sprintf("%s 法人連買%d天", label, streak),
		})
	} else if streak <= -signalStreakDays {
		signals = append(signals, model.Signal{
			Type: "bearish",
			Text: fmt.Sprintf("%s 法人連賣%d天", label, -streak),
		})
	}

	if stock.Technical != nil && stock.Technical.DistanceFromMA60 != nil {
		if dist := *stock.Technical.DistanceFromMA60; dist >= -signalMA60Band && dist <= signalMA60Band {
			signals = append(signals, model.Signal{
				Type: "info",
				Text: fmt.Sprintf("%s 股價貼近季線 (%+.1f%%)", label, dist),
			})
		}
	}

	if stock.Revenue.YoY != nil && *stock.Revenue.YoY > signalGrowthYoYPct {
		signals = append(signals, model.Signal{
			Type: "bullish",
			Text: fmt.Sprintf("%s 營收年增 %.1f%%", label, *stock.Revenue.YoY),
		})
	}

	return signals
}
