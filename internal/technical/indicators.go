// Package technical fetches daily price history and derives moving-average
// based indicators and a trend classification per security.
package technical

import (
	"StockBoard/internal/model"
)

// Moving-average windows and trailing-change horizons, in trading days.
const (
	MAShortWindow  = 20  // 月線
	MAMediumWindow = 60  // 季線
	MALongWindow   = 120 // 半年線

	ChangeOneMonth   = 20
	ChangeThreeMonth = 60
)

// EmptyIndicators is the total default for a security with no usable
// price history.
func EmptyIndicators() model.TechnicalIndicators {
	return model.TechnicalIndicators{Trend: model.TrendNoData}
}

// CalculateIndicators derives all technical data from an ascending close
// series. Any metric whose window exceeds the series length stays nil.
func CalculateIndicators(history []model.PricePoint) model.TechnicalIndicators {
	if len(history) == 0 {
		return EmptyIndicators()
	}

	closes := make([]float64, len(history))
	for i, p := range history {
		closes[i] = p.Close
	}
	current := closes[len(closes)-1]

	ma20 := movingAverage(closes, MAShortWindow)
	ma60 := movingAverage(closes, MAMediumWindow)
	ma120 := movingAverage(closes, MALongWindow)

	return model.TechnicalIndicators{
		MA20:             ma20,
		MA60:             ma60,
		MA120:            ma120,
		DistanceFromMA60: deviation(current, ma60),
		Change1M:         priceChange(closes, ChangeOneMonth),
		Change3M:         priceChange(closes, ChangeThreeMonth),
		Trend:            classifyTrend(current, ma20, ma60, ma120),
		DataPoints:       len(closes),
	}
}

func movingAverage(closes []float64, window int) *float64 {
	if len(closes) < window {
		return nil
	}
	sum := 0.0
	for _, c := range closes[len(closes)-window:] {
		sum += c
	}
	ma := sum / float64(window)
	return &ma
}

// deviation is the percent distance of the current price from the medium
// moving average.
func deviation(current float64, ma60 *float64) *float64 {
	if ma60 == nil || *ma60 <= 0 {
		return nil
	}
	d := (current - *ma60) / *ma60 * 100
	return &d
}

func priceChange(closes []float64, days int) *float64 {
	if len(closes) < days+1 {
		return nil
	}
	current := closes[len(closes)-1]
	past := closes[len(closes)-1-days]
	if past <= 0 {
		return nil
	}
	change := (current - past) / past * 100
	return &change
}

// classifyTrend labels the moving-average configuration. Missing averages
// simply drop their signal from consideration; full alignment is required
// for the 多頭/空頭 states, the medium line alone decides the tilt states.
func classifyTrend(price float64, ma20, ma60, ma120 *float64) model.TrendState {
	var aboveMedium, belowMedium, shortBull, shortBear, midBull, midBear bool

	if ma60 != nil {
		aboveMedium = price > *ma60
		belowMedium = !aboveMedium
	}
	if ma20 != nil && ma60 != nil {
		shortBull = *ma20 > *ma60
		shortBear = !shortBull
	}
	if ma60 != nil && ma120 != nil {
		midBull = *ma60 > *ma120
		midBear = !midBull
	}

	switch {
	case aboveMedium && shortBull && midBull:
		return model.TrendBullish
	case belowMedium && shortBear && midBear:
		return model.TrendBearish
	case aboveMedium:
		return model.TrendBullishTilt
	case belowMedium:
		return model.TrendBearishTilt
	default:
		return model.TrendSideways
	}
}
