package analysis

import "StockBoard/internal/model"

// evaluateGrowth scores revenue momentum from the year-over-year growth
// rate. A missing value and an exact zero both mean "no signal".
func evaluateGrowth(revenueYoY *float64) ([]model.Tag, int) {
	if revenueYoY == nil || *revenueYoY == 0 {
		return nil, 0
	}

	yoy := *revenueYoY
	switch {
	case yoy > 20:
		return []model.Tag{{Icon: "🚀", Text: "營收高成長"}}, 2
	case yoy > 10:
		return []model.Tag{{Icon: "📈", Text: "營收成長"}}, 1
	case yoy < -10:
		return []model.Tag{{Icon: "⚠️", Text: "營收衰退"}}, -2
	case yoy < 0:
		return []model.Tag{{Icon: "📉", Text: "營收微減"}}, -1
	}
	return nil, 0
}
