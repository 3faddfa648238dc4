package analysis

import "StockBoard/internal/model"

// evaluateTechnical scores the moving-average trend, the deviation from the
// quarterly line and the 3-month move. The recent strength/weakness tags
// are informational and carry no score.
func evaluateTechnical(tech *model.TechnicalIndicators) ([]model.Tag, int) {
	if tech == nil || tech.Trend == "" || tech.Trend == model.TrendNoData {
		return nil, 0
	}

	var tags []model.Tag
	score := 0

	switch tech.Trend {
	case model.TrendBullish:
		tags = append(tags, model.Tag{Icon: "📈", Text: "多頭排列"})
		score += 2
	case model.TrendBullishTilt:
		tags = append(tags, model.Tag{Icon: "📈", Text: "偏多"})
		score++
	case model.TrendBearish:
		tags = append(tags, model.Tag{Icon: "📉", Text: "空頭排列"})
		score -= 2
	case model.TrendBearishTilt:
		tags = append(tags, model.Tag{Icon: "📉", Text: "偏空"})
		score--
	}

	if tech.DistanceFromMA60 != nil {
		if *tech.DistanceFromMA60 > 20 {
			tags = append(tags, model.Tag{Icon: "⚠️", Text: "乖離過大"})
			score--
		} else if *tech.DistanceFromMA60 < -15 {
			tags = append(tags, model.Tag{Icon: "💡", Text: "超跌反彈機會"})
			score++
		}
	}

	if tech.Change3M != nil {
		if *tech.Change3M > 30 {
			tags = append(tags, model.Tag{Icon: "🔥", Text: "近期強勢"})
		} else if *tech.Change3M < -20 {
			tags = append(tags, model.Tag{Icon: "📉", Text: "近期弱勢"})
		}
	}

	return tags, score
}
