package analysis

import "StockBoard/internal/model"

// evaluateValuation scores the valuation aspect from PE, PB and dividend
// yield. With a sector benchmark the thresholds are relative to the peer
// group; without one a fixed absolute ladder applies. Securities missing
// either ratio produce no valuation signal at all.
func evaluateValuation(pe, pb, yieldRate float64, benchmark *model.SectorBenchmark) ([]model.Tag, int) {
	if pe <= 0 || pb <= 0 {
		return nil, 0
	}

	var tags []model.Tag
	score := 0
	graham := pe * pb

	if benchmark != nil {
		threshold := benchmark.GrahamThreshold
		switch {
		case graham < threshold*0.7:
			tags = append(tags, model.Tag{Icon: "🔥", Text: "同業低估"})
			score += 2
		case graham < threshold:
			tags = append(tags, model.Tag{Icon: "✅", Text: "估值合理"})
			score++
		case graham > threshold*1.5:
			tags = append(tags, model.Tag{Icon: "⚠️", Text: "同業偏高"})
			score--
		}

		if pe < benchmark.PEMin {
			tags = append(tags, model.Tag{Icon: "📉", Text: "低PE"})
			score++
		} else if pe > benchmark.PEMax*1.2 {
			tags = append(tags, model.Tag{Icon: "📈", Text: "高PE"})
			score--
		}

		if pb < benchmark.PBMin {
			tags = append(tags, model.Tag{Icon: "🛡️", Text: "低PB"})
			score++
		}

		if yieldRate > benchmark.YieldMin*1.5 {
			tags = append(tags, model.Tag{Icon: "💰", Text: "超高息"})
			score += 2
		} else if yieldRate > benchmark.YieldMin {
			tags = append(tags, model.Tag{Icon: "💵", Text: "高息"})
			score++
		}

		return tags, score
	}

	switch {
	case graham < 15:
		tags = append(tags, model.Tag{Icon: "🔥", Text: "強烈低估"})
		score += 2
	case graham < 22.5:
		tags = append(tags, model.Tag{Icon: "✅", Text: "價值合理"})
		score++
	case graham > 50:
		tags = append(tags, model.Tag{Icon: "⚠️", Text: "估值偏高"})
		score--
	}

	if pb < 1 {
		tags = append(tags, model.Tag{Icon: "🛡️", Text: "跌破淨值"})
		score++
	}

	if yieldRate > 7 {
		tags = append(tags, model.Tag{Icon: "💰", Text: "超高息"})
		score += 2
	} else if yieldRate > 5 {
		tags = append(tags, model.Tag{Icon: "💵", Text: "高息"})
		score++
	}

	if pe < 10 {
		tags = append(tags, model.Tag{Icon: "📉", Text: "低PE"})
		score++
	} else if pe > 30 {
		tags = append(tags, model.Tag{Icon: "📈", Text: "高PE"})
		score--
	}

	return tags, score
}
