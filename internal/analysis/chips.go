package analysis

import (
	"fmt"

	"StockBoard/internal/model"
)

// evaluateChips scores institutional flow. The 5-day rolling sum carries the
// most weight; when it is unavailable and singleDayFallback is set, the
// single-day net steps in with lower thresholds. A long buy or sell streak
// adds one more point on top.
func evaluateChips(flow *model.InstitutionalStats, singleDayFallback bool) ([]model.Tag, int) {
	if flow == nil {
		return nil, 0
	}

	var tags []model.Tag
	score := 0

	switch {
	case flow.Sum5 > 1000:
		tags = append(tags, model.Tag{Icon: "🟢", Text: "法人5日大買"})
		score += 2
	case flow.Sum5 > 300:
		tags = append(tags, model.Tag{Icon: "🟢", Text: "法人5日買超"})
		score++
	case flow.Sum5 < -1000:
		tags = append(tags, model.Tag{Icon: "🔴", Text: "法人5日大賣"})
		score -= 2
	case flow.Sum5 < -300:
		tags = append(tags, model.Tag{Icon: "🔴", Text: "法人5日賣超"})
		score--
	case flow.Sum5 == 0 && singleDayFallback:
		switch {
		case flow.Today > 500:
			tags = append(tags, model.Tag{Icon: "🟢", Text: "法人大買"})
			score += 2
		case flow.Today > 100:
			tags = append(tags, model.Tag{Icon: "🟢", Text: "法人買超"})
			score++
		case flow.Today < -500:
			tags = append(tags, model.Tag{Icon: "🔴", Text: "法人大賣"})
			score -= 2
		case flow.Today < -100:
			tags = append(tags, model.Tag{Icon: "🔴", Text: "法人賣超"})
			score--
		}
	}

	if flow.ConsecutiveDays >= 5 {
		tags = append(tags, model.Tag{Icon: "📊", Text: fmt.Sprintf("連買%d天", flow.ConsecutiveDays)})
		score++
	} else if flow.ConsecutiveDays <= -5 {
		tags = append(tags, model.Tag{Icon: "📊", Text: fmt.Sprintf("連賣%d天", -flow.ConsecutiveDays)})
		score--
	}

	return tags, score
}
