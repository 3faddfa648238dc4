package analysis

import (
	"testing"

	"StockBoard/internal/model"
)

func tagTexts(tags []model.Tag) []string {
	texts := make([]string, len(tags))
	for i, tag := range tags {
		texts[i] = tag.Text
	}
	return texts
}

func hasTag(tags []model.Tag, text string) bool {
	for _, tag := range tags {
		if tag.Text == text {
			return true
		}
	}
	return false
}

func floatPtr(v float64) *float64 { return &v }

func TestEvaluateValuation_AbsoluteLadder(t *testing.T) {
	tests := []struct {
		name          string
		pe, pb, yield float64
		wantTags      []string
		wantScore     int
	}{
		{"missing ratios give no signal", 0, 5, 3, nil, 0},
		{"deep value with high yield", 2, 0.8, 8, []string{"強烈低估", "跌破淨值", "超高息", "低PE"}, 6},
		{"fairly valued", 10, 2, 3, []string{"價值合理"}, 1},
		{"expensive growth stock", 18, 5, 2, []string{"估值偏高"}, -1},
		{"high pe alone", 35, 1.2, 2, []string{"高PE"}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags, score := evaluateValuation(tt.pe, tt.pb, tt.yield, nil)
			if score != tt.wantScore {
				t.Errorf("score = %d, want %d", score, tt.wantScore)
			}
			if len(tags) != len(tt.wantTags) {
				t.Fatalf("tags = %v, want %v", tagTexts(tags), tt.wantTags)
			}
			for i, want := range tt.wantTags {
				if tags[i].Text != want {
					t.Errorf("tag[%d] = %q, want %q", i, tags[i].Text, want)
				}
			}
		})
	}
}

func TestEvaluateValuation_SectorBenchmark(t *testing.T) {
	bench := &model.SectorBenchmark{
		Name:            "金融",
		GrahamThreshold: 20,
		PEMin:           8,
		PEMax:           15,
		PBMin:           1,
		YieldMin:        4,
	}

	// graham 7x1.5=10.5 < 14 (0.7x20): undervalued vs peers; pe 7 < 8: low;
	// pb 1.5 not below 1; yield 6.5 > 6 (1.5x4): very high.
	tags, score := evaluateValuation(7, 1.5, 6.5, bench)
	for _, want := range []string{"同業低估", "低PE", "超高息"} {
		if !hasTag(tags, want) {
			t.Errorf("missing tag %q in %v", want, tagTexts(tags))
		}
	}
	if score != 5 {
		t.Errorf("score = %d, want 5", score)
	}

	// graham 40x1=40 > 30 (1.5x20): overvalued; pe 40 > 18 (15x1.2): high.
	tags, score = evaluateValuation(40, 1, 2, bench)
	if !hasTag(tags, "同業偏高") || !hasTag(tags, "高PE") {
		t.Errorf("unexpected tags %v", tagTexts(tags))
	}
	if score != -2 {
		t.Errorf("score = %d, want -2", score)
	}
}

func TestEvaluateGrowth(t *testing.T) {
	tests := []struct {
		name      string
		yoy       *float64
		wantTag   string
		wantScore int
	}{
		{"nil means no signal", nil, "", 0},
		{"zero means no signal", floatPtr(0), "", 0},
		{"strong growth", floatPtr(25), "營收高成長", 2},
		{"moderate growth", floatPtr(15), "營收成長", 1},
		{"mild decline", floatPtr(-5), "營收微減", -1},
		{"sharp decline", floatPtr(-15), "營收衰退", -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags, score := evaluateGrowth(tt.yoy)
			if score != tt.wantScore {
				t.Errorf("score = %d, want %d", score, tt.wantScore)
			}
			if tt.wantTag == "" && len(tags) != 0 {
				t.Errorf("expected no tags, got %v", tagTexts(tags))
			}
			if tt.wantTag != "" && !hasTag(tags, tt.wantTag) {
				t.Errorf("missing tag %q in %v", tt.wantTag, tagTexts(tags))
			}
		})
	}
}

func TestEvaluateChips(t *testing.T) {
	// 5-day sum dominates when present.
	tags, score := evaluateChips(&model.InstitutionalStats{Today: 600, Sum5: 1500}, true)
	if !hasTag(tags, "法人5日大買") || hasTag(tags, "法人大買") {
		t.Errorf("unexpected tags %v", tagTexts(tags))
	}
	if score != 2 {
		t.Errorf("score = %d, want 2", score)
	}

	// Zero 5-day sum falls back to the single day only when allowed.
	flow := &model.InstitutionalStats{Today: 600, Sum5: 0}
	if tags, score = evaluateChips(flow, true); !hasTag(tags, "法人大買") || score != 2 {
		t.Errorf("fallback tags = %v score = %d", tagTexts(tags), score)
	}
	if tags, score = evaluateChips(flow, false); len(tags) != 0 || score != 0 {
		t.Errorf("expected no signal without fallback, got %v score %d", tagTexts(tags), score)
	}

	// Streak tag carries the day count.
	tags, score = evaluateChips(&model.InstitutionalStats{Sum5: -400, ConsecutiveDays: -6}, true)
	if !hasTag(tags, "法人5日賣超") || !hasTag(tags, "連賣6天") {
		t.Errorf("unexpected tags %v", tagTexts(tags))
	}
	if score != -2 {
		t.Errorf("score = %d, want -2", score)
	}
}

func TestEvaluateTechnical(t *testing.T) {
	dist := -18.0
	change := 35.0
	tech := &model.TechnicalIndicators{
		Trend:            model.TrendBullish,
		DistanceFromMA60: &dist,
		Change3M:         &change,
	}
	tags, score := evaluateTechnical(tech)
	for _, want := range []string{"多頭排列", "超跌反彈機會", "近期強勢"} {
		if !hasTag(tags, want) {
			t.Errorf("missing tag %q in %v", want, tagTexts(tags))
		}
	}
	// 近期強勢 is informational only.
	if score != 3 {
		t.Errorf("score = %d, want 3", score)
	}

	if tags, score = evaluateTechnical(&model.TechnicalIndicators{Trend: model.TrendNoData}); len(tags) != 0 || score != 0 {
		t.Errorf("expected no signal without trend data, got %v score %d", tagTexts(tags), score)
	}
}

func TestEvaluateComplete(t *testing.T) {
	// A plain expensive stock with nothing else going on: only the
	// valuation aspect fires and the total stays in the neutral band.
	got := EvaluateComplete(Input{PE: 18, PB: 5, YieldRate: 2})
	if got.Score != -1 {
		t.Errorf("score = %d, want -1", got.Score)
	}
	if got.RatingClass != ClassNeutral {
		t.Errorf("ratingClass = %q, want %q", got.RatingClass, ClassNeutral)
	}
	if len(got.Tags) != 1 || got.Tags[0].Text != "估值偏高" {
		t.Errorf("tags = %v, want only 估值偏高", tagTexts(got.Tags))
	}
}

func TestEvaluateComplete_FallbackTags(t *testing.T) {
	// No ratios at all: nothing fires, data-poor fallback.
	got := EvaluateComplete(Input{})
	if len(got.Tags) != 1 || got.Tags[0].Text != "資料不足" {
		t.Errorf("tags = %v, want only 資料不足", tagTexts(got.Tags))
	}

	// Ratios present but every aspect silent: neutral fallback.
	got = EvaluateComplete(Input{PE: 10, PB: 2.5, YieldRate: 3})
	if len(got.Tags) != 1 || got.Tags[0].Text != "估值中性" {
		t.Errorf("tags = %v, want only 估值中性", tagTexts(got.Tags))
	}
	if got.RatingClass != ClassNeutral {
		t.Errorf("ratingClass = %q, want %q", got.RatingClass, ClassNeutral)
	}
}

func TestEvaluateQuick(t *testing.T) {
	// Quick scan ignores technicals entirely.
	got := EvaluateQuick(Input{
		PE: 8, PB: 1.5, YieldRate: 6,
		Flow:      &model.InstitutionalStats{Sum5: 400},
		Technical: &model.TechnicalIndicators{Trend: model.TrendBullish},
	})
	if hasTag(got.Tags, "多頭排列") {
		t.Errorf("quick scan must not carry technical tags: %v", tagTexts(got.Tags))
	}
	// 強烈低估 +2, 高息 +1, 低PE +1, 法人5日買超 +1.
	if got.Score != 5 || got.RatingClass != ClassStrongBuy {
		t.Errorf("score = %d class = %q, want 5 strong-buy", got.Score, got.RatingClass)
	}

	// Without ratios the quick scan reports no tags at all.
	got = EvaluateQuick(Input{})
	if len(got.Tags) != 0 {
		t.Errorf("expected no tags, got %v", tagTexts(got.Tags))
	}
	if got.RatingClass != ClassNeutral {
		t.Errorf("ratingClass = %q, want %q", got.RatingClass, ClassNeutral)
	}
}

func TestBucketBoundaries(t *testing.T) {
	tests := []struct {
		policy    BucketPolicy
		score     int
		wantClass string
	}{
		{CompleteBuckets, 5, ClassStrongBuy},
		{CompleteBuckets, 4, ClassBuy},
		{CompleteBuckets, 1, ClassBullish},
		{CompleteBuckets, 0, ClassNeutral},
		{CompleteBuckets, -2, ClassBearish},
		{CompleteBuckets, -4, ClassAvoid},
		{QuickBuckets, 4, ClassStrongBuy},
		{QuickBuckets, 2, ClassBuy},
		{QuickBuckets, 0, ClassNeutral},
		{QuickBuckets, -1, ClassWatch},
		{QuickBuckets, -3, ClassAvoid},
	}
	for _, tt := range tests {
		if _, class := tt.policy.rate(tt.score); class != tt.wantClass {
			t.Errorf("score %d: class = %q, want %q", tt.score, class, tt.wantClass)
		}
	}
}
