// Package analysis scores a security across four aspects (valuation,
// growth, institutional flow, technicals) and maps the total to a rating.
package analysis

import (
	"math"

	"StockBoard/internal/model"
)

// Rating classes used for summary grouping and frontend styling.
const (
	ClassStrongBuy = "strong-buy"
	ClassBuy       = "buy"
	ClassBullish   = "bullish"
	ClassNeutral   = "neutral"
	ClassBearish   = "bearish"
	ClassWatch     = "watch"
	ClassAvoid     = "avoid"
)

// Input carries everything one evaluation needs. Zero-valued ratios mean
// "unknown" and suppress the valuation aspect.
type Input struct {
	PE         float64
	PB         float64
	YieldRate  float64
	RevenueYoY *float64
	Flow       *model.InstitutionalStats
	Technical  *model.TechnicalIndicators
	Benchmark  *model.SectorBenchmark
}

// RatingLevel is one bucket of a score-to-rating mapping.
type RatingLevel struct {
	MinScore int
	Rating   string
	Class    string
}

// BucketPolicy maps a total score to a rating by first match; the last
// level acts as the catch-all.
type BucketPolicy []RatingLevel

// CompleteBuckets is the six-level mapping for the full evaluation, which
// includes the technical aspect and therefore spans a wider score range.
var CompleteBuckets = BucketPolicy{
	{5, "強力買進", ClassStrongBuy},
	{3, "建議買進", ClassBuy},
	{1, "偏多觀望", ClassBullish},
	{-1, "中性觀望", ClassNeutral},
	{-3, "偏空觀望", ClassBearish},
	{math.MinInt, "建議避開", ClassAvoid},
}

// QuickBuckets is the five-level mapping for the technicals-free quick scan.
var QuickBuckets = BucketPolicy{
	{4, "強力買進", ClassStrongBuy},
	{2, "建議買進", ClassBuy},
	{0, "中性觀望", ClassNeutral},
	{-2, "建議觀望", ClassWatch},
	{math.MinInt, "建議避開", ClassAvoid},
}

func (p BucketPolicy) rate(score int) (string, string) {
	for _, level := range p {
		if score >= level.MinScore {
			return level.Rating, level.Class
		}
	}
	// Unreachable with a MinInt catch-all, kept for malformed policies.
	last := p[len(p)-1]
	return last.Rating, last.Class
}

// EvaluateComplete runs all four aspects and maps the total through the
// six-level buckets. Aspects with missing inputs contribute nothing.
func EvaluateComplete(in Input) model.Analysis {
	tags, score := collect(
		aspect(evaluateValuation(in.PE, in.PB, in.YieldRate, in.Benchmark)),
		aspect(evaluateGrowth(in.RevenueYoY)),
		aspect(evaluateChips(in.Flow, true)),
		aspect(evaluateTechnical(in.Technical)),
	)

	if len(tags) == 0 {
		tags = append(tags, fallbackTag(in))
	}

	rating, class := CompleteBuckets.rate(score)
	return model.Analysis{Score: score, Rating: rating, RatingClass: class, Tags: tags}
}

// EvaluateQuick scores valuation, growth and the 5-day flow only. The
// single-day flow fallback is skipped: a quick scan without 5-day data has
// no institutional signal.
func EvaluateQuick(in Input) model.Analysis {
	tags, score := collect(
		aspect(evaluateValuation(in.PE, in.PB, in.YieldRate, in.Benchmark)),
		aspect(evaluateGrowth(in.RevenueYoY)),
		aspect(evaluateChips(in.Flow, false)),
	)

	if len(tags) == 0 && in.PE > 0 && in.PB > 0 {
		tags = append(tags, model.Tag{Icon: "➖", Text: "估值中性"})
	}

	rating, class := QuickBuckets.rate(score)
	return model.Analysis{Score: score, Rating: rating, RatingClass: class, Tags: tags}
}

type aspectResult struct {
	tags  []model.Tag
	score int
}

func aspect(tags []model.Tag, score int) aspectResult {
	return aspectResult{tags: tags, score: score}
}

func collect(results ...aspectResult) ([]model.Tag, int) {
	var tags []model.Tag
	score := 0
	for _, r := range results {
		tags = append(tags, r.tags...)
		score += r.score
	}
	return tags, score
}

// fallbackTag distinguishes "rated but unremarkable" from "not enough data".
func fallbackTag(in Input) model.Tag {
	if in.PE > 0 && in.PB > 0 {
		return model.Tag{Icon: "➖", Text: "估值中性"}
	}
	return model.Tag{Icon: "➖", Text: "資料不足"}
}
