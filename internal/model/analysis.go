package model

// Tag is one qualitative signal emitted by a rule evaluator. The icon is a
// stable identifier consumed by the dashboard, not decoration.
type Tag struct {
	Icon string `json:"icon"`
	Text string `json:"text"`
}

// Analysis is the aggregated result of all rule evaluators for one security.
type Analysis struct {
	Score       int    `json:"score"`
	Rating      string `json:"rating"`
	RatingClass string `json:"ratingClass"`
	Tags        []Tag  `json:"tags"`
}
