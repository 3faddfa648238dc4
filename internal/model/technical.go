package model

// TrendState classifies the moving-average configuration of a price series.
type TrendState string

const (
	TrendBullish     TrendState = "多頭排列"
	TrendBullishTilt TrendState = "偏多整理"
	TrendBearish     TrendState = "空頭排列"
	TrendBearishTilt TrendState = "偏空整理"
	TrendSideways    TrendState = "盤整"
	TrendNoData      TrendState = "無資料"
)

// PricePoint is one daily close. Series are kept ascending by date and
// deduplicated by date.
type PricePoint struct {
	Date  string  // 20060102
	Close float64
}

// TechnicalIndicators holds derived per-security technical data. Pointer
// fields are nil when the underlying series is too short to compute them.
type TechnicalIndicators struct {
	MA20             *float64   `json:"ma20"`
	MA60             *float64   `json:"ma60"`
	MA120            *float64   `json:"ma120"`
	DistanceFromMA60 *float64   `json:"distanceFromMa60"`
	Change1M         *float64   `json:"change1m"`
	Change3M         *float64   `json:"change3m"`
	Trend            TrendState `json:"trend"`
	DataPoints       int        `json:"dataPoints"`
}

// Sparkline is a short close series for the dashboard mini chart.
type Sparkline struct {
	Prices []float64 `json:"prices"`
	Change *float64  `json:"change"`
}
