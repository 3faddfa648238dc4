package model

// Board identifies which market segment a security is listed on.
type Board string

const (
	BoardTWSE Board = "TWSE" // 上市
	BoardOTC  Board = "OTC"  // 上櫃
)

// DisplayName returns the Chinese market label used by the dashboard.
func (b Board) DisplayName() string {
	switch b {
	case BoardTWSE:
		return "上市"
	case BoardOTC:
		return "上櫃"
	default:
		return "未知"
	}
}

// WatchItem is one watch-list entry. The list is loaded from configuration
// and immutable for the duration of an aggregation run.
type WatchItem struct {
	ID     string `yaml:"id" json:"id"`
	Sector string `yaml:"sector" json:"sector"`
	Note   string `yaml:"note" json:"note"`
}

// Fundamentals holds per-security valuation data from the exchange APIs.
// A zero PE/PB means "no valuation signal", never a literal ratio of zero.
type Fundamentals struct {
	Name      string  `json:"name"`
	PE        float64 `json:"pe"`
	PB        float64 `json:"pb"`
	YieldRate float64 `json:"yieldRate"`
	Market    Board   `json:"market"`
}

// RevenueRecord holds monthly revenue growth figures. Either field may be
// nil when the source did not report it this cycle.
type RevenueRecord struct {
	YoY    *float64 `json:"yoy"`
	CumYoY *float64 `json:"cumYoy"`
}

// SectorBenchmark holds externally configured relative-valuation thresholds
// for one sector. When a security has no benchmark, absolute thresholds apply.
type SectorBenchmark struct {
	Name            string  `json:"name"`
	GrahamThreshold float64 `json:"grahamThreshold"`
	PEMin           float64 `json:"peMin"`
	PEMax           float64 `json:"peMax"`
	PBMin           float64 `json:"pbMin"`
	PBMax           float64 `json:"pbMax"`
	YieldMin        float64 `json:"yieldMin"`
}
