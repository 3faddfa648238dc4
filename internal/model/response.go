package model

import "time"

// InstitutionalBlock is the institutional section of a composite record,
// including the preformatted streak display.
type InstitutionalBlock struct {
	InstitutionalStats
	ConsecutiveDisplay string `json:"consecutiveDisplay"`
}

// Stock is the composite per-security record served to the dashboard. Every
// watch-list entry always yields exactly one Stock, possibly all-default.
type Stock struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Note       string `json:"note"`
	Sector     string `json:"sector"`
	SectorName string `json:"sectorName"`
	Market     string `json:"market"`

	Price           *float64 `json:"price"`
	GrahamNumber    *float64 `json:"grahamNumber"`
	GrahamThreshold *float64 `json:"grahamThreshold"`
	PE              *float64 `json:"pe"`
	PB              *float64 `json:"pb"`
	YieldRate       *float64 `json:"yieldRate"`

	Revenue       RevenueRecord        `json:"revenue"`
	Institutional InstitutionalBlock   `json:"institutional"`
	Technical     *TechnicalIndicators `json:"technical"`
	Sparkline     Sparkline            `json:"sparkline"`
	Analysis      Analysis             `json:"analysis"`
}

// RankedStock is one entry of the notable buy/sell lists, value being
// today's institutional net in lots.
type RankedStock struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Signal is a free-text notable observation for the summary panel.
type Signal struct {
	Type string `json:"type"` // "bullish" | "bearish" | "info"
	Text string `json:"text"`
}

// SectorMember is one security inside a sector rollup group.
type SectorMember struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Rating string `json:"rating"`
}

// SectorGroup is the per-sector rollup of one aggregation run.
type SectorGroup struct {
	Count  int            `json:"count"`
	Stocks []SectorMember `json:"stocks"`
}

// Summary aggregates one run over all securities.
type Summary struct {
	Total        int                    `json:"total"`
	Bullish      int                    `json:"bullish"`
	Neutral      int                    `json:"neutral"`
	Bearish      int                    `json:"bearish"`
	InstBuyList  []RankedStock          `json:"instBuyList"`
	InstSellList []RankedStock          `json:"instSellList"`
	Signals      []Signal               `json:"signals"`
	BySector     map[string]SectorGroup `json:"bySector"`
}

// Response is the full payload of one aggregation run.
type Response struct {
	Stocks           []Stock                    `json:"stocks"`
	Summary          Summary                    `json:"summary"`
	SectorBenchmarks map[string]SectorBenchmark `json:"sectorBenchmarks"`
	UpdatedAt        time.Time                  `json:"updatedAt"`
}
