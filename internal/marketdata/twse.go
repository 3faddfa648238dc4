package marketdata

import (
	"context"

	"StockBoard/internal/fetch"
	"StockBoard/internal/model"
)

// TWSE open-data endpoints (primary board, 上市).
const (
	twseFundamentalsURL = "https://openapi.twse.com.tw/v1/exchangeReport/BWIBBU_d"
	twsePricesURL       = "https://openapi.twse.com.tw/v1/exchangeReport/STOCK_DAY_ALL"
	twseRevenueURL      = "https://openapi.twse.com.tw/v1/opendata/t187ap05_L"
)

// TWSE fetches primary-board data. The URL fields exist so tests can point
// at a local server.
type TWSE struct {
	client          *fetch.Client
	FundamentalsURL string
	PricesURL       string
	RevenueURL      string
}

func NewTWSE(client *fetch.Client) *TWSE {
	return &TWSE{
		client:          client,
		FundamentalsURL: twseFundamentalsURL,
		PricesURL:       twsePricesURL,
		RevenueURL:      twseRevenueURL,
	}
}

func (t *TWSE) Board() model.Board { return model.BoardTWSE }

type twseFundamentalsRow struct {
	Code          string `json:"Code"`
	Name          string `json:"Name"`
	PERatio       string `json:"PEratio"`
	DividendYield string `json:"DividendYield"`
	PBRatio       string `json:"PBratio"`
}

func (t *TWSE) Fundamentals(ctx context.Context) (map[string]model.Fundamentals, error) {
	var rows []twseFundamentalsRow
	if err := t.client.GetJSON(ctx, t.FundamentalsURL, &rows); err != nil {
		return nil, err
	}
	out := make(map[string]model.Fundamentals, len(rows))
	for _, r := range rows {
		if r.Code == "" {
			continue
		}
		out[r.Code] = model.Fundamentals{
			Name:      r.Name,
			PE:        fetch.ParseNumber(r.PERatio),
			PB:        fetch.ParseNumber(r.PBRatio),
			YieldRate: fetch.ParseNumber(r.DividendYield),
			Market:    model.BoardTWSE,
		}
	}
	return out, nil
}

type twsePriceRow struct {
	Code         string `json:"Code"`
	ClosingPrice string `json:"ClosingPrice"`
}

func (t *TWSE) ClosePrices(ctx context.Context) (map[string]float64, error) {
	var rows []twsePriceRow
	if err := t.client.GetJSON(ctx, t.PricesURL, &rows); err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(rows))
	for _, r := range rows {
		price := fetch.ParseNumber(r.ClosingPrice)
		if r.Code == "" || price <= 0 {
			continue
		}
		out[r.Code] = price
	}
	return out, nil
}

// The revenue open-data feed uses Chinese column names.
type twseRevenueRow struct {
	Code   string `json:"公司代號"`
	YoY    string `json:"營業收入-去年同月增減(%)"`
	CumYoY string `json:"累計營業收入-前期比較增減(%)"`
}

func (t *TWSE) MonthlyRevenue(ctx context.Context) (map[string]model.RevenueRecord, error) {
	var rows []twseRevenueRow
	if err := t.client.GetJSON(ctx, t.RevenueURL, &rows); err != nil {
		return nil, err
	}
	out := make(map[string]model.RevenueRecord, len(rows))
	for _, r := range rows {
		if r.Code == "" {
			continue
		}
		out[r.Code] = model.RevenueRecord{
			YoY:    fetch.ParseOptionalNumber(r.YoY),
			CumYoY: fetch.ParseOptionalNumber(r.CumYoY),
		}
	}
	return out, nil
}
