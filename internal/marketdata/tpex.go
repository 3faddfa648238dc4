package marketdata

import (
	"context"

	"StockBoard/internal/fetch"
	"StockBoard/internal/model"
)

// TPEX open-data endpoints (secondary board, 上櫃). Same concepts as TWSE,
// different field names.
const (
	tpexFundamentalsURL = "https://www.tpex.org.tw/openapi/v1/tpex_mainboard_peratio_analysis"
	tpexPricesURL       = "https://www.tpex.org.tw/openapi/v1/tpex_mainboard_quotes"
	tpexRevenueURL      = "https://www.tpex.org.tw/openapi/v1/mopsfin_t187ap05_O"
)

// TPEX fetches secondary-board data.
type TPEX struct {
	client          *fetch.Client
	FundamentalsURL string
	PricesURL       string
	RevenueURL      string
}

func NewTPEX(client *fetch.Client) *TPEX {
	return &TPEX{
		client:          client,
		FundamentalsURL: tpexFundamentalsURL,
		PricesURL:       tpexPricesURL,
		RevenueURL:      tpexRevenueURL,
	}
}

func (t *TPEX) Board() model.Board { return model.BoardOTC }

type tpexFundamentalsRow struct {
	Code      string `json:"SecuritiesCompanyCode"`
	Name      string `json:"CompanyName"`
	PERatio   string `json:"PriceEarningRatio"`
	YieldRate string `json:"YieldRatio"`
	PBRatio   string `json:"PriceBookRatio"`
}

func (t *TPEX) Fundamentals(ctx context.Context) (map[string]model.Fundamentals, error) {
	var rows []tpexFundamentalsRow
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
			YieldRate: fetch.ParseNumber(r.YieldRate),
			Market:    model.BoardOTC,
		}
	}
	return out, nil
}

type tpexPriceRow struct {
	Code  string `json:"SecuritiesCompanyCode"`
	Close string `json:"Close"`
}

func (t *TPEX) ClosePrices(ctx context.Context) (map[string]float64, error) {
	var rows []tpexPriceRow
	if err := t.client.GetJSON(ctx, t.PricesURL, &rows); err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(rows))
	for _, r := range rows {
		price := fetch.ParseNumber(r.Close)
		if r.Code == "" || price <= 0 {
			continue
		}
		out[r.Code] = price
	}
	return out, nil
}

// The OTC revenue feed has shipped under both a Chinese and an English code
// column; accept either.
type tpexRevenueRow struct {
	Code    string `json:"公司代號"`
	CodeAlt string `json:"SecuritiesCompanyCode"`
	YoY     string `json:"營業收入-去年同月增減(%)"`
	CumYoY  string `json:"累計營業收入-前期比較增減(%)"`
}

func (t *TPEX) MonthlyRevenue(ctx context.Context) (map[string]model.RevenueRecord, error) {
	var rows []tpexRevenueRow
	if err := t.client.GetJSON(ctx, t.RevenueURL, &rows); err != nil {
		return nil, err
	}
	out := make(map[string]model.RevenueRecord, len(rows))
	for _, r := range rows {
		code := r.Code
		if code == "" {
			code = r.CodeAlt
		}
		if code == "" {
			continue
		}
		out[code] = model.RevenueRecord{
			YoY:    fetch.ParseOptionalNumber(r.YoY),
			CumYoY: fetch.ParseOptionalNumber(r.CumYoY),
		}
	}
	return out, nil
}
