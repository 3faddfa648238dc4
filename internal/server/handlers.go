package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"StockBoard/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleStocks runs the full pipeline, technical analysis included.
func (s *Server) handleStocks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Complete(r.Context()))
}

// handleStocksQuick runs the pipeline without the per-security technical
// fetches, trading depth for latency.
func (s *Server) handleStocksQuick(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Quick(r.Context()))
}

// handleStocksLatest serves the snapshot kept warm by the scheduler without
// touching any upstream source.
func (s *Server) handleStocksLatest(w http.ResponseWriter, r *http.Request) {
	latest := s.service.Latest()
	if latest == nil {
		writeError(w, http.StatusNotFound, "no snapshot available yet")
		return
	}
	writeJSON(w, http.StatusOK, latest)
}

// handleStockByID runs the pipeline for one watch-list entry. The technical
// block is opt-in via ?technical=1.
func (s *Server) handleStockByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	includeTechnical := r.URL.Query().Get("technical") == "1"

	stock := s.service.StockByID(r.Context(), id, includeTechnical)
	if stock == nil {
		writeError(w, http.StatusNotFound, "stock not found in watchlist")
		return
	}
	writeJSON(w, http.StatusOK, stock)
}

// handleSummary returns the portfolio summary without per-security detail,
// computed from a quick run.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	resp := s.service.Quick(r.Context())
	writeJSON(w, http.StatusOK, struct {
		Summary          model.Summary                    `json:"summary"`
		SectorBenchmarks map[string]model.SectorBenchmark `json:"sectorBenchmarks"`
		UpdatedAt        time.Time                        `json:"updatedAt"`
	}{resp.Summary, resp.SectorBenchmarks, resp.UpdatedAt})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}
