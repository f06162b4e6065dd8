package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"asset-insight/internal/history"
	"asset-insight/internal/logger"
	"asset-insight/internal/types"
)

const (
	detailInsufficientData = "Not enough historical data to predict"
	detailInternalError    = "Internal AI Error"
)

// detailResponse is the error body shape for every non-2xx response.
type detailResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	assetType, ok := types.ParseAssetType(r.PathValue("asset_type"))
	if !ok {
		writeDetail(w, http.StatusBadRequest, "asset_type must be one of: stock, mutual_fund, gold")
		return
	}

	symbol := r.PathValue("symbol")
	if symbol == "" {
		writeDetail(w, http.StatusBadRequest, "symbol is required")
		return
	}

	assetName := r.URL.Query().Get("asset_name")
	if assetName == "" {
		writeDetail(w, http.StatusBadRequest, "asset_name query parameter is required")
		return
	}

	result, err := s.analyzer.Analyze(ctx, assetType, symbol, assetName)
	if err != nil {
		if errors.Is(err, history.ErrInsufficientData) {
			writeDetail(w, http.StatusBadRequest, detailInsufficientData)
			return
		}
		logger.ErrorWithErr(ctx, "Analysis failed", err, "symbol", symbol)
		writeDetail(w, http.StatusInternalServerError, detailInternalError)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error(context.Background(), "Failed to encode response", "error", err.Error())
	}
}

func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, detailResponse{Detail: msg})
}
