// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/danielhkuo/green-pledges/db"
	"github.com/danielhkuo/green-pledges/middleware"
	"github.com/danielhkuo/green-pledges/models"
	"github.com/danielhkuo/green-pledges/savings"
)

type ViewHandler struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewViewHandler(db *sql.DB, logger *zap.Logger) *ViewHandler {
	return &ViewHandler{db: db, logger: logger.Named("views")}
}

type searchPage struct {
	User string
	models.SearchResponse
}

// Home handles GET /
func (h *ViewHandler) Home(w http.ResponseWriter, r *http.Request) {
	details, err := db.ListPledgeDetails(r.Context(), h.db, "")
	if err != nil {
		h.logger.Error("failed to list pledges", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	report := savings.Build(details)
	h.logProblems(report.Problems)

	resp := models.HomeResponse{
		AmountOfPledges:   report.Totals.Pledges,
		TotalCO2Savings:   report.Totals.CO2,
		TotalWaterSavings: report.Totals.Water,
		TotalWasteSavings: report.Totals.Waste,
		FormulaProblems:   report.Problems,
	}

	if middleware.WantsJSON(r) {
		middleware.JSONResponse(w, http.StatusOK, resp)
		return
	}
	renderHTML(w, h.logger, "home.html", resp)
}

// Search handles GET /search/?user=<username>
// A missing or unknown user yields an empty list, not an error.
func (h *ViewHandler) Search(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.URL.Query().Get("user"))

	resp := models.SearchResponse{Pledges: []models.PledgeSavings{}}
	if username != "" {
		details, err := db.ListPledgeDetails(r.Context(), h.db, username)
		if err != nil {
			h.logger.Error("failed to search pledges", zap.String("user", username), zap.Error(err))
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}

		report := savings.Build(details)
		h.logProblems(report.Problems)

		resp.Pledges = lo.Map(report.Rows, func(row savings.Row, _ int) models.PledgeSavings {
			return row.PledgeSavings()
		})
		resp.FormulaProblems = report.Problems
	}

	if middleware.WantsJSON(r) {
		middleware.JSONResponse(w, http.StatusOK, resp)
		return
	}
	renderHTML(w, h.logger, "search.html", searchPage{User: username, SearchResponse: resp})
}

func (h *ViewHandler) logProblems(problems []models.FormulaProblem) {
	for _, p := range problems {
		h.logger.Warn("formula evaluation failed",
			zap.String("action_id", p.ActionID),
			zap.String("action", p.Action),
			zap.String("metric", string(p.Metric)),
			zap.String("error", p.Error),
		)
	}
}
