// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/danielhkuo/green-pledges/db"
	"github.com/danielhkuo/green-pledges/middleware"
	"github.com/danielhkuo/green-pledges/models"
	"github.com/danielhkuo/green-pledges/savings"
)

type PledgeHandler struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPledgeHandler(db *sql.DB, logger *zap.Logger) *PledgeHandler {
	return &PledgeHandler{db: db, logger: logger.Named("pledges")}
}

// SubmitPledge handles POST /pledges
func (h *PledgeHandler) SubmitPledge(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitPledgeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if err := models.ValidateStruct(req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	action, err := db.GetAction(r.Context(), h.db, req.ActionID)
	if errors.Is(err, db.ErrActionNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Action not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to query action", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rec, err := models.DecodeAnswers(action.AnswerKind, req.QuestionID, req.Answers)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	detail, answerID, err := db.SubmitPledge(r.Context(), h.db, req.Username, action.ID, rec)
	switch {
	case err == nil:
	case errors.Is(err, db.ErrDuplicatePledge):
		middleware.ErrorResponse(w, http.StatusConflict, "User has already pledged this action")
		return
	case errors.Is(err, db.ErrActionNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Action not found")
		return
	case errors.Is(err, db.ErrAnswerKindMismatch):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	default:
		h.logger.Error("failed to submit pledge", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit pledge")
		return
	}

	row := savings.Row{Detail: detail, Savings: savings.ForPledge(detail)}
	for _, p := range row.Savings.Problems {
		h.logger.Warn("formula evaluation failed",
			zap.String("action_id", action.ID),
			zap.String("metric", string(p.Metric)),
			zap.Error(p.Err),
		)
	}

	h.logger.Info("pledge submitted",
		zap.String("pledge_id", detail.ID),
		zap.String("user", detail.Username),
		zap.String("action", action.Name),
	)

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitPledgeResponse{
		PledgeID: detail.ID,
		AnswerID: answerID,
		Savings:  row.PledgeSavings(),
	})
}
