// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/danielhkuo/green-pledges/auth"
	"github.com/danielhkuo/green-pledges/cliparse"
	"github.com/danielhkuo/green-pledges/db"
	"github.com/danielhkuo/green-pledges/formula"
	"github.com/danielhkuo/green-pledges/middleware"
	"github.com/danielhkuo/green-pledges/models"
)

type ActionHandler struct {
	db     *sql.DB
	cfg    cliparse.Config
	logger *zap.Logger
}

func NewActionHandler(db *sql.DB, cfg cliparse.Config, logger *zap.Logger) *ActionHandler {
	return &ActionHandler{db: db, cfg: cfg, logger: logger.Named("actions")}
}

// ListActions handles GET /actions
func (h *ActionHandler) ListActions(w http.ResponseWriter, r *http.Request) {
	actions, err := db.ListActions(r.Context(), h.db)
	if err != nil {
		h.logger.Error("failed to list actions", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ActionListResponse{Actions: actions})
}

// CreateAction handles POST /actions
func (h *ActionHandler) CreateAction(w http.ResponseWriter, r *http.Request) {
	if err := auth.ValidateRequest(r, h.cfg.AdminKey); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	var req models.CreateActionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := models.ValidateStruct(req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	action := models.Action{
		Name:         strings.TrimSpace(req.Action),
		QuestionText: req.QuestionText,
		CO2Formula:   req.CO2Formula,
		WaterFormula: req.WaterFormula,
		WasteFormula: req.WasteFormula,
		Version:      strings.TrimSpace(req.Version),
		AnswerKind:   req.AnswerKind,
	}

	if err := checkFormulas(action); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := db.CreateAction(r.Context(), h.db, &action); err != nil {
		if errors.Is(err, db.ErrDuplicateAction) {
			middleware.ErrorResponse(w, http.StatusConflict, "An action with this name and version already exists")
			return
		}
		h.logger.Error("failed to create action", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create action")
		return
	}

	h.logger.Info("action created",
		zap.String("action_id", action.ID),
		zap.String("action", action.Name),
		zap.String("version", action.Version),
	)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateActionResponse{ActionID: action.ID})
}

// DeleteAction handles DELETE /actions/{id}
func (h *ActionHandler) DeleteAction(w http.ResponseWriter, r *http.Request) {
	if err := auth.ValidateRequest(r, h.cfg.AdminKey); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	actionID := r.PathValue("id")
	if actionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "action_id is required")
		return
	}

	if err := db.DeleteAction(r.Context(), h.db, actionID); err != nil {
		if errors.Is(err, db.ErrActionNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Action not found")
			return
		}
		h.logger.Error("failed to delete action", zap.String("action_id", actionID), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete action")
		return
	}

	h.logger.Info("action deleted", zap.String("action_id", actionID))
	w.WriteHeader(http.StatusNoContent)
}

// checkFormulas evaluates every configured formula with the answer kind's
// variables bound, so typos and unsupported operators fail at creation.
func checkFormulas(action models.Action) error {
	vars, err := models.AnswerVariables(action.AnswerKind)
	if err != nil {
		return err
	}

	for _, m := range models.Metrics {
		f, ok := action.Formula(m)
		if !ok {
			continue
		}
		if err := formula.Validate(f, vars); err != nil {
			return fmt.Errorf("%s_formula: %w", m, err)
		}
	}
	return nil
}
