// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"go.uber.org/zap"

	"github.com/danielhkuo/green-pledges/cliparse"
	"github.com/danielhkuo/green-pledges/handlers"
	"github.com/danielhkuo/green-pledges/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, logger *zap.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	logger = logger.Named("http")

	viewHandler := handlers.NewViewHandler(db, logger)
	actionHandler := handlers.NewActionHandler(db, cfg, logger)
	pledgeHandler := handlers.NewPledgeHandler(db, logger)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Views (public)
	mux.HandleFunc("GET /{$}", middleware.WithLogging(logger, viewHandler.Home))
	mux.HandleFunc("GET /search/", middleware.WithLogging(logger, viewHandler.Search))

	// Action catalog (writes require X-Admin-Key)
	mux.HandleFunc("GET /actions", middleware.WithLogging(logger, actionHandler.ListActions))
	mux.HandleFunc("POST /actions", middleware.WithLogging(logger, actionHandler.CreateAction))
	mux.HandleFunc("DELETE /actions/{id}", middleware.WithLogging(logger, actionHandler.DeleteAction))

	// Pledges (public)
	mux.HandleFunc("POST /pledges", middleware.WithLogging(logger, pledgeHandler.SubmitPledge))

	return mux
}
