// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Green Pledges server.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, logger)

# Endpoints

Health:

	GET /health

Views (public, HTML unless ?format=json or Accept: application/json):

	GET /                   - Pledge count and total savings
	GET /search/?user=<name> - A user's pledges with their savings

Action catalog:

	GET    /actions      - List actions
	POST   /actions      - Create action (requires X-Admin-Key)
	DELETE /actions/{id} - Delete action and its pledges (requires X-Admin-Key)

Pledges (public):

	POST /pledges - Submit a pledge with its answers

# Handler Initialization

The router creates handler instances with dependency injection:

	viewHandler := handlers.NewViewHandler(db, logger)
	actionHandler := handlers.NewActionHandler(db, cfg, logger)
	pledgeHandler := handlers.NewPledgeHandler(db, logger)

Every route except /health is wrapped in middleware.WithLogging.
*/
package router
