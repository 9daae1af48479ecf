// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Green Pledges server.

# Handler Types

Each handler is a struct with database, config and logger dependencies:

  - ViewHandler: Home totals and per-user search
  - ActionHandler: Action catalog (list, create, delete)
  - PledgeHandler: Pledge submission

	viewHandler := handlers.NewViewHandler(db, logger)

# Views

	GET /                    → Home
	GET /search/?user=<name> → Search

Both load pledges with db.ListPledgeDetails and compute savings with
savings.Build. Totals are rounded to 3 decimals. A formula that fails to
evaluate counts as 0, is logged at warn level and is listed under
formula_problems; the request still succeeds. Searching for a user with no
pledges, or with no user at all, returns an empty list.

Pages are rendered from embedded html/template files with go-humanize number
formatting, or as JSON when the client asks for it.

# Action Catalog

	GET    /actions      → ListActions
	POST   /actions      → CreateAction (409 on duplicate name and version)
	DELETE /actions/{id} → DeleteAction

Writes require the X-Admin-Key header. Every formula of a new action is
evaluated once with the answer kind's variables set to 1, so unknown
variables, unsupported operators and malformed formulas are rejected up
front. Division by zero is not, since real answers may differ.

# Pledges

	POST /pledges → SubmitPledge

The answers are decoded into the answer record of the action's kind and
checked against its allowed choices. 404 for an unknown action, 409 when the
user already pledged it.
*/
package handlers
