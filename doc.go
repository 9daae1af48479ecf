// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Green Pledges server.

Green Pledges records users' pledges to take environmentally friendly
actions and estimates the CO2, water and waste each pledge saves. Every
action carries up to three arithmetic formulas over the answers a user gave
when pledging, for example:

	0.8 * vegetarian_meals * 0.5

Formulas are evaluated right to left with every intermediate result rounded
to 3 decimals (see package formula).

# Starting the Server

	DATABASE_URL=file:pledges.db ADMIN_KEY=secret go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." --admin-key secret

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string
  - ADMIN_KEY (--admin-key): Secret for changing the action catalog

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - LOG_LEVEL (--log-level): zap log level (default: info)
  - --env-file: KEY=value defaults (default: .env)

# Architecture

  - formula: Right-associative formula evaluation
  - savings: Per-pledge savings and totals
  - handlers: HTTP request handlers (views, actions, pledges)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types and answer records
  - auth: Admin key validation
  - db: Connections, schema and queries
  - cliparse: Configuration parsing
  - logging: zap logger construction

See package documentation for each component.
*/
package main
