// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections, schema creation and data access.

# Connecting

Open selects the driver from the configured database type:

	conn, err := db.Open(ctx, db.TypePostgres, "postgres://...")  // lib/pq
	conn, err := db.Open(ctx, db.TypeSQLite, "file:pledges.db")   // modernc.org/sqlite

SQLite connections are opened with foreign keys enabled and limited to one
connection. While the server refuses connections (network errors,
PostgreSQL class 08 or 57P03) the ping is retried with exponential backoff.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same DDL runs on PostgreSQL and SQLite.

# Tables

  - app_user: usernames
  - pledge_action: the action catalog with co2/water/waste formulas
  - pledge: links a user to an action
  - food_pledge, energy_pledge: answer records

# Relationships

	app_user 1──* pledge
	pledge_action 1──* pledge
	pledge 1──* food_pledge / energy_pledge
	pledge_action ──> one answer record (answer_kind, answer_id)

Foreign keys use ON DELETE CASCADE. The action → answer record link is
polymorphic and has no foreign key; answer_kind selects the table.

# Uniqueness

	pledge_action (name, version)   → ErrDuplicateAction
	pledge (user_id, action_id)     → ErrDuplicatePledge
	app_user (username)             → ErrDuplicateUser

The driver error stays wrapped, and IsUniqueViolation recognises it for
both PostgreSQL and SQLite.

# Data Access

Functions take a Querier so they run on *sql.DB or inside a *sql.Tx:

	detail, answerID, err := db.SubmitPledge(ctx, conn, "alice", actionID, rec)
	pledges, err := db.ListPledgeDetails(ctx, conn, "alice")
*/
package db
