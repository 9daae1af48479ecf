// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - AdminKey: Secret required to change the action catalog (required)
  - LogLevel: debug, info, warn or error (default: info)

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	--admin-key   Admin key
	--log-level   Log level
	--env-file    File of KEY=value defaults (default: .env)

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	ADMIN_KEY     → --admin-key
	LOG_LEVEL     → --log-level

CLI flags take precedence over environment variables. The env file is
loaded with godotenv and only fills variables that are not already set; a
missing file is ignored.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing
  - ADMIN_KEY is missing
  - DATABASE_TYPE is not sqlite or postgres
  - PORT is not a number
*/
package cliparse
