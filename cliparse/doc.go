// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

	if err := cliparse.LoadDotEnv(".env"); err != nil {
		slog.Warn("could not read .env", "error", err)
	}
	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-p, --port            Server port (default 5001)
	-d, --database-url    Database URL
	-t, --database-type   postgres or sqlite (default postgres)
	    --allowed-origin  CORS origin (default http://localhost:3000)
	    --seed            YAML device/question catalog
	    --page-size       Redmine page size (default 100)
	    --fetch-timeout   Redmine request timeout (default 30s)

# Environment Variables

Unset flags fall back to PORT, DATABASE_URL, DATABASE_TYPE, ALLOWED_ORIGIN,
SEED_FILE, REDMINE_PAGE_SIZE and REDMINE_TIMEOUT. For postgres without a
DATABASE_URL the connection string is assembled from DB_HOST, DB_PORT,
DB_NAME, DB_USER and DB_PASSWORD.

CLI flags take precedence over environment variables.
*/
package cliparse
