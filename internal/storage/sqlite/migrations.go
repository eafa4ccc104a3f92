package sqlite

import "database/sql"

// schema sets up the cache tables. It runs on startup to ensure tables exist.
const schema = `
CREATE TABLE IF NOT EXISTS ocr_cache (
    key TEXT PRIMARY KEY,
    engine TEXT NOT NULL,
    text TEXT NOT NULL,
    words TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ocr_cache_created_at ON ocr_cache(created_at);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
