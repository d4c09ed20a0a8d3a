package storage

import "fmt"

// migrate runs all database migrations
func (b *SQLBackend) migrate() error {
	migrations := []string{
		migrationCreateCollections,
	}

	for i, m := range migrations {
		if _, err := b.db.Exec(m); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}

const migrationCreateCollections = `
CREATE TABLE IF NOT EXISTS collections (
    name TEXT PRIMARY KEY,
    data TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`
