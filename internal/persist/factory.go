package persist

import (
	"context"
	"strings"
)

// NewStore selects the backend: postgres when a database URL is configured,
// the embedded sqlite file when a path is set, otherwise in-memory.
func NewStore(ctx context.Context, databaseURL, sqlitePath string) (Store, error) {
	if strings.TrimSpace(databaseURL) != "" {
		return NewPostgresStore(ctx, databaseURL)
	}
	if strings.TrimSpace(sqlitePath) != "" {
		return NewSQLiteStore(sqlitePath)
	}
	return NewMemoryStore(), nil
}
