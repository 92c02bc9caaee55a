package testutil

import (
	"testing"

	"booth-go/internal/booth"
	"booth-go/internal/database"
)

// NewTestStore creates an in-memory SQLite session store with migrations applied.
// The store is closed when the test completes.
func NewTestStore(t *testing.T, clock booth.Clock) *database.SQLiteDatabase {
	t.Helper()

	db, err := database.NewSQLiteDatabase(":memory:", clock)
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}
