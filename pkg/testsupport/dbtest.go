package testsupport

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/lumenworks/sectioncms/internal/storage"
	"github.com/uptrace/bun"
)

var dbCounter atomic.Int64

// MemoryDSN returns a DSN for a private, shared-cache in-memory SQLite database.
func MemoryDSN(name string) string {
	name = strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(name)
	return fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbCounter.Add(1))
}

// NewMigratedDB opens an isolated in-memory SQLite database with every migration
// applied. The database is closed when the test finishes.
func NewMigratedDB(t testing.TB) *bun.DB {
	t.Helper()
	db, err := storage.Open(context.Background(), storage.Config{
		Driver: storage.DriverSQLite,
		DSN:    MemoryDSN(t.Name()),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := storage.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
