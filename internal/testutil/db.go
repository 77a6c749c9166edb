// internal/testutil/db.go

// Package testutil provides shared helpers for tests that need a real
// MongoDB instance. Tests are skipped when no server is reachable, so the
// suite stays runnable on machines without a local Mongo.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/softlexhq/softlex/internal/app/system/indexes"
)

// mongoURI returns the test server address, overridable for CI.
func mongoURI() string {
	if uri := os.Getenv("SOFTLEX_TEST_MONGO_URI"); uri != "" {
		return uri
	}
	return "mongodb://localhost:27017"
}

// SetupTestDB connects to the test MongoDB server and returns a database
// unique to this test, with all indexes in place. The database is dropped
// and the client disconnected during test cleanup. Skips the test when no
// server is reachable.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI()))
	if err != nil {
		t.Skipf("mongo not available at %s: %v", mongoURI(), err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		t.Skipf("mongo not reachable at %s: %v", mongoURI(), err)
	}

	db := client.Database(fmt.Sprintf("softlex_test_%s", uuid.NewString()[:8]))

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	return db
}

// TestContext returns a context with the default timeout used by tests.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
