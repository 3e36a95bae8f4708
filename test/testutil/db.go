package testutil

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fhuszti/talkcart-medias-go/internal/db"
)

type TestDB struct {
	*db.Database
	Cleanup func() error
}

// SetupTestDB connects to TEST_MONGO_URI and hands out a fresh database that is
// dropped on cleanup.
func SetupTestDB() (*TestDB, error) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		return nil, fmt.Errorf("TEST_MONGO_URI env-var not set")
	}

	ctx := context.Background()
	name := fmt.Sprintf("talkcart_test_%d", time.Now().UnixNano())
	database, err := db.New(ctx, uri, name)
	if err != nil {
		return nil, fmt.Errorf("open test DB %q: %w", name, err)
	}

	cleanup := func() error {
		if err := database.Drop(ctx); err != nil {
			_ = database.Close(ctx)
			return fmt.Errorf("drop database %q: %w", name, err)
		}
		return database.Close(ctx)
	}

	return &TestDB{Database: database, Cleanup: cleanup}, nil
}
