package mongo

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/seatplan/pkg/store"
	"github.com/matzehuels/seatplan/pkg/store/storetest"
)

// Set SEATPLAN_TEST_MONGO_URI (e.g. mongodb://localhost:27017) to run
// against a real server. Each subtest gets its own throwaway database.
func TestConformance(t *testing.T) {
	uri := os.Getenv("SEATPLAN_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("SEATPLAN_TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(ctx) })

	storetest.Run(t, func(t *testing.T) store.Gateway {
		name := "seatplan_test_" + strings.ReplaceAll(uuid.NewString()[:8], "-", "")
		db := client.Database(name)
		t.Cleanup(func() { _ = db.Drop(ctx) })

		s := New(nil, db)
		if err := s.EnsureIndexes(ctx); err != nil {
			t.Fatalf("indexes: %v", err)
		}
		return s
	})
}

func TestCloseWithoutClient(t *testing.T) {
	s := &Store{}
	if err := s.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}
