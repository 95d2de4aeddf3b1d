//go:build integration

package integration_test

import (
	"context"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/zoobzio/eureka"
)

func getTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	return db
}

func clearCatalogue(ctx context.Context, t *testing.T, backend *eureka.SoyCatalogue) {
	t.Helper()

	if err := backend.Save(ctx, &eureka.Catalogue{}); err != nil {
		t.Fatalf("failed to clear catalogue tables: %v", err)
	}
}

func TestSoyCatalogue_SaveAndLoad(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	backend, err := eureka.NewSoyCatalogue(db)
	if err != nil {
		t.Fatalf("failed to create catalogue store: %v", err)
	}

	ctx := context.Background()
	defer clearCatalogue(ctx, t, backend)

	if err := backend.Save(ctx, eureka.SeedCatalogue()); err != nil {
		t.Fatalf("failed to save catalogue: %v", err)
	}

	loaded, err := backend.Load(ctx)
	if err != nil {
		t.Fatalf("failed to load catalogue: %v", err)
	}

	if len(loaded.Strategies) != 3 {
		t.Errorf("expected 3 strategies, got %d", len(loaded.Strategies))
	}
	if len(loaded.CommonErrors) != 2 {
		t.Errorf("expected 2 error patterns, got %d", len(loaded.CommonErrors))
	}
	if len(loaded.OptimizationTechniques) != 2 {
		t.Errorf("expected 2 optimization techniques, got %d", len(loaded.OptimizationTechniques))
	}
}

func TestSoyCatalogue_EmptyTablesLoadAsError(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	backend, err := eureka.NewSoyCatalogue(db)
	if err != nil {
		t.Fatalf("failed to create catalogue store: %v", err)
	}

	ctx := context.Background()
	clearCatalogue(ctx, t, backend)

	if _, err := backend.Load(ctx); err == nil {
		t.Error("expected error for empty catalogue tables")
	}

	// The store treats that error like an absent knowledge file.
	store := eureka.NewStore(ctx, backend)
	if len(store.Catalogue().Strategies) != 3 {
		t.Error("store should seed itself over an empty database")
	}
}

func TestSoyCatalogue_PromotionWritesThrough(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	backend, err := eureka.NewSoyCatalogue(db)
	if err != nil {
		t.Fatalf("failed to create catalogue store: %v", err)
	}

	ctx := context.Background()
	clearCatalogue(ctx, t, backend)
	defer clearCatalogue(ctx, t, backend)

	store := eureka.NewStore(ctx, backend)
	store.AddInsight(ctx, eureka.Insight{
		Goal:         "integration goal",
		Strategies:   eureka.Tags{"Divide and Conquer"},
		Success:      true,
		KeyLearning:  "learned something durable",
		Significance: 0.9,
	})

	loaded, err := backend.Load(ctx)
	if err != nil {
		t.Fatalf("failed to load catalogue: %v", err)
	}

	if len(loaded.LearnedPatterns) != 1 {
		t.Fatalf("expected 1 learned pattern, got %d", len(loaded.LearnedPatterns))
	}
	if loaded.LearnedPatterns[0].Goal != "integration goal" {
		t.Errorf("learned pattern mangled: %+v", loaded.LearnedPatterns[0])
	}
	if loaded.LearnedPatterns[0].Timestamp == "" {
		t.Error("promoted insight missing timestamp")
	}
}
