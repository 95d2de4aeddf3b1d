package eureka

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileCatalogueRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knowledge.json")
	backend := NewFileCatalogue(path)
	ctx := context.Background()

	catalogue := SeedCatalogue()
	catalogue.LearnedPatterns = append(catalogue.LearnedPatterns, Insight{
		Goal:         "persisted goal",
		Strategies:   Tags{"Divide and Conquer"},
		Success:      true,
		KeyLearning:  "learned",
		Significance: 0.8,
		Timestamp:    "2026-08-28T10:00:00Z",
	})

	if err := backend.Save(ctx, catalogue); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := backend.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if len(loaded.Strategies) != len(catalogue.Strategies) {
		t.Errorf("strategies lost in round trip: %d vs %d",
			len(loaded.Strategies), len(catalogue.Strategies))
	}
	if len(loaded.LearnedPatterns) != 1 {
		t.Fatalf("expected 1 learned pattern, got %d", len(loaded.LearnedPatterns))
	}
	if loaded.LearnedPatterns[0].Goal != "persisted goal" {
		t.Errorf("learned pattern mangled: %+v", loaded.LearnedPatterns[0])
	}
	if loaded.LearnedPatterns[0].Timestamp != "2026-08-28T10:00:00Z" {
		t.Errorf("timestamp mangled: %q", loaded.LearnedPatterns[0].Timestamp)
	}
}

func TestFileCatalogueLoadMissingFile(t *testing.T) {
	backend := NewFileCatalogue(filepath.Join(t.TempDir(), "absent.json"))

	if _, err := backend.Load(context.Background()); err == nil {
		t.Error("expected error for a missing knowledge file")
	}
}

func TestFileCatalogueLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knowledge.json")
	if err := os.WriteFile(path, []byte("not json at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	backend := NewFileCatalogue(path)
	if _, err := backend.Load(context.Background()); err == nil {
		t.Error("expected error for a malformed knowledge file")
	}
}

func TestFileCatalogueSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	backend := NewFileCatalogue(filepath.Join(dir, "knowledge.json"))

	if err := backend.Save(context.Background(), SeedCatalogue()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", entry.Name())
		}
	}
	if len(entries) != 1 {
		t.Errorf("expected only the knowledge file, got %d entries", len(entries))
	}
}

func TestFileCatalogueDefaultPath(t *testing.T) {
	if got := NewFileCatalogue("").Path(); got != DefaultKnowledgePath {
		t.Errorf("expected %q, got %q", DefaultKnowledgePath, got)
	}
}

func TestFileCatalogueWritesReadableJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knowledge.json")
	backend := NewFileCatalogue(path)

	if err := backend.Save(context.Background(), SeedCatalogue()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	// Indented output keeps the knowledge file hand-editable.
	if !strings.Contains(string(data), "\n  \"strategies\"") {
		t.Error("knowledge file is not indented")
	}
}
