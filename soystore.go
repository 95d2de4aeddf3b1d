package eureka

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/zoobzio/astql/postgres"
	"github.com/zoobzio/soy"
)

// SoyCatalogue implements CatalogueStore using soy for Postgres
// persistence: one table per seeded category plus learned_patterns.
//
// Unknown extra categories are a knowledge-file concept and are not
// persisted by this backend; sessions that need them should use
// FileCatalogue.
type SoyCatalogue struct {
	strategies *soy.Soy[Strategy]
	errors     *soy.Soy[ErrorPattern]
	techniques *soy.Soy[Technique]
	patterns   *soy.Soy[Insight]
	db         *sqlx.DB
}

// NewSoyCatalogue creates a Postgres-backed catalogue store.
func NewSoyCatalogue(db *sqlx.DB) (*SoyCatalogue, error) {
	renderer := postgres.New()

	strategies, err := soy.New[Strategy](db, "strategies", renderer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize strategies table: %w", err)
	}

	errPatterns, err := soy.New[ErrorPattern](db, "error_patterns", renderer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize error_patterns table: %w", err)
	}

	techniques, err := soy.New[Technique](db, "optimization_techniques", renderer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize optimization_techniques table: %w", err)
	}

	patterns, err := soy.New[Insight](db, "learned_patterns", renderer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize learned_patterns table: %w", err)
	}

	return &SoyCatalogue{
		strategies: strategies,
		errors:     errPatterns,
		techniques: techniques,
		patterns:   patterns,
		db:         db,
	}, nil
}

// Load implements CatalogueStore. Category order follows primary key for
// the seeded categories and recording time for learned patterns.
func (s *SoyCatalogue) Load(ctx context.Context) (*Catalogue, error) {
	strategies, err := s.strategies.Query().
		OrderBy("name", "asc").
		Exec(ctx, map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("failed to load strategies: %w", err)
	}

	errPatterns, err := s.errors.Query().
		OrderBy("type", "asc").
		Exec(ctx, map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("failed to load error patterns: %w", err)
	}

	techniques, err := s.techniques.Query().
		OrderBy("name", "asc").
		Exec(ctx, map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("failed to load optimization techniques: %w", err)
	}

	patterns, err := s.patterns.Query().
		OrderBy("recorded", "asc").
		Exec(ctx, map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("failed to load learned patterns: %w", err)
	}

	catalogue := &Catalogue{}
	for _, strategy := range strategies {
		catalogue.Strategies = append(catalogue.Strategies, *strategy)
	}
	for _, pattern := range errPatterns {
		catalogue.CommonErrors = append(catalogue.CommonErrors, *pattern)
	}
	for _, technique := range techniques {
		catalogue.OptimizationTechniques = append(catalogue.OptimizationTechniques, *technique)
	}
	for _, insight := range patterns {
		catalogue.LearnedPatterns = append(catalogue.LearnedPatterns, *insight)
	}

	// An entirely empty database means nothing was ever persisted; treat
	// it like an absent knowledge file so the store seeds itself.
	if len(catalogue.Strategies) == 0 && len(catalogue.CommonErrors) == 0 &&
		len(catalogue.OptimizationTechniques) == 0 && catalogue.LearnedPatterns == nil {
		return nil, fmt.Errorf("catalogue tables are empty")
	}

	return catalogue, nil
}

// Save implements CatalogueStore. The write mirrors the knowledge file's
// wholesale-overwrite semantics: each category table is cleared and
// reinserted from the in-memory catalogue.
func (s *SoyCatalogue) Save(ctx context.Context, catalogue *Catalogue) error {
	for _, table := range []string{"strategies", "error_patterns", "optimization_techniques", "learned_patterns"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for i := range catalogue.Strategies {
		if _, err := s.strategies.Insert().Exec(ctx, &catalogue.Strategies[i]); err != nil {
			return fmt.Errorf("failed to insert strategy: %w", err)
		}
	}
	for i := range catalogue.CommonErrors {
		if _, err := s.errors.Insert().Exec(ctx, &catalogue.CommonErrors[i]); err != nil {
			return fmt.Errorf("failed to insert error pattern: %w", err)
		}
	}
	for i := range catalogue.OptimizationTechniques {
		if _, err := s.techniques.Insert().Exec(ctx, &catalogue.OptimizationTechniques[i]); err != nil {
			return fmt.Errorf("failed to insert optimization technique: %w", err)
		}
	}
	for i := range catalogue.LearnedPatterns {
		if _, err := s.patterns.Insert().Exec(ctx, &catalogue.LearnedPatterns[i]); err != nil {
			return fmt.Errorf("failed to insert learned pattern: %w", err)
		}
	}

	return nil
}

// Close closes the underlying database connection.
func (s *SoyCatalogue) Close() error {
	return s.db.Close()
}

var _ CatalogueStore = (*SoyCatalogue)(nil)
