package eureka

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Store is the cognition base: the durable knowledge catalogue plus the
// session insight log. The catalogue is loaded once at construction and
// mutated only by insight promotion; the insight log is append-only and
// lives for the process lifetime.
//
// Store is the single owner of both structures. Proposer and Analyzer hold
// a reference to the store; nothing else writes to it. The loop is
// single-threaded, so no locking discipline is applied.
type Store struct {
	backend   CatalogueStore
	retriever Retriever
	catalogue *Catalogue
	insights  []Insight
}

// Summary reports the insight activity of the current session.
type Summary struct {
	TotalInsights int
	Insights      []Insight

	// StrategiesUsed lists distinct non-empty strategy names across the
	// session log, in first-use order.
	StrategiesUsed []string
}

// NewStore creates a knowledge store backed by the given catalogue store.
// A read or parse failure falls back to the seed catalogue: a malformed
// knowledge file must never block the rest of the system. A nil backend
// yields an in-memory store that skips persistence on promotion.
func NewStore(ctx context.Context, backend CatalogueStore) *Store {
	s := &Store{
		backend:   backend,
		retriever: NewKeywordRetriever(),
	}

	if backend != nil {
		catalogue, err := backend.Load(ctx)
		if err == nil {
			s.catalogue = catalogue
			capitan.Emit(ctx, CatalogueLoaded, s.catalogueFields()...)
			return s
		}
		s.catalogue = SeedCatalogue()
		capitan.Error(ctx, CatalogueSeeded,
			FieldError.Field(err),
		)
		return s
	}

	s.catalogue = SeedCatalogue()
	capitan.Emit(ctx, CatalogueSeeded, s.catalogueFields()...)
	return s
}

// WithRetriever swaps the strategy retriever. The default is the keyword
// matcher; retrieval is independent of the store's persistence logic.
func (s *Store) WithRetriever(r Retriever) *Store {
	s.retriever = r
	return s
}

// Catalogue returns the in-memory catalogue. It stays authoritative even
// when a persistence write fails.
func (s *Store) Catalogue() *Catalogue {
	return s.catalogue
}

// RetrieveStrategies returns the strategies applicable to the problem
// description, in catalogue order, each at most once. An empty result is a
// valid answer, never an error.
func (s *Store) RetrieveStrategies(ctx context.Context, description string) []Strategy {
	strategies := s.retriever.Retrieve(ctx, description, s.catalogue.Strategies)

	capitan.Emit(ctx, StrategiesRetrieved,
		FieldGoal.Field(description),
		FieldStrategyCount.Field(len(strategies)),
	)
	return strategies
}

// AddInsight stamps the insight, appends it to the session log, and - when
// its significance clears PromotionThreshold - promotes it into the
// catalogue's learned_patterns category (created lazily on first promotion)
// and writes the catalogue through to durable storage immediately.
//
// Persistence failure is emitted and swallowed; it never aborts insight
// recording, and the in-memory catalogue stays authoritative until the next
// successful write. The stamped insight is returned.
func (s *Store) AddInsight(ctx context.Context, insight Insight) Insight {
	insight.stamp(time.Now())
	s.insights = append(s.insights, insight)

	capitan.Emit(ctx, InsightRecorded,
		FieldGoal.Field(insight.Goal),
		FieldOutcome.Field(outcome(insight.Success)),
		FieldSignificance.Field(float32(insight.Significance)),
		FieldInsightCount.Field(len(s.insights)),
	)

	if insight.Significance > PromotionThreshold {
		s.catalogue.LearnedPatterns = append(s.catalogue.LearnedPatterns, insight)

		capitan.Emit(ctx, InsightPromoted,
			FieldGoal.Field(insight.Goal),
			FieldSignificance.Field(float32(insight.Significance)),
			FieldPatternCount.Field(len(s.catalogue.LearnedPatterns)),
		)

		s.persist(ctx)
	}

	return insight
}

// persist writes the catalogue through to the backend, emitting the outcome.
func (s *Store) persist(ctx context.Context) {
	if s.backend == nil {
		return
	}

	if err := s.backend.Save(ctx, s.catalogue); err != nil {
		capitan.Error(ctx, CataloguePersistFailed,
			FieldError.Field(err),
		)
		return
	}
	capitan.Emit(ctx, CataloguePersisted, s.catalogueFields()...)
}

// SessionSummary reports the current session's insight log.
func (s *Store) SessionSummary() Summary {
	seen := make(map[string]struct{})
	var used []string
	for _, insight := range s.insights {
		for _, name := range insight.Strategies {
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			used = append(used, name)
		}
	}

	return Summary{
		TotalInsights:  len(s.insights),
		Insights:       s.insights,
		StrategiesUsed: used,
	}
}

// catalogueFields builds the common fields for catalogue signals.
func (s *Store) catalogueFields() []capitan.Field {
	fields := []capitan.Field{
		FieldPatternCount.Field(len(s.catalogue.LearnedPatterns)),
	}
	if fc, ok := s.backend.(*FileCatalogue); ok {
		fields = append(fields, FieldCataloguePath.Field(fc.Path()))
	}
	return fields
}

// outcome renders a success flag for signal fields.
func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
