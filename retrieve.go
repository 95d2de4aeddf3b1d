package eureka

import (
	"context"
	"strings"
	"sync"
)

// Retriever selects the strategies applicable to a problem description.
// Implementations must be pure over their inputs: no mutation of the
// strategy slice, identical output for identical input, and an empty result
// rather than an error when nothing matches. The store's persistence logic
// never depends on which implementation is plugged in.
type Retriever interface {
	Retrieve(ctx context.Context, description string, strategies []Strategy) []Strategy
}

// KeywordRetriever is the default retriever: it tokenizes the description
// into lowercase whitespace-delimited keywords and includes a strategy when
// any of its applicability tags contains at least one keyword as a
// case-insensitive substring.
//
// This is deliberately crude, recall-oriented matching, not semantic
// search; precision is a known limitation. Use EmbeddingRetriever when an
// embedder is available.
type KeywordRetriever struct{}

// NewKeywordRetriever creates the default keyword retriever.
func NewKeywordRetriever() *KeywordRetriever {
	return &KeywordRetriever{}
}

// Retrieve implements Retriever. Each strategy is included at most once and
// the result preserves catalogue order.
func (*KeywordRetriever) Retrieve(_ context.Context, description string, strategies []Strategy) []Strategy {
	keywords := strings.Fields(strings.ToLower(description))

	var relevant []Strategy
	for _, strategy := range strategies {
		if tagsMatch(strategy.ApplicableTo, keywords) {
			relevant = append(relevant, strategy)
		}
	}
	return relevant
}

// tagsMatch reports whether any tag contains any keyword as a substring.
func tagsMatch(tags Tags, keywords []string) bool {
	for _, tag := range tags {
		lowered := strings.ToLower(tag)
		for _, keyword := range keywords {
			if strings.Contains(lowered, keyword) {
				return true
			}
		}
	}
	return false
}

// EmbeddingRetriever selects strategies by cosine similarity between the
// description embedding and an embedding of each strategy's name,
// description, and tags. Strategy embeddings are computed once and cached
// for the retriever's lifetime; the catalogue only changes by wholesale
// replace on load, so the cache never goes stale within a session.
//
// The result preserves catalogue order, like the keyword retriever, so the
// two implementations are interchangeable under the same ordering contract.
type EmbeddingRetriever struct {
	embedder  Embedder
	threshold float64

	mu    sync.Mutex
	cache map[string]Vector // keyed by strategy name
}

// DefaultSimilarityThreshold is the minimum cosine similarity for a
// strategy to be considered applicable.
const DefaultSimilarityThreshold = 0.75

// NewEmbeddingRetriever creates an embedding-based retriever. The embedder
// resolves through the usual hierarchy (explicit, context, global) at
// retrieval time.
func NewEmbeddingRetriever() *EmbeddingRetriever {
	return &EmbeddingRetriever{
		threshold: DefaultSimilarityThreshold,
		cache:     make(map[string]Vector),
	}
}

// WithEmbedder sets an explicit embedder for this retriever.
func (r *EmbeddingRetriever) WithEmbedder(e Embedder) *EmbeddingRetriever {
	r.embedder = e
	return r
}

// WithThreshold sets the minimum cosine similarity.
func (r *EmbeddingRetriever) WithThreshold(threshold float64) *EmbeddingRetriever {
	r.threshold = threshold
	return r
}

// Retrieve implements Retriever. On any embedding failure it returns an
// empty result; retrieval is advisory and must not surface errors into the
// loop.
func (r *EmbeddingRetriever) Retrieve(ctx context.Context, description string, strategies []Strategy) []Strategy {
	embedder, err := ResolveEmbedder(ctx, r.embedder)
	if err != nil {
		return nil
	}

	query, err := embedder.Embed(ctx, description)
	if err != nil {
		return nil
	}

	var relevant []Strategy
	for _, strategy := range strategies {
		vec, err := r.strategyVector(ctx, embedder, strategy)
		if err != nil {
			continue
		}
		if Vector(query).Cosine(vec) >= r.threshold {
			relevant = append(relevant, strategy)
		}
	}
	return relevant
}

// strategyVector returns the cached embedding for a strategy, computing it
// on first use.
func (r *EmbeddingRetriever) strategyVector(ctx context.Context, embedder Embedder, strategy Strategy) (Vector, error) {
	r.mu.Lock()
	cached, ok := r.cache[strategy.Name]
	r.mu.Unlock()
	if ok {
		return cached, nil
	}

	text := strategy.Name + ": " + strategy.Description
	if len(strategy.ApplicableTo) > 0 {
		text += " (" + strings.Join(strategy.ApplicableTo, ", ") + ")"
	}

	raw, err := embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	vec := Vector(raw)
	r.mu.Lock()
	r.cache[strategy.Name] = vec
	r.mu.Unlock()
	return vec, nil
}

var (
	_ Retriever = (*KeywordRetriever)(nil)
	_ Retriever = (*EmbeddingRetriever)(nil)
)
