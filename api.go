// Package eureka provides an LLM-driven propose-test-analyze-refine loop
// backed by a persistent cognition base.
//
// eureka drives a single-threaded refinement cycle: a goal is turned into a
// solution proposal, the proposal is executed and validated externally, the
// outcome is analyzed, and the lessons of each attempt feed the next one.
// What the system learns outlives the session through a durable knowledge
// catalogue.
//
// # Core Types
//
//   - [Store] - The cognition base: a catalogue of strategies, error
//     patterns, and optimization techniques, plus the session insight log
//   - [Proposal] - A generated candidate solution with its provenance
//     (iteration, strategies used, refinement lineage)
//   - [Analysis] - The structured outcome of one analyzed attempt
//   - [Insight] - A compact, timestamped record of what one attempt taught
//
// # Components
//
//   - [Proposer] - Generates and refines solution proposals. Generation
//     failure propagates to the caller; an empty proposal has nothing to
//     execute, so this is the one loud failure in the system.
//   - [Analyzer] - Consumes external test and validation results, produces
//     an Analysis, and submits an Insight to the store. Analysis is
//     advisory: generator failure degrades the result instead of halting
//     the loop.
//   - [Reporter] - Read-only session summarizer and next-action adviser.
//   - [Loop] - Composes the above into the full refinement cycle via a
//     pipz sequence over an [Attempt].
//
// # Knowledge Retrieval
//
// Strategy retrieval is pluggable through the [Retriever] interface. The
// default [KeywordRetriever] performs recall-oriented keyword/substring
// matching over strategy applicability tags. [EmbeddingRetriever] ranks by
// cosine similarity of embeddings instead; configure an embedder with
// [SetEmbedder] or [WithEmbedder].
//
// # Persistence
//
// The catalogue is durable through the [CatalogueStore] interface.
// [FileCatalogue] keeps a human-readable JSON document rewritten wholesale
// on each promoted insight; [SoyCatalogue] keeps the same categories in
// Postgres tables via soy. A missing or corrupt catalogue never fails the
// caller: [NewStore] falls back to [SeedCatalogue].
//
// # Provider
//
// LLM access uses a resolution hierarchy:
//
//  1. Explicit parameter (.WithProvider(p))
//  2. Context value (eureka.WithProvider(ctx, p))
//  3. Global default (eureka.SetProvider(p))
//
// # Observability
//
// eureka emits capitan signals throughout execution. See signals.go for the
// complete list, including ProposalCreated, AnalysisCompleted,
// InsightPromoted, and CataloguePersistFailed.
package eureka
