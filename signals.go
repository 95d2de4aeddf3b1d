package eureka

import "github.com/zoobzio/capitan"

// Signal definitions for eureka loop events.
// Signals follow the pattern: eureka.<entity>.<event>.
var (
	// Catalogue lifecycle signals.
	CatalogueLoaded = capitan.NewSignal(
		"eureka.catalogue.loaded",
		"Knowledge catalogue loaded from durable storage",
	)
	CatalogueSeeded = capitan.NewSignal(
		"eureka.catalogue.seeded",
		"Knowledge catalogue initialized from the seed set",
	)
	CataloguePersisted = capitan.NewSignal(
		"eureka.catalogue.persisted",
		"Knowledge catalogue written through to durable storage",
	)
	CataloguePersistFailed = capitan.NewSignal(
		"eureka.catalogue.persist_failed",
		"Knowledge catalogue write failed; in-memory state stays authoritative",
	)

	// Retrieval signals.
	StrategiesRetrieved = capitan.NewSignal(
		"eureka.strategies.retrieved",
		"Applicable strategies selected for a problem description",
	)

	// Proposal signals.
	ProposalCreated = capitan.NewSignal(
		"eureka.proposal.created",
		"New solution proposal generated",
	)
	ProposalRefined = capitan.NewSignal(
		"eureka.proposal.refined",
		"Proposal refined from execution feedback",
	)
	GenerationFailed = capitan.NewSignal(
		"eureka.generation.failed",
		"Generator call failed",
	)

	// Analysis signals.
	AnalysisCompleted = capitan.NewSignal(
		"eureka.analysis.completed",
		"Attempt outcome analyzed",
	)
	AnalysisDegraded = capitan.NewSignal(
		"eureka.analysis.degraded",
		"Generator failed during analysis; degraded analysis synthesized",
	)

	// Insight signals.
	InsightRecorded = capitan.NewSignal(
		"eureka.insight.recorded",
		"Insight appended to the session log",
	)
	InsightPromoted = capitan.NewSignal(
		"eureka.insight.promoted",
		"Insight promoted into the durable catalogue",
	)
	InsightExtractionFailed = capitan.NewSignal(
		"eureka.insight.extraction_failed",
		"Insight could not be derived from an analysis",
	)

	// Loop signals.
	LoopStarted = capitan.NewSignal(
		"eureka.loop.started",
		"Refinement loop started for a goal",
	)
	LoopIterationCompleted = capitan.NewSignal(
		"eureka.loop.iteration_completed",
		"One propose-execute-analyze iteration finished",
	)
	LoopStopped = capitan.NewSignal(
		"eureka.loop.stopped",
		"Refinement loop finished",
	)
)

// Field keys for eureka event data.
var (
	// Session metadata.
	FieldGoal    = capitan.NewStringKey("goal")
	FieldTraceID = capitan.NewStringKey("trace_id")

	// Proposal metadata.
	FieldIteration     = capitan.NewIntKey("iteration")
	FieldRefinedFrom   = capitan.NewIntKey("refined_from")
	FieldStrategyCount = capitan.NewIntKey("strategy_count")
	FieldSolutionSize  = capitan.NewIntKey("solution_size") // character count
	FieldTemperature   = capitan.NewFloat32Key("temperature")

	// Outcome metadata.
	FieldOutcome    = capitan.NewStringKey("outcome") // "success" or "failure"
	FieldConfidence = capitan.NewFloat32Key("confidence")

	// Insight metadata.
	FieldSignificance = capitan.NewFloat32Key("significance")
	FieldInsightCount = capitan.NewIntKey("insight_count")
	FieldPatternCount = capitan.NewIntKey("pattern_count")

	// Catalogue metadata.
	FieldCataloguePath = capitan.NewStringKey("catalogue_path")
	FieldCategory      = capitan.NewStringKey("category")

	// Timing.
	FieldStepDuration = capitan.NewDurationKey("step_duration")

	// Error information.
	FieldError = capitan.NewErrorKey("error")
)
