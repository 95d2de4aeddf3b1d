package eureka

import "github.com/zoobzio/zyn"

// Significance scoring for insights. These are static heuristics, not
// learned scores: a successful attempt is worth recording, a failed one
// slightly less, and only scores above PromotionThreshold enter the durable
// catalogue. Swap the scoring with [Analyzer.WithSignificance] when a
// learned mechanism replaces the heuristic.
const (
	// SignificanceSuccess is assigned to insights from successful attempts.
	SignificanceSuccess = 0.5

	// SignificanceFailure is assigned to insights from failed attempts.
	SignificanceFailure = 0.3

	// PromotionThreshold is the significance above which an insight is
	// promoted into the durable catalogue and persisted immediately.
	PromotionThreshold = 0.7
)

// Text bounds applied when rendering attempt data.
const (
	// KeyLearningLimit bounds an insight's key learning, taken from the
	// head of the analysis text.
	KeyLearningLimit = 200

	// OutputPreviewLimit bounds the execution-output preview embedded in
	// the analysis prompt.
	OutputPreviewLimit = 500

	// ErrorPreviewLimit bounds error messages rendered in the session
	// summary report.
	ErrorPreviewLimit = 50
)

// Markers used when bounded or absent text is rendered.
const (
	// TruncationMarker suffixes text cut at a bound.
	TruncationMarker = "..."

	// NoOutputMarker stands in for absent execution output.
	NoOutputMarker = "None"

	// NoLearningPlaceholder stands in for an insight whose analysis text
	// is empty.
	NoLearningPlaceholder = "No analysis available"
)

// Loop behavior defaults.
const (
	// FailureStreakLimit is the analysis count at which a still-failing
	// session should rethink the goal rather than keep refining.
	FailureStreakLimit = 5

	// DefaultMaxIterations bounds a Loop run when not overridden.
	DefaultMaxIterations = 5

	// DefaultKnowledgePath is where FileCatalogue keeps the knowledge
	// file when no path is given.
	DefaultKnowledgePath = "eureka_knowledge.json"
)

// Default temperatures for the two LLM call sites. Proposal generation
// favors creative output; analysis favors deterministic output.
var (
	DefaultProposalTemperature = zyn.DefaultTemperatureCreative
	DefaultAnalysisTemperature = zyn.DefaultTemperatureDeterministic
)

// SignificanceFunc scores an insight in [0,1] from the attempt outcome.
type SignificanceFunc func(success bool) float64

// StaticSignificance is the default scorer: SignificanceSuccess for
// successful attempts, SignificanceFailure otherwise.
func StaticSignificance(success bool) float64 {
	if success {
		return SignificanceSuccess
	}
	return SignificanceFailure
}
