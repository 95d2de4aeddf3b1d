package eureka

import (
	"fmt"
	"strings"
)

// Next-action recommendations. RecommendNextAction returns exactly one of
// these for any session state.
const (
	RecommendNewProposal = "No data available. Start with a new proposal."
	RecommendOptimize    = "Goal achieved! Consider optimizing the solution or trying a more complex goal."
	RecommendRefineLogic = "Solution runs but doesn't fully meet the goal. Refine the logic."
	RecommendRethink     = "Multiple attempts failed. Consider revising the goal or approach fundamentally."
	RecommendFromError   = "Refine the current approach based on the error feedback."
)

// noAnalysesMessage is the summary when nothing has been analyzed yet.
const noAnalysesMessage = "No analyses performed yet."

// Reporter is a read-only summarizer over the analyzer's history and the
// store's session insights. It never disturbs the loop: both operations
// are pure reads and can run at any point in the cycle.
type Reporter struct {
	analyzer *Analyzer
	store    *Store
}

// NewReporter creates a reporter over the given analyzer and store.
func NewReporter(analyzer *Analyzer, store *Store) *Reporter {
	return &Reporter{analyzer: analyzer, store: store}
}

// SummaryReport renders the session so far: attempt totals, success rate
// to one decimal, a per-iteration outcome line (with failure errors bounded
// to ErrorPreviewLimit), and - once at least one insight exists - the
// session insight count and distinct strategies used.
func (r *Reporter) SummaryReport() string {
	analyses := r.analyzer.History()
	if len(analyses) == 0 {
		return noAnalysesMessage
	}

	successful := 0
	for _, analysis := range analyses {
		if analysis.Success {
			successful++
		}
	}
	total := len(analyses)

	var b strings.Builder
	b.WriteString("\nEureka Analysis Summary\n")
	b.WriteString("=======================\n")
	fmt.Fprintf(&b, "Total Attempts: %d\n", total)
	fmt.Fprintf(&b, "Successful: %d\n", successful)
	fmt.Fprintf(&b, "Success Rate: %.1f%%\n\n", float64(successful)/float64(total)*100)
	b.WriteString("Iterations:\n")

	for _, analysis := range analyses {
		fmt.Fprintf(&b, "\n  Iteration %d: ", analysis.Iteration)
		if analysis.Success {
			b.WriteString("✓ Success")
			continue
		}
		b.WriteString("✗ Failed")
		if errMsg := analysis.TestResult.Error; errMsg != "" {
			if bounded := bound(errMsg, ErrorPreviewLimit); bounded != errMsg {
				errMsg = bounded + TruncationMarker
			}
			fmt.Fprintf(&b, " - %s", errMsg)
		}
	}

	summary := r.store.SessionSummary()
	if summary.TotalInsights > 0 {
		fmt.Fprintf(&b, "\n\nInsights Generated: %d", summary.TotalInsights)
		if len(summary.StrategiesUsed) > 0 {
			fmt.Fprintf(&b, "\nStrategies Used: %s", strings.Join(summary.StrategiesUsed, ", "))
		}
	}

	return b.String()
}

// RecommendNextAction is a deterministic decision table over the most
// recent analysis:
//
//   - no analyses yet: start with a new proposal
//   - success and goal met: optimize or escalate complexity
//   - success but goal not met: refine the logic
//   - failure with FailureStreakLimit or more analyses: rethink the
//     goal or approach fundamentally
//   - failure below the streak limit: refine from the error feedback
func (r *Reporter) RecommendNextAction() string {
	analyses := r.analyzer.History()
	if len(analyses) == 0 {
		return RecommendNewProposal
	}

	last := analyses[len(analyses)-1]
	switch {
	case last.Success && last.Validation.MeetsGoal:
		return RecommendOptimize
	case last.Success:
		return RecommendRefineLogic
	case len(analyses) >= FailureStreakLimit:
		return RecommendRethink
	default:
		return RecommendFromError
	}
}
