package eureka

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/zyn"
)

// Analysis is the structured outcome of one analyzed attempt. Immutable
// once created; the analyzer's history is append-only, one entry per
// analyzed attempt.
type Analysis struct {
	Iteration  int        `json:"iteration"`
	Success    bool       `json:"success"`
	Analysis   string     `json:"analysis"` // LLM write-up, or the degraded fallback text
	TestResult TestResult `json:"test_result"`
	Validation Validation `json:"validation"`
}

const analyzeSystemPrompt = "You are an expert at analyzing code execution results and providing insights. " +
	"Focus on identifying what worked, what didn't, and why. " +
	"Provide actionable recommendations for improvement."

// Analyzer consumes proposals and their external test and validation
// results, produces analyses, and feeds insights back into the cognition
// base. It exclusively owns its analysis history and holds a non-owning
// reference to the store.
//
// Analysis is advisory: unlike proposal generation, a generator failure
// here is degraded in place rather than propagated, because a missing
// analysis must not halt the loop while a missing proposal has nothing to
// execute.
type Analyzer struct {
	store        *Store
	provider     Provider
	temperature  float32
	significance SignificanceFunc
	session      *zyn.Session
	history      []Analysis
}

// NewAnalyzer creates an analyzer submitting insights to the given store.
func NewAnalyzer(store *Store) *Analyzer {
	return &Analyzer{
		store:        store,
		temperature:  DefaultAnalysisTemperature,
		significance: StaticSignificance,
		session:      zyn.NewSession(),
	}
}

// WithProvider sets the provider for this analyzer.
func (a *Analyzer) WithProvider(provider Provider) *Analyzer {
	a.provider = provider
	return a
}

// WithTemperature sets the generation temperature.
func (a *Analyzer) WithTemperature(temp float32) *Analyzer {
	a.temperature = temp
	return a
}

// WithSignificance swaps the insight scoring heuristic.
func (a *Analyzer) WithSignificance(fn SignificanceFunc) *Analyzer {
	a.significance = fn
	return a
}

// History returns the append-only analysis history. Callers must not
// modify it.
func (a *Analyzer) History() []Analysis {
	return a.history
}

// Analyze produces an Analysis of one attempt and submits the derived
// insight to the store. It always returns a non-nil Analysis: on generator
// failure a degraded analysis is synthesized from the raw outcome instead
// of propagating the error.
func (a *Analyzer) Analyze(ctx context.Context, proposal *Proposal, result TestResult, validation Validation) *Analysis {
	start := time.Now()
	iteration := 1
	if proposal != nil {
		iteration = proposal.Iteration
	}

	prompt := a.buildPrompt(proposal, result, validation)

	writeup, err := a.generate(ctx, prompt)
	if err != nil {
		capitan.Error(ctx, AnalysisDegraded,
			FieldIteration.Field(iteration),
			FieldOutcome.Field(outcome(result.Success)),
			FieldStepDuration.Field(time.Since(start)),
			FieldError.Field(err),
		)
		writeup = fmt.Sprintf("Analysis failed: %v. Test result: %s", err, successLabel(result.Success))
	}

	analysis := Analysis{
		Iteration:  iteration,
		Success:    result.Success,
		Analysis:   writeup,
		TestResult: result,
		Validation: validation,
	}
	a.history = append(a.history, analysis)

	a.extractInsight(ctx, &analysis, proposal)

	if err == nil {
		capitan.Emit(ctx, AnalysisCompleted,
			FieldIteration.Field(iteration),
			FieldOutcome.Field(outcome(result.Success)),
			FieldConfidence.Field(float32(validation.Confidence)),
			FieldStepDuration.Field(time.Since(start)),
		)
	}

	return &analysis
}

// buildPrompt renders the attempt for the generator: proposal provenance,
// a bounded output preview, errors, issues, and validation.
func (a *Analyzer) buildPrompt(proposal *Proposal, result TestResult, validation Validation) string {
	goal := ""
	iteration := 1
	var strategies Tags
	if proposal != nil {
		goal = proposal.Goal
		iteration = proposal.Iteration
		strategies = proposal.StrategiesUsed
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Goal: %s\n\n", goal)
	b.WriteString("Solution Summary:\n")
	fmt.Fprintf(&b, "- Iteration: %d\n", iteration)
	fmt.Fprintf(&b, "- Strategies used: %v\n\n", strategies)
	b.WriteString("Execution Results:\n")
	fmt.Fprintf(&b, "- Success: %t\n", result.Success)
	fmt.Fprintf(&b, "- Output: %s\n", outputPreview(result.Output))
	fmt.Fprintf(&b, "- Error: %s\n", orNone(result.Error))
	fmt.Fprintf(&b, "- Issues: %v\n\n", result.Issues)
	b.WriteString("Validation:\n")
	fmt.Fprintf(&b, "- Meets goal: %t\n", validation.MeetsGoal)
	fmt.Fprintf(&b, "- Confidence: %g\n", validation.Confidence)
	fmt.Fprintf(&b, "- Notes: %v\n\n", validation.Notes)
	b.WriteString("Please provide:\n" +
		"1. Analysis of what happened\n" +
		"2. Why the solution succeeded or failed\n" +
		"3. Specific improvements needed\n" +
		"4. Lessons learned for future attempts\n" +
		"5. A success probability score (0-1)")
	return b.String()
}

// generate fires one transform synapse call against the analyzer's session.
func (a *Analyzer) generate(ctx context.Context, prompt string) (string, error) {
	provider, err := ResolveProvider(ctx, a.provider)
	if err != nil {
		return "", err
	}

	synapse, err := zyn.Transform(analyzeSystemPrompt, provider)
	if err != nil {
		return "", fmt.Errorf("failed to create transform synapse: %w", err)
	}

	response, err := synapse.FireWithInput(ctx, a.session, zyn.TransformInput{
		Text:        prompt,
		Temperature: a.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}
	return response, nil
}

// extractInsight derives an insight from the analysis and submits it to
// the store. Failure here is emitted and swallowed; it never alters the
// analysis returned to the caller.
func (a *Analyzer) extractInsight(ctx context.Context, analysis *Analysis, proposal *Proposal) {
	if a.store == nil || proposal == nil {
		capitan.Error(ctx, InsightExtractionFailed,
			FieldIteration.Field(analysis.Iteration),
			FieldError.Field(fmt.Errorf("missing %s", missingPart(a.store == nil))),
		)
		return
	}

	learning := analysis.Analysis
	if learning == "" {
		learning = NoLearningPlaceholder
	} else {
		learning = bound(learning, KeyLearningLimit)
	}

	a.store.AddInsight(ctx, Insight{
		Goal:         proposal.Goal,
		Strategies:   proposal.StrategiesUsed,
		Success:      analysis.Success,
		KeyLearning:  learning,
		Significance: a.significance(analysis.Success),
	})
}

// outputPreview bounds execution output for the analysis prompt.
func outputPreview(output string) string {
	if output == "" {
		return NoOutputMarker
	}
	if preview := bound(output, OutputPreviewLimit); preview != output {
		return preview + TruncationMarker
	}
	return output
}

// bound cuts a string to at most limit characters (runes, not bytes).
func bound(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// successLabel renders the raw outcome for the degraded analysis text.
func successLabel(success bool) string {
	if success {
		return "Success"
	}
	return "Failed"
}

// missingPart names what broke insight extraction.
func missingPart(storeMissing bool) string {
	if storeMissing {
		return "store"
	}
	return "proposal"
}
