package eureka

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/zyn"
)

// Proposal is a generated candidate solution plus its provenance. Proposals
// are immutable once created; the proposer's history is append-only.
type Proposal struct {
	Goal     string `json:"goal"`
	Solution string `json:"solution"` // approach explanation plus code, opaque text

	// StrategiesUsed names the strategies retrieved for the goal.
	// Refinement copies the list unchanged; it never re-queries.
	StrategiesUsed Tags `json:"strategies_used"`

	// Iteration starts at 1 and increments per proposal or refinement
	// within the session.
	Iteration int `json:"iteration"`

	// RefinedFrom is the iteration this proposal was refined from,
	// 0 for a fresh proposal.
	RefinedFrom int `json:"refined_from,omitempty"`
}

// System prompts for the two generation call sites.
const (
	proposeSystemPrompt = "You are an expert problem solver and programmer. " +
		"Your task is to propose a complete, working solution for the given problem. " +
		"Include clear, well-commented code with error handling. " +
		"Explain your approach and why it should work."

	refineSystemPrompt = "You are an expert at improving and debugging code based on feedback."
)

// Proposer generates solution proposals for goals, informed by strategies
// retrieved from the cognition base. It exclusively owns its proposal
// history and shares one zyn session across the proposals of a session.
//
// Generation failure propagates to the caller unmodified. This is the one
// place failure is not swallowed: a missing proposal has nothing to
// execute, so the loop cannot usefully continue without one.
type Proposer struct {
	store       *Store
	provider    Provider
	temperature float32
	session     *zyn.Session
	history     []Proposal
}

// NewProposer creates a proposer over the given cognition base.
func NewProposer(store *Store) *Proposer {
	return &Proposer{
		store:       store,
		temperature: DefaultProposalTemperature,
		session:     zyn.NewSession(),
	}
}

// WithProvider sets the provider for this proposer.
func (p *Proposer) WithProvider(provider Provider) *Proposer {
	p.provider = provider
	return p
}

// WithTemperature sets the generation temperature.
func (p *Proposer) WithTemperature(temp float32) *Proposer {
	p.temperature = temp
	return p
}

// History returns the append-only proposal history. Callers must not
// modify it.
func (p *Proposer) History() []Proposal {
	return p.history
}

// Propose generates a solution proposal for the goal. Strategies are
// retrieved from the store and folded into the request; previous, when
// non-nil, carries the feedback of a prior failed attempt so the generator
// can improve on it.
func (p *Proposer) Propose(ctx context.Context, goal string, previous *TestResult) (*Proposal, error) {
	strategies := p.store.RetrieveStrategies(ctx, goal)

	var b strings.Builder
	fmt.Fprintf(&b, "Goal: %s\n\n", goal)

	if len(strategies) > 0 {
		b.WriteString("Relevant problem-solving strategies:\n")
		for _, strategy := range strategies {
			fmt.Fprintf(&b, "- %s: %s\n", strategy.Name, strategy.Description)
		}
		b.WriteString("\n")
	}

	if previous != nil {
		errText := previous.Error
		if errText == "" {
			errText = "Unknown error"
		}
		fmt.Fprintf(&b, "Previous attempt failed with: %s\n", errText)
		b.WriteString("Please provide an improved solution.\n\n")
	}

	b.WriteString("Please provide:\n" +
		"1. A clear explanation of your approach\n" +
		"2. Complete, working code\n" +
		"3. Expected output or results\n" +
		"4. Time and space complexity analysis if applicable")

	solution, err := p.generate(ctx, proposeSystemPrompt, b.String())
	if err != nil {
		return nil, fmt.Errorf("propose: %w", err)
	}

	names := make(Tags, len(strategies))
	for i, strategy := range strategies {
		names[i] = strategy.Name
	}

	proposal := Proposal{
		Goal:           goal,
		Solution:       solution,
		StrategiesUsed: names,
		Iteration:      len(p.history) + 1,
	}
	p.history = append(p.history, proposal)

	capitan.Emit(ctx, ProposalCreated,
		FieldGoal.Field(goal),
		FieldIteration.Field(proposal.Iteration),
		FieldStrategyCount.Field(len(names)),
		FieldSolutionSize.Field(len(solution)),
	)

	return &proposal, nil
}

// Refine generates an improved proposal from execution feedback. The
// refined proposal carries iteration = proposal.Iteration + 1, records its
// lineage in RefinedFrom, and copies StrategiesUsed unchanged.
func (p *Proposer) Refine(ctx context.Context, proposal *Proposal, feedback *TestResult) (*Proposal, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Original Goal: %s\n\n", proposal.Goal)
	fmt.Fprintf(&b, "Previous Solution:\n%s\n\n", proposal.Solution)
	b.WriteString("Feedback from testing:\n")
	fmt.Fprintf(&b, "- Success: %t\n", feedback.Success)
	fmt.Fprintf(&b, "- Error: %s\n", orNone(feedback.Error))
	fmt.Fprintf(&b, "- Output: %s\n", orNone(feedback.Output))
	fmt.Fprintf(&b, "- Issues: %v\n\n", feedback.Issues)
	b.WriteString("Please provide an improved solution that addresses the feedback.\n" +
		"Keep what works and fix what doesn't.")

	solution, err := p.generate(ctx, refineSystemPrompt, b.String())
	if err != nil {
		return nil, fmt.Errorf("refine: %w", err)
	}

	refined := Proposal{
		Goal:           proposal.Goal,
		Solution:       solution,
		StrategiesUsed: proposal.StrategiesUsed,
		Iteration:      proposal.Iteration + 1,
		RefinedFrom:    proposal.Iteration,
	}
	p.history = append(p.history, refined)

	capitan.Emit(ctx, ProposalRefined,
		FieldGoal.Field(refined.Goal),
		FieldIteration.Field(refined.Iteration),
		FieldRefinedFrom.Field(refined.RefinedFrom),
		FieldSolutionSize.Field(len(solution)),
	)

	return &refined, nil
}

// generate fires one transform synapse call against the proposer's session.
func (p *Proposer) generate(ctx context.Context, systemPrompt, prompt string) (string, error) {
	start := time.Now()

	provider, err := ResolveProvider(ctx, p.provider)
	if err != nil {
		return "", err
	}

	synapse, err := zyn.Transform(systemPrompt, provider)
	if err != nil {
		return "", fmt.Errorf("failed to create transform synapse: %w", err)
	}

	response, err := synapse.FireWithInput(ctx, p.session, zyn.TransformInput{
		Text:        prompt,
		Temperature: p.temperature,
	})
	if err != nil {
		capitan.Error(ctx, GenerationFailed,
			FieldTemperature.Field(p.temperature),
			FieldStepDuration.Field(time.Since(start)),
			FieldError.Field(err),
		)
		return "", fmt.Errorf("generation failed: %w", err)
	}

	return response, nil
}

// orNone substitutes the no-output marker for empty feedback fields.
func orNone(s string) string {
	if s == "" {
		return NoOutputMarker
	}
	return s
}
