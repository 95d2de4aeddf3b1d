package eureka

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pipz"
)

// TestResult is the structured pass/fail outcome of executing a proposed
// solution. It is produced by the external executor collaborator and only
// ever consumed here.
type TestResult struct {
	Success bool     `json:"success"`
	Output  string   `json:"output,omitempty"`
	Error   string   `json:"error,omitempty"`
	Issues  []string `json:"issues,omitempty"`
}

// Validation is the external validator's judgment of whether an executed
// solution meets the goal. Consumed only, never produced, by the core.
type Validation struct {
	MeetsGoal  bool     `json:"meets_goal"`
	Confidence float64  `json:"confidence"`
	Notes      []string `json:"notes,omitempty"`
}

// Executor is the external execute-and-validate collaborator: it receives
// a proposal's solution text (expected to contain executable code) and
// returns the test result and validation for it.
type Executor interface {
	Execute(ctx context.Context, solution string) (TestResult, Validation, error)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, solution string) (TestResult, Validation, error)

// Execute implements Executor.
func (f ExecutorFunc) Execute(ctx context.Context, solution string) (TestResult, Validation, error) {
	return f(ctx, solution)
}

// Attempt is the state carried through one refinement cycle: the goal, the
// current proposal, and the latest execution, validation, and analysis
// results. It is the value the loop's pipz sequence processes.
type Attempt struct {
	Goal    string
	TraceID string

	Proposal   *Proposal
	Result     TestResult
	Validation Validation
	Analysis   *Analysis
}

// Loop composes Proposer, Executor, and Analyzer into the full refinement
// cycle: propose, execute, analyze, then refine from the analysis feedback
// or stop. Each iteration runs as a pipz sequence over the Attempt; stages
// execute strictly in order with no overlap and no internal retries. Retry
// and timeout policy belongs to the caller (see the connector helpers in
// helpers.go).
type Loop struct {
	store    *Store
	proposer *Proposer
	analyzer *Analyzer
	reporter *Reporter
	executor Executor

	maxIterations int
	pipeline      pipz.Chainable[*Attempt]
}

// NewLoop creates a refinement loop over the given cognition base and
// executor, with freshly constructed proposer, analyzer, and reporter.
func NewLoop(store *Store, executor Executor) *Loop {
	l := &Loop{
		store:         store,
		proposer:      NewProposer(store),
		analyzer:      NewAnalyzer(store),
		executor:      executor,
		maxIterations: DefaultMaxIterations,
	}
	l.reporter = NewReporter(l.analyzer, store)
	l.pipeline = Sequence("iteration",
		Do("propose", l.propose),
		Do("execute", l.execute),
		Do("analyze", l.analyze),
	)
	return l
}

// WithMaxIterations bounds the number of refinement cycles per run.
func (l *Loop) WithMaxIterations(n int) *Loop {
	if n < 1 {
		n = 1
	}
	l.maxIterations = n
	return l
}

// WithProvider sets the provider on both the proposer and the analyzer.
func (l *Loop) WithProvider(p Provider) *Loop {
	l.proposer.WithProvider(p)
	l.analyzer.WithProvider(p)
	return l
}

// Proposer returns the loop's proposer.
func (l *Loop) Proposer() *Proposer {
	return l.proposer
}

// Analyzer returns the loop's analyzer.
func (l *Loop) Analyzer() *Analyzer {
	return l.analyzer
}

// Reporter returns the loop's reporter; it can be consulted at any point
// without disturbing the cycle.
func (l *Loop) Reporter() *Reporter {
	return l.reporter
}

// Run drives the refinement cycle for a goal until validation confirms the
// goal is met or the iteration bound is reached. The final attempt state is
// always returned; the error is non-nil only when proposal generation
// fails, the one failure that cannot be degraded in place.
func (l *Loop) Run(ctx context.Context, goal string) (*Attempt, error) {
	attempt := &Attempt{
		Goal:    goal,
		TraceID: uuid.New().String(),
	}

	capitan.Emit(ctx, LoopStarted,
		FieldGoal.Field(goal),
		FieldTraceID.Field(attempt.TraceID),
	)

	for i := 0; i < l.maxIterations; i++ {
		if _, err := l.pipeline.Process(ctx, attempt); err != nil {
			capitan.Error(ctx, LoopStopped,
				FieldTraceID.Field(attempt.TraceID),
				FieldIteration.Field(i+1),
				FieldError.Field(err),
			)
			return attempt, fmt.Errorf("loop: iteration %d: %w", i+1, err)
		}

		capitan.Emit(ctx, LoopIterationCompleted,
			FieldTraceID.Field(attempt.TraceID),
			FieldIteration.Field(attempt.Proposal.Iteration),
			FieldOutcome.Field(outcome(attempt.Result.Success)),
		)

		if attempt.Result.Success && attempt.Validation.MeetsGoal {
			break
		}
	}

	capitan.Emit(ctx, LoopStopped,
		FieldTraceID.Field(attempt.TraceID),
		FieldIteration.Field(attempt.Proposal.Iteration),
		FieldOutcome.Field(outcome(attempt.Result.Success && attempt.Validation.MeetsGoal)),
	)

	return attempt, nil
}

// propose generates the first proposal or refines the current one from the
// latest feedback. Generation failure propagates: there is nothing to
// execute without a proposal.
func (l *Loop) propose(ctx context.Context, attempt *Attempt) (*Attempt, error) {
	var proposal *Proposal
	var err error
	if attempt.Proposal == nil {
		proposal, err = l.proposer.Propose(ctx, attempt.Goal, nil)
	} else {
		proposal, err = l.proposer.Refine(ctx, attempt.Proposal, &attempt.Result)
	}
	if err != nil {
		return attempt, err
	}
	attempt.Proposal = proposal
	return attempt, nil
}

// execute runs the external collaborator. A transport-level executor error
// is recorded as a failed test result rather than propagated, so the
// analyze stage still sees a structured outcome.
func (l *Loop) execute(ctx context.Context, attempt *Attempt) (*Attempt, error) {
	result, validation, err := l.executor.Execute(ctx, attempt.Proposal.Solution)
	if err != nil {
		result = TestResult{Success: false, Error: err.Error()}
		validation = Validation{}
	}
	attempt.Result = result
	attempt.Validation = validation
	return attempt, nil
}

// analyze records the attempt outcome; it never fails.
func (l *Loop) analyze(ctx context.Context, attempt *Attempt) (*Attempt, error) {
	attempt.Analysis = l.analyzer.Analyze(ctx, attempt.Proposal, attempt.Result, attempt.Validation)
	return attempt, nil
}
