package eureka

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/zoobzio/capitan"
	capitantesting "github.com/zoobzio/capitan/testing"
)

// getStringField extracts a string field value from a captured event.
func getStringField(event capitantesting.CapturedEvent, keyName string) string {
	for _, f := range event.Fields {
		if f.Key().Name() == keyName {
			if v, ok := f.Value().(string); ok {
				return v
			}
		}
	}
	return ""
}

// getIntField extracts an int field value from a captured event.
func getIntField(event capitantesting.CapturedEvent, keyName string) int {
	for _, f := range event.Fields {
		if f.Key().Name() == keyName {
			if v, ok := f.Value().(int); ok {
				return v
			}
		}
	}
	return 0
}

// TestInsightRecordedEvent verifies InsightRecorded signal emission.
func TestInsightRecordedEvent(t *testing.T) {
	capture := capitantesting.NewEventCapture()
	listener := capitan.Hook(InsightRecorded, capture.Handler())
	defer listener.Close()

	store := newSeededStore()
	store.AddInsight(context.Background(), Insight{
		Goal:         "signal goal",
		Success:      true,
		Significance: SignificanceSuccess,
	})

	if !capture.WaitForCount(1, time.Second) {
		t.Fatal("expected InsightRecorded event")
	}

	events := capture.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if goal := getStringField(events[0], FieldGoal.Name()); goal != "signal goal" {
		t.Errorf("expected goal 'signal goal', got %q", goal)
	}
	if outcome := getStringField(events[0], FieldOutcome.Name()); outcome != "success" {
		t.Errorf("expected outcome 'success', got %q", outcome)
	}
	if count := getIntField(events[0], FieldInsightCount.Name()); count != 1 {
		t.Errorf("expected insight count 1, got %d", count)
	}
}

// TestInsightPromotedEvent verifies promotion emits alongside recording.
func TestInsightPromotedEvent(t *testing.T) {
	capture := capitantesting.NewEventCapture()
	listener := capitan.Hook(InsightPromoted, capture.Handler())
	defer listener.Close()

	store := newSeededStore()
	store.AddInsight(context.Background(), Insight{Goal: "minor", Significance: 0.5})
	store.AddInsight(context.Background(), Insight{Goal: "major", Significance: 0.9})

	if !capture.WaitForCount(1, time.Second) {
		t.Fatal("expected InsightPromoted event")
	}

	events := capture.Events()
	if len(events) != 1 {
		t.Fatalf("only the significant insight should promote, got %d events", len(events))
	}
	if goal := getStringField(events[0], FieldGoal.Name()); goal != "major" {
		t.Errorf("expected goal 'major', got %q", goal)
	}
	if count := getIntField(events[0], FieldPatternCount.Name()); count != 1 {
		t.Errorf("expected pattern count 1, got %d", count)
	}
}

// TestCataloguePersistFailedEvent verifies the persist failure signal.
func TestCataloguePersistFailedEvent(t *testing.T) {
	capture := capitantesting.NewEventCapture()
	listener := capitan.Hook(CataloguePersistFailed, capture.Handler())
	defer listener.Close()

	backend := &mockCatalogueStore{saveErr: fmt.Errorf("disk full")}
	store := NewStore(context.Background(), backend)
	store.AddInsight(context.Background(), Insight{Goal: "goal", Significance: 0.9})

	if !capture.WaitForCount(1, time.Second) {
		t.Fatal("expected CataloguePersistFailed event")
	}
}

// TestProposalCreatedEvent verifies proposal signal field data.
func TestProposalCreatedEvent(t *testing.T) {
	capture := capitantesting.NewEventCapture()
	listener := capitan.Hook(ProposalCreated, capture.Handler())
	defer listener.Close()

	proposer := NewProposer(newSeededStore()).WithProvider(&mockProvider{})
	if _, err := proposer.Propose(context.Background(), "optimize this search", nil); err != nil {
		t.Fatalf("propose failed: %v", err)
	}

	if !capture.WaitForCount(1, time.Second) {
		t.Fatal("expected ProposalCreated event")
	}

	events := capture.Events()
	if goal := getStringField(events[0], FieldGoal.Name()); goal != "optimize this search" {
		t.Errorf("expected the goal field, got %q", goal)
	}
	if iter := getIntField(events[0], FieldIteration.Name()); iter != 1 {
		t.Errorf("expected iteration 1, got %d", iter)
	}
	if count := getIntField(events[0], FieldStrategyCount.Name()); count != 1 {
		t.Errorf("expected strategy count 1, got %d", count)
	}
}

// TestLoopLifecycleEvents verifies start and stop signals bracket a run.
func TestLoopLifecycleEvents(t *testing.T) {
	started := capitantesting.NewEventCapture()
	startListener := capitan.Hook(LoopStarted, started.Handler())
	defer startListener.Close()

	stopped := capitantesting.NewEventCapture()
	stopListener := capitan.Hook(LoopStopped, stopped.Handler())
	defer stopListener.Close()

	loop := NewLoop(newSeededStore(), &mockExecutor{}).WithProvider(&mockProvider{})
	attempt, err := loop.Run(context.Background(), "goal")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if !started.WaitForCount(1, time.Second) {
		t.Fatal("expected LoopStarted event")
	}
	if !stopped.WaitForCount(1, time.Second) {
		t.Fatal("expected LoopStopped event")
	}

	startEvents := started.Events()
	if trace := getStringField(startEvents[0], FieldTraceID.Name()); trace != attempt.TraceID {
		t.Errorf("trace ID mismatch: %q vs %q", trace, attempt.TraceID)
	}

	stopEvents := stopped.Events()
	if outcome := getStringField(stopEvents[0], FieldOutcome.Name()); outcome != "success" {
		t.Errorf("expected outcome 'success', got %q", outcome)
	}
}
