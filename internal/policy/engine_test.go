package policy

import (
	"context"
	"testing"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(context.Background(), DefaultPolicy)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return engine
}

func dispatchInput(numRounds int, phones ...string) map[string]interface{} {
	return map[string]interface{}{
		"origin_number": "+15550100",
		"num_rounds":    numRounds,
		"phones":        phones,
	}
}

func TestDefaultPolicyAllows(t *testing.T) {
	engine := newTestEngine(t)

	action, reason, err := engine.Evaluate(context.Background(), dispatchInput(5, "+15550101", "+15550102"))
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if action != ActionAllow {
		t.Fatalf("expected allow, got %s (%s)", action, reason)
	}
}

func TestDefaultPolicyBlocksExcessiveRounds(t *testing.T) {
	engine := newTestEngine(t)

	action, reason, err := engine.Evaluate(context.Background(), dispatchInput(11, "+15550101"))
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if action != ActionBlock {
		t.Fatalf("expected block, got %s", action)
	}
	if reason != "round count exceeds policy cap" {
		t.Fatalf("unexpected reason: %s", reason)
	}
}

func TestDefaultPolicyBlocksPremiumRate(t *testing.T) {
	engine := newTestEngine(t)

	action, reason, err := engine.Evaluate(context.Background(), dispatchInput(5, "+15550101", "+19005550199"))
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if action != ActionBlock {
		t.Fatalf("expected block, got %s (%s)", action, reason)
	}
	if reason != "premium-rate destination in contact list" {
		t.Fatalf("unexpected reason: %s", reason)
	}
}

func TestDefaultPolicyBlocksOversizedContactList(t *testing.T) {
	engine := newTestEngine(t)

	phones := make([]string, 501)
	for i := range phones {
		phones[i] = "+1555" + string(rune('0'+i%10))
	}
	action, _, err := engine.Evaluate(context.Background(), dispatchInput(5, phones...))
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if action != ActionBlock {
		t.Fatalf("expected block, got %s", action)
	}
}

func TestCustomPolicy(t *testing.T) {
	custom := `
package dispatch_policy

default decision = {"action": "allow", "reason": "default allow"}

decision = {"action": "block", "reason": "dispatch disabled"} {
	input.num_rounds > 0
}
`
	engine, err := NewEngine(context.Background(), custom)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	action, reason, err := engine.Evaluate(context.Background(), dispatchInput(1, "+15550101"))
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if action != ActionBlock || reason != "dispatch disabled" {
		t.Fatalf("custom policy not applied: %s (%s)", action, reason)
	}
}

func TestInvalidPolicyContent(t *testing.T) {
	if _, err := NewEngine(context.Background(), "package dispatch_policy\n\ndecision :="); err == nil {
		t.Fatal("expected error for malformed policy")
	}
}
