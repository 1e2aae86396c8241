// Package policy gates dispatch requests through an OPA rego policy.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Policy actions.
const (
	ActionAllow = "allow"
	ActionBlock = "block"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.dispatch_policy.decision"),
		rego.Module("dispatch_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate checks the dispatch policy.
// Input should be a map with keys: origin_number, num_rounds, phones.
// Returns: action (allow, block), reason, error.
func (e *Engine) Evaluate(ctx context.Context, input interface{}) (string, string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		// The policy is expected to define a default decision.
		return ActionAllow, "default", nil
	}

	decision, ok := results[0].Expressions[0].Value.(map[string]interface{})
	if !ok {
		return ActionAllow, "unexpected policy return type", nil
	}

	action, _ := decision["action"].(string)
	reason, _ := decision["reason"].(string)
	if action == "" {
		action = ActionAllow
	}
	return action, reason, nil
}

// DefaultPolicy is the default policy content: it caps round counts and
// contact list sizes and refuses premium-rate destinations.
const DefaultPolicy = `
package dispatch_policy

default decision = {"action": "allow", "reason": "default allow"}

decision = {"action": "block", "reason": "round count exceeds policy cap"} {
	input.num_rounds > 10
} else = {"action": "block", "reason": "contact list exceeds policy cap"} {
	count(input.phones) > 500
} else = {"action": "block", "reason": "premium-rate destination in contact list"} {
	premium_rate
}

premium_rate {
	phone := input.phones[_]
	startswith(phone, "+1900")
}
`
