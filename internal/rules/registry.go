package rules

import (
	"fmt"

	"github.com/pankaj-dahiya-devops/account-discovery/internal/models"
)

// DefaultRuleRegistry is a simple, ordered, in-memory registry.
// Rules are applied in registration order.
// Register panics on duplicate rule IDs to catch wiring mistakes at startup.
type DefaultRuleRegistry struct {
	rules []Rule
	index map[string]struct{}
}

// NewDefaultRuleRegistry returns an empty registry ready for rule registration.
func NewDefaultRuleRegistry() *DefaultRuleRegistry {
	return &DefaultRuleRegistry{
		index: make(map[string]struct{}),
	}
}

// Register adds rule to the registry. Panics if the same ID is registered twice.
func (r *DefaultRuleRegistry) Register(rule Rule) {
	if _, exists := r.index[rule.ID()]; exists {
		panic(fmt.Sprintf("duplicate rule ID: %q", rule.ID()))
	}
	r.rules = append(r.rules, rule)
	r.index[rule.ID()] = struct{}{}
}

// All returns all registered rules in registration order.
func (r *DefaultRuleRegistry) All() []Rule {
	return r.rules
}

// EvaluateAll folds every registered rule over a zero ClassificationResult.
// Each rule receives the value produced by the previous one and returns a
// new value; the result is never shared between calls.
func (r *DefaultRuleRegistry) EvaluateAll(ctx RuleContext) models.ClassificationResult {
	var result models.ClassificationResult
	for _, rule := range r.rules {
		result = rule.Apply(ctx, result)
	}
	return result
}
