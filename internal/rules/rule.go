package rules

import (
	"github.com/pankaj-dahiya-devops/account-discovery/internal/models"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/selection"
)

// RuleContext carries every input a classification rule may read.
// It is built once per classification; rules must never make network calls
// or read external state.
type RuleContext struct {
	// AccountID is the account being classified.
	AccountID string

	// Facts are the raw facts collected for this invocation.
	Facts models.FactSet

	// LocalBuckets is the set of buckets owned by AccountID.
	LocalBuckets models.BucketSet

	// Trail is the best trail selected from Facts.Trails. Zero when
	// HasTrail is false.
	Trail    models.TrailDescriptor
	HasTrail bool

	// Organization is the decoded organization fact. Zero when
	// InOrganization is false.
	Organization   models.Organization
	InOrganization bool
}

// NewRuleContext derives the canonical trail and organization from facts so
// that every rule observes the same selection.
func NewRuleContext(accountID string, facts models.FactSet, local models.BucketSet) RuleContext {
	trail, hasTrail := selection.SelectBestTrail(facts.Trails)
	org, inOrg := selection.SelectOrganization(facts.Organization)
	return RuleContext{
		AccountID:      accountID,
		Facts:          facts,
		LocalBuckets:   local,
		Trail:          trail,
		HasTrail:       hasTrail,
		Organization:   org,
		InOrganization: inOrg,
	}
}

// Rule computes one facet of the classification.
// Rules must be stateless, total, and independent of each other: Apply
// reads only ctx and sets only the fields the rule owns on result.
type Rule interface {
	// ID returns the unique, stable identifier for this rule (e.g. "AUDIT_ACCOUNT").
	ID() string

	// Name returns a short human-readable rule name.
	Name() string

	// Apply returns result with this rule's fields filled in.
	Apply(ctx RuleContext, result models.ClassificationResult) models.ClassificationResult
}

// RuleRegistry manages the set of active rules and drives evaluation.
type RuleRegistry interface {
	// Register adds a rule to the registry. Panics on duplicate ID.
	Register(rule Rule)

	// All returns all registered rules in registration order.
	All() []Rule

	// EvaluateAll applies every registered rule to a zero result.
	EvaluateAll(ctx RuleContext) models.ClassificationResult
}
