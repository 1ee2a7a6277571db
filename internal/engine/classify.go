package engine

import (
	"github.com/pankaj-dahiya-devops/account-discovery/internal/models"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/rulepacks/discovery"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/rules"
)

// defaultRegistry holds the account classification rule pack. Rules are
// stateless, so one registry is shared by every classification.
var defaultRegistry rules.RuleRegistry = discovery.NewRegistry()

// Classify derives the account's roles from facts. local is the set of
// buckets owned by accountID.
//
// Classify is pure and total: it never fails, never performs I/O, and
// returns the same result for the same inputs. Absent or malformed facts
// produce the negative/null value for the fields that depend on them.
func Classify(accountID string, facts models.FactSet, local models.BucketSet) models.ClassificationResult {
	return ClassifyWith(defaultRegistry, accountID, facts, local)
}

// ClassifyWith is Classify with an explicit rule registry.
func ClassifyWith(registry rules.RuleRegistry, accountID string, facts models.FactSet, local models.BucketSet) models.ClassificationResult {
	return registry.EvaluateAll(rules.NewRuleContext(accountID, facts, local))
}
