package rules

import "github.com/pankaj-dahiya-devops/account-discovery/internal/models"

// ResourceOwnerRule asserts that the invoking account owns its resources.
// Any account that reaches classification answered the discovery call, so
// the predicate holds regardless of the collected facts.
type ResourceOwnerRule struct{}

func (r ResourceOwnerRule) ID() string   { return "RESOURCE_OWNER" }
func (r ResourceOwnerRule) Name() string { return "Resource Owner Account" }

func (r ResourceOwnerRule) Apply(_ RuleContext, result models.ClassificationResult) models.ClassificationResult {
	result.IsResourceOwnerAccount = true
	return result
}
