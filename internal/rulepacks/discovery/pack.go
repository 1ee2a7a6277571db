// Package discovery provides the account classification rule pack.
// It groups every classification rule into a single New() function that the
// engine wires into a DefaultRuleRegistry before classifying an account.
//
// Convention: every rule pack lives in internal/rulepacks/<domain>/pack.go
// and exposes a single New() func returning []rules.Rule.
package discovery

import "github.com/pankaj-dahiya-devops/account-discovery/internal/rules"

// New returns the default account classification rule pack.
func New() []rules.Rule {
	return []rules.Rule{
		rules.AuditAccountRule{},       // IsAuditAccount, RemoteCloudTrailBucket
		rules.ResourceOwnerRule{},      // IsResourceOwnerAccount
		rules.CloudTrailOwnerRule{},    // IsCloudTrailOwnerAccount, IsOrganizationTrail
		rules.OrganizationMasterRule{}, // IsOrganizationMasterAccount, IsAccountOutsideOrganization
		rules.MasterPayerRule{},        // IsMasterPayerAccount, billing bucket
	}
}

// NewRegistry returns a registry holding every rule from New().
func NewRegistry() *rules.DefaultRuleRegistry {
	reg := rules.NewDefaultRuleRegistry()
	for _, r := range New() {
		reg.Register(r)
	}
	return reg
}
