package rules

import "github.com/pankaj-dahiya-devops/account-discovery/internal/models"

// OrganizationMasterRule distinguishes the organization management account,
// member accounts, and accounts outside any organization. A denied
// DescribeOrganization call is indistinguishable from "not in an
// organization" and is classified the same way.
type OrganizationMasterRule struct{}

func (r OrganizationMasterRule) ID() string   { return "ORGANIZATION_MASTER" }
func (r OrganizationMasterRule) Name() string { return "Organization Master Account" }

// Apply sets IsOrganizationMasterAccount and IsAccountOutsideOrganization.
func (r OrganizationMasterRule) Apply(ctx RuleContext, result models.ClassificationResult) models.ClassificationResult {
	result.IsAccountOutsideOrganization = !ctx.InOrganization
	result.IsOrganizationMasterAccount = ctx.InOrganization &&
		ctx.AccountID != "" &&
		ctx.Organization.MasterAccountID == ctx.AccountID
	return result
}
