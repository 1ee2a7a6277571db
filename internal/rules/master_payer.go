package rules

import (
	"github.com/pankaj-dahiya-devops/account-discovery/internal/models"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/selection"
)

// MasterPayerRule decides whether this account pays for consolidated
// billing and locates its Cost and Usage Report bucket.
//
// The boolean follows organization membership (a standalone account is its
// own payer) while the bucket comes from report definitions. The two are
// computed independently and may disagree.
type MasterPayerRule struct{}

func (r MasterPayerRule) ID() string   { return "MASTER_PAYER" }
func (r MasterPayerRule) Name() string { return "Master Payer Account" }

// Apply sets IsMasterPayerAccount and the billing bucket name and path.
func (r MasterPayerRule) Apply(ctx RuleContext, result models.ClassificationResult) models.ClassificationResult {
	outside := !ctx.InOrganization
	master := ctx.InOrganization && ctx.AccountID != "" && ctx.Organization.MasterAccountID == ctx.AccountID
	result.IsMasterPayerAccount = outside || master

	result.MasterPayerBillingBucketName, result.MasterPayerBillingBucketPath =
		selection.SelectBillingBucket(ctx.Facts.ReportDefinitions, ctx.LocalBuckets)
	return result
}
