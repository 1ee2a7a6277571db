package rules

import (
	"regexp"
	"strings"

	"github.com/pankaj-dahiya-devops/account-discovery/internal/models"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/selection"
)

var accountIDPattern = regexp.MustCompile(`^[0-9]{12}$`)

// CloudTrailOwnerRule decides whether this account owns the selected trail,
// judged by the account id embedded in the trail's SNS topic ARN. It also
// surfaces the trail identifiers and the list of every visible trail.
type CloudTrailOwnerRule struct{}

func (r CloudTrailOwnerRule) ID() string   { return "CLOUDTRAIL_OWNER" }
func (r CloudTrailOwnerRule) Name() string { return "CloudTrail Owner Account" }

// Apply sets IsCloudTrailOwnerAccount, IsOrganizationTrail,
// CloudTrailSNSTopicArn, CloudTrailTrailArn, and VisibleCloudTrailArns.
func (r CloudTrailOwnerRule) Apply(ctx RuleContext, result models.ClassificationResult) models.ClassificationResult {
	result.IsCloudTrailOwnerAccount = false
	result.IsOrganizationTrail = nil
	result.CloudTrailSNSTopicArn = nil
	result.CloudTrailTrailArn = nil
	result.VisibleCloudTrailArns = selection.VisibleTrailARNs(ctx.Facts.Trails)

	if !ctx.HasTrail {
		return result
	}

	result.CloudTrailSNSTopicArn = nonEmpty(ctx.Trail.SNSTopicARN)
	result.CloudTrailTrailArn = nonEmpty(ctx.Trail.TrailARN)
	if ctx.Trail.IsOrganizationTrail != nil {
		org := *ctx.Trail.IsOrganizationTrail
		result.IsOrganizationTrail = &org
	}
	if owner, ok := AccountFromARN(ctx.Trail.SNSTopicARN); ok {
		result.IsCloudTrailOwnerAccount = owner == ctx.AccountID
	}
	return result
}

// AccountFromARN returns the 12-digit account id held in the fifth
// colon-delimited field of arn. It returns false when arn has fewer fields
// or the field is not an account id.
func AccountFromARN(arn string) (string, bool) {
	parts := strings.SplitN(arn, ":", 6)
	if len(parts) < 6 {
		return "", false
	}
	if !accountIDPattern.MatchString(parts[4]) {
		return "", false
	}
	return parts[4], true
}
