package rules

import "github.com/pankaj-dahiya-devops/account-discovery/internal/models"

// AuditAccountRule decides whether this account owns the bucket that
// receives CloudTrail logs. When the selected trail delivers to a bucket
// outside LocalBuckets the bucket is remote, owned by another account in the
// estate.
type AuditAccountRule struct{}

func (r AuditAccountRule) ID() string   { return "AUDIT_ACCOUNT" }
func (r AuditAccountRule) Name() string { return "CloudTrail Audit Account" }

// Apply sets IsAuditAccount, RemoteCloudTrailBucket, and the audit bucket
// name and prefix.
func (r AuditAccountRule) Apply(ctx RuleContext, result models.ClassificationResult) models.ClassificationResult {
	result.IsAuditAccount = false
	result.AuditCloudTrailBucketName = nil
	result.AuditCloudTrailBucketPrefix = nil

	if ctx.HasTrail {
		result.IsAuditAccount = ctx.LocalBuckets.Contains(ctx.Trail.S3BucketName)
		result.AuditCloudTrailBucketName = nonEmpty(ctx.Trail.S3BucketName)
		if ctx.Trail.S3KeyPrefix != nil {
			prefix := *ctx.Trail.S3KeyPrefix
			result.AuditCloudTrailBucketPrefix = &prefix
		}
	}
	result.RemoteCloudTrailBucket = !result.IsAuditAccount
	return result
}

// nonEmpty returns a pointer to a copy of s, or nil when s is empty.
func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
