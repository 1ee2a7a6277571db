package models

// TrailDescriptor is one CloudTrail trail as seen by the invoking account.
// S3KeyPrefix and IsOrganizationTrail are optional; a trail that declares
// IsOrganizationTrail is preferred over one that does not.
type TrailDescriptor struct {
	S3BucketName        string  `json:"s3_bucket_name"`
	S3KeyPrefix         *string `json:"s3_key_prefix,omitempty"`
	SNSTopicARN         string  `json:"sns_topic_arn"`
	TrailARN            string  `json:"trail_arn"`
	IsMultiRegion       bool    `json:"is_multi_region"`
	IsOrganizationTrail *bool   `json:"is_organization_trail,omitempty"`
}

// ReportDefinition is one Cost and Usage Report definition.
type ReportDefinition struct {
	S3Bucket                 string   `json:"s3_bucket"`
	S3Prefix                 string   `json:"s3_prefix"`
	ReportName               string   `json:"report_name"`
	TimeUnit                 string   `json:"time_unit"`
	Format                   string   `json:"format"`
	Compression              string   `json:"compression"`
	AdditionalSchemaElements []string `json:"additional_schema_elements"`
	ReportVersioning         string   `json:"report_versioning"`
	RefreshClosedReports     bool     `json:"refresh_closed_reports"`
}

// Organization is the AWS Organizations metadata visible to the account.
type Organization struct {
	ID               string `json:"id,omitempty"`
	ARN              string `json:"arn,omitempty"`
	FeatureSet       string `json:"feature_set,omitempty"`
	MasterAccountID  string `json:"master_account_id"`
	MasterAccountARN string `json:"master_account_arn,omitempty"`
}

// BucketSet is the set of S3 bucket names owned by the invoking account.
// A nil BucketSet is empty.
type BucketSet map[string]struct{}

// NewBucketSet returns a BucketSet holding names. Empty names are ignored.
func NewBucketSet(names ...string) BucketSet {
	set := make(BucketSet, len(names))
	for _, n := range names {
		if n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// Contains reports whether name is a locally owned bucket.
func (s BucketSet) Contains(name string) bool {
	if name == "" {
		return false
	}
	_, ok := s[name]
	return ok
}
