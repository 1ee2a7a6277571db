package discovery

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	cloudtrailsvc "github.com/aws/aws-sdk-go-v2/service/cloudtrail"
	cursvc "github.com/aws/aws-sdk-go-v2/service/costandusagereportservice"
	iamsvc "github.com/aws/aws-sdk-go-v2/service/iam"
	orgsvc "github.com/aws/aws-sdk-go-v2/service/organizations"
	s3svc "github.com/aws/aws-sdk-go-v2/service/s3"
)

// cloudTrailAPIClient is the narrow CloudTrail interface. DescribeTrails
// returns every trail visible to the account, including shadow trails.
type cloudTrailAPIClient interface {
	DescribeTrails(ctx context.Context, params *cloudtrailsvc.DescribeTrailsInput, optFns ...func(*cloudtrailsvc.Options)) (*cloudtrailsvc.DescribeTrailsOutput, error)
}

// s3APIClient embeds the SDK paginator interface so NewListBucketsPaginator
// can drive it directly.
type s3APIClient interface {
	s3svc.ListBucketsAPIClient
}

// curAPIClient is the narrow Cost and Usage Report interface.
type curAPIClient interface {
	cursvc.DescribeReportDefinitionsAPIClient
}

// organizationsAPIClient is the narrow Organizations interface.
type organizationsAPIClient interface {
	DescribeOrganization(ctx context.Context, params *orgsvc.DescribeOrganizationInput, optFns ...func(*orgsvc.Options)) (*orgsvc.DescribeOrganizationOutput, error)
}

// iamAPIClient is the narrow IAM interface used for account aliases.
type iamAPIClient interface {
	iamsvc.ListAccountAliasesAPIClient
}

// discoveryClients bundles the service clients used by the fact collector.
type discoveryClients struct {
	CloudTrail    cloudTrailAPIClient
	S3            s3APIClient
	CUR           curAPIClient
	Organizations organizationsAPIClient
	IAM           iamAPIClient
}

// clientFactory creates discoveryClients from an AWS config.
// Injection point: tests replace this with a function returning fake clients.
type clientFactory func(cfg aws.Config) *discoveryClients

// newDefaultClients creates production AWS SDK clients from the given config.
func newDefaultClients(cfg aws.Config) *discoveryClients {
	return &discoveryClients{
		CloudTrail:    cloudtrailsvc.NewFromConfig(cfg),
		S3:            s3svc.NewFromConfig(cfg),
		CUR:           cursvc.NewFromConfig(cfg),
		Organizations: orgsvc.NewFromConfig(cfg),
		IAM:           iamsvc.NewFromConfig(cfg),
	}
}
