package discovery

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	cloudtrailsvc "github.com/aws/aws-sdk-go-v2/service/cloudtrail"
	cloudtrailtypes "github.com/aws/aws-sdk-go-v2/service/cloudtrail/types"

	"github.com/pankaj-dahiya-devops/account-discovery/internal/models"
)

// collectTrails calls DescribeTrails with IncludeShadowTrails so that an
// organization trail owned by the management account is visible from
// member accounts.
func collectTrails(ctx context.Context, client cloudTrailAPIClient) ([]models.Record, error) {
	out, err := client.DescribeTrails(ctx, &cloudtrailsvc.DescribeTrailsInput{
		IncludeShadowTrails: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("describe trails: %w", err)
	}

	records := make([]models.Record, 0, len(out.TrailList))
	for _, t := range out.TrailList {
		records = append(records, trailRecord(t))
	}
	return records, nil
}

// trailRecord converts an SDK trail into a fact record. Nil fields are left
// out so the schema's required-field checks see them as absent.
func trailRecord(t cloudtrailtypes.Trail) models.Record {
	r := models.Record{}
	putString(r, "s3_bucket_name", t.S3BucketName)
	putString(r, "s3_key_prefix", t.S3KeyPrefix)
	putString(r, "sns_topic_arn", t.SnsTopicARN)
	putString(r, "trail_arn", t.TrailARN)
	putBool(r, "is_multi_region", t.IsMultiRegionTrail)
	putBool(r, "is_organization_trail", t.IsOrganizationTrail)
	putString(r, "name", t.Name)
	putString(r, "home_region", t.HomeRegion)
	return r
}
