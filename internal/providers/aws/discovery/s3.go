package discovery

import (
	"context"
	"fmt"
	"time"

	s3svc "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/pankaj-dahiya-devops/account-discovery/internal/models"
)

// collectBuckets lists every bucket owned by the account. The ListBuckets
// paginator follows continuation tokens for accounts with many buckets.
func collectBuckets(ctx context.Context, client s3APIClient) ([]models.Record, error) {
	paginator := s3svc.NewListBucketsPaginator(client, &s3svc.ListBucketsInput{})
	records := []models.Record{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list S3 buckets: %w", err)
		}
		for _, b := range page.Buckets {
			records = append(records, bucketRecord(b))
		}
	}
	return records, nil
}

func bucketRecord(b s3types.Bucket) models.Record {
	r := models.Record{}
	putString(r, "name", b.Name)
	putString(r, "bucket_region", b.BucketRegion)
	if b.CreationDate != nil {
		r["creation_date"] = b.CreationDate.UTC().Format(time.RFC3339)
	}
	return r
}
