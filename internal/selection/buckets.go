package selection

import (
	"github.com/pankaj-dahiya-devops/account-discovery/internal/models"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/schema"
)

// LocalBuckets builds the local bucket inventory from raw bucket records.
// Records without a usable name are dropped.
func LocalBuckets(buckets []models.Record) models.BucketSet {
	valid := schema.FilterValid(schema.Bucket, buckets)
	names := make([]string, 0, len(valid))
	for _, b := range valid {
		if name, ok := stringField(b, "name"); ok {
			names = append(names, name)
		}
	}
	return models.NewBucketSet(names...)
}
