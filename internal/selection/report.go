package selection

import (
	"github.com/pankaj-dahiya-devops/account-discovery/internal/models"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/schema"
)

// reportTiers builds the billing report fallback chain for local:
//  1. ideal definitions delivered to a local bucket
//  2. minimum definitions delivered to a local bucket
//  3. ideal definitions anywhere (a remote payer's report)
func reportTiers(local models.BucketSet) []Tier {
	isLocal := func(r models.Record) bool {
		name, _ := stringField(r, "s3_bucket")
		return local.Contains(name)
	}
	return []Tier{
		{Name: "ideal-local", Schema: schema.ReportIdeal, Accept: isLocal},
		{Name: "minimum-local", Schema: schema.ReportMinimum, Accept: isLocal},
		{Name: "ideal-any", Schema: schema.ReportIdeal},
	}
}

// SelectBestReport returns the preferred report definition for local.
func SelectBestReport(defs []models.Record, local models.BucketSet) (models.ReportDefinition, bool) {
	rec, _, ok := SelectFirst(defs, reportTiers(local)...)
	if !ok {
		return models.ReportDefinition{}, false
	}
	return decodeRecord[models.ReportDefinition](rec)
}

// SelectBillingBucket resolves the master payer billing bucket and the
// report path inside it ("{prefix}/{report_name}"). Both are nil when no
// definition qualifies at any tier.
func SelectBillingBucket(defs []models.Record, local models.BucketSet) (name, path *string) {
	def, ok := SelectBestReport(defs, local)
	if !ok || def.S3Bucket == "" {
		return nil, nil
	}
	bucket := def.S3Bucket
	p := def.S3Prefix + "/" + def.ReportName
	return &bucket, &p
}
