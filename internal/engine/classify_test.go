package engine

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/pankaj-dahiya-devops/account-discovery/internal/models"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/selection"
)

// ── fixtures ──────────────────────────────────────────────────────────────────

const (
	ownAccount   = "123456789012"
	otherAccount = "999999999999"
)

// classifyFacts classifies with the local bucket set taken from facts, the
// way the engine does for a collected profile.
func classifyFacts(accountID string, facts models.FactSet) models.ClassificationResult {
	return Classify(accountID, facts, selection.LocalBuckets(facts.Buckets))
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func localTrail() models.Record {
	return models.Record{
		"s3_bucket_name":  "local-bucket",
		"sns_topic_arn":   "arn:aws:sns:us-east-1:123456789012:topic",
		"trail_arn":       "arn:aws:cloudtrail:us-east-1:123456789012:trail/t",
		"is_multi_region": true,
	}
}

// trailPool mixes ideal, minimum, and invalid trails so generated fact sets
// cover every tier.
var trailPool = []models.Record{
	localTrail(),
	{
		"s3_bucket_name":        "org-audit-bucket",
		"s3_key_prefix":         "org",
		"sns_topic_arn":         "arn:aws:sns:us-east-1:222222222222:org-topic",
		"trail_arn":             "arn:aws:cloudtrail:us-east-1:222222222222:trail/org",
		"is_multi_region":       true,
		"is_organization_trail": true,
	},
	{
		"s3_bucket_name":  "single-region",
		"sns_topic_arn":   "arn:aws:sns:eu-west-1:123456789012:topic",
		"trail_arn":       "arn:aws:cloudtrail:eu-west-1:123456789012:trail/regional",
		"is_multi_region": false,
	},
	{"trail_arn": "arn:aws:cloudtrail:us-east-1:123456789012:trail/bare"},
	{"sns_topic_arn": 7, "s3_bucket_name": []string{"x"}},
}

var bucketPool = []models.Record{
	{"name": "local-bucket"},
	{"name": "org-audit-bucket"},
	{"name": "billing-bucket"},
	{"bucket": "no-name-field"},
}

var reportPool = []models.Record{
	{
		"s3_bucket":                  "billing-bucket",
		"s3_prefix":                  "cur",
		"report_name":                "hourly",
		"time_unit":                  "HOURLY",
		"format":                     "textORcsv",
		"compression":                "GZIP",
		"additional_schema_elements": []string{"RESOURCES"},
		"report_versioning":          "CREATE_NEW_REPORT",
		"refresh_closed_reports":     true,
	},
	{"s3_bucket": "remote-billing", "report_name": "daily", "time_unit": "DAILY"},
	{"s3_bucket": "billing-bucket", "report_name": "monthly", "time_unit": "MONTHLY"},
}

var orgPool = []models.Record{
	nil,
	{"id": "o-abc", "master_account_id": ownAccount},
	{"id": "o-abc", "master_account_id": otherAccount},
	{"master_account_id": "not-an-account"},
}

func pick(pool []models.Record, idx []int) []models.Record {
	out := make([]models.Record, 0, len(idx))
	for _, i := range idx {
		out = append(out, pool[i])
	}
	return out
}

func buildFacts(trails, buckets, reports []int, org int) models.FactSet {
	return models.FactSet{}.
		WithTrails(pick(trailPool, trails)).
		WithBuckets(pick(bucketPool, buckets)).
		WithReportDefinitions(pick(reportPool, reports)).
		WithOrganization(orgPool[org])
}

func factGenerators() []gopter.Gen {
	return []gopter.Gen{
		gen.SliceOf(gen.IntRange(0, len(trailPool)-1)),
		gen.SliceOf(gen.IntRange(0, len(bucketPool)-1)),
		gen.SliceOf(gen.IntRange(0, len(reportPool)-1)),
		gen.IntRange(0, len(orgPool)-1),
		gen.OneConstOf(ownAccount, otherAccount, ""),
	}
}

// ── properties ────────────────────────────────────────────────────────────────

func TestClassify_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)
	gens := factGenerators()

	properties.Property("every key is present in the serialized result", prop.ForAll(
		func(trails, buckets, reports []int, org int, account string) bool {
			result := classifyFacts(account, buildFacts(trails, buckets, reports, org))
			data, err := json.Marshal(result)
			if err != nil {
				return false
			}
			var decoded map[string]any
			if err := json.Unmarshal(data, &decoded); err != nil {
				return false
			}
			outputs := result.StackOutputs()
			for _, key := range models.ClassificationKeys {
				if _, ok := decoded[key]; !ok {
					return false
				}
				if _, ok := outputs[key]; !ok {
					return false
				}
			}
			return len(decoded) == len(models.ClassificationKeys)
		},
		gens...,
	))

	properties.Property("classification is idempotent", prop.ForAll(
		func(trails, buckets, reports []int, org int, account string) bool {
			facts := buildFacts(trails, buckets, reports, org)
			return cmp.Equal(classifyFacts(account, facts), classifyFacts(account, facts))
		},
		gens...,
	))

	properties.Property("absent organization means outside and master payer", prop.ForAll(
		func(trails, buckets, reports []int, account string) bool {
			result := classifyFacts(account, buildFacts(trails, buckets, reports, 0))
			return result.IsAccountOutsideOrganization && result.IsMasterPayerAccount &&
				!result.IsOrganizationMasterAccount
		},
		gens[0], gens[1], gens[2], gens[4],
	))

	properties.Property("no trails means no trail-derived fields", prop.ForAll(
		func(buckets, reports []int, org int, account string) bool {
			result := classifyFacts(account, buildFacts(nil, buckets, reports, org))
			return !result.IsAuditAccount && !result.IsCloudTrailOwnerAccount &&
				result.AuditCloudTrailBucketName == nil &&
				result.CloudTrailSNSTopicArn == nil &&
				result.VisibleCloudTrailArns == nil &&
				result.RemoteCloudTrailBucket
		},
		gens[1], gens[2], gens[3], gens[4],
	))

	properties.Property("audit account exactly when the trail bucket is local", prop.ForAll(
		func(trails, buckets, reports []int, org int, account string) bool {
			facts := buildFacts(trails, buckets, reports, org)
			result := classifyFacts(account, facts)
			if result.IsAuditAccount == result.RemoteCloudTrailBucket {
				return false
			}
			if result.AuditCloudTrailBucketName == nil {
				return !result.IsAuditAccount
			}
			local := false
			for _, b := range facts.Buckets {
				if b["name"] == *result.AuditCloudTrailBucketName {
					local = true
				}
			}
			return result.IsAuditAccount == local
		},
		gens...,
	))

	properties.TestingRun(t)
}

// ── scenarios ─────────────────────────────────────────────────────────────────

func TestClassify_LocalTrailOwnedByAccount(t *testing.T) {
	facts := models.FactSet{}.
		WithTrails([]models.Record{localTrail()}).
		WithBuckets([]models.Record{{"name": "local-bucket"}})

	got := classifyFacts(ownAccount, facts)

	want := models.ClassificationResult{
		AuditCloudTrailBucketName:    strPtr("local-bucket"),
		CloudTrailSNSTopicArn:        strPtr("arn:aws:sns:us-east-1:123456789012:topic"),
		CloudTrailTrailArn:           strPtr("arn:aws:cloudtrail:us-east-1:123456789012:trail/t"),
		VisibleCloudTrailArns:        strPtr("arn:aws:cloudtrail:us-east-1:123456789012:trail/t"),
		IsAuditAccount:               true,
		IsCloudTrailOwnerAccount:     true,
		IsMasterPayerAccount:         true,
		IsResourceOwnerAccount:       true,
		IsAccountOutsideOrganization: true,
		RemoteCloudTrailBucket:       false,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestClassify_TrailOwnedByAnotherAccount(t *testing.T) {
	facts := models.FactSet{}.
		WithTrails([]models.Record{localTrail()}).
		WithBuckets([]models.Record{{"name": "local-bucket"}})

	own := classifyFacts(ownAccount, facts)
	other := classifyFacts(otherAccount, facts)

	if other.IsCloudTrailOwnerAccount {
		t.Error("IsCloudTrailOwnerAccount must be false for a different account")
	}
	own.IsCloudTrailOwnerAccount = false
	if diff := cmp.Diff(own, other); diff != "" {
		t.Errorf("only IsCloudTrailOwnerAccount may differ (-own +other):\n%s", diff)
	}
}

func TestClassify_RemoteAuditBucket(t *testing.T) {
	facts := models.FactSet{}.WithTrails([]models.Record{trailPool[1]})
	got := classifyFacts(ownAccount, facts)

	if got.IsAuditAccount || !got.RemoteCloudTrailBucket {
		t.Errorf("bucket is remote: IsAuditAccount=%v RemoteCloudTrailBucket=%v",
			got.IsAuditAccount, got.RemoteCloudTrailBucket)
	}
	if got.AuditCloudTrailBucketPrefix == nil || *got.AuditCloudTrailBucketPrefix != "org" {
		t.Errorf("AuditCloudTrailBucketPrefix = %v; want org", got.AuditCloudTrailBucketPrefix)
	}
	if got.IsOrganizationTrail == nil || !*got.IsOrganizationTrail {
		t.Errorf("IsOrganizationTrail = %v; want true", got.IsOrganizationTrail)
	}
}

func TestClassify_OrganizationMaster(t *testing.T) {
	facts := models.FactSet{}.WithOrganization(models.Record{"master_account_id": ownAccount})

	master := classifyFacts(ownAccount, facts)
	if !master.IsOrganizationMasterAccount || !master.IsMasterPayerAccount || master.IsAccountOutsideOrganization {
		t.Errorf("master account misclassified: %+v", master)
	}

	member := classifyFacts(otherAccount, facts)
	if member.IsOrganizationMasterAccount || member.IsMasterPayerAccount || member.IsAccountOutsideOrganization {
		t.Errorf("member account misclassified: %+v", member)
	}
}

func TestClassify_BillingBucketIndependentOfPayerFlag(t *testing.T) {
	// Member account that nevertheless owns an ideal local report.
	facts := models.FactSet{}.
		WithOrganization(models.Record{"master_account_id": otherAccount}).
		WithBuckets([]models.Record{{"name": "billing-bucket"}}).
		WithReportDefinitions([]models.Record{reportPool[0]})

	got := classifyFacts(ownAccount, facts)
	if got.IsMasterPayerAccount {
		t.Error("member account must not be master payer")
	}
	if got.MasterPayerBillingBucketName == nil || *got.MasterPayerBillingBucketName != "billing-bucket" {
		t.Errorf("MasterPayerBillingBucketName = %v; want billing-bucket", got.MasterPayerBillingBucketName)
	}
	if got.MasterPayerBillingBucketPath == nil || *got.MasterPayerBillingBucketPath != "cur/hourly" {
		t.Errorf("MasterPayerBillingBucketPath = %v; want cur/hourly", got.MasterPayerBillingBucketPath)
	}
}

func TestClassify_EmptyFactSet(t *testing.T) {
	got := Classify("", models.FactSet{}, nil)
	want := models.ClassificationResult{
		IsResourceOwnerAccount:       true,
		IsAccountOutsideOrganization: true,
		IsMasterPayerAccount:         true,
		RemoteCloudTrailBucket:       true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestClassify_DoesNotModifyFacts(t *testing.T) {
	facts := buildFacts([]int{0, 1}, []int{0}, []int{0, 1}, 1)
	before, err := json.Marshal(facts)
	if err != nil {
		t.Fatal(err)
	}
	classifyFacts(ownAccount, facts)
	after, err := json.Marshal(facts)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("Classify must not modify its input facts")
	}
}
