package models

import "strconv"

// ClassificationResult is the outcome of classifying one account.
//
// Every field is always serialized: nullable fields render as JSON null and
// are never omitted, so consumers can rely on the full key set being present.
type ClassificationResult struct {
	AuditCloudTrailBucketName    *string `json:"AuditCloudTrailBucketName"`
	AuditCloudTrailBucketPrefix  *string `json:"AuditCloudTrailBucketPrefix"`
	CloudTrailSNSTopicArn        *string `json:"CloudTrailSNSTopicArn"`
	CloudTrailTrailArn           *string `json:"CloudTrailTrailArn"`
	VisibleCloudTrailArns        *string `json:"VisibleCloudTrailArns"`
	IsAuditAccount               bool    `json:"IsAuditAccount"`
	IsCloudTrailOwnerAccount     bool    `json:"IsCloudTrailOwnerAccount"`
	IsMasterPayerAccount         bool    `json:"IsMasterPayerAccount"`
	IsOrganizationMasterAccount  bool    `json:"IsOrganizationMasterAccount"`
	IsOrganizationTrail          *bool   `json:"IsOrganizationTrail"`
	IsResourceOwnerAccount       bool    `json:"IsResourceOwnerAccount"`
	IsAccountOutsideOrganization bool    `json:"IsAccountOutsideOrganization"`
	MasterPayerBillingBucketName *string `json:"MasterPayerBillingBucketName"`
	MasterPayerBillingBucketPath *string `json:"MasterPayerBillingBucketPath"`
	RemoteCloudTrailBucket       bool    `json:"RemoteCloudTrailBucket"`
}

// ClassificationKeys lists every key of ClassificationResult in the order
// they are rendered by StackOutputs consumers and the table renderer.
var ClassificationKeys = []string{
	"AuditCloudTrailBucketName",
	"AuditCloudTrailBucketPrefix",
	"CloudTrailSNSTopicArn",
	"CloudTrailTrailArn",
	"VisibleCloudTrailArns",
	"IsAuditAccount",
	"IsCloudTrailOwnerAccount",
	"IsMasterPayerAccount",
	"IsOrganizationMasterAccount",
	"IsOrganizationTrail",
	"IsResourceOwnerAccount",
	"IsAccountOutsideOrganization",
	"MasterPayerBillingBucketName",
	"MasterPayerBillingBucketPath",
	"RemoteCloudTrailBucket",
}

// NullOutput is the CloudFormation output value used for an absent field.
const NullOutput = "null"

// DefaultClassification is the result reported when an invocation cannot be
// classified at all. Every boolean is false except RemoteCloudTrailBucket, and
// every nullable field is null.
func DefaultClassification() ClassificationResult {
	return ClassificationResult{RemoteCloudTrailBucket: true}
}

// StackOutputs renders r as CloudFormation custom-resource data. Booleans
// become "true"/"false" and absent values become "null", matching what
// CloudFormation templates compare against with Fn::Equals.
func (r ClassificationResult) StackOutputs() map[string]string {
	return map[string]string{
		"AuditCloudTrailBucketName":    outputString(r.AuditCloudTrailBucketName),
		"AuditCloudTrailBucketPrefix":  outputString(r.AuditCloudTrailBucketPrefix),
		"CloudTrailSNSTopicArn":        outputString(r.CloudTrailSNSTopicArn),
		"CloudTrailTrailArn":           outputString(r.CloudTrailTrailArn),
		"VisibleCloudTrailArns":        outputString(r.VisibleCloudTrailArns),
		"IsAuditAccount":               strconv.FormatBool(r.IsAuditAccount),
		"IsCloudTrailOwnerAccount":     strconv.FormatBool(r.IsCloudTrailOwnerAccount),
		"IsMasterPayerAccount":         strconv.FormatBool(r.IsMasterPayerAccount),
		"IsOrganizationMasterAccount":  strconv.FormatBool(r.IsOrganizationMasterAccount),
		"IsOrganizationTrail":          outputBool(r.IsOrganizationTrail),
		"IsResourceOwnerAccount":       strconv.FormatBool(r.IsResourceOwnerAccount),
		"IsAccountOutsideOrganization": strconv.FormatBool(r.IsAccountOutsideOrganization),
		"MasterPayerBillingBucketName": outputString(r.MasterPayerBillingBucketName),
		"MasterPayerBillingBucketPath": outputString(r.MasterPayerBillingBucketPath),
		"RemoteCloudTrailBucket":       strconv.FormatBool(r.RemoteCloudTrailBucket),
	}
}

// ParseStackOutputs is the inverse of StackOutputs. Keys missing from
// outputs keep their DefaultClassification value; boolean outputs that are
// not "true" parse as false. Only "null" parses as an absent string; ""
// is a present empty value, such as a trail with no key prefix.
func ParseStackOutputs(outputs map[string]string) ClassificationResult {
	r := DefaultClassification()
	str := func(key string, dst **string) {
		if v, ok := outputs[key]; ok && v != NullOutput {
			s := v
			*dst = &s
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := outputs[key]; ok {
			*dst = v == "true"
		}
	}

	str("AuditCloudTrailBucketName", &r.AuditCloudTrailBucketName)
	str("AuditCloudTrailBucketPrefix", &r.AuditCloudTrailBucketPrefix)
	str("CloudTrailSNSTopicArn", &r.CloudTrailSNSTopicArn)
	str("CloudTrailTrailArn", &r.CloudTrailTrailArn)
	str("VisibleCloudTrailArns", &r.VisibleCloudTrailArns)
	str("MasterPayerBillingBucketName", &r.MasterPayerBillingBucketName)
	str("MasterPayerBillingBucketPath", &r.MasterPayerBillingBucketPath)
	boolean("IsAuditAccount", &r.IsAuditAccount)
	boolean("IsCloudTrailOwnerAccount", &r.IsCloudTrailOwnerAccount)
	boolean("IsMasterPayerAccount", &r.IsMasterPayerAccount)
	boolean("IsOrganizationMasterAccount", &r.IsOrganizationMasterAccount)
	boolean("IsResourceOwnerAccount", &r.IsResourceOwnerAccount)
	boolean("IsAccountOutsideOrganization", &r.IsAccountOutsideOrganization)
	boolean("RemoteCloudTrailBucket", &r.RemoteCloudTrailBucket)

	if v, ok := outputs["IsOrganizationTrail"]; ok && v != NullOutput {
		b := v == "true"
		r.IsOrganizationTrail = &b
	}
	return r
}

func outputString(s *string) string {
	if s == nil {
		return NullOutput
	}
	return *s
}

func outputBool(b *bool) string {
	if b == nil {
		return NullOutput
	}
	return strconv.FormatBool(*b)
}
