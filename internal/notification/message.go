// Package notification builds the account-link message sent to the reactor
// and delivers it over HTTP.
package notification

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/pankaj-dahiya-devops/account-discovery/internal/models"
)

// Message constants.
const (
	MessageVersion = "1"
	MessageSource  = "cfn"

	TypeProvisioned   = "account-link-provisioned"
	TypeDeprovisioned = "account-link-deprovisioned"
)

// Properties are the custom-resource properties the notification handler
// requires. Discovery is optional: when present it holds the discovery
// stack's outputs (as produced by ClassificationResult.StackOutputs).
type Properties struct {
	ExternalID           string
	ReactorCallbackURL   string
	AccountName          string
	ReactorID            string
	AccountID            string
	Region               string
	ResourceOwnerRoleARN string
	Discovery            map[string]string
}

// requiredProperties maps each required property name to its destination.
func (p *Properties) requiredProperties() map[string]*string {
	return map[string]*string{
		"ExternalId":           &p.ExternalID,
		"ReactorCallbackUrl":   &p.ReactorCallbackURL,
		"AccountName":          &p.AccountName,
		"ReactorId":            &p.ReactorID,
		"AccountId":            &p.AccountID,
		"Region":               &p.Region,
		"ResourceOwnerRoleArn": &p.ResourceOwnerRoleARN,
	}
}

// ParseProperties validates raw resource properties. Every required
// property must be present and a string; extra properties are ignored.
// All missing or mistyped names are reported in a single error.
func ParseProperties(raw map[string]any) (Properties, error) {
	var p Properties
	var problems []string
	for name, dst := range p.requiredProperties() {
		v, ok := raw[name]
		if !ok {
			problems = append(problems, name+" is required")
			continue
		}
		s, ok := v.(string)
		if !ok {
			problems = append(problems, fmt.Sprintf("%s must be a string, got %T", name, v))
			continue
		}
		*dst = s
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return Properties{}, fmt.Errorf("invalid resource properties: %s", strings.Join(problems, "; "))
	}

	if d, ok := raw["Discovery"].(map[string]any); ok {
		p.Discovery = make(map[string]string, len(d))
		for k, v := range d {
			if s, ok := v.(string); ok {
				p.Discovery[k] = s
			}
		}
	}
	return p, nil
}

// Message is the account-link message posted to the reactor.
type Message struct {
	Version       string      `json:"version"`
	MessageSource string      `json:"message_source"`
	MessageType   string      `json:"message_type"`
	Data          MessageData `json:"data"`
}

type MessageData struct {
	Metadata  Metadata      `json:"metadata"`
	Links     Links         `json:"links"`
	Discovery DiscoveryData `json:"discovery"`
}

type Metadata struct {
	CloudRegion        string `json:"cloud_region"`
	ExternalID         string `json:"external_id"`
	CloudAccountID     string `json:"cloud_account_id"`
	AccountName        string `json:"cz_account_name"`
	ReactorID          string `json:"reactor_id"`
	ReactorCallbackURL string `json:"reactor_callback_url"`
}

// RoleLink is a cross-account role, or null when not provisioned.
type RoleLink struct {
	RoleARN *string `json:"role_arn"`
}

type CloudTrailOwnerLink struct {
	SQSQueueARN        *string `json:"sqs_queue_arn"`
	SQSQueuePolicyName *string `json:"sqs_queue_policy_name"`
}

type Links struct {
	Audit           RoleLink            `json:"audit"`
	CloudTrailOwner CloudTrailOwnerLink `json:"cloudtrail_owner"`
	MasterPayer     RoleLink            `json:"master_payer"`
	ResourceOwner   RoleLink            `json:"resource_owner"`
	Legacy          RoleLink            `json:"legacy"`
}

// DiscoveryData is the snake_case rendition of a ClassificationResult.
type DiscoveryData struct {
	AuditCloudTrailBucketName    *string `json:"audit_cloudtrail_bucket_name"`
	AuditCloudTrailBucketPrefix  *string `json:"audit_cloudtrail_bucket_prefix"`
	CloudTrailSNSTopicArn        *string `json:"cloudtrail_sns_topic_arn"`
	CloudTrailTrailArn           *string `json:"cloudtrail_trail_arn"`
	IsAuditAccount               bool    `json:"is_audit_account"`
	IsCloudTrailOwnerAccount     bool    `json:"is_cloudtrail_owner_account"`
	IsMasterPayerAccount         bool    `json:"is_master_payer_account"`
	IsOrganizationMasterAccount  bool    `json:"is_organization_master_account"`
	IsOrganizationTrail          *bool   `json:"is_organization_trail"`
	IsResourceOwnerAccount       bool    `json:"is_resource_owner_account"`
	MasterPayerBillingBucketName *string `json:"master_payer_billing_bucket_name"`
	MasterPayerBillingBucketPath *string `json:"master_payer_billing_bucket_path"`
	RemoteCloudTrailBucket       bool    `json:"remote_cloudtrail_bucket"`
	VisibleCloudTrailArns        *string `json:"visible_cloudtrail_arns"`
}

// ResourceOwnerDiscovery is the discovery section sent when no discovery
// outputs accompany the request: the account asserts only that it is a
// resource owner.
func ResourceOwnerDiscovery() DiscoveryData {
	f := false
	return DiscoveryData{
		IsOrganizationTrail:    &f,
		IsResourceOwnerAccount: true,
	}
}

// DiscoveryFromResult converts a classification into the message form.
func DiscoveryFromResult(r models.ClassificationResult) DiscoveryData {
	return DiscoveryData{
		AuditCloudTrailBucketName:    r.AuditCloudTrailBucketName,
		AuditCloudTrailBucketPrefix:  r.AuditCloudTrailBucketPrefix,
		CloudTrailSNSTopicArn:        r.CloudTrailSNSTopicArn,
		CloudTrailTrailArn:           r.CloudTrailTrailArn,
		IsAuditAccount:               r.IsAuditAccount,
		IsCloudTrailOwnerAccount:     r.IsCloudTrailOwnerAccount,
		IsMasterPayerAccount:         r.IsMasterPayerAccount,
		IsOrganizationMasterAccount:  r.IsOrganizationMasterAccount,
		IsOrganizationTrail:          r.IsOrganizationTrail,
		IsResourceOwnerAccount:       r.IsResourceOwnerAccount,
		MasterPayerBillingBucketName: r.MasterPayerBillingBucketName,
		MasterPayerBillingBucketPath: r.MasterPayerBillingBucketPath,
		RemoteCloudTrailBucket:       r.RemoteCloudTrailBucket,
		VisibleCloudTrailArns:        r.VisibleCloudTrailArns,
	}
}

// MessageType returns the message type for a CloudFormation request type.
func MessageType(requestType string) string {
	switch requestType {
	case "Create", "Update":
		return TypeProvisioned
	default:
		return TypeDeprovisioned
	}
}

// BuildMessage assembles the account-link message. Discovery data comes
// from props.Discovery when present and from ResourceOwnerDiscovery
// otherwise.
func BuildMessage(props Properties, requestType string) Message {
	discovery := ResourceOwnerDiscovery()
	if len(props.Discovery) > 0 {
		discovery = DiscoveryFromResult(models.ParseStackOutputs(props.Discovery))
	}

	role := props.ResourceOwnerRoleARN
	return Message{
		Version:       MessageVersion,
		MessageSource: MessageSource,
		MessageType:   MessageType(requestType),
		Data: MessageData{
			Metadata: Metadata{
				CloudRegion:        props.Region,
				ExternalID:         props.ExternalID,
				CloudAccountID:     props.AccountID,
				AccountName:        props.AccountName,
				ReactorID:          props.ReactorID,
				ReactorCallbackURL: props.ReactorCallbackURL,
			},
			Links: Links{
				ResourceOwner: RoleLink{RoleARN: &role},
				Legacy:        RoleLink{RoleARN: &role},
			},
			Discovery: discovery,
		},
	}
}

// AsMap returns m as a generic JSON object, the shape CloudFormation
// response data is sent in.
func (m Message) AsMap() (map[string]any, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	return out, nil
}
