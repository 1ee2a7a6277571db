package engine

import (
	"context"

	"github.com/pankaj-dahiya-devops/account-discovery/internal/models"
)

// DiscoveryOptions configures a single discovery run.
// It is the sole input to Engine.RunDiscovery.
type DiscoveryOptions struct {
	// Profile is the named AWS profile to use. Empty means the default
	// credential chain.
	Profile string

	// AllProfiles, when true, discovers every configured AWS profile.
	AllProfiles bool

	// Region overrides the profile's home region for the regional fact
	// sources (CloudTrail, S3, IAM). Empty keeps the profile's region.
	Region string

	// AccountID, when set, is the account classified. STS is then not
	// called at all. The CloudFormation handler sets it from the resource
	// properties. Ignored when AllProfiles is true.
	AccountID string
}

// Engine is the central orchestration interface.
// It loads credentials, collects facts, classifies, and returns one
// DiscoveryReport per discovered profile.
//
// Engine must not call the AWS SDK directly; it delegates to the provider
// and collector interfaces.
type Engine interface {
	RunDiscovery(ctx context.Context, opts DiscoveryOptions) ([]*models.DiscoveryReport, error)
}
