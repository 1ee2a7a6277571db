package common

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// ProfileConfig is a resolved AWS credential source with its SDK
// configuration and initialised clients. It is the unit passed from the
// loader into the fact collector and the engine.
type ProfileConfig struct {
	// ProfileName is the name from ~/.aws/credentials, or "default" for the
	// default credential chain (which is what the Lambda handlers use).
	ProfileName string

	// AccountID is the AWS account ID the credentials belong to, resolved via
	// STS unless the caller supplied it.
	AccountID string

	// Region is the home region for this profile configuration.
	Region string

	// Config is the fully loaded AWS SDK v2 configuration.
	Config aws.Config

	// Clients holds the STS and EC2 clients scoped to Region.
	Clients *ClientSet
}

// AWSClientProvider loads AWS configurations and resolves active regions.
// It is the sole entry point for AWS credential and region management; fact
// sources obtain region-scoped configs through ConfigForRegion.
type AWSClientProvider interface {
	// LoadProfile returns a ProfileConfig for the named profile.
	// Pass an empty string to use the default credential chain.
	LoadProfile(ctx context.Context, profile string) (*ProfileConfig, error)

	// LoadProfileForAccount is LoadProfile for callers that already know the
	// account ID. STS is not called.
	LoadProfileForAccount(ctx context.Context, profile, accountID string) (*ProfileConfig, error)

	// LoadAllProfiles returns ProfileConfigs for every profile found in
	// ~/.aws/credentials and ~/.aws/config that could be loaded.
	LoadAllProfiles(ctx context.Context) ([]*ProfileConfig, error)

	// GetActiveRegions returns the regions enabled for the account
	// associated with cfg.
	GetActiveRegions(ctx context.Context, cfg *ProfileConfig) ([]string, error)

	// ConfigForRegion clones cfg with the target region set.
	ConfigForRegion(cfg *ProfileConfig, region string) aws.Config
}
