package discovery

import (
	"context"
	"errors"

	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/pankaj-dahiya-devops/account-discovery/internal/logging"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/models"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/providers/aws/common"
)

// globalRegion is where the Cost and Usage Report and Organizations APIs
// are reachable.
const globalRegion = "us-east-1"

// DefaultFactCollector is the production FactCollector. CloudTrail, S3 and
// IAM are read in the profile's home region; Cost and Usage Reports and
// Organizations are read in us-east-1.
type DefaultFactCollector struct {
	factory clientFactory
	logger  *zap.Logger
}

// NewDefaultFactCollector returns a collector backed by the real AWS SDK.
func NewDefaultFactCollector(logger *zap.Logger) *DefaultFactCollector {
	return NewDefaultFactCollectorWithFactory(newDefaultClients, logger)
}

// NewDefaultFactCollectorWithFactory returns a collector that uses f to
// create its service clients. Pass a fake factory in tests.
func NewDefaultFactCollectorWithFactory(f clientFactory, logger *zap.Logger) *DefaultFactCollector {
	return &DefaultFactCollector{factory: f, logger: logging.OrNop(logger)}
}

// Collect implements FactCollector. Sources are read one after another on
// the calling goroutine.
func (c *DefaultFactCollector) Collect(
	ctx context.Context,
	profile *common.ProfileConfig,
	provider common.AWSClientProvider,
	names ...models.FactName,
) models.FactSet {
	wanted := make(map[models.FactName]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	log := c.logger.With(
		zap.String("profile", profile.ProfileName),
		zap.String("account_id", profile.AccountID),
	)

	regional := c.factory(provider.ConfigForRegion(profile, profile.Region))
	global := regional
	if profile.Region != globalRegion {
		global = c.factory(provider.ConfigForRegion(profile, globalRegion))
	}

	var facts models.FactSet
	for _, name := range models.DefaultFactNames {
		if len(wanted) > 0 && !wanted[name] {
			continue
		}

		var err error
		switch name {
		case models.FactTrails:
			var trails []models.Record
			if trails, err = collectTrails(ctx, regional.CloudTrail); err == nil {
				facts = facts.WithTrails(trails)
			}
		case models.FactBuckets:
			var buckets []models.Record
			if buckets, err = collectBuckets(ctx, regional.S3); err == nil {
				facts = facts.WithBuckets(buckets)
			}
		case models.FactReportDefinitions:
			var defs []models.Record
			if defs, err = collectReportDefinitions(ctx, global.CUR); err == nil {
				facts = facts.WithReportDefinitions(defs)
			}
		case models.FactOrganization:
			var org models.Record
			org, err = collectOrganization(ctx, global.Organizations)
			switch {
			case errors.Is(err, errOrganizationNotInUse):
				log.Info("account is not a member of an organization", zap.String("source", string(name)))
				err = nil
			case err == nil:
				facts = facts.WithOrganization(org)
			}
		case models.FactAccountAliases:
			var aliases []string
			if aliases, err = collectAccountAliases(ctx, regional.IAM); err == nil {
				facts = facts.WithAccountAliases(aliases)
			}
		}

		if err != nil {
			log.Warn("fact source unavailable, using default",
				zap.String("source", string(name)),
				zap.String("error_code", errorCode(err)),
				zap.Error(err),
			)
			facts = facts.WithFailure(name)
		}
	}
	return facts
}

// errorCode returns the AWS API error code carried by err, or "Unknown" for
// errors that did not come from an AWS API (network, context cancellation).
func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return "Unknown"
}
