package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pankaj-dahiya-devops/account-discovery/internal/logging"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/models"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/providers/aws/common"
	awsdiscovery "github.com/pankaj-dahiya-devops/account-discovery/internal/providers/aws/discovery"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/rules"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/selection"
)

// maxConcurrentProfiles is the maximum number of profiles discovered in
// parallel by --all-profiles.
const maxConcurrentProfiles = 3

// DiscoveryEngine is the production implementation of Engine.
// Each profile is a self-contained invocation: facts are collected and
// classified sequentially on one goroutine.
type DiscoveryEngine struct {
	provider  common.AWSClientProvider
	collector awsdiscovery.FactCollector
	registry  rules.RuleRegistry
	logger    *zap.Logger
	now       func() time.Time
}

// NewDiscoveryEngine constructs a DiscoveryEngine. A nil registry selects
// the default classification rule pack; a nil logger discards logs.
func NewDiscoveryEngine(
	provider common.AWSClientProvider,
	collector awsdiscovery.FactCollector,
	registry rules.RuleRegistry,
	logger *zap.Logger,
) *DiscoveryEngine {
	if registry == nil {
		registry = defaultRegistry
	}
	return &DiscoveryEngine{
		provider:  provider,
		collector: collector,
		registry:  registry,
		logger:    logging.OrNop(logger),
		now:       time.Now,
	}
}

// RunDiscovery implements Engine.
func (e *DiscoveryEngine) RunDiscovery(ctx context.Context, opts DiscoveryOptions) ([]*models.DiscoveryReport, error) {
	if opts.AllProfiles {
		return e.runAllProfiles(ctx, opts)
	}

	var (
		profile *common.ProfileConfig
		err     error
	)
	if opts.AccountID != "" {
		// No STS call for a supplied account.
		profile, err = e.provider.LoadProfileForAccount(ctx, opts.Profile, opts.AccountID)
	} else {
		profile, err = e.provider.LoadProfile(ctx, opts.Profile)
	}
	if err != nil {
		return nil, fmt.Errorf("load profile %q: %w", opts.Profile, err)
	}
	report := e.discoverProfile(ctx, profile, opts.Region, opts.AccountID)
	return []*models.DiscoveryReport{report}, nil
}

// runAllProfiles discovers every loadable profile with bounded concurrency.
// Reports are returned in profile order. An error is returned only when no
// profile could be loaded or the context was cancelled.
func (e *DiscoveryEngine) runAllProfiles(ctx context.Context, opts DiscoveryOptions) ([]*models.DiscoveryReport, error) {
	profiles, err := e.provider.LoadAllProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("load all profiles: %w", err)
	}
	if len(profiles) == 0 {
		return nil, errors.New("no AWS profiles found")
	}

	reports := make([]*models.DiscoveryReport, len(profiles))
	sem := make(chan struct{}, maxConcurrentProfiles)
	g, gctx := errgroup.WithContext(ctx)

PROFILES:
	for i, profile := range profiles {
		select {
		case sem <- struct{}{}:
		case <-gctx.Done():
			break PROFILES
		}

		g.Go(func() error {
			defer func() { <-sem }()
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = e.discoverProfile(gctx, profile, opts.Region, "")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return reports, nil
}

// discoverProfile collects and classifies one account. accountID, when
// non-empty, is classified instead of profile.AccountID.
func (e *DiscoveryEngine) discoverProfile(
	ctx context.Context,
	profile *common.ProfileConfig,
	region, accountID string,
) *models.DiscoveryReport {
	if region != "" && region != profile.Region {
		scoped := *profile
		scoped.Region = region
		scoped.Config = e.provider.ConfigForRegion(profile, region)
		profile = &scoped
	}
	if accountID == "" {
		accountID = profile.AccountID
	}

	facts := e.collector.Collect(ctx, profile, e.provider)
	local := selection.LocalBuckets(facts.Buckets)
	result := ClassifyWith(e.registry, accountID, facts, local)

	e.logger.Info("account classified",
		zap.String("profile", profile.ProfileName),
		zap.String("account_id", accountID),
		zap.Bool("audit_account", result.IsAuditAccount),
		zap.Bool("cloudtrail_owner", result.IsCloudTrailOwnerAccount),
		zap.Bool("master_payer", result.IsMasterPayerAccount),
		zap.Int("failed_sources", len(facts.Failed)),
	)

	return &models.DiscoveryReport{
		ReportID:       uuid.NewString(),
		GeneratedAt:    e.now().UTC(),
		Profile:        profile.ProfileName,
		AccountID:      accountID,
		AccountAliases: facts.AccountAliases,
		Region:         profile.Region,
		FailedSources:  facts.Failed,
		Result:         result,
	}
}
