package common

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"go.uber.org/zap"
)

// DefaultAWSClientProvider is the production implementation of AWSClientProvider.
// It resolves credentials through the AWS SDK v2 default chain, optionally
// pinned to a named shared-config profile.
type DefaultAWSClientProvider struct {
	factory       ClientFactory
	defaultRegion string
	logger        *zap.Logger
}

// ProviderOption customises a DefaultAWSClientProvider.
type ProviderOption func(*DefaultAWSClientProvider)

// WithClientFactory replaces the SDK client factory. Tests pass a factory
// that returns fakes.
func WithClientFactory(f ClientFactory) ProviderOption {
	return func(p *DefaultAWSClientProvider) { p.factory = f }
}

// WithDefaultRegion sets the region used when the profile configures none.
func WithDefaultRegion(region string) ProviderOption {
	return func(p *DefaultAWSClientProvider) {
		if region != "" {
			p.defaultRegion = region
		}
	}
}

// WithLogger sets the logger used to report skipped profiles.
func WithLogger(l *zap.Logger) ProviderOption {
	return func(p *DefaultAWSClientProvider) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewDefaultAWSClientProvider returns a provider backed by the real AWS SDK.
func NewDefaultAWSClientProvider(opts ...ProviderOption) *DefaultAWSClientProvider {
	p := &DefaultAWSClientProvider{
		factory:       NewClientSet,
		defaultRegion: "us-east-1",
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ---------------------------------------------------------------------------
// AWSClientProvider implementation
// ---------------------------------------------------------------------------

// LoadProfile loads the AWS SDK config for the named profile and returns a
// ProfileConfig with the account ID resolved through STS.
//
// Pass an empty string to use the default credential chain.
func (p *DefaultAWSClientProvider) LoadProfile(ctx context.Context, profile string) (*ProfileConfig, error) {
	cfg, err := p.loadConfig(ctx, profile)
	if err != nil {
		return nil, err
	}
	return p.profileFromConfig(ctx, profile, cfg, "")
}

// LoadProfileForAccount implements AWSClientProvider. The returned profile
// carries accountID as given.
func (p *DefaultAWSClientProvider) LoadProfileForAccount(ctx context.Context, profile, accountID string) (*ProfileConfig, error) {
	cfg, err := p.loadConfig(ctx, profile)
	if err != nil {
		return nil, err
	}
	return p.profileFromConfig(ctx, profile, cfg, accountID)
}

func (p *DefaultAWSClientProvider) loadConfig(ctx context.Context, profile string) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load AWS profile %q: %w", profileDisplayName(profile), err)
	}
	return cfg, nil
}

// profileFromConfig completes a loaded aws.Config into a ProfileConfig.
// STS is asked for the account ID only when accountID is empty.
func (p *DefaultAWSClientProvider) profileFromConfig(ctx context.Context, profile string, cfg aws.Config, accountID string) (*ProfileConfig, error) {
	if cfg.Region == "" {
		cfg.Region = p.defaultRegion
	}

	clients := p.factory(cfg)

	if accountID == "" {
		id, err := callerAccountID(ctx, clients.STS)
		if err != nil {
			return nil, fmt.Errorf("resolve account ID for profile %q: %w", profileDisplayName(profile), err)
		}
		accountID = id
	}

	return &ProfileConfig{
		ProfileName: profileDisplayName(profile),
		AccountID:   accountID,
		Region:      cfg.Region,
		Config:      cfg,
		Clients:     clients,
	}, nil
}

// LoadAllProfiles discovers every profile defined in ~/.aws/credentials and
// ~/.aws/config, loads each one, and returns the successfully loaded set.
// Profiles that cannot be loaded are logged and skipped so one bad profile
// does not block the rest.
func (p *DefaultAWSClientProvider) LoadAllProfiles(ctx context.Context) ([]*ProfileConfig, error) {
	names, err := discoverProfileNames()
	if err != nil {
		return nil, fmt.Errorf("discover AWS profiles: %w", err)
	}

	var profiles []*ProfileConfig
	for _, name := range names {
		arg := ""
		if name != "default" {
			arg = name
		}

		pc, loadErr := p.LoadProfile(ctx, arg)
		if loadErr != nil {
			p.logger.Warn("skipping AWS profile", zap.String("profile", name), zap.Error(loadErr))
			continue
		}
		profiles = append(profiles, pc)
	}

	return profiles, nil
}

// GetActiveRegions lists the regions the account has opted into. Discovery
// itself never needs it; doctor uses it to prove a regional endpoint answers
// with these credentials.
func (p *DefaultAWSClientProvider) GetActiveRegions(ctx context.Context, cfg *ProfileConfig) ([]string, error) {
	out, err := cfg.Clients.EC2.DescribeRegions(ctx, &ec2.DescribeRegionsInput{AllRegions: aws.Bool(false)})
	if err != nil {
		return nil, fmt.Errorf("describe regions for profile %q: %w", cfg.ProfileName, err)
	}

	var regions []string
	for _, r := range out.Regions {
		if name := aws.ToString(r.RegionName); name != "" {
			regions = append(regions, name)
		}
	}
	return regions, nil
}

// ConfigForRegion returns a copy of cfg.Config with Region set to region.
// Global fact sources (Cost and Usage Reports, Organizations) are pinned to
// us-east-1 through this method.
func (p *DefaultAWSClientProvider) ConfigForRegion(cfg *ProfileConfig, region string) aws.Config {
	regional := cfg.Config
	regional.Region = region
	return regional
}

// ---------------------------------------------------------------------------
// Package-private helpers
// ---------------------------------------------------------------------------

// profileDisplayName names the profile in logs, errors and reports; the
// default credential chain is reported as "default".
func profileDisplayName(profile string) string {
	if profile == "" {
		return "default"
	}
	return profile
}

// callerAccountID asks STS which account the loaded credentials belong to.
func callerAccountID(ctx context.Context, client STSClient) (string, error) {
	out, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("STS GetCallerIdentity: %w", err)
	}
	if id := aws.ToString(out.Account); id != "" {
		return id, nil
	}
	return "", errors.New("STS GetCallerIdentity: empty account")
}

// discoverProfileNames lists the profiles declared in the shared credentials
// and config files, credentials first, without duplicates. The locations
// honour AWS_SHARED_CREDENTIALS_FILE and AWS_CONFIG_FILE.
func discoverProfileNames() ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	credPath := envOr("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(home, ".aws", "credentials"))
	cfgPath := envOr("AWS_CONFIG_FILE", filepath.Join(home, ".aws", "config"))

	var names []string
	seen := make(map[string]struct{})
	for _, src := range []struct {
		path       string
		configFile bool
	}{
		{credPath, false},
		{cfgPath, true},
	} {
		found, err := parseProfilesFromFile(src.path, src.configFile)
		if err != nil {
			return nil, err
		}
		for _, name := range found {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseProfilesFromFile returns the profile names declared by the section
// headers of an INI-style AWS file. A missing file yields no profiles.
func parseProfilesFromFile(path string, configFile bool) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var profiles []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if name, ok := profileSection(scanner.Text(), configFile); ok {
			profiles = append(profiles, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return profiles, nil
}

// profileSection reports the profile named by an INI line, if any.
//
// In the credentials file every section is a profile. In the config file
// only "[default]" and "[profile <name>]" are; sections such as
// "[sso-session x]" or "[services x]" configure something else.
func profileSection(line string, configFile bool) (string, bool) {
	line = strings.TrimSpace(line)
	if len(line) < 2 || line[0] != '[' || line[len(line)-1] != ']' {
		return "", false
	}
	header := strings.TrimSpace(line[1 : len(line)-1])

	if !configFile || header == "default" {
		return header, header != ""
	}
	name, ok := strings.CutPrefix(header, "profile ")
	if !ok {
		return "", false
	}
	name = strings.TrimSpace(name)
	return name, name != ""
}
