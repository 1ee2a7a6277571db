package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pankaj-dahiya-devops/account-discovery/internal/config"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/engine"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/logging"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/models"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/output"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/providers/aws/common"
	awsdiscovery "github.com/pankaj-dahiya-devops/account-discovery/internal/providers/aws/discovery"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/rulepacks/discovery"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/version"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "acctdisc",
		Short: "Classify the billing and audit roles of AWS accounts",
	}
	root.PersistentFlags().String("config", "", "Path to config file (default: ~/.config/account-discovery/config.yaml)")
	root.PersistentFlags().String("log-level", "", "Log level override: debug, info, warn, error")

	root.AddCommand(newDiscoverCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.Info())
		},
	}
}

// discoverFlags holds the parsed flags of the discover command.
type discoverFlags struct {
	profile     string
	allProfiles bool
	region      string
	accountID   string
	reportFmt   string
	output      string
	summary     bool
	color       bool
	hideNulls   bool
}

// reportFormat is the --report flag value.
type reportFormat string

const (
	reportFormatJSON  reportFormat = "json"
	reportFormatTable reportFormat = "table"
)

func newDiscoverCmd() *cobra.Command {
	var f discoverFlags

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Discover and classify an AWS account",
		Long: "Collect CloudTrail, S3, Cost and Usage Report, and Organizations facts\n" +
			"for an AWS account and report which audit and billing roles it plays.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadRuntime(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if f.profile == "" {
				f.profile = cfg.AWS.DefaultProfile
			}

			provider := common.NewDefaultAWSClientProvider(
				common.WithDefaultRegion(cfg.AWS.DefaultRegion),
				common.WithLogger(logger),
			)
			collector := awsdiscovery.NewDefaultFactCollector(logger)
			eng := engine.NewDiscoveryEngine(provider, collector, discovery.NewRegistry(), logger)

			return runDiscover(cmd.Context(), eng, cmd.OutOrStdout(), f)
		},
	}

	cmd.Flags().StringVar(&f.profile, "profile", "", "AWS profile name (default: uses environment / default profile)")
	cmd.Flags().BoolVar(&f.allProfiles, "all-profiles", false, "Discover all configured AWS profiles")
	cmd.Flags().StringVar(&f.region, "region", "", "Region for CloudTrail, S3 and IAM lookups (default: profile region)")
	cmd.Flags().StringVar(&f.accountID, "account-id", "", "Classify this account ID without an STS caller identity lookup")
	cmd.Flags().StringVar(&f.reportFmt, "report", "table", "Output format: json or table")
	cmd.Flags().StringVar(&f.output, "output", "", "Write full JSON report to this file path (in addition to stdout output)")
	cmd.Flags().BoolVar(&f.summary, "summary", false, "Print one row per account instead of the full output table")
	cmd.Flags().BoolVar(&f.color, "color", false, "Colour output values with ANSI codes")
	cmd.Flags().BoolVar(&f.hideNulls, "hide-nulls", false, "Omit null outputs from the table")

	return cmd
}

// runDiscover runs the engine with the options in f and renders the reports
// to w. It is separated from the cobra command so it can be driven by a stub
// engine.
func runDiscover(ctx context.Context, eng engine.Engine, w io.Writer, f discoverFlags) error {
	format := reportFormat(f.reportFmt)
	if format != reportFormatJSON && format != reportFormatTable {
		return fmt.Errorf("unsupported report format %q (want json or table)", f.reportFmt)
	}
	if f.allProfiles && f.accountID != "" {
		return errors.New("--account-id cannot be combined with --all-profiles")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	opts := engine.DiscoveryOptions{
		Profile:     f.profile,
		AllProfiles: f.allProfiles,
		Region:      f.region,
		AccountID:   f.accountID,
	}

	reports, err := eng.RunDiscovery(ctx, opts)
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	if f.output != "" {
		if err := writeReportToFile(f.output, reports); err != nil {
			return err
		}
	}

	if format == reportFormatJSON {
		return printJSON(w, reports)
	}

	tableOpts := output.TableOptions{Colored: f.color, HideNulls: f.hideNulls}
	if f.summary || f.allProfiles {
		output.RenderSummaryTable(w, reports, tableOpts)
		return nil
	}
	output.RenderDiscoveryTable(w, reports, tableOpts)
	return nil
}

// loadRuntime reads the configuration selected by the --config flag and
// builds the console logger for the CLI.
func loadRuntime(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	level, _ := cmd.Flags().GetString("log-level")

	var loader config.Loader = config.NewDefaultLoader()
	if path != "" {
		loader = config.NewFileLoader(path)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, nil, err
	}
	if level == "" {
		level = cfg.Logging.Level
	}

	logger, err := logging.New(level, "console")
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// reportDocument returns the value serialised for reports: a single object
// for one account, an array otherwise.
func reportDocument(reports []*models.DiscoveryReport) any {
	if len(reports) == 1 {
		return reports[0]
	}
	if reports == nil {
		return []*models.DiscoveryReport{}
	}
	return reports
}

// printJSON writes the reports as indented JSON to w.
func printJSON(w io.Writer, reports []*models.DiscoveryReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reportDocument(reports))
}

// writeReportToFile serialises the reports as indented JSON and writes them
// to path, creating or overwriting the file. It does not affect stdout output.
func writeReportToFile(path string, reports []*models.DiscoveryReport) error {
	data, err := json.MarshalIndent(reportDocument(reports), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report file %q: %w", path, err)
	}
	return nil
}
