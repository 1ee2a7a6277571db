package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/account-discovery/internal/config"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/models"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/providers/aws/common"
	awsdiscovery "github.com/pankaj-dahiya-devops/account-discovery/internal/providers/aws/discovery"
)

// DoctorResult is the structured output of acctdisc doctor. It can be
// serialised to JSON via --format=json or rendered as a human-readable table
// (default).
type DoctorResult struct {
	AWS struct {
		Profile     string `json:"profile,omitempty"`
		Credentials bool   `json:"credentials_ok"`
		AccountID   string `json:"account_id,omitempty"`
		RegionsOK   bool   `json:"regions_ok"`
		Error       string `json:"error,omitempty"`
	} `json:"aws"`

	// FactSources reports which discovery sources the credentials can read.
	// Unavailable sources degrade classification but do not make the
	// environment unhealthy.
	FactSources struct {
		Checked     bool     `json:"checked"`
		Unavailable []string `json:"unavailable,omitempty"`
	} `json:"fact_sources"`

	Config struct {
		Path    string `json:"path,omitempty"`
		Present bool   `json:"present"`
		Valid   bool   `json:"valid"`
		Error   string `json:"error,omitempty"`
	} `json:"config"`

	OverallHealthy bool `json:"overall_healthy"`
}

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "doctor",
		Short:         "Run environment diagnostics",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			profile, _ := cmd.Flags().GetString("profile")
			path, _ := cmd.Flags().GetString("config")

			var loader config.Loader = config.NewDefaultLoader()
			if path != "" {
				loader = config.NewFileLoader(path)
			}

			result, err := runDoctor(
				context.Background(),
				common.NewDefaultAWSClientProvider(),
				awsdiscovery.NewDefaultFactCollector(nil),
				loader,
				cmd.OutOrStdout(),
				format,
				profile,
			)
			if err != nil {
				return err
			}
			if !result.OverallHealthy {
				// Exit directly so no error text reaches main.go's
				// fmt.Fprintln(os.Stderr, err) path.
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().String("format", "table", `Output format: "table" or "json"`)
	cmd.Flags().String("profile", "", "AWS profile to use (default: credential chain)")
	return cmd
}

// runDoctor collects all diagnostic results, renders them to w in the
// requested format, and returns the result.
// The returned error covers only rendering failures (e.g. JSON encode error).
// Callers must inspect result.OverallHealthy to determine whether the
// environment is healthy.
func runDoctor(
	ctx context.Context,
	awsProvider common.AWSClientProvider,
	collector awsdiscovery.FactCollector,
	loader config.Loader,
	w io.Writer,
	format, profile string,
) (DoctorResult, error) {
	result := collectDoctorResult(ctx, awsProvider, collector, loader, profile)

	switch format {
	case "json":
		if err := json.NewEncoder(w).Encode(result); err != nil {
			return result, fmt.Errorf("encode doctor result: %w", err)
		}
	default:
		renderDoctorTable(result, w)
	}

	return result, nil
}

// collectDoctorResult runs all environment checks and populates a DoctorResult.
// It performs no rendering; callers decide how to present the result.
func collectDoctorResult(
	ctx context.Context,
	awsProvider common.AWSClientProvider,
	collector awsdiscovery.FactCollector,
	loader config.Loader,
	profile string,
) DoctorResult {
	var result DoctorResult

	// Config: stat, then load and validate (the file is optional).
	result.Config.Path = loader.ConfigPath()
	if result.Config.Path != "" {
		if _, err := os.Stat(result.Config.Path); err == nil {
			result.Config.Present = true
		} else if !os.IsNotExist(err) {
			result.Config.Present = true
			result.Config.Error = err.Error()
		}
	}
	if result.Config.Error == "" {
		if _, err := loader.Load(); err != nil {
			result.Config.Error = err.Error()
		} else {
			result.Config.Valid = true
		}
	}

	// AWS: credentials, then STS account ID, then region discovery.
	// An empty profile string selects the default credential chain.
	if profile != "" {
		result.AWS.Profile = profile
	}
	profileCfg, err := awsProvider.LoadProfile(ctx, profile)
	if err != nil {
		result.AWS.Error = err.Error()
	} else {
		result.AWS.Credentials = true
		result.AWS.AccountID = profileCfg.AccountID
		_, err = awsProvider.GetActiveRegions(ctx, profileCfg)
		if err != nil {
			result.AWS.Error = err.Error()
		} else {
			result.AWS.RegionsOK = true
		}

		facts := collector.Collect(ctx, profileCfg, awsProvider, models.DefaultFactNames...)
		result.FactSources.Checked = true
		for _, name := range facts.Failed {
			result.FactSources.Unavailable = append(result.FactSources.Unavailable, string(name))
		}
	}

	result.OverallHealthy = result.AWS.Credentials &&
		result.AWS.RegionsOK &&
		result.Config.Valid

	return result
}

// renderDoctorTable writes the human-readable diagnostic output from result to w.
func renderDoctorTable(result DoctorResult, w io.Writer) {
	fmt.Fprintln(w, "Environment Diagnostics")

	fmt.Fprintln(w, "\nConfig:")
	if !result.Config.Present {
		doctorPrint(w, "config.yaml present", "Not found (optional)", "")
	} else {
		doctorPrint(w, "config.yaml present", "YES", result.Config.Path)
	}
	if result.Config.Valid {
		doctorPrint(w, "Config valid", "OK", "")
	} else {
		doctorPrint(w, "Config valid", "FAIL", result.Config.Error)
	}

	if result.AWS.Profile != "" {
		fmt.Fprintf(w, "\nAWS (profile: %s):\n", result.AWS.Profile)
	} else {
		fmt.Fprintln(w, "\nAWS:")
	}
	if !result.AWS.Credentials {
		doctorPrint(w, "Credentials", "FAIL", result.AWS.Error)
		doctorPrint(w, "STS Identity", "FAIL", "skipped")
		doctorPrint(w, "Regions API", "FAIL", "skipped")
	} else {
		doctorPrint(w, "Credentials", "OK", "")
		doctorPrint(w, "STS Identity", "OK", "Account: "+result.AWS.AccountID)
		if result.AWS.RegionsOK {
			doctorPrint(w, "Regions API", "OK", "")
		} else {
			doctorPrint(w, "Regions API", "FAIL", result.AWS.Error)
		}
	}

	fmt.Fprintln(w, "\nFact sources:")
	switch {
	case !result.FactSources.Checked:
		doctorPrint(w, "Discovery APIs", "SKIPPED", "no credentials")
	case len(result.FactSources.Unavailable) == 0:
		doctorPrint(w, "Discovery APIs", "OK", "")
	default:
		for _, name := range result.FactSources.Unavailable {
			doctorPrint(w, name, "UNAVAILABLE", "default used during classification")
		}
	}
}

// doctorPrint writes a single diagnostic check line to w.
// When detail is non-empty it is appended in parentheses.
func doctorPrint(w io.Writer, label, status, detail string) {
	if detail != "" {
		fmt.Fprintf(w, "  %s: %s (%s)\n", label, status, detail)
	} else {
		fmt.Fprintf(w, "  %s: %s\n", label, status)
	}
}
