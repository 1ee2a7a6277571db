package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pankaj-dahiya-devops/account-discovery/internal/engine"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/models"
)

// ── engine stub ──────────────────────────────────────────────────────────────

type stubEngine struct {
	reports []*models.DiscoveryReport
	err     error
	got     engine.DiscoveryOptions
	calls   int
}

func (s *stubEngine) RunDiscovery(_ context.Context, opts engine.DiscoveryOptions) ([]*models.DiscoveryReport, error) {
	s.calls++
	s.got = opts
	return s.reports, s.err
}

// ── helpers ──────────────────────────────────────────────────────────────────

func strPtr(s string) *string { return &s }

func makeReport(profile, accountID string) *models.DiscoveryReport {
	result := models.DefaultClassification()
	result.IsResourceOwnerAccount = true
	result.IsMasterPayerAccount = true
	result.IsAccountOutsideOrganization = true
	result.MasterPayerBillingBucketName = strPtr("billing-bucket")
	return &models.DiscoveryReport{
		ReportID:    "report-" + profile,
		GeneratedAt: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
		Profile:     profile,
		AccountID:   accountID,
		Region:      "us-east-1",
		Result:      result,
	}
}

func discover(t *testing.T, eng *stubEngine, f discoverFlags) string {
	t.Helper()
	var buf bytes.Buffer
	if err := runDiscover(context.Background(), eng, &buf, f); err != nil {
		t.Fatalf("runDiscover: %v", err)
	}
	return buf.String()
}

// ── root command ─────────────────────────────────────────────────────────────

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	want := map[string]bool{"discover": false, "doctor": false, "version": false}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("root command missing %q subcommand", name)
		}
	}
}

func TestDiscoverCmd_Flags(t *testing.T) {
	cmd := newDiscoverCmd()
	for _, name := range []string{"profile", "all-profiles", "region", "account-id", "report", "output", "summary", "color", "hide-nulls"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("discover command missing --%s flag", name)
		}
	}
	if got := cmd.Flags().Lookup("report").DefValue; got != "table" {
		t.Errorf("--report default = %q; want table", got)
	}
}

// ── runDiscover: options ─────────────────────────────────────────────────────

func TestRunDiscover_ForwardsOptions(t *testing.T) {
	eng := &stubEngine{reports: []*models.DiscoveryReport{makeReport("prod", "123456789012")}}
	discover(t, eng, discoverFlags{
		profile:   "prod",
		region:    "eu-west-1",
		accountID: "123456789012",
		reportFmt: "json",
	})

	want := engine.DiscoveryOptions{
		Profile:   "prod",
		Region:    "eu-west-1",
		AccountID: "123456789012",
	}
	if eng.got != want {
		t.Errorf("options = %+v; want %+v", eng.got, want)
	}
}

func TestRunDiscover_InvalidFormat(t *testing.T) {
	eng := &stubEngine{}
	err := runDiscover(context.Background(), eng, &bytes.Buffer{}, discoverFlags{reportFmt: "xml"})
	if err == nil || !strings.Contains(err.Error(), "xml") {
		t.Fatalf("expected unsupported format error; got %v", err)
	}
	if eng.calls != 0 {
		t.Error("engine must not run for an invalid format")
	}
}

func TestRunDiscover_AccountIDWithAllProfiles(t *testing.T) {
	eng := &stubEngine{}
	err := runDiscover(context.Background(), eng, &bytes.Buffer{}, discoverFlags{
		reportFmt:   "table",
		allProfiles: true,
		accountID:   "123456789012",
	})
	if err == nil {
		t.Fatal("expected error combining --account-id with --all-profiles")
	}
	if eng.calls != 0 {
		t.Error("engine must not run for conflicting flags")
	}
}

func TestRunDiscover_EngineError(t *testing.T) {
	eng := &stubEngine{err: errors.New("no credentials")}
	err := runDiscover(context.Background(), eng, &bytes.Buffer{}, discoverFlags{reportFmt: "table"})
	if err == nil || !strings.Contains(err.Error(), "discovery failed: no credentials") {
		t.Fatalf("expected wrapped engine error; got %v", err)
	}
}

// ── runDiscover: rendering ───────────────────────────────────────────────────

func TestRunDiscover_JSONSingleReport(t *testing.T) {
	eng := &stubEngine{reports: []*models.DiscoveryReport{makeReport("prod", "123456789012")}}
	out := discover(t, eng, discoverFlags{reportFmt: "json"})

	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("single report must encode as an object: %v\n%s", err, out)
	}
	if decoded["account_id"] != "123456789012" {
		t.Errorf("account_id = %v", decoded["account_id"])
	}
	result, ok := decoded["result"].(map[string]any)
	if !ok {
		t.Fatalf("result missing: %v", decoded)
	}
	if result["MasterPayerBillingBucketName"] != "billing-bucket" {
		t.Errorf("MasterPayerBillingBucketName = %v", result["MasterPayerBillingBucketName"])
	}
	if v, present := result["CloudTrailTrailArn"]; !present || v != nil {
		t.Errorf("CloudTrailTrailArn must be present and null; got %v (present=%v)", v, present)
	}
}

func TestRunDiscover_JSONMultipleReports(t *testing.T) {
	eng := &stubEngine{reports: []*models.DiscoveryReport{
		makeReport("dev", "111111111111"),
		makeReport("prod", "222222222222"),
	}}
	out := discover(t, eng, discoverFlags{reportFmt: "json", allProfiles: true})

	var decoded []models.DiscoveryReport
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("multiple reports must encode as an array: %v\n%s", err, out)
	}
	if len(decoded) != 2 || decoded[0].Profile != "dev" || decoded[1].Profile != "prod" {
		t.Errorf("unexpected reports: %+v", decoded)
	}
}

func TestRunDiscover_TableDetail(t *testing.T) {
	eng := &stubEngine{reports: []*models.DiscoveryReport{makeReport("prod", "123456789012")}}
	out := discover(t, eng, discoverFlags{reportFmt: "table"})

	for _, want := range []string{
		"Profile: prod",
		"Account: 123456789012",
		"IsMasterPayerAccount",
		"billing-bucket",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q;\ngot:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("table must not contain ANSI codes without --color")
	}
}

func TestRunDiscover_HideNulls(t *testing.T) {
	eng := &stubEngine{reports: []*models.DiscoveryReport{makeReport("prod", "123456789012")}}
	out := discover(t, eng, discoverFlags{reportFmt: "table", hideNulls: true})
	if strings.Contains(out, "CloudTrailTrailArn") {
		t.Errorf("null output row must be hidden;\ngot:\n%s", out)
	}
}

func TestRunDiscover_AllProfilesUsesSummary(t *testing.T) {
	eng := &stubEngine{reports: []*models.DiscoveryReport{
		makeReport("dev", "111111111111"),
		makeReport("prod", "222222222222"),
	}}
	out := discover(t, eng, discoverFlags{reportFmt: "table", allProfiles: true})
	if !strings.Contains(out, "PROFILE") || !strings.Contains(out, "ORG MASTER") {
		t.Errorf("expected summary header;\ngot:\n%s", out)
	}
	if strings.Contains(out, "OUTPUT") {
		t.Errorf("summary view must not render the detail table;\ngot:\n%s", out)
	}
}

// ── writeReportToFile ────────────────────────────────────────────────────────

func TestRunDiscover_WritesOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	eng := &stubEngine{reports: []*models.DiscoveryReport{makeReport("prod", "123456789012")}}
	out := discover(t, eng, discoverFlags{reportFmt: "table", output: path})

	if !strings.Contains(out, "Profile: prod") {
		t.Errorf("stdout output must still be rendered;\ngot:\n%s", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("report file not written: %v", err)
	}
	var decoded models.DiscoveryReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report file is not valid JSON: %v", err)
	}
	if decoded.ReportID != "report-prod" {
		t.Errorf("report_id = %q; want report-prod", decoded.ReportID)
	}
}

func TestWriteReportToFile_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "report.json")
	err := writeReportToFile(path, []*models.DiscoveryReport{makeReport("prod", "123456789012")})
	if err == nil {
		t.Fatal("expected error writing into a missing directory")
	}
}

func TestPrintJSON_NoReports(t *testing.T) {
	var buf bytes.Buffer
	if err := printJSON(&buf, nil); err != nil {
		t.Fatalf("printJSON: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("expected empty array; got %q", buf.String())
	}
}
