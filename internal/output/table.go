package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/pankaj-dahiya-devops/account-discovery/internal/models"
)

// ANSI color codes for output values (used when Colored=true).
const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[0;31m"
	ansiGreen  = "\033[0;32m"
	ansiYellow = "\033[0;33m"
	ansiBlue   = "\033[0;34m"
)

// TableOptions controls how RenderDiscoveryTable and RenderSummaryTable
// render reports.
type TableOptions struct {
	// Colored wraps output values with ANSI codes. Default false (CI-safe).
	Colored bool

	// HideNulls omits rows whose value is "null" from the detail view.
	HideNulls bool
}

// valueColor returns the ANSI code for a stack output value, or "" when
// the value is shown plain.
func valueColor(value string) string {
	switch value {
	case "true":
		return ansiGreen
	case "false":
		return ansiBlue
	case models.NullOutput:
		return ansiYellow
	default:
		return ""
	}
}

// ColorValue wraps a stack output value with ANSI codes when colored is true.
// When colored is false the string is returned unchanged (CI-safe default).
func ColorValue(value string, colored bool) string {
	if !colored {
		return value
	}
	if code := valueColor(value); code != "" {
		return code + value + ansiReset
	}
	return value
}

// ShortenMessage truncates msg to at most max runes, appending "..." when truncated.
// max is treated as at least 4 to guarantee space for the ellipsis.
func ShortenMessage(msg string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(msg)
	if len(runes) <= max {
		return msg
	}
	return string(runes[:max-3]) + "..."
}

// valueCell returns value padded to width characters.
// When colored, ANSI codes wrap only the text; trailing padding spaces are plain
// so subsequent columns stay visually aligned regardless of terminal ANSI support.
func valueCell(value string, width int, colored bool) string {
	code := valueColor(value)
	if !colored || code == "" {
		return fmt.Sprintf("%-*s", width, value)
	}
	spaces := width - len(value)
	if spaces < 0 {
		spaces = 0
	}
	return code + value + ansiReset + strings.Repeat(" ", spaces)
}

// truncateField shortens s to at most max runes for ID/label columns.
// A single-char ellipsis replaces the last rune when truncation occurs.
func truncateField(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// accountLabel renders the account id followed by its aliases, if any.
func accountLabel(r *models.DiscoveryReport) string {
	if len(r.AccountAliases) == 0 {
		return r.AccountID
	}
	return fmt.Sprintf("%s (%s)", r.AccountID, strings.Join(r.AccountAliases, ", "))
}

// RenderDiscoveryTable writes one block per report to w: a header naming
// the profile, account, and region, the sources that fell back to their
// defaults, and every classification output in ClassificationKeys order.
func RenderDiscoveryTable(w io.Writer, reports []*models.DiscoveryReport, opts TableOptions) {
	if len(reports) == 0 {
		fmt.Fprintln(w, "No accounts discovered.")
		return
	}

	const (
		wKey   = 30
		wValue = 80
	)

	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "Profile: %s   Account: %s   Region: %s\n", r.Profile, accountLabel(r), r.Region)
		if len(r.FailedSources) > 0 {
			names := make([]string, len(r.FailedSources))
			for j, s := range r.FailedSources {
				names[j] = string(s)
			}
			failed := strings.Join(names, ", ")
			if opts.Colored {
				failed = ansiRed + failed + ansiReset
			}
			fmt.Fprintf(w, "Unavailable sources: %s\n", failed)
		}

		header := fmt.Sprintf("%-*s  %s", wKey, "OUTPUT", "VALUE")
		fmt.Fprintln(w, header)
		fmt.Fprintln(w, strings.Repeat("-", wKey+2+wValue))

		outputs := r.Result.StackOutputs()
		for _, key := range models.ClassificationKeys {
			value := outputs[key]
			if opts.HideNulls && value == models.NullOutput {
				continue
			}
			fmt.Fprintf(w, "%-*s  %s\n", wKey, key, ColorValue(ShortenMessage(value, wValue), opts.Colored))
		}
	}
}

// summaryColumns are the boolean outputs shown by RenderSummaryTable.
var summaryColumns = []struct {
	header string
	key    string
}{
	{"AUDIT", "IsAuditAccount"},
	{"CT OWNER", "IsCloudTrailOwnerAccount"},
	{"PAYER", "IsMasterPayerAccount"},
	{"ORG MASTER", "IsOrganizationMasterAccount"},
	{"OUTSIDE ORG", "IsAccountOutsideOrganization"},
	{"ORG TRAIL", "IsOrganizationTrail"},
}

// RenderSummaryTable writes one row per report, used with --all-profiles.
//
// Column order:
//
//	PROFILE  ACCOUNT  REGION  AUDIT  CT OWNER  PAYER  ORG MASTER  OUTSIDE ORG  ORG TRAIL  FAILED
func RenderSummaryTable(w io.Writer, reports []*models.DiscoveryReport, opts TableOptions) {
	if len(reports) == 0 {
		fmt.Fprintln(w, "No accounts discovered.")
		return
	}

	const (
		wProfile = 16
		wAccount = 12
		wRegion  = 14
		wFlag    = 11
	)

	var hb strings.Builder
	hb.WriteString(fmt.Sprintf("%-*s", wProfile, "PROFILE"))
	hb.WriteString(fmt.Sprintf("  %-*s", wAccount, "ACCOUNT"))
	hb.WriteString(fmt.Sprintf("  %-*s", wRegion, "REGION"))
	for _, c := range summaryColumns {
		hb.WriteString(fmt.Sprintf("  %-*s", wFlag, c.header))
	}
	hb.WriteString("  FAILED")
	header := hb.String()

	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)))

	for _, r := range reports {
		outputs := r.Result.StackOutputs()
		var rb strings.Builder
		rb.WriteString(fmt.Sprintf("%-*s", wProfile, truncateField(r.Profile, wProfile)))
		rb.WriteString(fmt.Sprintf("  %-*s", wAccount, truncateField(r.AccountID, wAccount)))
		rb.WriteString(fmt.Sprintf("  %-*s", wRegion, truncateField(r.Region, wRegion)))
		for _, c := range summaryColumns {
			rb.WriteString("  " + valueCell(outputs[c.key], wFlag, opts.Colored))
		}
		rb.WriteString(fmt.Sprintf("  %d", len(r.FailedSources)))
		fmt.Fprintln(w, rb.String())
	}
}
