package models

import "time"

// DiscoveryReport is the complete output of one account discovery run.
// It is produced by the engine and rendered by the CLI or mapped into
// CloudFormation response data by the custom-resource handler.
type DiscoveryReport struct {
	ReportID       string               `json:"report_id"`
	GeneratedAt    time.Time            `json:"generated_at"`
	Profile        string               `json:"profile"`
	AccountID      string               `json:"account_id"`
	AccountAliases []string             `json:"account_aliases"`
	Region         string               `json:"region"`
	FailedSources  []FactName           `json:"failed_sources"`
	Result         ClassificationResult `json:"result"`
}
