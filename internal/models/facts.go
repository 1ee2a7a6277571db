package models

// FactName identifies one external fact source read during discovery.
type FactName string

const (
	FactTrails            FactName = "trails"
	FactBuckets           FactName = "buckets"
	FactReportDefinitions FactName = "report_definitions"
	FactOrganization      FactName = "organization"
	FactAccountAliases    FactName = "account_aliases"
)

// DefaultFactNames lists the sources collected for a classification, in the
// fixed order they are read.
var DefaultFactNames = []FactName{
	FactTrails,
	FactBuckets,
	FactReportDefinitions,
	FactOrganization,
	FactAccountAliases,
}

// Record is a single raw, JSON-shaped record returned by a fact source.
// Keys follow the snake_case field names of TrailDescriptor,
// ReportDefinition, Organization, and bucket records. Absent optional
// fields are omitted from the map rather than stored as nil.
type Record map[string]any

// FactSet holds every fact collected for one invocation.
//
// FactSet is treated as an immutable value: the With* methods return a
// rebuilt copy and never modify the receiver. The zero value is the fact set
// produced when every source failed: empty lists and no organization.
type FactSet struct {
	Trails            []Record `json:"trails"`
	Buckets           []Record `json:"buckets"`
	ReportDefinitions []Record `json:"report_definitions"`

	// Organization is nil when the account is not a member of an
	// organization, or when the describe call was denied or failed.
	Organization Record `json:"organization"`

	// AccountAliases is informational; classification never reads it.
	AccountAliases []string `json:"account_aliases"`

	// Failed lists the sources whose accessor returned an error and were
	// replaced by their default.
	Failed []FactName `json:"failed_sources,omitempty"`
}

func (f FactSet) WithTrails(trails []Record) FactSet {
	f.Trails = cloneRecords(trails)
	return f
}

func (f FactSet) WithBuckets(buckets []Record) FactSet {
	f.Buckets = cloneRecords(buckets)
	return f
}

func (f FactSet) WithReportDefinitions(defs []Record) FactSet {
	f.ReportDefinitions = cloneRecords(defs)
	return f
}

func (f FactSet) WithOrganization(org Record) FactSet {
	f.Organization = org
	return f
}

func (f FactSet) WithAccountAliases(aliases []string) FactSet {
	f.AccountAliases = append([]string(nil), aliases...)
	return f
}

// WithFailure records that source failed. The Failed slice is copied so that
// earlier FactSet values never observe the append.
func (f FactSet) WithFailure(source FactName) FactSet {
	failed := make([]FactName, 0, len(f.Failed)+1)
	failed = append(failed, f.Failed...)
	f.Failed = append(failed, source)
	return f
}

// HasFailed reports whether source was replaced by its default.
func (f FactSet) HasFailed(source FactName) bool {
	for _, name := range f.Failed {
		if name == source {
			return true
		}
	}
	return false
}

func cloneRecords(in []Record) []Record {
	if in == nil {
		return nil
	}
	out := make([]Record, len(in))
	copy(out, in)
	return out
}
