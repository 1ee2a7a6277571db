// Package selection picks canonical records out of raw fact lists using
// ordered validation tiers. A tier pairs a schema with an optional extra
// predicate; tiers are tried in priority order and the first record of the
// first non-empty tier wins. Input order is never re-sorted.
package selection

import (
	"encoding/json"

	"github.com/pankaj-dahiya-devops/account-discovery/internal/models"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/schema"
)

// Tier is one level of a fallback chain.
type Tier struct {
	// Name labels the tier in logs and tests (e.g. "ideal-local").
	Name string

	// Schema is the shape a record must satisfy.
	Schema *schema.Schema

	// Accept further restricts schema-valid records. Nil accepts all.
	Accept func(models.Record) bool
}

// SelectFirst returns the first record of the highest-priority tier that
// has any match, together with the tier that matched. It returns false when
// no tier matches any record.
func SelectFirst(records []models.Record, tiers ...Tier) (models.Record, Tier, bool) {
	for _, tier := range tiers {
		for _, r := range schema.FilterValid(tier.Schema, records) {
			if tier.Accept == nil || tier.Accept(r) {
				return r, tier, true
			}
		}
	}
	return nil, Tier{}, false
}

// decodeRecord converts a validated record into its typed form.
func decodeRecord[T any](r models.Record) (T, bool) {
	var out T
	data, err := json.Marshal(r)
	if err != nil {
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, false
	}
	return out, true
}

// stringField returns r[key] when it is a non-empty string.
func stringField(r models.Record, key string) (string, bool) {
	s, ok := r[key].(string)
	return s, ok && s != ""
}
