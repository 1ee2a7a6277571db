package selection

import (
	"strings"

	"github.com/pankaj-dahiya-devops/account-discovery/internal/models"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/schema"
)

// Trail tiers: organization-aware trails first, then any multi-region trail
// carrying the expected fields.
var trailTiers = []Tier{
	{Name: "ideal", Schema: schema.TrailIdeal},
	{Name: "minimum", Schema: schema.TrailMinimum},
}

// SelectBestTrail picks the single trail used by the audit and CloudTrail
// owner predicates. It returns the zero descriptor and false when no trail
// satisfies even the minimum shape.
func SelectBestTrail(trails []models.Record) (models.TrailDescriptor, bool) {
	rec, _, ok := SelectFirst(trails, trailTiers...)
	if !ok {
		return models.TrailDescriptor{}, false
	}
	return decodeRecord[models.TrailDescriptor](rec)
}

// VisibleTrailARNs joins the ARN of every trail with commas. Trails are not
// filtered by shape: every trail the account can see is visible. It returns
// nil when no trail carries an ARN.
func VisibleTrailARNs(trails []models.Record) *string {
	var arns []string
	for _, t := range trails {
		if arn, ok := stringField(t, "trail_arn"); ok {
			arns = append(arns, arn)
		}
	}
	if len(arns) == 0 {
		return nil
	}
	joined := strings.Join(arns, ",")
	return &joined
}
