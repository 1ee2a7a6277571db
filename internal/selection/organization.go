package selection

import (
	"github.com/pankaj-dahiya-devops/account-discovery/internal/models"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/schema"
)

// SelectOrganization decodes the organization fact. A nil record, or one
// without a well-formed master account id, means the account is outside any
// organization as far as classification is concerned.
func SelectOrganization(org models.Record) (models.Organization, bool) {
	if org == nil {
		return models.Organization{}, false
	}
	rec, _, ok := SelectFirst([]models.Record{org}, Tier{Name: "organization", Schema: schema.Organization})
	if !ok {
		return models.Organization{}, false
	}
	return decodeRecord[models.Organization](rec)
}
