package discovery

import (
	"context"
	"errors"
	"fmt"

	orgsvc "github.com/aws/aws-sdk-go-v2/service/organizations"
	orgtypes "github.com/aws/aws-sdk-go-v2/service/organizations/types"

	"github.com/pankaj-dahiya-devops/account-discovery/internal/models"
)

// errOrganizationNotInUse reports that the account does not belong to an
// organization. Collect treats it as an absent organization, not a failure.
var errOrganizationNotInUse = errors.New("account is not a member of an organization")

// collectOrganization calls DescribeOrganization. It returns
// errOrganizationNotInUse when Organizations says the account is standalone.
func collectOrganization(ctx context.Context, client organizationsAPIClient) (models.Record, error) {
	out, err := client.DescribeOrganization(ctx, &orgsvc.DescribeOrganizationInput{})
	if err != nil {
		var notInUse *orgtypes.AWSOrganizationsNotInUseException
		if errors.As(err, &notInUse) || errorCode(err) == "AWSOrganizationsNotInUseException" {
			return nil, errOrganizationNotInUse
		}
		return nil, fmt.Errorf("describe organization: %w", err)
	}
	if out.Organization == nil {
		return nil, errOrganizationNotInUse
	}
	return organizationRecord(out.Organization), nil
}

func organizationRecord(o *orgtypes.Organization) models.Record {
	r := models.Record{}
	putString(r, "id", o.Id)
	putString(r, "arn", o.Arn)
	putEnum(r, "feature_set", string(o.FeatureSet))
	putString(r, "master_account_id", o.MasterAccountId)
	putString(r, "master_account_arn", o.MasterAccountArn)
	return r
}
