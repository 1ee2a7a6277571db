package discovery

import (
	"context"
	"fmt"

	iamsvc "github.com/aws/aws-sdk-go-v2/service/iam"
)

// collectAccountAliases returns the account's IAM aliases. AWS allows at
// most one, but the paginator is used anyway since the API is paginated.
func collectAccountAliases(ctx context.Context, client iamAPIClient) ([]string, error) {
	paginator := iamsvc.NewListAccountAliasesPaginator(client, &iamsvc.ListAccountAliasesInput{})
	aliases := []string{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list account aliases: %w", err)
		}
		aliases = append(aliases, page.AccountAliases...)
	}
	return aliases, nil
}
