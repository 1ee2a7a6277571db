package discovery

import (
	"context"

	"github.com/pankaj-dahiya-devops/account-discovery/internal/models"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/providers/aws/common"
)

// FactCollector reads the raw facts a classification needs from one AWS
// account.
//
// Implementations must never classify or filter records. A source that
// fails is logged and replaced by its default so the remaining sources are
// still read; Collect therefore has no error return.
type FactCollector interface {
	// Collect reads the named sources (all of models.DefaultFactNames when
	// none are given) in their fixed order and returns the assembled facts.
	Collect(
		ctx context.Context,
		profile *common.ProfileConfig,
		provider common.AWSClientProvider,
		names ...models.FactName,
	) models.FactSet
}
