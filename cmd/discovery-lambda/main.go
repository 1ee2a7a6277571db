// Command discovery-lambda is the CloudFormation custom-resource handler
// that classifies the account a stack is deployed into.
package main

import (
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/pankaj-dahiya-devops/account-discovery/internal/cfnresource"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/config"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/engine"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/logging"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/providers/aws/common"
	awsdiscovery "github.com/pankaj-dahiya-devops/account-discovery/internal/providers/aws/discovery"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/rulepacks/discovery"
)

func main() {
	// Lambda functions are configured through the environment only.
	cfg, err := config.NewFileLoader("").Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger = logger.Named("discovery").With(logging.VersionField())

	provider := common.NewDefaultAWSClientProvider(
		common.WithDefaultRegion(cfg.AWS.DefaultRegion),
		common.WithLogger(logger),
	)
	collector := awsdiscovery.NewDefaultFactCollector(logger)
	eng := engine.NewDiscoveryEngine(provider, collector, discovery.NewRegistry(), logger)

	handler := cfnresource.NewDiscoveryHandler(eng, logger)
	lambda.Start(cfn.LambdaWrap(handler.Handle))
}
