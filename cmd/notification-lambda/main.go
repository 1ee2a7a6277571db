// Command notification-lambda is the CloudFormation custom-resource handler
// that tells the reactor an account link was provisioned or removed.
package main

import (
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/pankaj-dahiya-devops/account-discovery/internal/cfnresource"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/config"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/logging"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/notification"
)

func main() {
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
	logger = logger.Named("notification").With(logging.VersionField())

	client := notification.NewReactorClient(cfg.Reactor.TimeoutDuration(), logger)
	handler := cfnresource.NewNotificationHandler(client, cfg.Reactor.CallbackURL, logger)
	lambda.Start(cfn.LambdaWrap(handler.Handle))
}
