// Package cfnresource implements the CloudFormation custom-resource
// handlers. Each handler has the signature expected by cfn.LambdaWrap, which
// delivers the response document to CloudFormation.
package cfnresource

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-lambda-go/cfn"
	"go.uber.org/zap"

	"github.com/pankaj-dahiya-devops/account-discovery/internal/engine"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/logging"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/models"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/rules"
)

// errNoAccountID is returned for invocations that carry no usable account id.
var errNoAccountID = errors.New("cannot resolve account id from AccountId property or StackId")

// DiscoveryHandler classifies the account the stack is deployed into and
// returns the classification as the resource's attributes.
type DiscoveryHandler struct {
	engine engine.Engine
	logger *zap.Logger
}

// NewDiscoveryHandler returns a handler that runs discovery through eng.
func NewDiscoveryHandler(eng engine.Engine, logger *zap.Logger) *DiscoveryHandler {
	return &DiscoveryHandler{engine: eng, logger: logging.OrNop(logger)}
}

// Handle implements cfn.CustomResourceFunction.
//
// Create and Update run discovery and answer SUCCESS with the stack
// outputs. Delete answers SUCCESS with the default outputs and makes no AWS
// calls. An invocation whose account id cannot be resolved, or whose
// discovery run fails, answers FAILED with the default outputs.
func (h *DiscoveryHandler) Handle(ctx context.Context, event cfn.Event) (string, map[string]any, error) {
	log := h.logger.With(
		zap.String("request_type", string(event.RequestType)),
		zap.String("request_id", event.RequestID),
		zap.String("logical_resource_id", event.LogicalResourceID),
	)
	defaults := outputData(models.DefaultClassification())

	if event.RequestType == cfn.RequestDelete {
		log.Info("delete request, returning default outputs")
		return event.PhysicalResourceID, defaults, nil
	}

	accountID, ok := resolveAccountID(event)
	if !ok {
		log.Error("malformed discovery request", zap.Error(errNoAccountID))
		return event.PhysicalResourceID, defaults, errNoAccountID
	}
	log = log.With(zap.String("account_id", accountID))

	reports, err := h.engine.RunDiscovery(ctx, engine.DiscoveryOptions{AccountID: accountID})
	if err != nil {
		log.Error("discovery failed", zap.Error(err))
		return event.PhysicalResourceID, defaults, fmt.Errorf("discover account %s: %w", accountID, err)
	}
	if len(reports) == 0 {
		log.Error("discovery returned no report")
		return event.PhysicalResourceID, defaults, fmt.Errorf("discover account %s: no report", accountID)
	}

	report := reports[0]
	log.Info("discovery complete",
		zap.String("report_id", report.ReportID),
		zap.Any("failed_sources", report.FailedSources),
	)
	return event.PhysicalResourceID, outputData(report.Result), nil
}

// resolveAccountID prefers the AccountId resource property and falls back
// to the account embedded in the StackId ARN.
func resolveAccountID(event cfn.Event) (string, bool) {
	if v, ok := event.ResourceProperties["AccountId"].(string); ok && v != "" {
		return v, true
	}
	return rules.AccountFromARN(event.StackID)
}

// outputData converts stack outputs into the response data map.
func outputData(r models.ClassificationResult) map[string]any {
	outputs := r.StackOutputs()
	data := make(map[string]any, len(outputs))
	for k, v := range outputs {
		data[k] = v
	}
	return data
}
