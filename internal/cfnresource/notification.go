package cfnresource

import (
	"context"

	"github.com/aws/aws-lambda-go/cfn"
	"go.uber.org/zap"

	"github.com/pankaj-dahiya-devops/account-discovery/internal/logging"
	"github.com/pankaj-dahiya-devops/account-discovery/internal/notification"
)

// NotificationHandler tells the reactor that an account link was
// provisioned or removed. It always answers SUCCESS: a stack must never
// fail or roll back because the reactor was unreachable.
type NotificationHandler struct {
	poster      notification.Poster
	callbackURL string
	logger      *zap.Logger
}

// NewNotificationHandler returns a handler posting through p. A non-empty
// callbackURL replaces the ReactorCallbackUrl property as the destination.
func NewNotificationHandler(p notification.Poster, callbackURL string, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{poster: p, callbackURL: callbackURL, logger: logging.OrNop(logger)}
}

// Handle implements cfn.CustomResourceFunction. The response data is the
// message that was built, or empty when the properties are invalid.
func (h *NotificationHandler) Handle(ctx context.Context, event cfn.Event) (string, map[string]any, error) {
	log := h.logger.With(
		zap.String("request_type", string(event.RequestType)),
		zap.String("request_id", event.RequestID),
	)

	props, err := notification.ParseProperties(event.ResourceProperties)
	if err != nil {
		log.Error("invalid notification request", zap.Error(err))
		return event.PhysicalResourceID, map[string]any{}, nil
	}

	msg := notification.BuildMessage(props, string(event.RequestType))

	url := props.ReactorCallbackURL
	if h.callbackURL != "" {
		url = h.callbackURL
	}
	if _, err := h.poster.Post(ctx, url, msg); err != nil {
		log.Warn("failed to notify reactor", zap.String("url", url), zap.Error(err))
	}

	data, err := msg.AsMap()
	if err != nil {
		log.Error("cannot encode response data", zap.Error(err))
		return event.PhysicalResourceID, map[string]any{}, nil
	}
	return event.PhysicalResourceID, data, nil
}
