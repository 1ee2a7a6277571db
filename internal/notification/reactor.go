package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pankaj-dahiya-devops/account-discovery/internal/logging"
)

// maxResponseBytes bounds how much of the reactor's reply is read.
const maxResponseBytes = 1 << 20

// Poster delivers a message to the reactor callback URL.
type Poster interface {
	Post(ctx context.Context, url string, msg Message) (string, error)
}

// ReactorClient posts messages as JSON. A reply other than 200 OK is an
// error. Delivery is attempted exactly once.
type ReactorClient struct {
	http   *http.Client
	logger *zap.Logger
}

// NewReactorClient returns a client whose requests time out after timeout.
func NewReactorClient(timeout time.Duration, logger *zap.Logger) *ReactorClient {
	return &ReactorClient{
		http:   &http.Client{Timeout: timeout},
		logger: logging.OrNop(logger),
	}
}

// Post implements Poster. It returns the response body on success.
func (c *ReactorClient) Post(ctx context.Context, url string, msg Message) (string, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build reactor request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Info("posting account-link message",
		zap.String("url", url),
		zap.String("message_type", msg.MessageType),
		zap.String("account_id", msg.Data.Metadata.CloudAccountID),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("post to reactor: %w", err)
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read reactor response: %w", err)
	}

	c.logger.Info("reactor responded", zap.Int("status", resp.StatusCode), zap.ByteString("body", text))
	if resp.StatusCode != http.StatusOK {
		return string(text), fmt.Errorf("reactor responded with status %d", resp.StatusCode)
	}
	return string(text), nil
}
