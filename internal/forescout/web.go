package forescout

import (
	"context"

	"go.uber.org/zap"

	"github.com/opabravo/forescout-tools/internal/logging"
)

// WebClient reads host inventory through the Web API
type WebClient struct {
	*Session
}

// NewWebClient creates an unauthenticated Web API client
func NewWebClient(creds Credentials, opts ...Option) *WebClient {
	return &WebClient{Session: NewSession(WebVariant, creds, opts...)}
}

// FetchHosts returns the host inventory document
func (c *WebClient) FetchHosts(ctx context.Context) (Document, error) {
	return c.FetchConfiguration(ctx)
}

// BackupHosts fetches the host inventory and writes it as a snapshot
func (c *WebClient) BackupHosts(ctx context.Context, store SnapshotWriter) (string, error) {
	path, _, err := c.Backup(ctx, store)
	if err != nil {
		return "", err
	}
	logging.Info("Hosts backed up", zap.String("path", path))
	return path, nil
}
