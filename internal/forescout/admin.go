package forescout

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/opabravo/forescout-tools/internal/logging"
)

// AdminClient manages segments through the Admin API
type AdminClient struct {
	*Session
}

// NewAdminClient creates an unauthenticated Admin API client
func NewAdminClient(creds Credentials, opts ...Option) *AdminClient {
	return &AdminClient{Session: NewSession(AdminVariant, creds, opts...)}
}

// FetchSegments reads the current segments document. The document must
// carry the top-level "node" key.
func (c *AdminClient) FetchSegments(ctx context.Context) (Document, error) {
	doc, err := c.FetchConfiguration(ctx)
	if err != nil {
		return nil, err
	}
	if !doc.HasNode() {
		return nil, fmt.Errorf("invalid segments response: %w", NewMissingFieldError(NodeField))
	}
	return doc, nil
}

// UpdateSegments replaces the server's segment tree with node, the value
// of the "node" key of an edited segments document.
func (c *AdminClient) UpdateSegments(ctx context.Context, node any) (*Response, error) {
	resp, err := c.UpdateConfiguration(ctx, node)
	if err != nil {
		return nil, err
	}
	if resp.OK() {
		logging.Info("Segments updated", zap.Int("status", resp.StatusCode))
	} else {
		logging.Warn("Segments update rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("body", resp.Text()),
		)
	}
	return resp, nil
}

// BackupSegments fetches the segments and writes them as a snapshot
func (c *AdminClient) BackupSegments(ctx context.Context, store SnapshotWriter) (string, Document, error) {
	doc, err := c.FetchSegments(ctx)
	if err != nil {
		return "", nil, err
	}
	path, err := store.Write(doc)
	if err != nil {
		return "", nil, fmt.Errorf("failed to write segments backup: %w", err)
	}
	logging.Info("Segments backed up", zap.String("path", path))
	return path, doc, nil
}
