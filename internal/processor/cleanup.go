package processor

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/subtitle-flow/internal/scratch"
)

// workspace creates the invocation's private scratch directory. The returned
// release func removes it and must always be called.
func (p *implProcessor) workspace(ctx context.Context) (*scratch.Workspace, func(), error) {
	ws, err := p.scratch.NewWorkspace()
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		if err := ws.Cleanup(); err != nil {
			p.logger.Warn(ctx, "Failed to cleanup workspace %s: %v", ws.Dir, err)
		} else {
			p.logger.Debug(ctx, "Cleaned up workspace: %s", ws.Dir)
		}
	}
	return ws, release, nil
}

// fetch downloads bucket/key to dst.
func (p *implProcessor) fetch(ctx context.Context, bucket, key, dst string) error {
	p.logger.Debug(ctx, "Downloading s3://%s/%s -> %s", bucket, key, dst)
	if err := p.store.Download(ctx, bucket, key, dst); err != nil {
		return fmt.Errorf("download %s: %w", key, err)
	}
	return nil
}

func (p *implProcessor) bucketOr(bucket string) string {
	if bucket == "" {
		return p.bucket
	}
	return bucket
}
