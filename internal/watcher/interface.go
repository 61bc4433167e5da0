package watcher

import "context"

// Watcher monitors an inbox directory and hands each new video to a handler.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler processes one video file.
type EventHandler func(ctx context.Context, filePath string) error
