package blobstore

import "context"

// Store is the blob store contract used by every stage. Objects are addressed by
// (bucket, key) and are written whole; nothing is mutated in place.
type Store interface {
	// Get returns the object body. Absent objects yield ErrNotFound.
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	// Download writes the object body to the local file dst.
	Download(ctx context.Context, bucket, key, dst string) error
	// Put stores data under key, replacing any previous object.
	Put(ctx context.Context, bucket, key string, data []byte) error
	// Upload stores the local file src under key.
	Upload(ctx context.Context, bucket, key, src string) error
	// Exists reports whether key is present. Only a not-found response maps
	// to false; any other failure is returned as an error.
	Exists(ctx context.Context, bucket, key string) (bool, error)
	// Presign returns a time-limited read URL for key.
	Presign(ctx context.Context, bucket, key string) (string, error)
}
