// Package blobstoretest provides an in-memory blobstore.Store for tests.
package blobstoretest

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/nguyentantai21042004/subtitle-flow/internal/blobstore"
)

// Store is an in-memory blobstore.Store. It records the order of writes and
// can be told to fail specific operations.
type Store struct {
	mu      sync.Mutex
	objects map[string][]byte
	writes  []string

	// FailOn maps "op:key" (for example "exists:processed/srt/1.srt") to the
	// error that operation returns.
	FailOn map[string]error
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		objects: make(map[string][]byte),
		FailOn:  make(map[string]error),
	}
}

func id(bucket, key string) string {
	return bucket + "/" + key
}

func (s *Store) fail(op, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.FailOn[op+":"+key]
}

// Seed stores data without recording a write.
func (s *Store) Seed(bucket, key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[id(bucket, key)] = append([]byte(nil), data...)
}

// Object returns a stored body and whether it exists.
func (s *Store) Object(bucket, key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[id(bucket, key)]
	return data, ok
}

// Writes returns the keys written through Put or Upload, in order.
func (s *Store) Writes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.writes...)
}

func (s *Store) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	if err := s.fail("get", key); err != nil {
		return nil, err
	}
	data, ok := s.Object(bucket, key)
	if !ok {
		return nil, fmt.Errorf("get %s: %w", key, blobstore.ErrNotFound)
	}
	return append([]byte(nil), data...), nil
}

func (s *Store) Download(ctx context.Context, bucket, key, dst string) error {
	data, err := s.Get(ctx, bucket, key)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

func (s *Store) Put(ctx context.Context, bucket, key string, data []byte) error {
	if err := s.fail("put", key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[id(bucket, key)] = append([]byte(nil), data...)
	s.writes = append(s.writes, key)
	return nil
}

func (s *Store) Upload(ctx context.Context, bucket, key, src string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return s.Put(ctx, bucket, key, data)
}

func (s *Store) Exists(ctx context.Context, bucket, key string) (bool, error) {
	if err := s.fail("exists", key); err != nil {
		return false, err
	}
	_, ok := s.Object(bucket, key)
	return ok, nil
}

func (s *Store) Presign(ctx context.Context, bucket, key string) (string, error) {
	if err := s.fail("presign", key); err != nil {
		return "", err
	}
	return "https://" + bucket + ".example.test/" + key + "?signed=1", nil
}

var _ blobstore.Store = (*Store)(nil)
