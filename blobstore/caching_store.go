package blobstore

import (
	"context"
	"errors"
	"io"
)

// CachingStore layers a fast local store in front of a slower remote one,
// typically a LocalStore in front of object storage. Opens are served from
// the cache when possible; misses are filled from the remote store first.
// Puts and Deletes write through to both stores.
type CachingStore struct {
	remote Store
	cache  Store
}

// NewCachingStore creates a CachingStore.
func NewCachingStore(remote, cache Store) *CachingStore {
	return &CachingStore{remote: remote, cache: cache}
}

// Open opens a blob, filling the cache from the remote store on a miss.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	blob, err := s.cache.Open(ctx, name)
	if err == nil {
		return blob, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	remote, err := s.remote.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(remote)
	_ = remote.Close()
	if err != nil {
		return nil, err
	}
	if err := s.cache.Put(ctx, name, data); err != nil {
		return nil, err
	}
	return s.cache.Open(ctx, name)
}

// Put writes a blob to the remote store and the cache.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	if err := s.remote.Put(ctx, name, data); err != nil {
		return err
	}
	return s.cache.Put(ctx, name, data)
}

// Delete removes a blob from both stores.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	if err := s.remote.Delete(ctx, name); err != nil {
		return err
	}
	return s.cache.Delete(ctx, name)
}

// List lists the remote store; the cache may hold only a subset.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.remote.List(ctx, prefix)
}
