package newsletter

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/bilgisen/finsmart/internal/storage"
)

// FileStore keeps subscriptions as JSON files on local disk
type FileStore struct {
	docs *storage.Storage
}

func NewFileStore(basePath string) (*FileStore, error) {
	docs, err := storage.NewStorage(filepath.Join(basePath, "newsletter"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return &FileStore{docs: docs}, nil
}

func (f *FileStore) Get(ctx context.Context, key string) (Subscription, error) {
	var sub Subscription
	err := f.docs.Get(ctx, key, &sub)
	if errors.Is(err, storage.ErrNotFound) {
		return Subscription{}, ErrNotFound
	}
	return sub, err
}

func (f *FileStore) Save(ctx context.Context, key string, sub Subscription) error {
	return f.docs.Put(ctx, key, sub)
}

func (f *FileStore) Delete(ctx context.Context, key string) error {
	err := f.docs.Delete(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (f *FileStore) List(ctx context.Context) ([]Subscription, error) {
	keys, err := f.docs.Keys(ctx)
	if err != nil {
		return nil, err
	}

	subs := make([]Subscription, 0, len(keys))
	for _, key := range keys {
		var sub Subscription
		if err := f.docs.Get(ctx, key, &sub); err != nil {
			return nil, fmt.Errorf("read subscription %s: %w", key, err)
		}
		subs = append(subs, sub)
	}
	return subs, nil
}
