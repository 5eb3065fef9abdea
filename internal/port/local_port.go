package port

import "context"

// LocalStore keeps small JSON blobs that survive a restart.
type LocalStore interface {
	// Load decodes the blob under key into v and reports whether it existed.
	Load(ctx context.Context, key string, v any) (bool, error)
	Save(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, key string) error
}
