package domain

// SyncStatus says how far a cart mutation got.
type SyncStatus int

const (
	// SyncLocalOnly means no principal was present, so nothing was sent remotely.
	SyncLocalOnly SyncStatus = iota
	// SyncSynced means the local change was mirrored to the remote store.
	SyncSynced
	// SyncFailed means the local change was kept but a remote write failed.
	// Retryable writes stay queued; writes the store rejected are dropped.
	SyncFailed
	// SyncInvalid means the request itself was rejected and neither the local
	// nor the remote cart changed.
	SyncInvalid
)

func (s SyncStatus) String() string {
	switch s {
	case SyncLocalOnly:
		return "local_only"
	case SyncSynced:
		return "synced"
	case SyncFailed:
		return "failed"
	case SyncInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

type SyncResult struct {
	Status SyncStatus
	Err    error
}

func (r SyncResult) Offline() bool {
	return r.Status == SyncFailed
}
