package persist

import (
	"context"
	"errors"
	"time"
)

// ErrNoSnapshot is returned by SnapshotStore.Latest when the world has never
// been saved.
var ErrNoSnapshot = errors.New("persist: no snapshot stored")

// Snapshot is one encoded world state.
type Snapshot struct {
	World     string
	Tick      uint64
	Payload   []byte
	Checksum  []byte
	CreatedAt time.Time
}

// NewSnapshot stamps payload with its checksum and the current time.
func NewSnapshot(world string, tick uint64, payload []byte) *Snapshot {
	return &Snapshot{
		World:     world,
		Tick:      tick,
		Payload:   payload,
		Checksum:  Checksum(payload),
		CreatedAt: time.Now().UTC(),
	}
}

// SnapshotStore persists world snapshots. Latest verifies the checksum
// before returning.
type SnapshotStore interface {
	Save(ctx context.Context, s *Snapshot) error
	Latest(ctx context.Context, world string) (*Snapshot, error)
}
