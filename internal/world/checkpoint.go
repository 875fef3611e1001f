package world

import (
	"bytes"
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/l1jgo/ecsrt/core/ecs"
	"github.com/l1jgo/ecsrt/internal/component"
	"github.com/l1jgo/ecsrt/internal/persist"
)

// Checkpoint saves and restores one named world through a snapshot store.
type Checkpoint struct {
	Name  string
	Store persist.SnapshotStore
	Log   *zap.Logger
}

// Save flushes and encodes w and stores it under the current tick. Call it
// between updates, never from inside a system.
func (c Checkpoint) Save(ctx context.Context, w *World) error {
	var buf bytes.Buffer
	if err := w.Save(&buf); err != nil {
		return fmt.Errorf("encode world %s: %w", c.Name, err)
	}
	snap := persist.NewSnapshot(c.Name, w.Services.Tick, buf.Bytes())
	if err := c.Store.Save(ctx, snap); err != nil {
		return fmt.Errorf("store world %s: %w", c.Name, err)
	}
	c.Log.Debug("world saved",
		zap.String("world", c.Name),
		zap.Uint64("tick", snap.Tick),
		zap.Int("bytes", len(snap.Payload)),
		zap.Int("entities", w.EntityCount()),
	)
	return nil
}

// Restore loads the latest snapshot into a new world driving systems. It
// returns persist.ErrNoSnapshot, wrapped, when nothing has been saved.
func (c Checkpoint) Restore(ctx context.Context, systems []System, opts ...ecs.Option) (*World, error) {
	snap, err := c.Store.Latest(ctx, c.Name)
	if err != nil {
		return nil, fmt.Errorf("latest snapshot of %s: %w", c.Name, err)
	}
	w, err := ecs.Load(bytes.NewReader(snap.Payload), component.NewSet, systems, opts...)
	if err != nil {
		return nil, fmt.Errorf("load world %s at tick %d: %w", c.Name, snap.Tick, err)
	}
	c.Log.Info("world restored",
		zap.String("world", c.Name),
		zap.Uint64("tick", snap.Tick),
		zap.Time("saved_at", snap.CreatedAt),
		zap.Int("entities", w.EntityCount()),
	)
	return w, nil
}
