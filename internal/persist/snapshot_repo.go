package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// SnapshotRepo stores snapshots in Postgres. Each save appends a row and
// rows beyond the newest keep are pruned in the same transaction.
type SnapshotRepo struct {
	db   *DB
	keep int
}

func NewSnapshotRepo(db *DB, keep int) *SnapshotRepo {
	if keep < 1 {
		keep = 1
	}
	return &SnapshotRepo{db: db, keep: keep}
}

func (r *SnapshotRepo) Save(ctx context.Context, s *Snapshot) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("snapshot begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO world_snapshots (world, tick, payload, checksum, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		s.World, int64(s.Tick), s.Payload, s.Checksum, s.CreatedAt,
	); err != nil {
		return fmt.Errorf("snapshot insert: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM world_snapshots
		 WHERE world = $1 AND id NOT IN (
		     SELECT id FROM world_snapshots WHERE world = $1 ORDER BY id DESC LIMIT $2
		 )`,
		s.World, r.keep,
	); err != nil {
		return fmt.Errorf("snapshot prune: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *SnapshotRepo) Latest(ctx context.Context, world string) (*Snapshot, error) {
	s := &Snapshot{}
	var tick int64
	err := r.db.Pool.QueryRow(ctx,
		`SELECT world, tick, payload, checksum, created_at
		 FROM world_snapshots WHERE world = $1
		 ORDER BY id DESC LIMIT 1`, world,
	).Scan(&s.World, &tick, &s.Payload, &s.Checksum, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot load: %w", err)
	}
	s.Tick = uint64(tick)
	if err := Verify(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Count returns how many snapshots are stored for world.
func (r *SnapshotRepo) Count(ctx context.Context, world string) (int, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM world_snapshots WHERE world = $1`, world,
	).Scan(&n)
	return n, err
}
