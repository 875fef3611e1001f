package loop

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
)

// Phase orders hooks within a tick.
type Phase int

const (
	PhasePreUpdate  Phase = iota // 0: before the world update
	PhasePostUpdate              // 1: after the world update
	PhasePersist                 // 2: snapshots
)

func (p Phase) String() string {
	switch p {
	case PhasePreUpdate:
		return "pre-update"
	case PhasePostUpdate:
		return "post-update"
	case PhasePersist:
		return "persist"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Updater is advanced once per tick. *ecs.World satisfies it.
type Updater interface {
	Update()
}

// Hook runs every Every ticks in its phase. Every <= 1 means every tick.
type Hook struct {
	Name  string
	Phase Phase
	Every int
	Fn    func(ctx context.Context, tick uint64) error
}

// Runner drives a world at a fixed rate and runs hooks around each update.
// Everything happens on the goroutine calling Run.
type Runner struct {
	world  Updater
	rate   time.Duration
	hooks  []Hook
	sorted bool
	tick   uint64
	failed int
	log    *zap.Logger
}

func NewRunner(world Updater, rate time.Duration, log *zap.Logger) *Runner {
	return &Runner{
		world: world,
		rate:  rate,
		hooks: make([]Hook, 0, 8),
		log:   log,
	}
}

func (r *Runner) Register(h Hook) {
	if h.Every < 1 {
		h.Every = 1
	}
	r.hooks = append(r.hooks, h)
	r.sorted = false
}

// Ticks returns how many ticks have run.
func (r *Runner) Ticks() uint64 { return r.tick }

// Failures returns how many hook calls returned an error.
func (r *Runner) Failures() int { return r.failed }

// Tick runs one tick: pre-update hooks, the world update, then post-update
// and persist hooks.
func (r *Runner) Tick(ctx context.Context) {
	r.ensureSorted()
	r.tick++
	i := r.runPhase(ctx, 0, PhasePreUpdate)
	r.world.Update()
	r.runPhase(ctx, i, PhasePersist)
}

// runPhase runs hooks from index start while their phase is <= last and
// returns the index of the first hook it did not reach.
func (r *Runner) runPhase(ctx context.Context, start int, last Phase) int {
	i := start
	for ; i < len(r.hooks) && r.hooks[i].Phase <= last; i++ {
		h := r.hooks[i]
		if r.tick%uint64(h.Every) != 0 {
			continue
		}
		if err := h.Fn(ctx, r.tick); err != nil {
			r.failed++
			r.log.Error("tick hook failed",
				zap.String("hook", h.Name),
				zap.Stringer("phase", h.Phase),
				zap.Uint64("tick", r.tick),
				zap.Error(err),
			)
		}
	}
	return i
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.hooks, func(i, j int) bool {
			return r.hooks[i].Phase < r.hooks[j].Phase
		})
		r.sorted = true
	}
}

// Run ticks at the configured rate until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.rate)
	defer ticker.Stop()

	r.log.Info("loop started", zap.Duration("tick_rate", r.rate))
	for {
		select {
		case <-ctx.Done():
			r.log.Info("loop stopped", zap.Uint64("ticks", r.tick))
			return nil
		case <-ticker.C:
			if ctx.Err() == nil {
				r.Tick(ctx)
			}
		}
	}
}
