package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/l1jgo/ecsrt/core/ecs"
	"github.com/l1jgo/ecsrt/internal/component"
	"github.com/l1jgo/ecsrt/internal/config"
	"github.com/l1jgo/ecsrt/internal/data"
	"github.com/l1jgo/ecsrt/internal/loop"
	"github.com/l1jgo/ecsrt/internal/persist"
	"github.com/l1jgo/ecsrt/internal/scripting"
	"github.com/l1jgo/ecsrt/internal/system"
	"github.com/l1jgo/ecsrt/internal/world"
)

// statsEvery is how often, in ticks, the loop logs a world summary.
const statsEvery = 50

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func printSection(title string) {
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", max(3, 44-len(title))))
}

func printStat(label string, count int) {
	num := fmt.Sprintf("%d", count)
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", max(3, 42-len(label)-len(num))), num)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func run() error {
	cfgPath := "config/ecsdemo.toml"
	if p := os.Getenv("ECSDEMO_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	fmt.Printf("\n  \033[36;1mecsdemo\033[0m  world %q\n\n", cfg.World.Name)

	printSection("storage")
	setupCtx, cancelSetup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelSetup()

	store, closeStore, err := openStore(setupCtx, cfg, log)
	if err != nil {
		return fmt.Errorf("snapshot store: %w", err)
	}
	defer closeStore()
	printOK("snapshot backend: " + cfg.Snapshot.Backend)

	printSection("scripts")
	scripts, closeScripts, err := loadScripts(cfg.Scripting, log)
	if err != nil {
		return fmt.Errorf("scripts: %w", err)
	}
	defer closeScripts()
	printStat("lua systems", len(scripts))

	arena := system.NewArena(cfg.Arena, log, scripts...)
	opts := []ecs.Option{
		ecs.WithLogger(log.Named("ecs")),
		ecs.WithQueueCapacity(cfg.World.QueueCapacity),
	}

	printSection("world")
	checkpoint := world.Checkpoint{Name: cfg.World.Name, Store: store, Log: log}
	var w *world.World
	if store != nil && cfg.Snapshot.Restore {
		w, err = checkpoint.Restore(setupCtx, arena.Systems(), opts...)
		switch {
		case errors.Is(err, persist.ErrNoSnapshot):
			log.Info("no snapshot yet, starting fresh", zap.String("world", cfg.World.Name))
			w = nil
		case err != nil:
			return err
		default:
			printOK(fmt.Sprintf("restored at tick %d", w.Services.Tick))
		}
	}
	if w == nil {
		w = ecs.NewWorld(component.NewSet, world.State{}, arena.Systems(), opts...)
		n, err := spawnPrefabs(cfg.Prefabs.Path, w)
		if err != nil {
			return fmt.Errorf("prefabs: %w", err)
		}
		printStat("entities spawned", n)
	}
	fmt.Println()

	runner := loop.NewRunner(w, cfg.World.TickRate, log.Named("loop"))
	if store != nil && cfg.World.SaveIntervalTicks > 0 {
		runner.Register(loop.Hook{
			Name:  "snapshot",
			Phase: loop.PhasePersist,
			Every: cfg.World.SaveIntervalTicks,
			Fn: func(ctx context.Context, _ uint64) error {
				return checkpoint.Save(ctx, w)
			},
		})
	}
	runner.Register(loop.Hook{
		Name:  "stats",
		Phase: loop.PhasePostUpdate,
		Every: statsEvery,
		Fn: func(context.Context, uint64) error {
			log.Info("world stats",
				zap.Uint64("tick", w.Services.Tick),
				zap.Int("entities", w.EntityCount()),
				zap.Uint64("kills", w.Services.Kills),
				zap.Int("teams", w.Services.Teams.Len()),
				zap.Uint64("hits", arena.Journal.Hits()),
			)
			return nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-shutdownCh
		log.Info("shutdown signal received", zap.Stringer("signal", sig))
		cancel()
	}()

	if err := runner.Run(ctx); err != nil {
		return err
	}

	if store != nil {
		saveCtx, cancelSave := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelSave()
		if err := checkpoint.Save(saveCtx, w); err != nil {
			return fmt.Errorf("final save: %w", err)
		}
	}
	log.Info("world stopped",
		zap.Uint64("tick", w.Services.Tick),
		zap.Int("entities", w.EntityCount()),
		zap.Int("hook_failures", runner.Failures()),
	)
	return nil
}

// openStore returns nil and a no-op closer for the "none" backend.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (persist.SnapshotStore, func(), error) {
	switch cfg.Snapshot.Backend {
	case config.BackendPostgres:
		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return nil, nil, err
		}
		version, err := db.RunMigrations(ctx)
		if err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrations: %w", err)
		}
		log.Info("database ready", zap.Int64("schema_version", version))
		return persist.NewSnapshotRepo(db, cfg.Snapshot.Keep), db.Close, nil

	case config.BackendRedis:
		rs := persist.NewRedisStore(cfg.Redis, cfg.Snapshot.Keep, log)
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return nil, nil, err
		}
		return rs, func() { _ = rs.Close() }, nil

	default:
		return nil, func() {}, nil
	}
}

func loadScripts(cfg config.ScriptingConfig, log *zap.Logger) ([]world.System, func(), error) {
	if cfg.Dir == "" || len(cfg.Modules) == 0 {
		return nil, func() {}, nil
	}
	engine, err := scripting.NewEngineFromDir(cfg.Dir, log.Named("lua"))
	if err != nil {
		return nil, nil, err
	}
	out := make([]world.System, 0, len(cfg.Modules))
	for _, module := range cfg.Modules {
		s, err := system.NewScript(engine, module, log.Named("lua"))
		if err != nil {
			engine.Close()
			return nil, nil, err
		}
		out = append(out, s)
	}
	return out, engine.Close, nil
}

func spawnPrefabs(path string, w *world.World) (int, error) {
	table, err := data.LoadPrefabs(path)
	if err != nil {
		return 0, err
	}
	return data.Spawn(table, w)
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
