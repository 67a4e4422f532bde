package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/oriumgames/roids"
	"github.com/oriumgames/roids/internal/audio"
	"github.com/oriumgames/roids/internal/config"
	"github.com/oriumgames/roids/internal/game"
	"github.com/oriumgames/roids/internal/host"
	"github.com/oriumgames/roids/internal/host/term"
	"github.com/oriumgames/roids/internal/persist"
	"github.com/oriumgames/roids/internal/save"
	"github.com/oriumgames/roids/internal/script"
	"github.com/quasilyte/gdata/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", os.Getenv("ROIDS_CONFIG"), "path to a TOML or YAML config file")
	headless := flag.Bool("headless", false, "run a game without a display until interrupted")
	terminal := flag.Bool("term", false, "play in the terminal instead of a window")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	resources, closeAll, err := collaborators(ctx, cfg, log)
	closers = append(closers, closeAll)
	if err != nil {
		return err
	}

	w, err := game.NewWorld(&game.Settings{GameConfig: cfg.Game}, log, resources...)
	if err != nil {
		return fmt.Errorf("build world: %w", err)
	}
	closers = append(closers, w.Close)

	log.Info("roids starting",
		zap.Duration("tick_rate", cfg.Game.TickRate),
		zap.Bool("headless", *headless),
		zap.Bool("term", *terminal),
	)

	switch {
	case *headless:
		return runHeadless(ctx, w, cfg)
	case *terminal:
		return runTerminal(ctx, w, cfg, log)
	default:
		return host.New(w, cfg.Window, cfg.Game.TickRate, log).Run()
	}
}

// collaborators opens the optional services and wraps them as world
// resources. Failures of optional services are logged and skipped.
func collaborators(ctx context.Context, cfg *config.Config, log *zap.Logger) ([]any, func(), error) {
	var (
		resources []any
		closers   []func() error
	)
	closeAll := func() {
		var errs error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = multierr.Append(errs, closers[i]())
		}
		if errs != nil {
			log.Warn("shutdown", zap.Error(errs))
		}
	}

	var manager *gdata.Manager
	if cfg.Save.Enabled {
		m, err := save.Open(cfg.Save.AppName)
		if err != nil {
			log.Warn("save data unavailable, best score kept in memory", zap.Error(err))
		} else {
			manager = m
		}
	}
	store, err := save.New(manager)
	if err != nil {
		log.Warn("load best score", zap.Error(err))
	}
	if store != nil {
		resources = append(resources, &game.Records{Store: store})
	}

	if cfg.Database.DSN != "" {
		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			log.Warn("run history disabled", zap.Error(err))
		} else {
			closers = append(closers, func() error { db.Close(); return nil })
			if err := persist.RunMigrations(ctx, db.Pool); err != nil {
				return nil, closeAll, fmt.Errorf("migrate run history: %w", err)
			}
			repo := persist.NewRunRepo(db)
			logBestRuns(ctx, repo, log)
			history := &game.History{
				Recorder: repo,
				Timeout:  cfg.Database.Timeout,
			}
			closers = append(closers, func() error { history.Wait(); return nil })
			resources = append(resources, history)
		}
	}

	pacer, err := script.NewPacer(cfg.Script.Path, log)
	if err != nil {
		return nil, closeAll, fmt.Errorf("load pacing script: %w", err)
	}
	closers = append(closers, func() error { pacer.Close(); return nil })
	resources = append(resources, &game.Pacing{Pacer: pacer})

	var player game.SoundPlayer = audio.Nop{}
	if cfg.Audio.Enabled {
		p, err := audio.NewPlayer(cfg.Audio.SampleRate, cfg.Audio.Volume, log)
		if err != nil {
			log.Warn("audio disabled", zap.Error(err))
		} else {
			closers = append(closers, func() error { p.Close(); return nil })
			player = p
		}
	}
	resources = append(resources, &game.Sounds{Player: player})

	return resources, closeAll, nil
}

// logBestRuns prints the leaderboard kept in the run history.
func logBestRuns(ctx context.Context, repo *persist.RunRepo, log *zap.Logger) {
	top, err := repo.Top(ctx, 5)
	if err != nil {
		log.Warn("read best runs", zap.Error(err))
		return
	}
	for i, run := range top {
		log.Info("best run",
			zap.Int("rank", i+1),
			zap.Int("score", run.Score),
			zap.Duration("played", run.Played),
			zap.Time("ended_at", run.EndedAt),
		)
	}
}

// runHeadless starts a run straight away and ticks it on a timer. With no
// input the ship drifts until the asteroids end the run.
func runHeadless(ctx context.Context, w *roids.World, cfg *config.Config) error {
	roids.Resource[game.Assets](w).MarkLoaded(game.AssetSpaceship, game.AssetAsteroid, game.AssetMissile, game.AssetShield)
	for _, p := range []roids.Phase{roids.MainMenu, roids.InGame} {
		if err := w.Transition(p); err != nil {
			return err
		}
	}
	if err := w.Run(ctx, cfg.Game.TickRate); !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runTerminal(ctx context.Context, w *roids.World, cfg *config.Config, log *zap.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	if err := term.New(screen, w, cfg.Game.TickRate, log).Run(ctx); !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
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
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
