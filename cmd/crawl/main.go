package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/crawl/actor"
	"github.com/lixenwraith/crawl/asset"
	"github.com/lixenwraith/crawl/config"
	"github.com/lixenwraith/crawl/core"
	"github.com/lixenwraith/crawl/floor"
	"github.com/lixenwraith/crawl/game"
	"github.com/lixenwraith/crawl/render"
	"github.com/lixenwraith/crawl/spectate"
	"github.com/lixenwraith/crawl/terminal"
	"github.com/lixenwraith/crawl/world"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// Panic Recovery: Ensure terminal is reset even if the game crashes
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	o := &options{}
	fs := newFlagSet(o)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			fmt.Fprintf(os.Stderr, "crawl: %v\n", err)
			return 2
		}
	}
	if err := o.apply(fs, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "crawl: %v\n", err)
		return 2
	}

	log, logFile := setupLogging(cfg.Debug)
	if logFile != nil {
		defer logFile.Close()
	}

	w, err := buildWorld(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "crawl: %v\n", err)
		return 1
	}
	rc, err := cfg.Render()
	if err != nil {
		fmt.Fprintf(os.Stderr, "crawl: %v\n", err)
		return 2
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var (
		hub  *spectate.Hub
		loop *render.Loop
		fini func()
	)
	if cfg.SpectateAddr != "" {
		if cfg.Backend == config.BackendANSI {
			hub = spectate.NewHub(func() { loop.RequestRepaint() }, log)
		} else {
			log.WithField("backend", cfg.Backend).Warn("spectating needs the ansi backend, disabled")
		}
	}

	switch cfg.Backend {
	case config.BackendTcell:
		loop, fini, err = startTcell(cancel, w, rc, log)
	default:
		loop, fini, err = startANSI(ctx, cancel, w, cfg, rc, hub, log)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "crawl: %v\n", err)
		return 1
	}
	// Normal exit cleanup; Fini is idempotent
	defer fini()

	if hub != nil {
		core.Go(func() {
			if err := hub.Serve(ctx, cfg.SpectateAddr, nil); err != nil {
				log.WithError(err).Error("spectate server failed")
			}
		})
	}

	driver := game.NewDriver(w, cfg.Game(), log)
	core.Go(func() {
		if err := driver.Run(ctx); err != nil {
			log.WithError(err).Error("driver stopped")
			w.RequestStop()
		}
	})

	runErr := loop.Run(ctx)
	cancel()
	fini()
	core.SetCrashTerminal(nil)

	if runErr != nil {
		log.WithError(runErr).Error("render loop failed")
		fmt.Fprintf(os.Stderr, "crawl: %v\n", runErr)
		return 1
	}
	return 0
}

// buildWorld loads the floor and places actors at their marked starts
func buildWorld(cfg config.Config) (*world.World, error) {
	var (
		bp  *floor.Blueprint
		err error
	)
	if cfg.FloorPath != "" {
		bp, err = floor.Load(cfg.FloorPath)
	} else {
		bp, err = floor.Parse([]byte(asset.DefaultFloor))
	}
	if err != nil {
		return nil, err
	}

	if cfg.Placeholder != "" {
		if err := floor.CheckGlyph(cfg.Placeholder); err != nil {
			return nil, fmt.Errorf("placeholder: %w", err)
		}
		bp.Floor.Placeholder = cfg.Placeholder
	}

	monsters := make([]actor.Monster, 0, len(bp.MonsterStarts))
	for _, c := range bp.MonsterStarts {
		monsters = append(monsters, actor.NewMonster("", "", c))
	}
	return world.New(bp.Floor, actor.NewPlayer("", "", bp.PlayerStart), monsters), nil
}

// startANSI takes the terminal into raw mode and renders through ANSI sequences
// With a hub, every flushed frame is mirrored to spectators
func startANSI(ctx context.Context, cancel context.CancelFunc, w *world.World, cfg config.Config,
	rc render.Config, hub *spectate.Hub, log logrus.FieldLogger) (*render.Loop, func(), error) {

	term := terminal.New(cfg.TerminalColorMode())
	if err := term.Init(); err != nil {
		return nil, nil, fmt.Errorf("terminal init: %w", err)
	}
	core.SetCrashTerminal(term)

	var out io.Writer = term
	if hub != nil {
		out = io.MultiWriter(term, hub)
	}
	loop := render.New(w, terminal.NewANSISurface(out, term.ColorMode()), rc, log)

	core.Go(func() { readQuit(ctx, term, cancel) })
	core.Go(func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-term.ResizeChan():
				loop.RequestRepaint()
			}
		}
	})

	log.WithField("color_mode", term.ColorMode().String()).Info("ansi backend ready")
	return loop, term.Fini, nil
}

// startTcell renders through a tcell screen
func startTcell(cancel context.CancelFunc, w *world.World,
	rc render.Config, log logrus.FieldLogger) (*render.Loop, func(), error) {

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, nil, fmt.Errorf("tcell screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, nil, fmt.Errorf("tcell init: %w", err)
	}
	screen.EnableMouse()

	surface := terminal.NewTcellSurface(screen)
	core.SetCrashTerminal(surface)

	loop := render.New(w, surface, rc, log)
	core.Go(func() { pollTcell(screen, cancel, loop.RequestRepaint) })

	log.Info("tcell backend ready")
	return loop, surface.Fini, nil
}
