// Package main provides the game server binary: it loads the board
// content, wires the game services behind the websocket hub, and runs
// the HTTP listener under lifecycle management.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/A-Paradis/gridduel/internal/api/ws"
	"github.com/A-Paradis/gridduel/internal/config"
	"github.com/A-Paradis/gridduel/internal/events"
	"github.com/A-Paradis/gridduel/internal/game/board"
	"github.com/A-Paradis/gridduel/internal/game/combat"
	"github.com/A-Paradis/gridduel/internal/game/dice"
	"github.com/A-Paradis/gridduel/internal/game/room"
	"github.com/A-Paradis/gridduel/internal/game/timer"
	"github.com/A-Paradis/gridduel/internal/gateway"
	"github.com/A-Paradis/gridduel/internal/observability"
	"github.com/A-Paradis/gridduel/internal/server"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	boardsDir := flag.String("boards", "", "path to board layout YAML directory (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *boardsDir != "" {
		cfg.Game.BoardsDir = *boardsDir
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	// Load board content
	boardStart := time.Now()
	layouts, err := board.LoadLayoutsFromDir(cfg.Game.BoardsDir)
	if err != nil {
		logger.Fatal("loading board layouts", zap.Error(err))
	}
	if _, ok := layouts[cfg.Game.DefaultBoard]; !ok {
		logger.Fatal("default board layout missing",
			zap.String("board", cfg.Game.DefaultBoard),
			zap.String("dir", cfg.Game.BoardsDir))
	}
	logger.Info("board layouts loaded",
		zap.Int("count", len(layouts)),
		zap.Duration("elapsed", time.Since(boardStart)))

	// Game services
	src := dice.NewLoggedSource(dice.NewCryptoSource(), logger)
	rooms := room.NewService()
	timers := timer.NewRegistry()
	orch := combat.NewOrchestrator(timers, combat.NewRegistry(), src, logger, combat.Timings{
		Long:  cfg.Combat.TurnLong,
		Short: cfg.Combat.TurnShort,
		Tick:  cfg.Combat.Tick,
	})
	bus := events.NewBus(logger)

	// Transport
	hub := ws.NewHub(logger)
	actions := gateway.NewActionGateway(rooms, bus, hub, logger, cfg.Combat.PrepareDelay)
	combats := gateway.NewCombatGateway(rooms, orch, bus, hub, logger)
	registrar := gateway.NewRegistrar(rooms, layouts, cfg.Game.DefaultBoard, hub, logger)
	hub.Bind(gateway.NewRouter(actions, combats, registrar, logger))
	hub.OnConnect = func(c *ws.Client, r *http.Request) error {
		q := r.URL.Query()
		return registrar.Register(c, q.Get("room"), q.Get("player"), q.Get("board"), q.Get("bonus"))
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	lc := server.NewLifecycle(logger)
	lc.Add("http", &server.HTTPService{
		Server: &http.Server{Addr: cfg.Server.Addr(), Handler: mux},
		Grace:  cfg.Server.ShutdownGrace,
	})

	logger.Info("starting game server", zap.String("addr", cfg.Server.Addr()))
	if err := lc.Run(context.Background()); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
