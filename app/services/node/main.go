package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abcchain/abc/app/services/node/handlers"
	"github.com/abcchain/abc/foundation/events"
	"github.com/abcchain/abc/foundation/keys"
	"github.com/abcchain/abc/foundation/logger"
	"github.com/abcchain/abc/foundation/nodestate"
	"github.com/abcchain/abc/foundation/nodestate/storage/bolt"
	"github.com/abcchain/abc/foundation/nodestate/storage/disk"
	"github.com/abcchain/abc/foundation/peer"
	"github.com/ardanlabs/conf/v3"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("NODE")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	// This is all the configuration for the application and the default values.
	// Configuration values will be passed through the application as individual
	// values.
	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:10s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			DebugHost       string        `conf:"default:0.0.0.0:7080"`
			PublicHost      string        `conf:"default:0.0.0.0:8080"`
			PrivateHost     string        `conf:"default:127.0.0.1:9080"`
		}
		State struct {
			DataPath   string   `conf:"default:data/abc.json"`
			Backend    string   `conf:"default:disk"`
			KeyPath    string   `conf:"default:data/node.ecdsa"`
			Version    string   `conf:"default:00000001"`
			Difficulty uint16   `conf:"default:4"`
			Reward     float64  `conf:"default:100"`
			SeedPeers  []string `conf:"default:127.0.0.1:3390;localhost:3390"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "ABC - A Block Chain node",
		},
	}

	// Parse will set the defaults and then look for any overriding values
	// in environment variables and command line flags.
	const prefix = "NODE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	// Display the current configuration to the logs.
	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Node State Support

	// The node key is only needed the first time the node runs, to derive
	// the wallet address. It is created if it doesn't exist yet.
	key, created, err := keys.LoadOrGenerate(cfg.State.KeyPath)
	if err != nil {
		return fmt.Errorf("unable to load node key: %w", err)
	}
	log.Infow("startup", "status", "node key", "path", cfg.State.KeyPath, "created", created, "account", key.Account())

	seeds := make(map[string]peer.Peer, len(cfg.State.SeedPeers))
	for i, host := range cfg.State.SeedPeers {
		p, err := peer.Parse(host)
		if err != nil {
			return fmt.Errorf("parsing seed peer %q: %w", host, err)
		}
		seeds[fmt.Sprintf("%d", i+1)] = p
	}

	strg, err := openStorage(cfg.State.Backend, cfg.State.DataPath)
	if err != nil {
		return fmt.Errorf("opening %s storage: %w", cfg.State.Backend, err)
	}

	// Node state events are sent to the logs and to any websocket client
	// that is connected into the system through the events package.
	evts := events.New()
	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s, "traceid", "00000000-0000-0000-0000-000000000000")
		evts.Send(s)
	}

	// The store is the single owner of the node state. Every consumer below
	// gets this same value.
	store, err := nodestate.New(nodestate.Config{
		Storage:   strg,
		PublicKey: key,
		Defaults: nodestate.Defaults{
			Version:    cfg.State.Version,
			Difficulty: cfg.State.Difficulty,
			Reward:     cfg.State.Reward,
			Peers:      seeds,
		},
		EvHandler: ev,
	})
	if err != nil {
		strg.Close()
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Errorw("shutdown", "status", "closing node state", "ERROR", err)
		}
	}()

	state := store.All()
	log.Infow("startup", "status", "node state", "height", state.Height, "last_block", state.LastBlock, "address", state.Wallet.Address)

	// The network layer dials these peers. Logging them documents what the
	// node would connect to.
	for _, p := range store.Peers().Copy(cfg.Web.PrivateHost) {
		log.Infow("startup", "status", "known peer", "host", p.Host())
	}

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug v1 router started", "host", cfg.Web.DebugHost)

	// The Debug function returns a mux to listen and serve on for all the debug
	// related endpoints. This includes the standard library endpoints.

	// Construct the mux for the debug calls.
	debugMux := handlers.DebugMux(build, log, store)

	// Start the service listening for debug requests.
	// Not concerned with shutting this down with load shedding.
	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, debugMux); err != nil {
			log.Errorw("shutdown", "status", "debug v1 router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Service Start/Stop Support

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Make a channel to listen for errors coming from the listener. Use a
	// buffered channel so the goroutine can exit if we don't collect this error.
	serverErrors := make(chan error, 1)

	// =========================================================================
	// Start Public Service

	log.Infow("startup", "status", "initializing V1 public API support")

	// Construct the mux for the public API calls.
	publicMux := handlers.PublicMux(handlers.MuxConfig{
		Shutdown: shutdown,
		Log:      log,
		Store:    store,
		Evts:     evts,
	})

	// Construct a server to service the requests against the mux.
	public := http.Server{
		Addr:         cfg.Web.PublicHost,
		Handler:      publicMux,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	// Start the service listening for api requests.
	go func() {
		log.Infow("startup", "status", "public api router started", "host", public.Addr)
		serverErrors <- public.ListenAndServe()
	}()

	// =========================================================================
	// Start Private Service

	log.Infow("startup", "status", "initializing V1 private API support")

	// Construct the mux for the private API calls.
	privateMux := handlers.PrivateMux(handlers.MuxConfig{
		Shutdown: shutdown,
		Log:      log,
		Store:    store,
	})

	// Construct a server to service the requests against the mux.
	private := http.Server{
		Addr:         cfg.Web.PrivateHost,
		Handler:      privateMux,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	// Start the service listening for api requests.
	go func() {
		log.Infow("startup", "status", "private api router started", "host", private.Addr)
		serverErrors <- private.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		// Release any web sockets that are currently active.
		log.Infow("shutdown", "status", "shutdown web socket channels")
		evts.Shutdown()

		// Give outstanding requests a deadline for completion.
		ctx, cancelPri := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancelPri()

		// Stop taking changes before the public side goes away.
		log.Infow("shutdown", "status", "shutdown private API started")
		if err := private.Shutdown(ctx); err != nil {
			private.Close()
			return fmt.Errorf("could not stop private service gracefully: %w", err)
		}

		// Give outstanding requests a deadline for completion.
		ctx, cancelPub := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancelPub()

		// Asking listener to shut down and shed load.
		log.Infow("shutdown", "status", "shutdown public API started")
		if err := public.Shutdown(ctx); err != nil {
			public.Close()
			return fmt.Errorf("could not stop public service gracefully: %w", err)
		}
	}

	return nil
}

// openStorage constructs the backing record for the configured backend.
func openStorage(backend string, path string) (nodestate.Storage, error) {
	switch backend {
	case "disk":
		return disk.New(path)
	case "bolt":
		return bolt.New(path)
	}

	return nil, fmt.Errorf("unknown backend %q", backend)
}
