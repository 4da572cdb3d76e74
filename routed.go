package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-errors/errors"
	"github.com/jessevdk/go-flags"
	log "github.com/sirupsen/logrus"
	"github.com/xlnfinance/xln-sub004/router"
	"github.com/xlnfinance/xln-sub004/rpc"
	"github.com/xlnfinance/xln-sub004/snapshot"
	"google.golang.org/grpc"
)

var (
	// Commit stores the current commit hash of this build. This should be set using -ldflags during compilation.
	commit string
	// Version stores the version string of this build. This should be set using -ldflags during compilation.
	version string
	// Stores the date of this build. This should be set using -ldflags during compilation.
	date string
)

// routedMain is the true entry point for routed. This is required since defers
// created in the top-level scope of a main method aren't executed if os.Exit() is called.
func routedMain() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.ShowVersion {
		fmt.Printf("version=%s commit=%s date=%s\n", version, commit, date)
		return nil
	}

	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	log.Debug("Starting routed...")

	// Print version of the daemon
	log.Infof("Version %s (commit %s)", version, commit)
	log.Infof("Built on %s", date)

	client, err := snapshot.NewClient(&snapshot.Config{
		SnapshotPath: cfg.SnapshotPath,
		OutboxPath:   cfg.OutboxPath,
		Logger:       log.WithField("subsystem", "snapshot"),
	})
	if err != nil {
		return errors.Errorf("Could not open snapshot: %v", err)
	}
	defer client.Stop()

	policy, preflight, err := cfg.routing()
	if err != nil {
		return err
	}

	r, err := router.NewRouter(&router.Config{
		Logger:                log.WithField("subsystem", "router"),
		Source:                client,
		Refresher:             client,
		Submitter:             client,
		MaxHops:               cfg.Router.MaxHops,
		MaxCandidates:         cfg.Router.MaxCandidates,
		MinLoopIntermediaries: cfg.Router.MinLoopIntermediaries,
		Policy:                policy,
		Preflight:             preflight,
	})
	if err != nil {
		return errors.Errorf("Could not create router: %v", err)
	}

	server := grpc.NewServer()
	rpc.RegisterRouterServer(server, newRPCServer(&rpcServerConfig{
		router:  r,
		client:  client,
		version: version,
		commit:  commit,
	}))

	for _, addr := range cfg.Listeners {
		listener, err := net.Listen(addr.Network(), addr.String())
		if err != nil {
			server.Stop()
			return errors.Errorf("Could not listen on %v: %v", addr, err)
		}

		log.Infof("RPC server listening on %s", listener.Addr())

		go func() {
			if err := server.Serve(listener); err != nil {
				log.WithError(err).Error("RPC server stopped")
			}
		}()
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	<-interrupt

	log.Info("Stopping routed...")
	server.GracefulStop()

	return nil
}

func main() {
	// Call the "real" main in a nested manner so the defers will properly
	// be executed in the case of a graceful shutdown.
	if err := routedMain(); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
		} else {
			log.WithError(err).Println("Failed running routed.")
		}
		os.Exit(1)
	}
}
