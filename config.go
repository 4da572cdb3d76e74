package main

import (
	"fmt"
	"net"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-errors/errors"
	"github.com/jessevdk/go-flags"
	"github.com/xlnfinance/xln-sub004/rdb"
	"github.com/xlnfinance/xln-sub004/router"
)

const (
	defaultRPCPort          = 5050
	defaultSnapshotFilename = "snapshot.yaml"
	defaultOutboxFilename   = "outbox.yaml"
)

type routerConfig struct {
	MaxHops               int    `long:"maxhops" description:"Maximum hops per route"`
	MaxCandidates         int    `long:"maxcandidates" description:"Maximum candidate paths per quote"`
	MinLoopIntermediaries int    `long:"minloop" description:"Minimum distinct intermediaries of a self-payment loop"`
	UnknownBaseFee        string `long:"unknownbasefee" description:"Base fee assumed for entities without a published policy"`
	UnknownFeePPM         uint32 `long:"unknownfeeppm" description:"Fee rate in ppm assumed for entities without a published policy"`
	SurchargeStepBps      uint32 `long:"surchargestep" description:"Utilization step in basis points that raises the fee rate, 0 disables"`
	SurchargeStepPct      uint32 `long:"surchargepct" description:"Percent added to the fee rate per utilization step"`
	SurchargeMaxPct       uint32 `long:"surchargemax" description:"Maximum fee rate multiplier in percent"`
}

type preflightConfig struct {
	Attempts       int           `long:"attempts" description:"Metadata refresh attempts for entities without routing keys"`
	InitialBackoff time.Duration `long:"initialbackoff" description:"Wait after the first refresh request"`
	MaxBackoff     time.Duration `long:"maxbackoff" description:"Longest wait between refresh requests"`
	Multiplier     float64       `long:"multiplier" description:"Backoff growth factor"`
}

type config struct {
	ShowVersion  bool     `short:"v" long:"version" description:"Display version information and exit."`
	ConfigFile   string   `short:"C" long:"configfile" description:"Path to an INI configuration file"`
	Debug        bool     `long:"debug" description:"Start in debug mode."`
	SnapshotPath string   `long:"snapshot" description:"Path to the YAML network snapshot"`
	OutboxPath   string   `long:"outbox" description:"Path of the YAML outbox for payment instructions"`
	RawListeners []string `long:"listen" description:"Add an interface/port/socket to listen for RPC connections"`
	Listeners    []net.Addr

	Router    routerConfig    `group:"Router" namespace:"router"`
	Preflight preflightConfig `group:"Preflight" namespace:"preflight"`
}

func defaultConfig() config {
	policy := router.DefaultPolicyConfig()
	preflight := router.DefaultPreflightConfig()

	return config{
		SnapshotPath: defaultSnapshotFilename,
		OutboxPath:   defaultOutboxFilename,
		Router: routerConfig{
			MaxHops:               router.DefaultMaxHops,
			MaxCandidates:         router.DefaultMaxCandidates,
			MinLoopIntermediaries: router.DefaultMinLoopIntermediaries,
			UnknownBaseFee:        policy.UnknownBaseFee.String(),
			UnknownFeePPM:         policy.UnknownFeePPM,
			SurchargeStepBps:      policy.SurchargeStepBps,
			SurchargeStepPct:      policy.SurchargeStepPct,
			SurchargeMaxPct:       policy.SurchargeMaxPct,
		},
		Preflight: preflightConfig{
			Attempts:       preflight.Attempts,
			InitialBackoff: preflight.InitialBackoff,
			MaxBackoff:     preflight.MaxBackoff,
			Multiplier:     preflight.Multiplier,
		},
	}
}

// loadConfig reads the command line, then the optional config file, then
// the command line again so flags win over the file.
func loadConfig() (*config, error) {
	return parseConfig(os.Args[1:])
}

func parseConfig(args []string) (*config, error) {
	preCfg := defaultConfig()
	if _, err := flags.ParseArgs(&preCfg, args); err != nil {
		return nil, err
	}

	if preCfg.ShowVersion {
		return &preCfg, nil
	}

	cfg := defaultConfig()
	parser := flags.NewParser(&cfg, flags.Default)

	if preCfg.ConfigFile != "" {
		if err := flags.NewIniParser(parser).ParseFile(cleanAndExpandPath(preCfg.ConfigFile)); err != nil {
			return nil, errors.Errorf("Could not read config file: %v", err)
		}
	}

	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}

	cfg.SnapshotPath = cleanAndExpandPath(cfg.SnapshotPath)
	cfg.OutboxPath = cleanAndExpandPath(cfg.OutboxPath)

	// Listen on the default interface/port if no listeners were specified.
	// An empty address string means default interface/address, which on
	// most unix systems is the same as 0.0.0.0.
	if len(cfg.RawListeners) == 0 {
		addr := fmt.Sprintf(":%d", defaultRPCPort)
		cfg.RawListeners = append(cfg.RawListeners, addr)
	}

	cfg.Listeners = make([]net.Addr, 0, len(cfg.RawListeners))
	for _, addr := range cfg.RawListeners {
		parsedAddr, err := net.ResolveTCPAddr("tcp", addr)
		if err != nil {
			return nil, err
		}

		cfg.Listeners = append(cfg.Listeners, parsedAddr)
	}

	if _, _, err := cfg.routing(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// routing converts the flag groups into router settings.
func (cfg *config) routing() (router.PolicyConfig, router.PreflightConfig, error) {
	var policy router.PolicyConfig
	var preflight router.PreflightConfig

	baseFee := rdb.Amount{}
	if cfg.Router.UnknownBaseFee != "" {
		var err error
		if baseFee, err = rdb.ParseAmount(cfg.Router.UnknownBaseFee); err != nil {
			return policy, preflight, errors.Errorf("Invalid router.unknownbasefee: %v", err)
		}
	}

	if cfg.Router.UnknownFeePPM >= rdb.PPMDenominator {
		return policy, preflight, errors.Errorf("router.unknownfeeppm must be below %v", rdb.PPMDenominator)
	}

	if cfg.Router.SurchargeMaxPct != 0 && cfg.Router.SurchargeMaxPct < 100 {
		return policy, preflight, errors.Errorf("router.surchargemax must be at least 100")
	}

	if cfg.Preflight.Attempts < 0 {
		return policy, preflight, errors.Errorf("preflight.attempts must not be negative")
	}

	policy = router.PolicyConfig{
		UnknownBaseFee:   baseFee,
		UnknownFeePPM:    cfg.Router.UnknownFeePPM,
		SurchargeStepBps: cfg.Router.SurchargeStepBps,
		SurchargeStepPct: cfg.Router.SurchargeStepPct,
		SurchargeMaxPct:  cfg.Router.SurchargeMaxPct,
	}

	preflight = router.PreflightConfig{
		Attempts:       cfg.Preflight.Attempts,
		InitialBackoff: cfg.Preflight.InitialBackoff,
		MaxBackoff:     cfg.Preflight.MaxBackoff,
		Multiplier:     cfg.Preflight.Multiplier,
	}

	return policy, preflight, nil
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
// This function is taken from https://github.com/btcsuite/btcd
func cleanAndExpandPath(path string) string {
	if path == "" {
		return ""
	}

	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		var homeDir string
		user, err := user.Current()
		if err == nil {
			homeDir = user.HomeDir
		} else {
			homeDir = os.Getenv("HOME")
		}

		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but the variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}
