// Package cli implements the lpcli command tree.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"llamapanama/internal/config"
	"llamapanama/internal/engine"
	"llamapanama/internal/logging"
)

// globals carries state shared by every subcommand.
type globals struct {
	configPath string
	logLevel   string

	cfg config.Config
	log zerolog.Logger

	out io.Writer
	err io.Writer
	// registerer receives engine metrics when serving.
	registerer prometheus.Registerer
}

func newGlobals(out, errw io.Writer) *globals {
	return &globals{
		out:        out,
		err:        errw,
		registerer: prometheus.DefaultRegisterer,
		log:        zerolog.Nop(),
	}
}

// setup loads the configuration and builds the logger. The --config flag
// wins over LLAMAPANAMA_CONFIG; --log-level wins over the file.
func (g *globals) setup() error {
	var (
		cfg config.Config
		err error
	)
	if g.configPath != "" {
		cfg, err = config.Load(g.configPath)
		if err != nil {
			return err
		}
		cfg.ApplyEnv()
		cfg.ApplyDefaults()
		err = cfg.Validate()
	} else {
		cfg, err = config.LoadEnv(config.EnvConfig)
	}
	if err != nil {
		return err
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	g.cfg = cfg
	g.log = logging.Component(logging.New(g.err, cfg.LogLevel, true), "lpcli")
	return nil
}

// newEngine builds an engine for the configured backend.
func (g *globals) newEngine(reg prometheus.Registerer) *engine.Engine {
	ec := g.cfg.EngineConfig()
	l := logging.Component(g.log, "engine")
	ec.Logger = &l
	ec.Events = engine.LogPublisher{Log: logging.Component(g.log, "events")}
	ec.Registerer = reg
	return engine.NewWithConfig(ec)
}

// MainWithArgs runs the CLI and returns a process exit code.
func MainWithArgs(args []string) int {
	return mainWith(args, os.Stdout, os.Stderr)
}

func mainWith(args []string, out, errw io.Writer) int {
	g := newGlobals(out, errw)
	root := buildRootCmdWith(g)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errw)
	if len(args) == 0 {
		_ = root.Help()
		return 2
	}
	if err := root.Execute(); err != nil {
		fmt.Fprintln(errw, "error:", err)
		return 1
	}
	return 0
}

// Main returns an exit code for use by cmd/lpcli.
func Main() int { return MainWithArgs(os.Args[1:]) }
