package main

import (
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"llamapanama/internal/capi"
	"llamapanama/internal/config"
	"llamapanama/internal/engine"
	"llamapanama/internal/logging"
	"llamapanama/internal/threaderr"
)

var (
	apiOnce sync.Once
	apiInst *capi.API
)

// api lazily builds the process-wide engine. A broken configuration file is
// logged and replaced by defaults so the ABI stays usable.
func api() *capi.API {
	apiOnce.Do(func() {
		cfg, err := config.LoadEnv(config.EnvConfig)
		if err != nil {
			cfg = config.Config{}
			cfg.ApplyDefaults()
		}
		log := logging.Component(logging.New(os.Stderr, cfg.LogLevel, true), "liblp")
		if err != nil {
			log.Warn().Err(err).Str("env", config.EnvConfig).Msg("config load failed, using defaults")
		}
		ec := cfg.EngineConfig()
		ec.Logger = &log
		ec.Registerer = prometheus.DefaultRegisterer
		apiInst = capi.New(engine.NewWithConfig(ec), threaderr.New(cfg.ErrorMessageLimit))
	})
	return apiInst
}
