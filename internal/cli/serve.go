package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"llamapanama/internal/common/fsutil"
	"llamapanama/internal/engine"
	"llamapanama/internal/httpapi"
	"llamapanama/internal/logging"
	"llamapanama/internal/registry"
	"llamapanama/internal/session"
	"llamapanama/pkg/types"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(g *globals) *cobra.Command {
	var addr, modelsDir, defaultModel string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				g.cfg.Addr = addr
			}
			if cmd.Flags().Changed("models-dir") {
				g.cfg.ModelsDir = modelsDir
			}
			if cmd.Flags().Changed("default-model") {
				g.cfg.DefaultModel = defaultModel
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ln, err := net.Listen("tcp", g.cfg.Addr)
			if err != nil {
				return err
			}
			return g.serve(ctx, ln)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address, e.g. :8080 (default from config)")
	cmd.Flags().StringVar(&modelsDir, "models-dir", "", "Directory to scan for *.gguf model files")
	cmd.Flags().StringVar(&defaultModel, "default-model", "", "Default model id when a request omits model")
	return cmd
}

// loadRegistry scans the models dir. A missing dir yields an empty registry
// so the placeholder model is served.
func (g *globals) loadRegistry() ([]types.Model, error) {
	dir, err := fsutil.Resolve(g.cfg.ModelsDir)
	if err != nil {
		return nil, err
	}
	if !fsutil.PathExists(dir) {
		g.log.Warn().Str("dir", dir).Msg("models dir missing; serving placeholder model")
		return nil, nil
	}
	return registry.LoadDir(dir)
}

// serve runs the HTTP API on ln until ctx is done, then shuts down
// gracefully.
func (g *globals) serve(ctx context.Context, ln net.Listener) error {
	models, err := g.loadRegistry()
	if err != nil {
		return err
	}
	eng := g.newEngine(g.registerer)
	defer func() {
		if err := eng.Close(); err != nil {
			g.log.Warn().Err(err).Msg("engine close")
		}
	}()

	svcLog := logging.Component(g.log, "session")
	svc := session.NewService(session.ServiceConfig{
		Engine:        eng,
		Models:        models,
		DefaultModel:  g.cfg.DefaultModel,
		Defaults:      g.cfg.SamplerDefaults(),
		ContextSize:   g.cfg.ContextSize,
		Threads:       g.cfg.Threads,
		GPULayers:     g.cfg.GPULayers,
		MaxQueueDepth: g.cfg.MaxQueueDepth,
		MaxInflight:   g.cfg.MaxInflight,
		MaxWait:       g.cfg.MaxWait(),
		Logger:        &svcLog,
	})
	defer svc.Close()

	httpapi.SetLogger(logging.Component(g.log, "http"))
	httpapi.SetMaxBodyBytes(g.cfg.MaxBodyBytes)
	httpapi.SetGenerateTimeoutSeconds(g.cfg.GenerateTimeoutSeconds)
	c := g.cfg.CORS
	httpapi.SetCORSOptions(c.Enabled, c.AllowedOrigins, c.AllowedMethods, c.AllowedHeaders)
	httpapi.SetBaseContext(ctx)
	defer httpapi.SetBaseContext(nil)

	srv := &http.Server{
		Handler:           httpapi.NewMux(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		g.log.Info().Str("addr", ln.Addr().String()).Int("models", len(models)).Str("backend", g.cfg.Backend).Bool("llama_built", engine.LlamaBuilt()).Msg("listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	grp.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			g.log.Error().Err(err).Msg("graceful shutdown")
			return err
		}
		g.log.Info().Msg("server stopped")
		return nil
	})
	return grp.Wait()
}
