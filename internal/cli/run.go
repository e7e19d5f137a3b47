package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openshorts/openshorts/internal/config"
	"github.com/openshorts/openshorts/internal/pipeline"
	"github.com/openshorts/openshorts/internal/project"
	"github.com/openshorts/openshorts/internal/server"
)

func newLogger() (*zap.SugaredLogger, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func runProcess(cmd *cobra.Command, input string) error {
	outDir, _ := cmd.Flags().GetString("out")
	targetLen, _ := cmd.Flags().GetFloat64("len")
	maxClips, _ := cmd.Flags().GetInt("clips")
	aspect, _ := cmd.Flags().GetString("aspect")
	style, _ := cmd.Flags().GetString("style")
	lang, _ := cmd.Flags().GetString("lang")

	app, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, 3*time.Hour)
	defer cancelTimeout()

	cfg := pipeline.Config{
		Input:        absIn,
		WorkDir:      filepath.Join(outDir, "work"),
		ClipsDir:     filepath.Join(outDir, "clips"),
		ManifestPath: filepath.Join(outDir, "manifest.json"),
		TargetLen:    targetLen,
		MaxClips:     maxClips,
		Aspect:       aspect,
		Style:        style,
		Language:     lang,
		App:          app,
		Logf:         log.Infof,
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	manifest, err := pipeline.Run(ctx, cfg)
	if err != nil {
		return err
	}
	log.Infow("done", "clips", len(manifest), "out", outDir)
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	app, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	store := project.NewStore(app.Server.DataRoot)
	srv := server.New(app, store, log)

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", app.Server.Port),
		Handler: srv.Router(),
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()
	log.Infow("listening", "port", app.Server.Port, "data_root", app.Server.DataRoot)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	return httpSrv.Shutdown(shutdownCtx)
}
