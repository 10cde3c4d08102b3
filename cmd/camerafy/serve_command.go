package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go-camerafy"
	"github.com/anatolykoptev/go-camerafy/internal/web"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the photo listing, classify and upload-check API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			gate, err := ctx.gate()
			if err != nil {
				return err
			}

			var photos []camerafy.Photo
			if cfg.Archive.Manifest != "" {
				if photos, err = camerafy.LoadPhotos(cfg.Archive.Manifest); err != nil {
					return err
				}
				slog.Info("camerafy: photo manifest loaded", "path", cfg.Archive.Manifest, "photos", len(photos))
			}

			if addr == "" {
				addr = cfg.Server.Addr
			}
			srv := web.NewServer(web.Options{
				Gate:           gate,
				Photos:         photos,
				RequestTimeout: seconds(cfg.Server.RequestTimeoutSeconds),
				ReadTimeout:    seconds(cfg.Server.ReadTimeoutSeconds),
				WriteTimeout:   seconds(cfg.Server.WriteTimeoutSeconds),
				ShutdownGrace:  seconds(cfg.Server.ShutdownSeconds),
			})

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(runCtx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
