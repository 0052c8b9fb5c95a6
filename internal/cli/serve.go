package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/volleyball-arena/internal/httpapi"
	"github.com/DoyleJ11/volleyball-arena/internal/hub"
	"github.com/DoyleJ11/volleyball-arena/internal/session"
)

const shutdownTimeout = 10 * time.Second

func ServeCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve arenas over HTTP and websocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer log.Sync()
			if addr != "" {
				cfg.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := openStore(ctx, cfg, log)
			if err != nil {
				return err
			}

			h := hub.NewHub(ctx, session.Options{
				Logger:    log,
				Store:     st,
				Seed:      cfg.Seed,
				FlashHold: cfg.GoalFlashHold,
			})
			api := httpapi.NewAPI(h, st, cfg.Arena(), log.Named("http"))
			srv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           httpapi.SetupRoutes(api),
				ReadHeaderTimeout: 5 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				log.Info("listening", zap.String("addr", cfg.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				log.Info("shutting down")
				sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				err := srv.Shutdown(sctx)
				h.Inbox() <- hub.ShutdownHub{}
				return multierr.Append(err, st.Close())
			})
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides ADDR")
	return cmd
}
