package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	httpAdapter "github.com/aretw0/crank/internal/adapters/http"
	redisAdapter "github.com/aretw0/crank/internal/adapters/redis"
	"github.com/aretw0/crank/internal/cli"
	"github.com/aretw0/crank/pkg/dispatch"
	"github.com/aretw0/crank/pkg/observability"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var (
		port     string
		machines int
		guards    []string
		tick      time.Duration
		redisAddr string
		redisKey  string
	)
	cmd := &cobra.Command{
		Use:   "serve file",
		Short: "Serve machines of a file over HTTP",
		Long: `Compiles the diagram of a file against stand-in functions and exposes a
fleet of machines through a JSON control API, with prometheus metrics on /metrics.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.session(cmd, nil)
			if err != nil {
				return err
			}
			eng, err := s.Engine()
			if err != nil {
				return err
			}
			parsed, err := eng.Parse(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			values, err := cli.ParseGuards(guards)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector())
			metrics, err := dispatch.NewMetrics(reg)
			if err != nil {
				return err
			}
			tables, err := dispatch.Compile(parsed.Model,
				cli.SimRegistry(parsed.Model, values, cmd.OutOrStdout(), s.Logger),
				dispatch.CompileOptions{})
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			observer := observability.LogObserver(s.Logger)
			if redisAddr != "" {
				src := redisAdapter.New(redisAddr, "", 0,
					redisAdapter.WithKey(redisKey),
					redisAdapter.WithLogger(s.Logger),
				)
				defer src.Close()
				s.Logger.Info("journaling transitions", "addr", redisAddr, "key", src.JournalKey())
				observer = observability.Combine(observer, src.Journal(ctx))
			}

			fleet := httpAdapter.NewFleet(ctx, func(id string) (*dispatch.Machine, error) {
				return dispatch.New(tables,
					dispatch.WithID(id),
					dispatch.WithLogger(s.Logger),
					dispatch.WithTick(tick),
					dispatch.WithMetrics(metrics),
					dispatch.WithObserver(observer),
				)
			}, s.Logger)
			defer fleet.Shutdown()
			for i := 0; i < machines; i++ {
				if _, err := fleet.Spawn(); err != nil {
					return err
				}
			}

			srv := &http.Server{
				Addr:    ":" + port,
				Handler: httpAdapter.NewHandler(fleet, reg, s.Logger),
			}

			// Channel to listen for errors coming from the listener.
			serverErrors := make(chan error, 1)
			go func() {
				s.Logger.Info("starting crank server", "addr", srv.Addr, "file", args[0], "machines", machines)
				serverErrors <- srv.ListenAndServe()
			}()

			// Blocking until the listener fails or a signal cancels ctx.
			select {
			case err := <-serverErrors:
				return fmt.Errorf("server error: %w", err)

			case <-ctx.Done():
				s.Logger.Info("start shutdown")

				// Give outstanding requests a deadline for completion.
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				if err := srv.Shutdown(shutdownCtx); err != nil {
					s.Logger.Warn("graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
					if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						return fmt.Errorf("error killing server: %w", err)
					}
				}
				s.Logger.Info("crank server stopped gracefully")
				return nil
			}
		},
	}
	f := cmd.Flags()
	f.StringVarP(&port, "port", "p", "8080", "Port to listen on")
	f.IntVarP(&machines, "machines", "m", 1, "Machines to spawn at startup")
	f.StringArrayVarP(&guards, "guard", "g", nil, "Guard outcome as Name=true|false (repeatable)")
	f.DurationVar(&tick, "tick", dispatch.DefaultTick, "Interval between do hook calls")
	f.StringVar(&redisAddr, "redis-addr", "", "Journal fired transitions to a redis list on this address")
	f.StringVar(&redisKey, "redis-key", "crank:events", "Redis key prefix; transitions go to <key>:journal")
	return cmd
}
