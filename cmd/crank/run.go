package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	redisAdapter "github.com/aretw0/crank/internal/adapters/redis"
	"github.com/aretw0/crank/internal/cli"
	"github.com/aretw0/crank/pkg/dispatch"
)

type runOptions struct {
	root        *rootOptions
	events      []string
	guards      []string
	tick        time.Duration
	metricsAddr string
	redisAddr   string
	redisKey    string
	journal     bool
}

func newRunCmd(root *rootOptions) *cobra.Command {
	o := &runOptions{root: root}
	cmd := &cobra.Command{
		Use:   "run file",
		Short: "Simulate the state machine of a file",
		Long: `Compiles the diagram of a file against stand-in functions and drives it
with the given events, printing every hook call and transition.

Guards return true unless set otherwise with --guard Name=false. With
--redis-addr the machine keeps running and pops further event names from a
redis list until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: o.run,
	}
	f := cmd.Flags()
	f.StringArrayVarP(&o.events, "event", "e", nil, "Event to post, in order (repeatable)")
	f.StringArrayVarP(&o.guards, "guard", "g", nil, "Guard outcome as Name=true|false (repeatable)")
	f.DurationVar(&o.tick, "tick", dispatch.DefaultTick, "Interval between do hook calls")
	f.StringVar(&o.metricsAddr, "metrics-addr", "", "Serve prometheus metrics on this address")
	f.StringVar(&o.redisAddr, "redis-addr", "", "Read events from a redis list on this address")
	f.StringVar(&o.redisKey, "redis-key", "crank:events", "Redis list holding event names")
	f.BoolVar(&o.journal, "journal", false, "Append fired transitions to <redis-key>:journal")
	return cmd
}

func (o *runOptions) run(cmd *cobra.Command, args []string) error {
	s, err := o.root.session(cmd, nil)
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
	guards, err := cli.ParseGuards(o.guards)
	if err != nil {
		return err
	}
	if o.journal && o.redisAddr == "" {
		return errors.New("--journal requires --redis-addr")
	}

	opts := cli.SimOptions{
		Model:  parsed.Model,
		Events: o.events,
		Guards: guards,
		Tick:   o.tick,
		Out:    cmd.OutOrStdout(),
		Logger: s.Logger,
	}

	if o.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		metrics, err := dispatch.NewMetrics(reg)
		if err != nil {
			return err
		}
		opts.Metrics = metrics
		srv := &http.Server{
			Addr:    o.metricsAddr,
			Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		}
		go func() {
			s.Logger.Info("serving metrics", "addr", o.metricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.Logger.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	if o.redisAddr != "" {
		src := redisAdapter.New(o.redisAddr, "", 0,
			redisAdapter.WithKey(o.redisKey),
			redisAdapter.WithLogger(s.Logger),
		)
		defer src.Close()
		if o.journal {
			opts.Observer = src.Journal(cmd.Context())
		}
		opts.Feed = func(ctx context.Context, m *dispatch.Machine) error {
			s.Logger.Info("reading events from redis", "addr", o.redisAddr, "key", src.Key())
			return src.Run(ctx, m)
		}
	}

	_, err = cli.Simulate(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	return nil
}
