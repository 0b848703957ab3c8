// File: cmd/threadctl/run.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/momentics/hioload-thread/control"
	"github.com/momentics/hioload-thread/internal/concurrency"
	"github.com/momentics/hioload-thread/internal/logging"
	"github.com/momentics/hioload-thread/thread"
	"github.com/momentics/hioload-thread/tracing"
)

type config struct {
	profiles    string
	logLevel    string
	metricsAddr string
	work        time.Duration
	dump        bool
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "spawn the threads of a profile file and report their exit codes",
		Flags: []cli.Flag{
			profilesFlag(),
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level; overrides settings.log_level",
			},
			&cli.StringFlag{
				Name:  "metrics",
				Usage: "serve /metrics on this address; overrides settings.metrics_addr",
			},
			&cli.DurationFlag{
				Name:  "work",
				Value: 100 * time.Millisecond,
				Usage: "how long each thread spins",
			},
			&cli.BoolFlag{
				Name:  "dump",
				Value: true,
				Usage: "print debug probes before exiting",
			},
		},
		Action: func(c *cli.Context) error {
			return run(config{
				profiles:    c.String("profiles"),
				logLevel:    c.String("log-level"),
				metricsAddr: c.String("metrics"),
				work:        c.Duration("work"),
				dump:        c.Bool("dump"),
			})
		},
	}
}

type started struct {
	handle   *thread.Handle
	override *thread.Override
}

func run(cfg config) error {
	set, err := control.LoadProfiles(cfg.profiles)
	if err != nil {
		return err
	}

	cs := control.NewConfigStore()
	cs.OnReload(func() {
		thread.SetMaxThreads(cs.Defaults().MaxThreads)
	})
	set.Settings.Apply(cs)
	flagOverrides := map[string]any{}
	if cfg.logLevel != "" {
		flagOverrides[control.KeyLogLevel] = cfg.logLevel
	}
	if cfg.metricsAddr != "" {
		flagOverrides[control.KeyMetricsAddr] = cfg.metricsAddr
	}
	if len(flagOverrides) > 0 {
		cs.SetConfig(flagOverrides)
	}
	defaults := cs.Defaults()

	log, err := logging.NewDevelopment(defaults.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	reg := prometheus.NewRegistry()
	metrics, err := control.NewMetrics("", reg)
	if err != nil {
		return err
	}
	if defaults.MetricsAddr != "" {
		srv := serveMetrics(defaults.MetricsAddr, reg, log)
		defer srv.Close()
	}

	registry := thread.NewRegistry()
	probes := control.NewDebugProbes()
	control.RegisterThreadProbes(probes, registry.Snapshot)
	control.RegisterPlatformProbes(probes, concurrency.Default())

	opts := []thread.Option{
		thread.WithLogger(log),
		thread.WithTracer(tracing.NewLogTracer(log)),
		thread.WithMetrics(metrics),
		thread.WithRegistry(registry),
	}

	var (
		threads  []started
		failures int
	)
	for _, p := range set.Profiles {
		params, err := p.Params()
		if err != nil {
			return err
		}
		n := p.Instances()
		for i := 0; i < n; i++ {
			ip := params
			if n > 1 {
				ip.Name = fmt.Sprintf("%s-%d", p.Name, i)
			}
			h, err := thread.Create(spin, cfg.work, ip, opts...)
			if err != nil {
				failures++
				log.Warn("thread not started", zap.String("profile", p.Name), zap.Error(err))
				continue
			}
			s := started{handle: h}
			if class, ok := p.OverrideClass(); ok {
				s.override = h.BeginOverride(class)
			}
			threads = append(threads, s)
		}
	}
	log.Info("threads created", zap.Int("count", len(threads)), zap.Int("failed", failures))

	for _, s := range threads {
		s.handle.Resume()
	}
	rows := pterm.TableData{{"thread", "tid", "priority", "exit"}}
	for _, s := range threads {
		<-s.handle.Done()
		s.override.End()
		code, _ := s.handle.ExitCode()
		rows = append(rows, []string{
			s.handle.Name(),
			fmt.Sprint(s.handle.ID()),
			s.handle.BasePriority().String(),
			fmt.Sprint(code),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		return err
	}

	if cfg.dump {
		out, err := json.MarshalIndent(probes.DumpState(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	}
	for _, s := range threads {
		s.handle.Release()
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d threads failed to start", failures, failures+len(threads))
	}
	return nil
}

func serveMetrics(addr string, reg *prometheus.Registry, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("metrics server stopped", zap.Error(err))
		}
	}()
	log.Info("serving metrics", zap.String("addr", addr))
	return srv
}

// spin burns CPU for the duration passed as arg and returns the number of
// completed iterations modulo 256.
func spin(arg any) int {
	d, _ := arg.(time.Duration)
	deadline := time.Now().Add(d)
	n := 0
	for time.Now().Before(deadline) {
		n++
	}
	return n % 256
}
