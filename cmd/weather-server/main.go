package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"golang.org/x/sync/errgroup"

	"weather-udp/config"
	v1 "weather-udp/internal/controllers/http/v1"
	"weather-udp/internal/controllers/udp"
	"weather-udp/internal/repositories"
	"weather-udp/internal/services/weather"
	"weather-udp/pkg/httpserver"
	"weather-udp/pkg/logger"
	"weather-udp/pkg/observe"
)

// @title Weather UDP management API
// @version 1.0.0
// @description HTTP mirror of the weather UDP protocol, with health probes.

// @contact.name Weather UDP Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http

// @tag.name Weather
// @tag.description Weather forecast operations
func main() {
	cnf, err := config.NewConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot load configuration:", err)
		os.Exit(1)
	}

	if len(os.Args) > 1 {
		port, err := strconv.Atoi(os.Args[1])
		if err != nil || port < 1 || port > 65535 {
			fmt.Fprintf(os.Stderr, "invalid port %q\n", os.Args[1])
			os.Exit(1)
		}
		cnf.Server.Port = port
	}

	hook := observe.NewSentryHook(sentryZone(cnf), cnf.App.Name, cnf.Log.SentryDSN, cnf.Log.Debug)
	l := logger.NewZapLogger(logger.Options{
		AppName: cnf.App.Name,
		AppEnv:  cnf.App.Env,
		Level:   cnf.Log.Level,
	}, os.Stdout, hook)
	hook.SetLogger(l)

	defer func() {
		_ = l.Stop()
		hook.Flush()
	}()

	if err := run(cnf, l); err != nil {
		l.Error(err, map[string]any{"stage": "run"})
		_ = l.Stop()
		hook.Flush()
		os.Exit(1)
	}
}

func run(cnf *config.Config, l *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	apiKey := config.ResolveAPIKey(cnf, l)

	upstream, mock, err := repositories.InitWeatherRepositories(cnf, apiKey, l)
	if err != nil {
		l.Warning("upstream unavailable, serving mock data only", map[string]any{"error": err})
		mock = repositories.NewMockRepository(repositories.DefaultProfiles(), cnf.Mock.Seed, l)
		upstream = nil
	}

	service := weather.NewWeatherService(upstream, mock, l)

	srv, err := udp.Listen(net.JoinHostPort("", strconv.Itoa(cnf.Server.Port)), service, udp.Options{
		BufferSize:     cnf.Server.BufferSize,
		Workers:        cnf.Server.Workers,
		QueueSize:      cnf.Server.QueueSize,
		OversizePolicy: cnf.Server.OversizePolicy,
	}, l)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Serve(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		l.Warning("stopping application services")
		return nil
	})

	if cnf.HTTP.Port != "" {
		app := httpserver.InitFiberServer(httpserver.Options{
			AppName:      cnf.App.Name,
			ReadTimeout:  cnf.HTTP.ReadTimeout,
			WriteTimeout: cnf.HTTP.WriteTimeout,
			IdleTimeout:  cnf.HTTP.IdleTimeout,
			Ready:        srv.Ready,
		})
		v1.NewRouter(app, service, l)

		g.Go(func() error {
			if err := app.Listen(":" + cnf.HTTP.Port); err != nil {
				return fmt.Errorf("cannot run the http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cnf.Server.ShutdownTimeout)
			defer cancel()
			return app.ShutdownWithContext(shutdownCtx)
		})
	}

	l.Info("application started successfully", map[string]any{
		"udp":      srv.Addr().String(),
		"http":     cnf.HTTP.Port,
		"env":      cnf.App.Env,
		"workers":  cnf.Server.Workers,
		"oversize": cnf.Server.OversizePolicy,
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	l.Info("application stopped")
	return nil
}

// sentryZone maps the application environment onto the zones the hook
// forwards events for.
func sentryZone(cnf *config.Config) string {
	switch {
	case cnf.IsProduction():
		return "prod"
	case cnf.IsDevelopment():
		return "dev"
	default:
		return cnf.App.Env
	}
}
