package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"localweather/internal/config"
	"localweather/internal/device"
	"localweather/internal/httpapi"
	weather "localweather/internal/modules/weather"
	"localweather/internal/modules/weather/poller"
	"localweather/internal/modules/weather/store"
	weatherviews "localweather/internal/modules/weather/views"
	"localweather/internal/sink"
	"localweather/internal/stats"
)

// Run wires the poll pipeline to the HTTP surface and blocks until ctx is
// cancelled or the server fails.
func Run(ctx context.Context, cfg config.Config, build string) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"deviceIP", cfg.DeviceIP,
		"pollInterval", cfg.PollInterval(),
		"deviceTimeout", cfg.DeviceTimeout,
		"influxEnable", cfg.InfluxEnable,
		"mqttEnable", cfg.MQTTEnable,
	)

	if err := weatherviews.LoadTemplates(); err != nil {
		return err
	}

	st := store.New()
	counters := stats.New()
	client := device.NewClient(cfg.DeviceIP, cfg.DeviceTimeout)

	var sinks []sink.Sink
	if cfg.InfluxEnable {
		influx, err := sink.NewInfluxSink(cfg)
		if err != nil {
			return err
		}
		sinks = append(sinks, influx)
		slog.Info("influx sink enabled", "host", cfg.InfluxHost, "port", cfg.InfluxPort, "db", cfg.InfluxDB)
	}
	if cfg.MQTTEnable {
		mq, err := sink.NewMQTTSink(cfg)
		if err != nil {
			return err
		}
		// Bounded initial connect so a down broker cannot block startup.
		// The client keeps retrying in the background either way.
		connectCtx, connectCancel := context.WithTimeout(ctx, 5*time.Second)
		err = mq.Connect(connectCtx)
		connectCancel()
		if err != nil {
			slog.Warn("mqtt connection failed (continuing without mqtt)", "error", err)
		}
		sinks = append(sinks, mq)
	}
	defer func() {
		for _, s := range sinks {
			if err := s.Close(); err != nil {
				slog.Error("sink close", "sink", s.Name(), "error", err)
			}
		}
	}()

	mux := httpapi.NewMux()
	weather.RegisterFeature(mux, st, counters, build, client.URL())

	pollCtx, pollCancel := context.WithCancel(ctx)
	defer pollCancel()
	p := poller.New(client, st, counters, sinks, cfg.PollInterval())
	pollDone := make(chan struct{})
	go func() {
		defer close(pollDone)
		p.Run(pollCtx)
	}()

	srv := httpapi.NewServer(cfg, counters, mux)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slog.Info("poller stopping")
	pollCancel()
	<-pollDone

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err := <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}
