package sink

import (
	"context"
	"fmt"
	"time"

	client "github.com/influxdata/influxdb1-client/v2"

	"localweather/internal/config"
	"localweather/internal/modules/weather/types"
)

// InfluxSink writes one point per poll cycle to an InfluxDB 1.x database with
// second precision.
type InfluxSink struct {
	client      client.Client
	database    string
	measurement string
}

func NewInfluxSink(cfg config.Config) (*InfluxSink, error) {
	c, err := client.NewHTTPClient(client.HTTPConfig{
		Addr:     fmt.Sprintf("http://%s:%d", cfg.InfluxHost, cfg.InfluxPort),
		Username: cfg.InfluxUsername,
		Password: cfg.InfluxPassword,
		Timeout:  10 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("influx client: %w", err)
	}
	return &InfluxSink{
		client:      c,
		database:    cfg.InfluxDB,
		measurement: cfg.InfluxMeasurement,
	}, nil
}

func (s *InfluxSink) Name() string { return "influxdb" }

func (s *InfluxSink) Write(ctx context.Context, obs *types.Observation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	bp, err := client.NewBatchPoints(client.BatchPointsConfig{
		Database:  s.database,
		Precision: "s",
	})
	if err != nil {
		return fmt.Errorf("batch points: %w", err)
	}

	pt, err := client.NewPoint(s.measurement, nil, fieldSet(obs), time.Unix(obs.DT, 0))
	if err != nil {
		return fmt.Errorf("point: %w", err)
	}
	bp.AddPoint(pt)

	if err := s.client.Write(bp); err != nil {
		return fmt.Errorf("influx write: %w", err)
	}
	return nil
}

func (s *InfluxSink) Close() error {
	return s.client.Close()
}
