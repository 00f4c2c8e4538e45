package telemetry

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
)

const measurement = "car"

type InfluxConfig struct {
	URL        string `mapstructure:"url"`
	Token      string `mapstructure:"token"`
	Org        string `mapstructure:"org"`
	Bucket     string `mapstructure:"bucket"`
	BackupPath string `mapstructure:"backupPath"`
}

// InfluxSink writes samples as points. When the server cannot be reached it
// falls back to a gzip file of line protocol that can be replayed later.
type InfluxSink struct {
	Client influxdb2.Client
	Writer influxdb2_api.WriteAPI
	Logger zerolog.Logger

	tags   map[string]string
	start  time.Time
	file   *os.File
	backup *gzip.Writer
}

func NewInfluxSink(cfg InfluxConfig, tags map[string]string, log zerolog.Logger) (*InfluxSink, error) {
	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(2500).
			SetFlushInterval(1000),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	running, err := client.Ping(ctx)
	if err != nil || !running {
		client.Close()
		log.Warn().Err(err).Str("backupPath", cfg.BackupPath).
			Msg("InfluxDB unreachable, writing telemetry to backup file")
		return NewInfluxBackup(cfg.BackupPath, tags, log)
	}

	s := &InfluxSink{
		Client: client,
		Writer: client.WriteAPI(cfg.Org, cfg.Bucket),
		Logger: log,
		tags:   tags,
		start:  time.Now().UTC(),
	}
	go func(errorsCh <-chan error) {
		for writeErr := range errorsCh {
			log.Error().Err(writeErr).Str("bucket", cfg.Bucket).Msg("Error sending data to InfluxDB")
		}
	}(s.Writer.Errors())
	log.Info().Str("url", cfg.URL).Str("bucket", cfg.Bucket).Msg("InfluxDB client initialized")
	return s, nil
}

// NewInfluxBackup writes line protocol straight to a gzip file.
func NewInfluxBackup(path string, tags map[string]string, log zerolog.Logger) (*InfluxSink, error) {
	if path == "" {
		return nil, errors.New("influx backup: no backup path configured")
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("error creating backup file: %w", err)
	}
	return &InfluxSink{
		Logger: log,
		tags:   tags,
		start:  time.Now().UTC(),
		file:   file,
		backup: gzip.NewWriter(file),
	}, nil
}

// Point converts a sample to an InfluxDB point stamped at start+T.
func Point(x Sample, tags map[string]string, start time.Time) *influxdb2_write.Point {
	fields := map[string]interface{}{
		"tick":         int64(x.Tick),
		"speed":        x.Speed,
		"forwardSpeed": x.ForwardSpeed,
		"lateralSpeed": x.LateralSpeed,
		"throttle":     x.Throttle,
		"steer":        x.Steer,
		"mode":         x.Mode,
		"skidding":     x.Skidding,
		"handbrake":    x.Handbrake,
		"x":            x.X,
		"z":            x.Z,
		"yaw":          x.Yaw,
		"enginePitch":  x.EnginePitch,
	}
	ts := start.Add(time.Duration(x.T * float64(time.Second)))
	return influxdb2.NewPoint(measurement, tags, fields, ts)
}

func (s *InfluxSink) Write(x Sample) error {
	p := Point(x, s.tags, s.start)
	if s.Writer != nil {
		s.Writer.WritePoint(p)
		return nil
	}
	if s.backup == nil {
		return errors.New("influx sink: no writer and no backup file")
	}
	line := influxdb2_write.PointToLineProtocol(p, time.Nanosecond)
	if _, err := s.backup.Write([]byte(line + "\n")); err != nil {
		return fmt.Errorf("error writing to InfluxDB backup file: %w", err)
	}
	return nil
}

func (s *InfluxSink) Close() error {
	if s.Writer != nil {
		s.Writer.Flush()
	}
	if s.Client != nil {
		s.Client.Close()
	}
	var errs []error
	if s.backup != nil {
		errs = append(errs, s.backup.Close())
	}
	if s.file != nil {
		errs = append(errs, s.file.Close())
	}
	return errors.Join(errs...)
}
