package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"remake/internal/app"
	"remake/internal/config"
	"remake/internal/game"
	"remake/internal/logging"
	"remake/internal/scenario"
	"remake/internal/telemetry"
)

const usage = `usage:
  remake simulate --scenario drift.yaml [--db out.db] [flags]
  remake drive [flags]

flags:
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "remake:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fs := config.Flags("remake")
		fmt.Fprint(os.Stderr, usage+fs.FlagUsages())
		return errors.New("no command given")
	}

	cmd := strings.ToLower(args[0])
	fs := config.Flags(cmd)
	scenarioPath := fs.StringP("scenario", "s", "", "scenario YAML (simulate)")
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage+fs.FlagUsages()) }
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	cfgPath, _ := fs.GetString("config")

	cfg, err := config.LoadWithFlags(cfgPath, fs)
	if err != nil {
		return err
	}

	log, closeLog, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closeLog()

	switch cmd {
	case "simulate":
		return simulate(cfg, *scenarioPath, log)
	case "drive":
		sinks, err := openSinks(cfg, "drive", cfg.Preset, log)
		if err != nil {
			return err
		}
		return game.RunDesktop(cfg, sinks, log)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func simulate(cfg *config.Config, path string, log zerolog.Logger) error {
	if path == "" {
		return errors.New("simulate needs --scenario")
	}
	sc, err := scenario.Load(path)
	if err != nil {
		return err
	}

	_, preset, err := app.ResolveTuning(cfg, sc)
	if err != nil {
		return err
	}
	sinks, err := openSinks(cfg, sc.Name, preset, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sum, err := app.Simulate(ctx, cfg, sc, sinks, log)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s): %.1fs, %d ticks, %.1f m, top %.1f m/s, %d skids (%.2fs)\n",
		sc.Name, preset, sum.Duration, sum.Ticks, sum.Distance, sum.TopSpeed, sum.SkidCount, sum.SkidTime)
	return nil
}

// openSinks builds the optional persistent sinks. A sink that cannot be opened
// is logged and left out.
func openSinks(cfg *config.Config, name, preset string, log zerolog.Logger) ([]telemetry.Sink, error) {
	var sinks []telemetry.Sink
	if cfg.Telemetry.DB != "" {
		s, err := telemetry.OpenSQLiteSink(cfg.Telemetry.DB, name, preset, log)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}
	if cfg.Telemetry.InfluxEnabled {
		tags := map[string]string{"run": name, "preset": preset}
		s, err := telemetry.NewInfluxSink(cfg.Telemetry.Influx, tags, log)
		if err != nil {
			log.Error().Err(err).Msg("InfluxDB telemetry disabled")
		} else {
			sinks = append(sinks, s)
		}
	}
	return sinks, nil
}
