package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultInputPath is the event file read when neither -f nor SEISMIC_FILE is set.
const DefaultInputPath = "weedevent-new.txt"

// Config holds all run settings. Environment variables provide defaults;
// command-line flags override them.
type Config struct {
	InputPath   string
	OutputDir   string
	Verbose     bool
	Interactive bool
	Serve       bool

	// Chart settings. Width and height are in inches.
	Viewer     string
	PlotWidth  float64
	PlotHeight float64

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Report publishing is enabled when KAFKA_BROKERS is set.
	KafkaBrokers   []string
	KafkaTopic     string
	KafkaEnabled   bool
	PublishRetries int
}

// Load reads configuration from the environment, then applies the flags in
// args (typically os.Args[1:]). It returns flag.ErrHelp when -h is given.
func Load(args []string) (*Config, error) {
	return load(args, os.Stderr)
}

func load(args []string, usageOut io.Writer) (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	plotWidth, err := parsePositiveFloat("PLOT_WIDTH", "8")
	if err != nil {
		return nil, err
	}
	plotHeight, err := parsePositiveFloat("PLOT_HEIGHT", "6")
	if err != nil {
		return nil, err
	}

	publishRetries, err := strconv.Atoi(sharedcfg.EnvOrDefault("PUBLISH_RETRIES", "3"))
	if err != nil || publishRetries < 1 {
		return nil, errors.New("invalid PUBLISH_RETRIES: must be a positive integer")
	}

	brokers := sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS"))

	cfg := &Config{
		InputPath:       sharedcfg.EnvOrDefault("SEISMIC_FILE", DefaultInputPath),
		OutputDir:       sharedcfg.EnvOrDefault("SEISMIC_OUTPUT_DIR", "."),
		Viewer:          sharedcfg.EnvOrDefault("SEISMIC_VIEWER", "display"),
		PlotWidth:       plotWidth,
		PlotHeight:      plotHeight,
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),
		ShutdownTimeout: shutdownTimeout,
		KafkaBrokers:    brokers,
		KafkaTopic:      sharedcfg.EnvOrDefault("KAFKA_TOPIC", "seismic-histograms"),
		KafkaEnabled:    len(brokers) > 0,
		PublishRetries:  publishRetries,
	}

	fs := flag.NewFlagSet("seismic", flag.ContinueOnError)
	fs.SetOutput(usageOut)
	fs.StringVar(&cfg.InputPath, "f", cfg.InputPath, "read seismic data from this file")
	fs.StringVar(&cfg.InputPath, "file", cfg.InputPath, "read seismic data from this file")
	fs.BoolVar(&cfg.Verbose, "v", false, "print messages to aid in debug")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "print messages to aid in debug")
	fs.BoolVar(&cfg.Interactive, "i", false, "plot the graph interactively (instead of writing plot to a file)")
	fs.BoolVar(&cfg.Interactive, "interactive", false, "plot the graph interactively (instead of writing plot to a file)")
	fs.StringVar(&cfg.OutputDir, "o", cfg.OutputDir, "directory for seismic_<threshold>.png files")
	fs.StringVar(&cfg.OutputDir, "output-dir", cfg.OutputDir, "directory for seismic_<threshold>.png files")
	fs.BoolVar(&cfg.Serve, "serve", false, "keep serving histograms over HTTP after the sweep")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if cfg.Verbose {
		cfg.LogLevel = "debug"
	}

	if cfg.InputPath == "" {
		return nil, errors.New("input file is required (-f or SEISMIC_FILE)")
	}
	if cfg.Interactive && strings.TrimSpace(cfg.Viewer) == "" {
		return nil, errors.New("interactive mode requires SEISMIC_VIEWER")
	}

	return cfg, nil
}

func parsePositiveFloat(key, fallback string) (float64, error) {
	v, err := strconv.ParseFloat(sharedcfg.EnvOrDefault(key, fallback), 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive number", key)
	}
	return v, nil
}
