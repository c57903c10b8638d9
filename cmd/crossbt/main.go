package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quantkit/crossbt/internal/backtest"
	"github.com/quantkit/crossbt/internal/collector/csvfile"
	"github.com/quantkit/crossbt/internal/collector/yahoo"
	"github.com/quantkit/crossbt/internal/config"
	"github.com/quantkit/crossbt/internal/storage/archive"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "crossbt",
	Short: "crossbt - moving average crossover backtester",
	Long: `crossbt evaluates a long/short moving average crossover strategy
against historical daily bars and reports performance statistics.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file named by -c, or falls back to
// defaults when none is given.
func loadConfig(log *zap.Logger) (*config.Config, error) {
	if cfgFile == "" {
		log.Warn("no config file specified, using defaults")
		return config.Defaults(), nil
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// newProvider builds the bar provider selected by the data config.
func newProvider(cfg *config.Config) (backtest.BarProvider, error) {
	switch cfg.Data.Source {
	case "yahoo":
		return yahoo.New(), nil
	case "csv":
		return csvfile.New(cfg.Data.Path), nil
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Data.Source)
	}
}

// newArchive builds the result archive selected by the archive config.
func newArchive(cfg *config.Config) (archive.Storage, error) {
	switch cfg.Archive.Type {
	case "", "localfs":
		path := cfg.Archive.Path
		if path == "" {
			path = "results"
		}
		return archive.NewLocalFS(path)
	case "s3":
		return archive.NewS3(archive.S3Config{
			Bucket:    cfg.Archive.S3.Bucket,
			Endpoint:  cfg.Archive.S3.Endpoint,
			Region:    cfg.Archive.S3.Region,
			AccessKey: cfg.Archive.S3.AccessKey,
			SecretKey: cfg.Archive.S3.SecretKey,
			Prefix:    cfg.Archive.S3.Prefix,
		})
	default:
		return nil, fmt.Errorf("unknown archive type %q", cfg.Archive.Type)
	}
}
