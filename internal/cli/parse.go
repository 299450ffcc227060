package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"oem719parse/internal/config"
	"oem719parse/internal/oem719"
	"oem719parse/internal/pipeline"
	"oem719parse/internal/rate"
)

var (
	flagInput     string
	flagOutput    string
	flagOffset    int64
	flagDuration  int
	flagPolicy    string
	flagFrequency float64
	flagTSSource  string
	flagWait      bool
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a receiver log into per-message-type CSV files",
	Long: `Parse runs the full pipeline: seek to the start offset, classify and
decode every line, and write one CSV per message type plus the raw log.

Examples:
  oem719parse parse --input "OEM719 Simulated Log.txt" --output out
  oem719parse parse -c dev.yaml --policy pace --frequency 5`,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&flagInput, "input", "i", "", "input log file")
	parseCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output directory for CSV files")
	parseCmd.Flags().Int64Var(&flagOffset, "offset", 0, "start offset in bytes")
	parseCmd.Flags().IntVar(&flagDuration, "duration", 0, "maximum run duration in seconds")
	parseCmd.Flags().StringVar(&flagPolicy, "policy", "", "rate policy: pass or pace")
	parseCmd.Flags().Float64Var(&flagFrequency, "frequency", 0, "target sampling frequency in Hz (pace policy)")
	parseCmd.Flags().StringVar(&flagTSSource, "timestamp-source", "", "timestamp source: embedded or wallclock")
	parseCmd.Flags().BoolVar(&flagWait, "wait", false, "wait for the input file to appear before parsing")
	rootCmd.AddCommand(parseCmd)
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return config.Config{}, fmt.Errorf("load config: %w", err)
		}
	}

	if viper.IsSet("input") {
		cfg.Input = viper.GetString("input")
	}
	if viper.IsSet("output_dir") {
		cfg.OutputDir = viper.GetString("output_dir")
	}
	if viper.IsSet("offset_bytes") {
		cfg.OffsetBytes = viper.GetInt64("offset_bytes")
	}
	if viper.IsSet("max_duration_seconds") {
		cfg.MaxDurationSeconds = viper.GetInt("max_duration_seconds")
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input = flagInput
	}
	if flags.Changed("output") {
		cfg.OutputDir = flagOutput
	}
	if flags.Changed("offset") {
		cfg.OffsetBytes = flagOffset
	}
	if flags.Changed("duration") {
		cfg.MaxDurationSeconds = flagDuration
	}
	if flags.Changed("policy") {
		cfg.Rate.Policy = flagPolicy
	}
	if flags.Changed("frequency") {
		cfg.Rate.FrequencyHz = flagFrequency
	}
	if flags.Changed("timestamp-source") {
		cfg.Timestamp.Source = flagTSSource
	}

	switch cfg.Rate.Policy {
	case config.PolicyPass, config.PolicyPace:
	default:
		return config.Config{}, fmt.Errorf("rate policy must be %q or %q, got %q", config.PolicyPass, config.PolicyPace, cfg.Rate.Policy)
	}
	switch cfg.Timestamp.Source {
	case config.SourceEmbedded, config.SourceWallClock:
	default:
		return config.Config{}, fmt.Errorf("timestamp source must be %q or %q, got %q", config.SourceEmbedded, config.SourceWallClock, cfg.Timestamp.Source)
	}
	return cfg, nil
}

func setupLogging(cfg config.LogsConfig) error {
	if cfg.Directory == "" {
		return nil
	}
	if err := os.MkdirAll(cfg.Directory, 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Directory, "oem719parse.log"),
		MaxSize:    cfg.MaxSizeMB,
		MaxAge:     cfg.MaxAgeDays,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return nil
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Input == "" {
		return errors.New("input log path is required (--input, OEM719_INPUT or config)")
	}
	if err := setupLogging(cfg.Logs); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if _, err := os.Stat(cfg.Input); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("stat input: %w", err)
		}
		if !flagWait {
			// Report and end without creating any outputs.
			return fmt.Errorf("input file not found: %s", cfg.Input)
		}
		log.Printf("input %s does not exist yet, waiting", cfg.Input)
		if err := waitForFile(ctx, cfg.Input); err != nil {
			return err
		}
	}

	var limiter rate.Limiter
	if cfg.Rate.Policy == config.PolicyPace {
		limiter = rate.NewPacer(cfg.Rate.FrequencyHz)
	} else {
		limiter = rate.NewPassAll()
	}

	log.Printf("starting OEM719 log parser")
	log.Printf("input file: %s", cfg.Input)
	log.Printf("output directory: %s", cfg.OutputDir)

	res, err := pipeline.Run(pipeline.Options{
		Input:       cfg.Input,
		OutputDir:   cfg.OutputDir,
		OffsetBytes: cfg.OffsetBytes,
		MaxDuration: cfg.MaxDuration(),
		Limiter:     limiter,
		Timestamps:  oem719.NewTimestampResolver(cfg.Timestamp.Source == config.SourceEmbedded),
	})
	if err != nil {
		return err
	}

	printRunSummary(os.Stdout, res, cfg.OutputDir)
	return nil
}
