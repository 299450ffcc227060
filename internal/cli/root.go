// Package cli is the command-line surface: the parse command running the
// pipeline and the summary command for quick log inspection.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "oem719parse",
	Short: "Demultiplex OEM719 receiver logs into per-message-type CSV files",
	Long: `oem719parse reads a plain-text log captured from a NovAtel OEM719-class
GNSS receiver and splits it into one CSV file per message type (BESTXYZ,
TIME, PSRDOP, HWMONITOR, GPGSV) plus a raw unfiltered copy of every line.

Parsing starts at a configurable byte offset, looks for the FINESTEERING
lock marker, and stops after a configurable duration budget.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initEnv)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML)")
}

// Environment variables (OEM719_INPUT, OEM719_OUTPUT_DIR, ...) override the
// config file; flags override both.
func initEnv() {
	viper.SetEnvPrefix("OEM719")
	viper.AutomaticEnv()
	for _, key := range []string{"input", "output_dir", "offset_bytes", "max_duration_seconds"} {
		_ = viper.BindEnv(key)
	}
}
