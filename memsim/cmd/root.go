// Package cmd provides the command-line interface of memsim.
package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/sarchlab/memcontention/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var (
	configFile string
	envFiles   []string
	logLevel   string
	logJSON    bool

	cfg config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "memsim",
	Short: "Memsim simulates two cores sharing a cache and a DDR memory.",
	Long: `Memsim runs memory access programs on two cores with private L1 ` +
		`caches, a shared L2 cache, an interconnect, and a DDR memory. It ` +
		`reports completion times, miss ratios, and the cycles at which the ` +
		`cores contend for the L2 or a DDR bank.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if err := setupLogging(); err != nil {
			return err
		}

		return loadConfig()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. An interrupt cancels the runs that have not started.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "",
		"YAML platform configuration; defaults apply to missing fields")
	flags.StringSliceVar(&envFiles, "env-file", []string{".env"},
		"dotenv files with MEMSIM_* overrides")
	flags.StringVar(&logLevel, "log-level", "info",
		"log level (trace, debug, info, warn, error)")
	flags.BoolVar(&logJSON, "log-json", false, "log in JSON")
}

func setupLogging() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return err
	}

	logrus.SetLevel(level)

	if logJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	return nil
}

func loadConfig() error {
	if err := config.LoadDotEnv(envFiles...); err != nil {
		return err
	}

	c, err := config.Load(configFile)
	if err != nil {
		return err
	}

	c, err = c.ApplyEnv()
	if err != nil {
		return err
	}

	cfg = c

	return cfg.Validate()
}
