package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/verifact/internal/config"
	"github.com/ppiankov/verifact/internal/logging"
	"github.com/ppiankov/verifact/internal/model"
)

// Version is set at build time via -ldflags
var Version = "v0.1.0"

var (
	cfgFile   string
	verbose   bool
	logLevel  string
	logFormat string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "verifact",
	Short: "Verifact - fact-check the claims in a document against the live web",
	Long: `Verifact extracts verifiable factual claims from a document (PDF, HTML
or plain text), searches the web for evidence on each claim, and asks a
language model to judge every claim against that evidence.

Each claim receives one of four verdicts: Verified, Inaccurate, False or
Unverifiable, with a confidence score, an explanation, corrected
information where applicable, and the sources consulted.

Verdicts are machine judgments. Check the cited sources.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for Verifact.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("verifact %s\n", Version)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.verifact/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (console, json)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// loadConfig builds the runtime config. bindings maps config keys to flags
// of cmd; a flag only overrides the key when it was set explicitly.
func loadConfig(cmd *cobra.Command, bindings map[string]string) (*model.Config, *viper.Viper, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, nil, err
	}

	v := viper.New()
	if err := config.Setup(v, cfgFile); err != nil {
		return nil, nil, err
	}

	bindings["log.level"] = "log-level"
	bindings["log.format"] = "log-format"
	bindings["output.verbose"] = "verbose"
	for key, name := range bindings {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if err := config.ReadFile(v); err != nil {
		return nil, nil, err
	}
	if verbose && v.ConfigFileUsed() != "" {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", v.ConfigFileUsed())
	}

	cfg, err := config.Build(v)
	if err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

// newLogger builds the structured logger described by cfg
func newLogger(cfg *model.Config) (logging.Logger, error) {
	logger, err := logging.NewStructured(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}
