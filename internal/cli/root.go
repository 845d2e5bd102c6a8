package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	cfgPath    string
	jsonOutput bool
	verbose    bool
	threshold  int
	version    = "dev"
)

// rootCmd represents the base command. Running it without a subcommand
// executes one renewal window.
var rootCmd = &cobra.Command{
	Use:   "certgate <ssh-user> <target-host> <rule-label>",
	Short: "Certificate renewal window orchestrator",
	Long: `certgate opens a bounded security window on the local gateway so an
internal host can complete an HTTP-01 certificate renewal, then restores
the secure baseline no matter how the run ends.

It checks the certificate over a restricted SSH channel, and only when
renewal is due temporarily disables the geo-block filter and enables the
named inbound forward rule. Both controls are always forced back to
their secure state before exit, including on failures and signals.

Examples:
  certgate acme web01.internal letsencrypt-http
  certgate --threshold 14 acme web01.internal letsencrypt-http
  certgate status acme web01.internal letsencrypt-http`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Argument errors print usage; failures past this point are
		// operational and only get the error itself.
		cmd.SilenceUsage = true
		return runWindow(cmd, args)
	},
}

// Execute runs the root command. The exit code contract: 0 means the run
// completed (renewal attempted or correctly skipped), 1 means a fatal
// precondition or an irrecoverable step failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to config file (default /etc/certgate/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging for debugging")
	rootCmd.PersistentFlags().IntVar(&threshold, "threshold", 0, "Renew when this many days remain (overrides config)")
}

// newLogger builds the run logger: human-readable console lines on
// stderr plus append-only JSON lines in the audit log, both
// ISO8601-timestamped so the file is safe to tail and ship.
func newLogger(auditPath string) (*zap.Logger, error) {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}

	consoleEnc := zap.NewProductionEncoderConfig()
	consoleEnc.TimeKey = "time"
	consoleEnc.EncodeTime = zapcore.ISO8601TimeEncoder
	consoleEnc.EncodeLevel = zapcore.CapitalLevelEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleEnc),
			zapcore.Lock(os.Stderr),
			level,
		),
	}

	if auditPath != "" {
		f, err := os.OpenFile(auditPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return nil, fmt.Errorf("cannot open audit log: %w", err)
		}
		auditEnc := zap.NewProductionEncoderConfig()
		auditEnc.TimeKey = "time"
		auditEnc.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(auditEnc),
			zapcore.Lock(f),
			zap.InfoLevel,
		))
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}
