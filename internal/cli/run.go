package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ksyq12/certgate/internal/config"
	"github.com/ksyq12/certgate/internal/errors"
	"github.com/ksyq12/certgate/internal/executor"
	"github.com/ksyq12/certgate/internal/gateway"
	"github.com/ksyq12/certgate/internal/orchestrator"
	"github.com/ksyq12/certgate/internal/output"
	"github.com/ksyq12/certgate/internal/remote"
)

// runWindow executes one renewal window run.
func runWindow(cmd *cobra.Command, args []string) error {
	user, host, label := args[0], args[1], args[2]

	// Editing gateway config requires root; fail before touching anything.
	if err := requireRoot(); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.AuditLog)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("starting renewal window run",
		zap.String("version", version),
		zap.String("ssh_user", user),
		zap.String("target_host", host),
		zap.String("rule_label", label),
		zap.Int("threshold_days", cfg.Renewal.ThresholdDays),
	)

	// Fail fast if the reload command is missing; finding out during
	// restoration would be far worse.
	runner := executor.NewSystemRunner()
	if _, err := runner.LookPath(cfg.Gateway.ReloadCommand[0]); err != nil {
		return errors.WrapTarget(errors.ErrCodeConfig, "reload command not found",
			cfg.Gateway.ReloadCommand[0], err)
	}

	store := gateway.NewFileStoreWithRunner(cfg.Gateway, runner, logger)
	client := remote.NewClient(user, host, cfg.SSH, logger)
	orch := orchestrator.New(store, client, label, cfg.Renewal.ThresholdDays, cfg.LockFile, logger)

	out, err := orch.Run(cmd.Context())
	if err != nil {
		return err
	}

	logger.Info("run complete",
		zap.String("cause", out.Cause.String()),
		zap.Bool("renewal_attempted", out.RenewalAttempted),
		zap.Bool("renewal_succeeded", out.RenewalSucceeded),
		zap.Int("exit_code", out.ExitCode()),
	)

	if jsonOutput {
		if err := output.JSON(out); err != nil {
			return err
		}
	} else {
		reportOutcome(out)
	}

	if out.ExitCode() != 0 {
		if out.Err != nil {
			return out.Err
		}
		return fmt.Errorf("window restoration failed, check the audit log")
	}
	return nil
}

// reportOutcome prints the human-readable run summary.
func reportOutcome(out *orchestrator.Outcome) {
	switch {
	case out.Cause == orchestrator.CauseNormal && !out.RenewalAttempted:
		output.Success("certificate valid for %d more days, renewal not due", out.DaysRemaining)
	case out.RenewalSucceeded:
		output.Success("certificate renewed, window closed")
	case out.RenewalAttempted:
		output.Warn("renewal attempt failed, window closed: %v", out.Err)
	default:
		output.Error("run failed (%s): %v", out.Cause, out.Err)
	}
	if out.CloseFailed {
		output.Error("window restoration failed, gateway may be in a degraded posture")
	}
}

// loadConfig loads the config file and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if threshold > 0 {
		cfg.Renewal.ThresholdDays = threshold
	}
	return cfg, nil
}

// requireRoot ensures the process can edit gateway configuration.
func requireRoot() error {
	if os.Geteuid() != 0 {
		return errors.ErrRootRequired
	}
	return nil
}
