package cli

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ksyq12/certgate/internal/expiry"
	"github.com/ksyq12/certgate/internal/gateway"
	"github.com/ksyq12/certgate/internal/output"
	"github.com/ksyq12/certgate/internal/remote"
)

var statusCmd = &cobra.Command{
	Use:   "status <ssh-user> <target-host> <rule-label>",
	Short: "Show control states and certificate status",
	Long: `Show the current window state of both security controls and the
remote certificate status. Read-only: nothing is toggled or reloaded.

Examples:
  certgate status acme web01.internal letsencrypt-http
  certgate status --json acme web01.internal letsencrypt-http`,
	Args: cobra.ExactArgs(3),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// timeNow is replaceable in tests.
var timeNow = time.Now

// controlStatus is the status report for --json output.
type controlStatus struct {
	GeoBlockWindow    string `json:"geo_block_window,omitempty"`
	ForwardRuleWindow string `json:"forward_rule_window,omitempty"`
	Expiry            string `json:"expiry,omitempty"`
	DaysRemaining     int    `json:"days_remaining"`
	Decision          string `json:"decision,omitempty"`
	Error             string `json:"error,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	user, host, label := args[0], args[1], args[2]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := zap.NewNop()
	if verbose {
		if logger, err = newLogger(""); err != nil {
			return err
		}
		defer logger.Sync()
	}

	st := &controlStatus{}
	store := gateway.NewFileStore(cfg.Gateway, logger)

	geo, err := store.GeoBlockState()
	if err != nil {
		return err
	}
	st.GeoBlockWindow = geo.String()

	fwd, err := store.ForwardRuleState(label)
	if err != nil {
		return err
	}
	st.ForwardRuleWindow = fwd.String()

	client := remote.NewClient(user, host, cfg.SSH, logger)
	raw, err := client.Invoke(cmd.Context(), remote.ActionCheck)
	if err != nil {
		// Control states are still worth reporting when the remote
		// side is down.
		st.Error = err.Error()
	} else {
		status, derr := expiry.Decide(raw, timeNow(), cfg.Renewal.ThresholdDays)
		if derr != nil {
			st.Error = derr.Error()
		} else {
			st.Expiry = status.Expiry.Format("2006-01-02")
			st.DaysRemaining = status.DaysRemaining
			st.Decision = status.Decision.String()
		}
	}

	if jsonOutput {
		return output.JSON(st)
	}

	printControl("geo-block filter", st.GeoBlockWindow)
	printControl("forward rule "+label, st.ForwardRuleWindow)
	if st.Error != "" {
		output.Warn("certificate status unavailable: %s", st.Error)
		return nil
	}
	output.Print("certificate expires %s (%d days remaining, renewal %s)",
		st.Expiry, st.DaysRemaining, st.Decision)
	return nil
}

func printControl(name, window string) {
	if window == gateway.Closed.String() {
		output.Success("%s: %s", name, window)
	} else {
		output.Warn("%s: %s", name, window)
	}
}
