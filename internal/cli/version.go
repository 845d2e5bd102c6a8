package cli

import (
	"github.com/spf13/cobra"

	"github.com/ksyq12/certgate/internal/output"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		output.Print("certgate version %s", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
