package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "riskctl",
		Short:         "Score crypto entity compliance snapshots offline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("config", "c", "", "config file with a risk section (defaults to ./config.yaml and RISKGATE_* env)")

	root.AddCommand(newScoreCmd(), newPolicyCmd(), newJurisdictionCmd())
	return root
}
