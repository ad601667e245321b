package main

import (
	"fmt"

	"github.com/complyhub/riskgate/internal/model"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newPolicyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "policy",
		Short: "Print the effective scoring policy as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := loadPolicy(cmd)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(policy); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

func newJurisdictionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "jurisdiction <headquarters>",
		Short: "Classify a headquarters location into a jurisdiction risk tier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := loadPolicy(cmd)
			if err != nil {
				return err
			}
			tier := policy.Jurisdictions.Classify(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s risk (%.0f/30 %s points)\n",
				args[0], tier, tier.Score(), model.CategoryRegulatory.Label())
			return nil
		},
	}
}
