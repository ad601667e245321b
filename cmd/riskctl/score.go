package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/complyhub/riskgate/internal/config"
	"github.com/complyhub/riskgate/internal/model"
	"github.com/complyhub/riskgate/internal/risk"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func newScoreCmd() *cobra.Command {
	var (
		file   string
		asJSON bool
		asOf   string
	)
	cmd := &cobra.Command{
		Use:   "score -f snapshot.yaml",
		Short: "Assess a compliance snapshot read from a YAML or JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := loadPolicy(cmd)
			if err != nil {
				return err
			}
			var opts []risk.Option
			if asOf != "" {
				at, err := time.Parse(time.RFC3339, asOf)
				if err != nil {
					return fmt.Errorf("--as-of: %w", err)
				}
				opts = append(opts, risk.WithClock(func() time.Time { return at }))
			}
			engine, err := risk.NewEngine(policy, opts...)
			if err != nil {
				return err
			}

			snapshot, err := readSnapshot(file)
			if err != nil {
				return err
			}
			assessment, err := engine.Assess(snapshot)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(assessment)
			}
			return printAssessment(cmd.OutOrStdout(), assessment)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "snapshot file (.yaml, .yml or .json); - reads JSON from stdin")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full assessment as JSON")
	cmd.Flags().StringVar(&asOf, "as-of", "", "score as of this RFC3339 time instead of now")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readSnapshot(path string) (*model.EntityComplianceSnapshot, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	var snapshot model.EntityComplianceSnapshot
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &snapshot)
	default:
		err = json.Unmarshal(raw, &snapshot)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &snapshot, nil
}

func loadPolicy(cmd *cobra.Command) (risk.Policy, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadFrom(viper.New(), path)
	if err != nil {
		return risk.Policy{}, err
	}
	return cfg.Risk.Policy()
}

func printAssessment(out io.Writer, a *model.RiskAssessment) error {
	fmt.Fprintf(out, "Overall score: %.2f (%s risk)\n", a.OverallScore, a.RiskLevel)
	fmt.Fprintf(out, "Assessed at:   %s\n\n", a.AssessedAt.Format(time.RFC3339))

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tFACTOR\tSCORE\tDETAIL")
	for _, c := range a.Categories {
		fmt.Fprintf(tw, "%s\t\t%.2f/%.0f\t\n", c.Label, c.Score, c.MaxScore)
		for _, f := range c.Factors {
			fmt.Fprintf(tw, "\t%s\t%.2f/%.0f\t%s\n", f.Name, f.Score, f.MaxScore, f.Description)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if recs := a.Recommendations(); len(recs) > 0 {
		fmt.Fprintln(out, "\nRecommendations:")
		for _, r := range recs {
			fmt.Fprintf(out, "  - %s\n", r)
		}
	}
	return nil
}
