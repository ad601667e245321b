package risk

import (
	"fmt"
	"strings"
)

type JurisdictionTier string

const (
	TierLow    JurisdictionTier = "low"
	TierMedium JurisdictionTier = "medium"
	TierHigh   JurisdictionTier = "high"
)

// Score returns the jurisdiction-risk factor score for the tier.
func (t JurisdictionTier) Score() float64 {
	switch t {
	case TierLow:
		return 30
	case TierMedium:
		return 20
	default:
		return 10
	}
}

// JurisdictionTable classifies a headquarters string by case-insensitive
// substring match. Low-risk fragments are checked before medium-risk ones;
// anything unmatched is high risk.
type JurisdictionTable struct {
	Low    []string `json:"low" yaml:"low" mapstructure:"low"`
	Medium []string `json:"medium" yaml:"medium" mapstructure:"medium"`
}

func DefaultJurisdictionTable() JurisdictionTable {
	return JurisdictionTable{
		Low: []string{
			"United States",
			"Singapore",
			"Japan",
			"United Kingdom",
			"Switzerland",
			"European Union",
			"Australia",
			"Canada",
		},
		Medium: []string{
			"Hong Kong",
			"South Korea",
			"UAE",
			"Brazil",
			"Malaysia",
		},
	}
}

func (t JurisdictionTable) Classify(headquarters string) JurisdictionTier {
	hq := strings.ToLower(strings.TrimSpace(headquarters))
	if hq == "" {
		return TierHigh
	}
	if matchesAny(hq, t.Low) {
		return TierLow
	}
	if matchesAny(hq, t.Medium) {
		return TierMedium
	}
	return TierHigh
}

func (t JurisdictionTable) Validate() error {
	for _, list := range [][]string{t.Low, t.Medium} {
		for _, fragment := range list {
			if strings.TrimSpace(fragment) == "" {
				return fmt.Errorf("risk policy: empty jurisdiction fragment")
			}
		}
	}
	return nil
}

func matchesAny(hq string, fragments []string) bool {
	for _, fragment := range fragments {
		f := strings.ToLower(strings.TrimSpace(fragment))
		if f != "" && strings.Contains(hq, f) {
			return true
		}
	}
	return false
}
