package services

import (
	"os"
)

type FeatureFlags struct {
	syntheticRosterEnabled bool
}

func NewFeatureFlags() *FeatureFlags {
	synthetic := os.Getenv("FEATURE_SYNTHETIC_ROSTER") != "false"

	return &FeatureFlags{
		syntheticRosterEnabled: synthetic,
	}
}

// SyntheticRosterEnabled reports whether short or failed loads are padded
// with generated placeholder providers.
func (f *FeatureFlags) SyntheticRosterEnabled() bool {
	return f != nil && f.syntheticRosterEnabled
}
