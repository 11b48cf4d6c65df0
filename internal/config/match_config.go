package config

import "time"

const (
	// Manual entry
	MinIntensity     = 1
	MaxIntensity     = 3
	DefaultIntensity = 2
	IntensityFactor  = 33.33

	// Matching
	MatchAttempts = 3

	// AI companion
	CompanionHistoryLimit = 20
	CompanionPromptTurns  = 10

	// Session
	DefaultSessionTTL = 72 * time.Hour
)

// IntensityConfidence maps a manual intensity onto the [0,100] confidence scale.
func IntensityConfidence(intensity int) float64 {
	return float64(intensity) * IntensityFactor
}
