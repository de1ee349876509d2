package dispatcher

import (
	"fmt"
	"strings"
)

// Policy decides which completion the display keeps when submissions
// overlap.
type Policy string

const (
	// LastSubmissionWins discards an outcome once a newer submission has
	// been issued.
	LastSubmissionWins Policy = "last-submission"

	// LastResponseWins paints every outcome, so whichever arrives last
	// stays on screen regardless of submission order.
	LastResponseWins Policy = "last-response"
)

// ParsePolicy accepts the policy names used in config files and flags.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", LastSubmissionWins:
		return LastSubmissionWins, nil
	case LastResponseWins:
		return LastResponseWins, nil
	}
	return "", fmt.Errorf("unknown policy %q (want %s or %s)", s, LastSubmissionWins, LastResponseWins)
}

type Config struct {
	Policy Policy `yaml:"policy"`
}

func DefaultConfig() Config {
	return Config{Policy: LastSubmissionWins}
}
