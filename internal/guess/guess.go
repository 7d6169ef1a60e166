// Package guess contains the pure guess evaluation rules: normalization,
// matching and the speed-based score formula.
package guess

import (
	"strings"
	"time"
)

const (
	maxPoints = 200
	minPoints = 50
)

func Normalize(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

func Matches(guess, secret string) bool {
	return Normalize(guess) == Normalize(secret)
}

// Score awards points for a correct guess by elapsed round time: 200 at the
// start of a round, minus 2 per whole second, floored at 50.
func Score(elapsed time.Duration) int {
	points := maxPoints - 2*int(elapsed.Seconds())
	if points < minPoints {
		return minPoints
	}
	return points
}
