package match

import "time"

const (
	DefaultMaxPlayers      = 8
	DefaultMaxRounds       = 3
	DefaultRoundTime       = 60 * time.Second
	DefaultInterRoundDelay = 5 * time.Second

	minPlayers = 2
)

type Config struct {
	// Normalized (uppercase) room code
	Code string

	MaxPlayers      int
	MaxRounds       int
	RoundTime       time.Duration
	InterRoundDelay time.Duration

	// DoneFn receives the final sorted scoreboard when a game completes. It
	// is invoked on its own goroutine, off the session lock, so it may block.
	DoneFn func(code string, players []Player)
}

func (c *Config) withDefaults() {
	if c.MaxPlayers <= 0 {
		c.MaxPlayers = DefaultMaxPlayers
	}
	if c.MaxRounds <= 0 {
		c.MaxRounds = DefaultMaxRounds
	}
	if c.RoundTime <= 0 {
		c.RoundTime = DefaultRoundTime
	}
	if c.InterRoundDelay <= 0 {
		c.InterRoundDelay = DefaultInterRoundDelay
	}
}
