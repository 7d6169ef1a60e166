package scrawl

import (
	"time"

	"github.com/scrawl-games/scrawl/internal/database"
)

type Config struct {
	// Logging all transport traffic and room transitions
	Debug bool `envconfig:"SCRAWL_DEBUG" default:"false"`

	// Port on which health check, REST API and the websocket endpoint are launched
	Port string `envconfig:"SCRAWL_PORT" default:"8080"`

	// profile port
	ProfPort string `envconfig:"SCRAWL_PROF_PORT" default:"8888"`

	// Number of items in the results cache
	CacheSize int `envconfig:"SCRAWL_CACHE_SIZE" default:"1024"`

	// Room capacity used when create_room does not name one
	MaxPlayers int `envconfig:"SCRAWL_MAX_PLAYERS" default:"8"`

	// Number of full drawer rotations per game
	MaxRounds int `envconfig:"SCRAWL_MAX_ROUNDS" default:"3"`

	// Drawing time per round
	RoundTime time.Duration `envconfig:"SCRAWL_ROUND_TIME" default:"60s"`

	// Pause between the scoreboard of one round and the start of the next
	InterRoundDelay time.Duration `envconfig:"SCRAWL_INTER_ROUND_DELAY" default:"5s"`

	Db database.Config
}
