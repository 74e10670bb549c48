package internal

import "time"

type Config struct {
	BadgerFilepath    string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel          string        `env:"LOG_LEVEL,required=true"`
	LimitMessages     *int          `env:"LIMIT_MESSAGES"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	DebugPort         int           `env:"DEBUG_PORT,default=8080"`
}
