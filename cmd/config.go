package main

import (
	"fmt"
	"time"
)

type Config struct {
	ConnectionBufferSize      int           `env:"CONNECTION_BUFFER_SIZE,default=64"`
	LimitMessages             *int          `env:"LIMIT_MESSAGES"`
	AuthTokenDuration         time.Duration `env:"AUTH_TOKEN_DURATION,default=1h"`
	BadgerFilepath            string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel                  string        `env:"LOG_LEVEL,default=INFO"`
	Host                      string        `env:"HOST,default=localhost"`
	Port                      int           `env:"PORT,default=5000"`
	MaxContentLength          int           `env:"MAX_CONTENT_LENGTH,default=4096"`
	ModerationCharReplacement string        `env:"MODERATION_CHARACTER_REPLACEMENT,default=*"`
	MetricInterval            time.Duration `env:"METRIC_INTERVAL,default=30s"`
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"MODERATION_CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
